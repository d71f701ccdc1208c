package core

import (
	"errors"
	"testing"
)

func TestNewCard(t *testing.T) {
	card, err := NewCard(CardInput{
		Name:       "  Platinum  ",
		LimitCents: 500000,
		ClosingDay: 5,
		DueDay:     12,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.Name != "Platinum" {
		t.Errorf("expected trimmed name, got %q", card.Name)
	}
	if !card.Active {
		t.Error("expected cards to default to active")
	}
	if card.ID == "" {
		t.Error("expected a generated id")
	}
}

func TestNewCardValidation(t *testing.T) {
	cases := []struct {
		name  string
		in    CardInput
		field string
	}{
		{"empty name", CardInput{Name: "  ", LimitCents: 0, ClosingDay: 1, DueDay: 1}, "name"},
		{"negative limit", CardInput{Name: "Visa", LimitCents: -1, ClosingDay: 1, DueDay: 1}, "creditLimit"},
		{"closing day low", CardInput{Name: "Visa", ClosingDay: 0, DueDay: 1}, "closingDay"},
		{"closing day high", CardInput{Name: "Visa", ClosingDay: 32, DueDay: 1}, "closingDay"},
		{"due day out of range", CardInput{Name: "Visa", ClosingDay: 1, DueDay: 40}, "dueDay"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCard(tc.in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Errorf("expected field %q, got %q", tc.field, verr.Field)
			}
		})
	}
}

func TestNewCardExplicitInactive(t *testing.T) {
	inactive := false
	card, err := NewCard(CardInput{Name: "Old card", ClosingDay: 10, DueDay: 17, Active: &inactive})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.Active {
		t.Error("expected card to stay inactive when requested")
	}
}
