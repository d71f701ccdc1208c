package core

import (
	"errors"
	"testing"
	"time"
)

func validEntryInput() EntryInput {
	return EntryInput{
		Description: "Groceries at the market",
		AmountCents: 4200,
		Kind:        "expense",
		Method:      "debit",
		OccurredAt:  time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewEntryDefaults(t *testing.T) {
	e, err := NewEntry(validEntryInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ID == "" {
		t.Error("expected a generated id")
	}
	if e.Essentiality != EssentialityNecessary {
		t.Errorf("expected default essentiality necessary, got %s", e.Essentiality)
	}
	if e.CategoryID != DefaultCategoryID {
		t.Errorf("expected default category, got %s", e.CategoryID)
	}
	if e.Status != StatusCompleted {
		t.Errorf("expected default status completed, got %s", e.Status)
	}
}

func TestNewEntryValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*EntryInput)
		field  string
	}{
		{"short description", func(in *EntryInput) { in.Description = " ab " }, "description"},
		{"negative amount", func(in *EntryInput) { in.AmountCents = -1 }, "amount"},
		{"unknown kind", func(in *EntryInput) { in.Kind = "loan" }, "kind"},
		{"unknown essentiality", func(in *EntryInput) { in.Essentiality = "vital" }, "essentiality"},
		{"unknown method", func(in *EntryInput) { in.Method = "cheque" }, "method"},
		{"zero timestamp", func(in *EntryInput) { in.OccurredAt = time.Time{} }, "occurredAt"},
		{"credit without card", func(in *EntryInput) { in.Method = "credit" }, "cardId"},
		{"card without credit", func(in *EntryInput) { in.CardID = "c1" }, "cardId"},
		{"unknown status", func(in *EntryInput) { in.Status = "archived" }, "status"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validEntryInput()
			tc.mutate(&in)
			_, err := NewEntry(in)
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

func TestNewEntryCreditRequiresCard(t *testing.T) {
	in := validEntryInput()
	in.Method = "credit"
	in.CardID = "card-1"
	e, err := NewEntry(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.CardID != "card-1" {
		t.Errorf("expected cardId preserved, got %q", e.CardID)
	}
}

func TestWithStatusDoesNotMutateReceiver(t *testing.T) {
	in := validEntryInput()
	in.Status = "pending"
	e, err := NewEntry(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	settled := e.WithStatus(StatusInvoiceSettled)
	if e.Status != StatusPending {
		t.Errorf("receiver mutated: %s", e.Status)
	}
	if settled.Status != StatusInvoiceSettled {
		t.Errorf("copy not updated: %s", settled.Status)
	}
	if settled.ID != e.ID {
		t.Error("replacement must keep the same id")
	}
}

func TestEntryClassification(t *testing.T) {
	t.Run("cash and debit affect cash", func(t *testing.T) {
		for _, m := range []string{"cash", "debit"} {
			in := validEntryInput()
			in.Method = m
			e, err := NewEntry(in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !e.AffectsCash() {
				t.Errorf("%s entry should affect cash", m)
			}
		}
	})

	t.Run("credit purchase is an open liability until settled", func(t *testing.T) {
		in := validEntryInput()
		in.Method = "credit"
		in.CardID = "c1"
		in.Status = "pending"
		e, err := NewEntry(in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if e.AffectsCash() {
			t.Error("credit entry must not affect cash")
		}
		if !e.IsOpenCreditExpense() {
			t.Error("pending credit expense should be an open liability")
		}
		if e.WithStatus(StatusInvoiceSettled).IsOpenCreditExpense() {
			t.Error("settled credit expense should not be a liability")
		}
	})
}
