package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewDebt(t *testing.T) {
	d, err := NewDebt(DebtInput{
		Description: "Car loan",
		TotalCents:  1200000,
		MonthlyRate: "1,5",
		TermMonths:  12,
		PaidMonths:  6,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.MonthlyRate.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("expected rate 1.5, got %s", d.MonthlyRate)
	}
	if d.System != SystemPrice {
		t.Errorf("expected default system price, got %s", d.System)
	}
	if d.RemainingMonths() != 6 {
		t.Errorf("expected 6 remaining months, got %d", d.RemainingMonths())
	}
	if !d.IsActive() {
		t.Error("expected debt with remaining installments to be active")
	}
}

func TestNewDebtValidation(t *testing.T) {
	cases := []struct {
		name  string
		in    DebtInput
		field string
	}{
		{"empty description", DebtInput{TotalCents: 100, TermMonths: 1}, "description"},
		{"negative total", DebtInput{Description: "x", TotalCents: -1, TermMonths: 1}, "totalValue"},
		{"zero term", DebtInput{Description: "x", TermMonths: 0}, "termMonths"},
		{"paid above term", DebtInput{Description: "x", TermMonths: 10, PaidMonths: 11}, "paidMonths"},
		{"negative paid", DebtInput{Description: "x", TermMonths: 10, PaidMonths: -1}, "paidMonths"},
		{"malformed rate", DebtInput{Description: "x", TermMonths: 10, MonthlyRate: "two"}, "monthlyRate"},
		{"negative rate", DebtInput{Description: "x", TermMonths: 10, MonthlyRate: "-1"}, "monthlyRate"},
		{"unknown system", DebtInput{Description: "x", TermMonths: 10, System: "balloon"}, "system"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewDebt(tc.in)
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

func TestDebtFullyPaidIsInactive(t *testing.T) {
	d, err := NewDebt(DebtInput{Description: "Paid off", TotalCents: 100000, TermMonths: 10, PaidMonths: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.IsActive() {
		t.Error("fully paid debt should be inactive")
	}
}

func TestSnapshotClone(t *testing.T) {
	e, _ := NewEntry(EntryInput{Description: "Rent payment", AmountCents: 100, Kind: "expense", Method: "debit", OccurredAt: validEntryInput().OccurredAt, Status: "pending"})
	snap := Snapshot{Entries: []Entry{e}}
	clone := snap.Clone()
	clone.Entries[0] = clone.Entries[0].WithStatus(StatusInvoiceSettled)
	if snap.Entries[0].Status != StatusPending {
		t.Error("mutating the clone must not touch the original")
	}
}
