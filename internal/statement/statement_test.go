package statement

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"grana/internal/balance"
	"grana/internal/core"
)

var (
	march10 = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	april1  = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
)

func mustEntry(t *testing.T, in core.EntryInput) core.Entry {
	t.Helper()
	e, err := core.NewEntry(in)
	if err != nil {
		t.Fatalf("build entry: %v", err)
	}
	return e
}

func marchSnapshot(t *testing.T, incomeCents int64) core.Snapshot {
	t.Helper()
	return core.Snapshot{
		Entries: []core.Entry{
			mustEntry(t, core.EntryInput{ID: "inc", Description: "Monthly salary", AmountCents: incomeCents, Kind: "income", Method: "debit", OccurredAt: march10}),
			mustEntry(t, core.EntryInput{ID: "e1", Description: "Card purchase", AmountCents: 10000, Kind: "expense", Method: "credit", CardID: "c1", Status: "pending", OccurredAt: march10}),
		},
	}
}

func TestEntriesForPeriod(t *testing.T) {
	entries := []core.Entry{
		mustEntry(t, core.EntryInput{ID: "in-period", Description: "March purchase", AmountCents: 100, Kind: "expense", Method: "credit", CardID: "c1", Status: "pending", OccurredAt: march10}),
		mustEntry(t, core.EntryInput{ID: "other-card", Description: "Other card buy", AmountCents: 100, Kind: "expense", Method: "credit", CardID: "c2", Status: "pending", OccurredAt: march10}),
		mustEntry(t, core.EntryInput{ID: "settled", Description: "Already settled", AmountCents: 100, Kind: "expense", Method: "credit", CardID: "c1", Status: "invoice_settled", OccurredAt: march10}),
		mustEntry(t, core.EntryInput{ID: "april", Description: "April purchase", AmountCents: 100, Kind: "expense", Method: "credit", CardID: "c1", Status: "pending", OccurredAt: april1}),
		mustEntry(t, core.EntryInput{ID: "debit", Description: "Debit groceries", AmountCents: 100, Kind: "expense", Method: "debit", OccurredAt: march10}),
		mustEntry(t, core.EntryInput{ID: "refund", Description: "Purchase refund", AmountCents: 100, Kind: "income", Method: "credit", CardID: "c1", Status: "pending", OccurredAt: march10}),
	}

	got := EntriesForPeriod(entries, "c1", 3, 2025)
	if len(got) != 1 || got[0].ID != "in-period" {
		t.Fatalf("expected only the in-period entry, got %+v", got)
	}
}

func TestLiquidateSuccess(t *testing.T) {
	snap := marchSnapshot(t, 50000)
	now := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)

	out, err := Liquidate(snap, "c1", 3, 2025, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var settled, payment *core.Entry
	for i := range out.Entries {
		e := &out.Entries[i]
		switch {
		case e.ID == "e1":
			settled = e
		case e.CategoryID == SettlementCategoryID:
			payment = e
		}
	}
	if settled == nil || settled.Status != core.StatusInvoiceSettled {
		t.Fatalf("period entry not settled: %+v", settled)
	}
	if payment == nil {
		t.Fatal("settlement entry missing")
	}
	if payment.Amount.Cents != 10000 || payment.Method != core.MethodDebit || payment.Status != core.StatusCompleted {
		t.Errorf("unexpected settlement entry: %+v", payment)
	}
	if !payment.OccurredAt.Equal(now) {
		t.Errorf("settlement entry should be dated now, got %s", payment.OccurredAt)
	}

	if got := balance.Compute(out.Entries).Cash.Cents; got != 40000 {
		t.Errorf("cash after settlement: expected 40000, got %d", got)
	}
}

func TestLiquidateConservation(t *testing.T) {
	snap := marchSnapshot(t, 50000)
	before := balance.Compute(snap.Entries)

	out, err := Liquidate(snap, "c1", 3, 2025, april1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after := balance.Compute(out.Entries)

	if after.Cash.Cents != before.Cash.Cents-10000 {
		t.Errorf("cash should drop by the statement total: before %d after %d", before.Cash.Cents, after.Cash.Cents)
	}
	if after.Liabilities.Cents != before.Liabilities.Cents-10000 {
		t.Errorf("liabilities should drop by the statement total: before %d after %d", before.Liabilities.Cents, after.Liabilities.Cents)
	}
	if after.NetWorth.Cents != before.NetWorth.Cents {
		t.Errorf("net worth must be conserved: before %d after %d", before.NetWorth.Cents, after.NetWorth.Cents)
	}
}

func TestLiquidateInsufficientFunds(t *testing.T) {
	snap := marchSnapshot(t, 5000)
	original := snap.Clone()

	_, err := Liquidate(snap, "c1", 3, 2025, april1)
	var insufficient *InsufficientFundsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientFundsError, got %v", err)
	}
	if insufficient.Required.Cents != 10000 || insufficient.Available.Cents != 5000 {
		t.Errorf("unexpected amounts in error: %+v", insufficient)
	}
	if !reflect.DeepEqual(snap, original) {
		t.Error("failed liquidation must leave the snapshot untouched")
	}
}

func TestLiquidateEmptyPeriod(t *testing.T) {
	snap := marchSnapshot(t, 50000)
	original := snap.Clone()

	_, err := Liquidate(snap, "c1", 7, 2025, april1)
	if !errors.Is(err, ErrNoPendingEntries) {
		t.Fatalf("expected ErrNoPendingEntries, got %v", err)
	}
	if !reflect.DeepEqual(snap, original) {
		t.Error("failed liquidation must leave the snapshot untouched")
	}
}

func TestLiquidateDoesNotMutateInput(t *testing.T) {
	snap := marchSnapshot(t, 50000)
	original := snap.Clone()

	if _, err := Liquidate(snap, "c1", 3, 2025, april1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(snap, original) {
		t.Error("successful liquidation must not mutate the input snapshot")
	}
}

func TestAvailableLimit(t *testing.T) {
	card, err := core.NewCard(core.CardInput{ID: "c1", Name: "Platinum", LimitCents: 50000, ClosingDay: 5, DueDay: 12})
	if err != nil {
		t.Fatalf("build card: %v", err)
	}
	entries := []core.Entry{
		mustEntry(t, core.EntryInput{Description: "Open spend", AmountCents: 20000, Kind: "expense", Method: "credit", CardID: "c1", Status: "pending", OccurredAt: march10}),
		mustEntry(t, core.EntryInput{Description: "Settled spend", AmountCents: 15000, Kind: "expense", Method: "credit", CardID: "c1", Status: "invoice_settled", OccurredAt: march10}),
		mustEntry(t, core.EntryInput{Description: "Other card spend", AmountCents: 9000, Kind: "expense", Method: "credit", CardID: "c2", Status: "pending", OccurredAt: march10}),
	}

	if got := AvailableLimit(entries, card); got.Cents != 30000 {
		t.Errorf("expected 30000 available, got %d", got.Cents)
	}
}
