package balance

import (
	"math/rand"
	"testing"
	"time"

	"grana/internal/core"
)

func mustEntry(t *testing.T, in core.EntryInput) core.Entry {
	t.Helper()
	if in.OccurredAt.IsZero() {
		in.OccurredAt = time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	}
	e, err := core.NewEntry(in)
	if err != nil {
		t.Fatalf("build entry: %v", err)
	}
	return e
}

func TestCompute(t *testing.T) {
	entries := []core.Entry{
		mustEntry(t, core.EntryInput{Description: "Monthly salary", AmountCents: 500000, Kind: "income", Method: "debit"}),
		mustEntry(t, core.EntryInput{Description: "Groceries run", AmountCents: 40000, Kind: "expense", Method: "debit"}),
		mustEntry(t, core.EntryInput{Description: "Index fund buy", AmountCents: 100000, Kind: "investment", Method: "debit"}),
		mustEntry(t, core.EntryInput{Description: "New headphones", AmountCents: 30000, Kind: "expense", Method: "credit", CardID: "c1", Status: "pending"}),
		mustEntry(t, core.EntryInput{Description: "Settled dinner", AmountCents: 9000, Kind: "expense", Method: "credit", CardID: "c1", Status: "invoice_settled"}),
	}

	got := Compute(entries)

	if got.Cash.Cents != 360000 {
		t.Errorf("cash: expected 360000, got %d", got.Cash.Cents)
	}
	if got.Liabilities.Cents != 30000 {
		t.Errorf("liabilities: expected 30000, got %d", got.Liabilities.Cents)
	}
	if got.Invested.Cents != 100000 {
		t.Errorf("invested: expected 100000, got %d", got.Invested.Cents)
	}
	if got.NetWorth.Cents != 430000 {
		t.Errorf("net worth: expected 430000, got %d", got.NetWorth.Cents)
	}
}

func TestComputeOrderIndependent(t *testing.T) {
	entries := []core.Entry{
		mustEntry(t, core.EntryInput{Description: "Monthly salary", AmountCents: 123456, Kind: "income", Method: "cash"}),
		mustEntry(t, core.EntryInput{Description: "Rent payment", AmountCents: 70000, Kind: "expense", Method: "debit"}),
		mustEntry(t, core.EntryInput{Description: "Broker transfer", AmountCents: 20000, Kind: "investment", Method: "debit"}),
		mustEntry(t, core.EntryInput{Description: "Card purchase", AmountCents: 5000, Kind: "expense", Method: "credit", CardID: "c1", Status: "pending"}),
	}
	want := Compute(entries)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := make([]core.Entry, len(entries))
		copy(shuffled, entries)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		if got := Compute(shuffled); got != want {
			t.Fatalf("permutation %d changed the result: %+v != %+v", i, got, want)
		}
	}
}

func TestComputeTransferIsNeutral(t *testing.T) {
	entries := []core.Entry{
		mustEntry(t, core.EntryInput{Description: "Between accounts", AmountCents: 99999, Kind: "transfer", Method: "debit"}),
	}
	if got := Compute(entries); got != (Summary{}) {
		t.Errorf("transfer should not move any bucket, got %+v", got)
	}
}

func TestAnalyzeHealth(t *testing.T) {
	t.Run("no essential spend is unbounded", func(t *testing.T) {
		entries := []core.Entry{
			mustEntry(t, core.EntryInput{Description: "Streaming sub", AmountCents: 3000, Kind: "expense", Method: "debit", Essentiality: "superfluous"}),
		}
		got := AnalyzeHealth(entries, core.Money{Cents: 100000})
		if got.SurvivalDays != SurvivalUnbounded {
			t.Errorf("expected unbounded survival, got %d", got.SurvivalDays)
		}
		if got.MonthlyBurn.Cents != 0 {
			t.Errorf("expected zero burn, got %d", got.MonthlyBurn.Cents)
		}
	})

	t.Run("ten days of essentials", func(t *testing.T) {
		base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		entries := []core.Entry{
			mustEntry(t, core.EntryInput{Description: "Food week one", AmountCents: 10000, Kind: "expense", Method: "debit", Essentiality: "essential", OccurredAt: base}),
			mustEntry(t, core.EntryInput{Description: "Food week two", AmountCents: 10000, Kind: "expense", Method: "debit", Essentiality: "essential", OccurredAt: base.AddDate(0, 0, 10)}),
		}
		// 20000 cents over 10 days -> 2000/day.
		got := AnalyzeHealth(entries, core.Money{Cents: 50000})
		if got.SurvivalDays != 25 {
			t.Errorf("expected 25 days of survival, got %d", got.SurvivalDays)
		}
		if got.MonthlyBurn.Cents != 60000 {
			t.Errorf("expected monthly burn 60000, got %d", got.MonthlyBurn.Cents)
		}
	})

	t.Run("single day span floors at one", func(t *testing.T) {
		day := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)
		entries := []core.Entry{
			mustEntry(t, core.EntryInput{Description: "Pharmacy stop", AmountCents: 2500, Kind: "expense", Method: "cash", Essentiality: "essential", OccurredAt: day}),
		}
		got := AnalyzeHealth(entries, core.Money{Cents: 10000})
		if got.SurvivalDays != 4 {
			t.Errorf("expected 4 days, got %d", got.SurvivalDays)
		}
	})
}
