package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"grana/internal/core"
	"grana/internal/planner"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "grana.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustEntry(t *testing.T, in core.EntryInput) core.Entry {
	t.Helper()
	if in.OccurredAt.IsZero() {
		in.OccurredAt = time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)
	}
	e, err := core.NewEntry(in)
	if err != nil {
		t.Fatalf("build entry: %v", err)
	}
	return e
}

func TestInsertAndLoadSnapshot(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	entry := mustEntry(t, core.EntryInput{Description: "Card purchase", AmountCents: 12345, Kind: "expense", Method: "credit", CardID: "c1", Status: "pending"})
	card, err := core.NewCard(core.CardInput{ID: "c1", Name: "Platinum", LimitCents: 500000, ClosingDay: 5, DueDay: 12})
	if err != nil {
		t.Fatalf("build card: %v", err)
	}
	debt, err := core.NewDebt(core.DebtInput{Description: "Car loan", TotalCents: 1200000, MonthlyRate: "1.5", TermMonths: 12, PaidMonths: 6})
	if err != nil {
		t.Fatalf("build debt: %v", err)
	}

	if err := repo.InsertEntry(ctx, entry); err != nil {
		t.Fatalf("insert entry: %v", err)
	}
	if err := repo.InsertCard(ctx, card); err != nil {
		t.Fatalf("insert card: %v", err)
	}
	if err := repo.InsertDebt(ctx, debt); err != nil {
		t.Fatalf("insert debt: %v", err)
	}

	snap, err := repo.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if len(snap.Entries) != 1 || len(snap.Cards) != 1 || len(snap.Debts) != 1 {
		t.Fatalf("unexpected snapshot sizes: %d/%d/%d", len(snap.Entries), len(snap.Cards), len(snap.Debts))
	}

	got := snap.Entries[0]
	if got.ID != entry.ID || got.Amount != entry.Amount || got.Status != entry.Status {
		t.Errorf("entry round trip mismatch: %+v != %+v", got, entry)
	}
	if !got.OccurredAt.Equal(entry.OccurredAt) {
		t.Errorf("occurredAt mismatch: %s != %s", got.OccurredAt, entry.OccurredAt)
	}
	if !snap.Debts[0].MonthlyRate.Equal(debt.MonthlyRate) {
		t.Errorf("rate round trip mismatch: %s != %s", snap.Debts[0].MonthlyRate, debt.MonthlyRate)
	}
}

func TestReplaceSnapshot(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	old := mustEntry(t, core.EntryInput{Description: "Old pending buy", AmountCents: 1000, Kind: "expense", Method: "credit", CardID: "c1", Status: "pending"})
	if err := repo.InsertEntry(ctx, old); err != nil {
		t.Fatalf("insert entry: %v", err)
	}

	replacement := core.Snapshot{
		Entries: []core.Entry{
			old.WithStatus(core.StatusInvoiceSettled),
			mustEntry(t, core.EntryInput{Description: "Statement payment 3/2025", AmountCents: 1000, Kind: "expense", Method: "debit", Status: "completed"}),
		},
	}
	if err := repo.ReplaceSnapshot(ctx, replacement); err != nil {
		t.Fatalf("replace snapshot: %v", err)
	}

	snap, err := repo.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if len(snap.Entries) != 2 {
		t.Fatalf("expected 2 entries after replacement, got %d", len(snap.Entries))
	}
	for _, e := range snap.Entries {
		if e.ID == old.ID && e.Status != core.StatusInvoiceSettled {
			t.Errorf("replaced entry kept stale status %s", e.Status)
		}
	}
}

func TestGoalRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	got, err := repo.GetGoal(ctx)
	if err != nil {
		t.Fatalf("get goal: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no goal on a fresh database, got %+v", got)
	}

	goal := planner.Goal{
		TargetDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		StartDebt:  core.Money{Cents: 900000},
		CreatedAt:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := repo.SetGoal(ctx, goal); err != nil {
		t.Fatalf("set goal: %v", err)
	}

	got, err = repo.GetGoal(ctx)
	if err != nil {
		t.Fatalf("get goal: %v", err)
	}
	if got == nil || !got.TargetDate.Equal(goal.TargetDate) || got.StartDebt != goal.StartDebt {
		t.Errorf("goal round trip mismatch: %+v", got)
	}

	// Setting again replaces the single active goal.
	goal.TargetDate = goal.TargetDate.AddDate(0, 6, 0)
	if err := repo.SetGoal(ctx, goal); err != nil {
		t.Fatalf("replace goal: %v", err)
	}
	got, err = repo.GetGoal(ctx)
	if err != nil {
		t.Fatalf("get goal: %v", err)
	}
	if !got.TargetDate.Equal(goal.TargetDate) {
		t.Errorf("expected replaced target date, got %s", got.TargetDate)
	}
}
