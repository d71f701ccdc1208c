// Package storage persists the ledger in SQLite. It is the one place the
// engine's atomic-replacement contract touches disk: ReplaceSnapshot
// applies a whole snapshot inside a single transaction, so a settlement is
// either fully durable or not applied at all.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"grana/internal/core"
	"grana/internal/planner"
)

type Repository struct {
	db      *sql.DB
	queries *Queries
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, queries: New(db)}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadSnapshot reads the full ledger. Rows pass back through the core
// constructors so a corrupted row can never hand the engines an invalid
// value.
func (r *Repository) LoadSnapshot(ctx context.Context) (core.Snapshot, error) {
	return r.loadSnapshot(ctx, r.queries)
}

func (r *Repository) loadSnapshot(ctx context.Context, q *Queries) (core.Snapshot, error) {
	var snap core.Snapshot

	entryRows, err := q.ListEntries(ctx)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("list entries: %w", err)
	}
	for _, row := range entryRows {
		e, err := core.NewEntry(core.EntryInput{
			ID:           row.ID,
			Description:  row.Description,
			AmountCents:  row.AmountCents,
			Kind:         row.Kind,
			Essentiality: row.Essentiality,
			Method:       row.Method,
			OccurredAt:   row.OccurredAt,
			CategoryID:   row.CategoryID,
			CardID:       row.CardID,
			Status:       row.Status,
		})
		if err != nil {
			return core.Snapshot{}, fmt.Errorf("corrupt entry row %s: %w", row.ID, err)
		}
		snap.Entries = append(snap.Entries, e)
	}

	cardRows, err := q.ListCards(ctx)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("list cards: %w", err)
	}
	for _, row := range cardRows {
		active := row.Active
		c, err := core.NewCard(core.CardInput{
			ID:         row.ID,
			Name:       row.Name,
			LimitCents: row.LimitCents,
			ClosingDay: row.ClosingDay,
			DueDay:     row.DueDay,
			Active:     &active,
			Color:      row.Color,
			Icon:       row.Icon,
		})
		if err != nil {
			return core.Snapshot{}, fmt.Errorf("corrupt card row %s: %w", row.ID, err)
		}
		snap.Cards = append(snap.Cards, c)
	}

	debtRows, err := q.ListDebts(ctx)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("list debts: %w", err)
	}
	for _, row := range debtRows {
		d, err := core.NewDebt(core.DebtInput{
			ID:          row.ID,
			Description: row.Description,
			TotalCents:  row.TotalCents,
			MonthlyRate: row.MonthlyRate,
			TermMonths:  row.TermMonths,
			PaidMonths:  row.PaidMonths,
			System:      row.System,
		})
		if err != nil {
			return core.Snapshot{}, fmt.Errorf("corrupt debt row %s: %w", row.ID, err)
		}
		snap.Debts = append(snap.Debts, d)
	}

	return snap, nil
}

func (r *Repository) InsertEntry(ctx context.Context, e core.Entry) error {
	if err := r.queries.InsertEntry(ctx, entryToRow(e)); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	slog.InfoContext(ctx, "Entry saved",
		"id", e.ID,
		"kind", e.Kind,
		"amount_cents", e.Amount.Cents,
		"method", e.Method)
	return nil
}

func (r *Repository) InsertCard(ctx context.Context, c core.Card) error {
	if err := r.queries.InsertCard(ctx, cardToRow(c)); err != nil {
		return fmt.Errorf("insert card: %w", err)
	}
	slog.InfoContext(ctx, "Card saved", "id", c.ID, "name", c.Name)
	return nil
}

func (r *Repository) InsertDebt(ctx context.Context, d core.Debt) error {
	if err := r.queries.InsertDebt(ctx, debtToRow(d)); err != nil {
		return fmt.Errorf("insert debt: %w", err)
	}
	slog.InfoContext(ctx, "Debt saved",
		"id", d.ID,
		"total_cents", d.Total.Cents,
		"term_months", d.TermMonths)
	return nil
}

// ReplaceSnapshot atomically swaps the stored ledger for the given one.
// This is the durable half of the liquidation contract: the settled
// entries and the synthetic payment land in the same transaction.
func (r *Repository) ReplaceSnapshot(ctx context.Context, snap core.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DeleteAllEntries(ctx); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}
	if err := q.DeleteAllCards(ctx); err != nil {
		return fmt.Errorf("clear cards: %w", err)
	}
	if err := q.DeleteAllDebts(ctx); err != nil {
		return fmt.Errorf("clear debts: %w", err)
	}

	for _, e := range snap.Entries {
		if err := q.InsertEntry(ctx, entryToRow(e)); err != nil {
			return fmt.Errorf("insert entry %s: %w", e.ID, err)
		}
	}
	for _, c := range snap.Cards {
		if err := q.InsertCard(ctx, cardToRow(c)); err != nil {
			return fmt.Errorf("insert card %s: %w", c.ID, err)
		}
	}
	for _, d := range snap.Debts {
		if err := q.InsertDebt(ctx, debtToRow(d)); err != nil {
			return fmt.Errorf("insert debt %s: %w", d.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace transaction: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot replaced",
		"entries", len(snap.Entries),
		"cards", len(snap.Cards),
		"debts", len(snap.Debts))
	return nil
}

// goalID pins the single active goal row; setting a goal replaces it.
const goalID = "debt-free"

func (r *Repository) SetGoal(ctx context.Context, g planner.Goal) error {
	err := r.queries.UpsertGoal(ctx, GoalRow{
		ID:             goalID,
		TargetDate:     g.TargetDate,
		StartDebtCents: g.StartDebt.Cents,
		CreatedAt:      g.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("upsert goal: %w", err)
	}
	slog.InfoContext(ctx, "Goal saved", "target_date", g.TargetDate)
	return nil
}

// GetGoal returns the active goal, or nil when none was ever set.
func (r *Repository) GetGoal(ctx context.Context) (*planner.Goal, error) {
	row, err := r.queries.GetGoal(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return &planner.Goal{
		ID:         row.ID,
		TargetDate: row.TargetDate,
		StartDebt:  core.Money{Cents: row.StartDebtCents},
		CreatedAt:  row.CreatedAt,
	}, nil
}

func entryToRow(e core.Entry) EntryRow {
	return EntryRow{
		ID:           e.ID,
		Description:  e.Description,
		AmountCents:  e.Amount.Cents,
		Kind:         string(e.Kind),
		Essentiality: string(e.Essentiality),
		Method:       string(e.Method),
		OccurredAt:   e.OccurredAt,
		CategoryID:   e.CategoryID,
		CardID:       e.CardID,
		Status:       string(e.Status),
	}
}

func cardToRow(c core.Card) CardRow {
	return CardRow{
		ID:         c.ID,
		Name:       c.Name,
		LimitCents: c.Limit.Cents,
		ClosingDay: c.ClosingDay,
		DueDay:     c.DueDay,
		Active:     c.Active,
		Color:      c.Color,
		Icon:       c.Icon,
	}
}

func debtToRow(d core.Debt) DebtRow {
	return DebtRow{
		ID:          d.ID,
		Description: d.Description,
		TotalCents:  d.Total.Cents,
		MonthlyRate: d.MonthlyRate.String(),
		TermMonths:  d.TermMonths,
		PaidMonths:  d.PaidMonths,
		System:      string(d.System),
	}
}
