package storage

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is the subset of *sql.DB and *sql.Tx the queries need, so the same
// query set runs standalone or inside a transaction.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries bundles the raw SQL behind typed methods.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns the same query set bound to a transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// EntryRow mirrors one row of the entries table.
type EntryRow struct {
	ID           string
	Description  string
	AmountCents  int64
	Kind         string
	Essentiality string
	Method       string
	OccurredAt   time.Time
	CategoryID   string
	CardID       string
	Status       string
}

const insertEntry = `
INSERT INTO entries (id, description, amount_cents, kind, essentiality, method, occurred_at, category_id, card_id, status)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertEntry(ctx context.Context, row EntryRow) error {
	_, err := q.db.ExecContext(ctx, insertEntry,
		row.ID, row.Description, row.AmountCents, row.Kind, row.Essentiality,
		row.Method, row.OccurredAt.UTC(), row.CategoryID, row.CardID, row.Status)
	return err
}

const listEntries = `
SELECT id, description, amount_cents, kind, essentiality, method, occurred_at, category_id, card_id, status
FROM entries
ORDER BY occurred_at, id
`

func (q *Queries) ListEntries(ctx context.Context) ([]EntryRow, error) {
	rows, err := q.db.QueryContext(ctx, listEntries)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EntryRow
	for rows.Next() {
		var r EntryRow
		if err := rows.Scan(&r.ID, &r.Description, &r.AmountCents, &r.Kind, &r.Essentiality,
			&r.Method, &r.OccurredAt, &r.CategoryID, &r.CardID, &r.Status); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const deleteAllEntries = `DELETE FROM entries`

func (q *Queries) DeleteAllEntries(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllEntries)
	return err
}

// CardRow mirrors one row of the cards table.
type CardRow struct {
	ID         string
	Name       string
	LimitCents int64
	ClosingDay int
	DueDay     int
	Active     bool
	Color      string
	Icon       string
}

const insertCard = `
INSERT INTO cards (id, name, limit_cents, closing_day, due_day, active, color, icon)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertCard(ctx context.Context, row CardRow) error {
	_, err := q.db.ExecContext(ctx, insertCard,
		row.ID, row.Name, row.LimitCents, row.ClosingDay, row.DueDay, row.Active, row.Color, row.Icon)
	return err
}

const listCards = `
SELECT id, name, limit_cents, closing_day, due_day, active, color, icon
FROM cards
ORDER BY name, id
`

func (q *Queries) ListCards(ctx context.Context) ([]CardRow, error) {
	rows, err := q.db.QueryContext(ctx, listCards)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CardRow
	for rows.Next() {
		var r CardRow
		if err := rows.Scan(&r.ID, &r.Name, &r.LimitCents, &r.ClosingDay, &r.DueDay,
			&r.Active, &r.Color, &r.Icon); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const deleteAllCards = `DELETE FROM cards`

func (q *Queries) DeleteAllCards(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllCards)
	return err
}

// DebtRow mirrors one row of the debts table. MonthlyRate is stored as a
// decimal string to keep the exact rate out of floating point.
type DebtRow struct {
	ID          string
	Description string
	TotalCents  int64
	MonthlyRate string
	TermMonths  int
	PaidMonths  int
	System      string
}

const insertDebt = `
INSERT INTO debts (id, description, total_cents, monthly_rate, term_months, paid_months, system)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertDebt(ctx context.Context, row DebtRow) error {
	_, err := q.db.ExecContext(ctx, insertDebt,
		row.ID, row.Description, row.TotalCents, row.MonthlyRate, row.TermMonths, row.PaidMonths, row.System)
	return err
}

const listDebts = `
SELECT id, description, total_cents, monthly_rate, term_months, paid_months, system
FROM debts
ORDER BY description, id
`

func (q *Queries) ListDebts(ctx context.Context) ([]DebtRow, error) {
	rows, err := q.db.QueryContext(ctx, listDebts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DebtRow
	for rows.Next() {
		var r DebtRow
		if err := rows.Scan(&r.ID, &r.Description, &r.TotalCents, &r.MonthlyRate,
			&r.TermMonths, &r.PaidMonths, &r.System); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const deleteAllDebts = `DELETE FROM debts`

func (q *Queries) DeleteAllDebts(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllDebts)
	return err
}

// GoalRow mirrors one row of the goals table.
type GoalRow struct {
	ID             string
	TargetDate     time.Time
	StartDebtCents int64
	CreatedAt      time.Time
}

const upsertGoal = `
INSERT INTO goals (id, target_date, start_debt_cents, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET target_date = excluded.target_date,
    start_debt_cents = excluded.start_debt_cents,
    created_at = excluded.created_at
`

func (q *Queries) UpsertGoal(ctx context.Context, row GoalRow) error {
	_, err := q.db.ExecContext(ctx, upsertGoal,
		row.ID, row.TargetDate.UTC(), row.StartDebtCents, row.CreatedAt.UTC())
	return err
}

const getGoal = `
SELECT id, target_date, start_debt_cents, created_at
FROM goals
LIMIT 1
`

func (q *Queries) GetGoal(ctx context.Context) (GoalRow, error) {
	var r GoalRow
	err := q.db.QueryRowContext(ctx, getGoal).
		Scan(&r.ID, &r.TargetDate, &r.StartDebtCents, &r.CreatedAt)
	return r, err
}
