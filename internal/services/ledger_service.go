// Package services orchestrates the ledger engines over a repository and
// the event stream. Handlers and workers talk to LedgerService; the
// engines underneath stay pure.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"grana/internal/advisor"
	"grana/internal/amortize"
	"grana/internal/balance"
	"grana/internal/core"
	"grana/internal/planner"
	"grana/internal/statement"
)

// Repository is the persistence surface the service needs. Satisfied by
// storage.Repository (sqlite) and memstore.Store.
type Repository interface {
	LoadSnapshot(ctx context.Context) (core.Snapshot, error)
	InsertEntry(ctx context.Context, e core.Entry) error
	InsertCard(ctx context.Context, c core.Card) error
	InsertDebt(ctx context.Context, d core.Debt) error
	ReplaceSnapshot(ctx context.Context, snap core.Snapshot) error
	SetGoal(ctx context.Context, g planner.Goal) error
	GetGoal(ctx context.Context) (*planner.Goal, error)
	Close() error
}

// EventPublisher is the outbound event surface. Satisfied by amqp.Client.
type EventPublisher interface {
	PublishEntryRecorded(ctx context.Context, entryID, kind string, amountCents int64) error
	PublishStatementSettled(ctx context.Context, cardID string, month, year int, totalCents int64, paymentID string) error
	Close() error
}

// LedgerService orchestrates ledger operations across storage and AMQP.
// The publisher is optional: a nil publisher skips events, and a publish
// failure never fails the operation that triggered it.
type LedgerService struct {
	repo   Repository
	events EventPublisher
}

func NewLedgerService(repo Repository, events EventPublisher) *LedgerService {
	return &LedgerService{repo: repo, events: events}
}

// AddEntry validates and persists a new ledger entry, then publishes an
// entry recorded event.
func (s *LedgerService) AddEntry(ctx context.Context, in core.EntryInput) (core.Entry, error) {
	entry, err := core.NewEntry(in)
	if err != nil {
		return core.Entry{}, err
	}

	if entry.Method == core.MethodCredit {
		snap, err := s.repo.LoadSnapshot(ctx)
		if err != nil {
			return core.Entry{}, fmt.Errorf("load snapshot: %w", err)
		}
		if snap.CardByID(entry.CardID) == nil {
			return core.Entry{}, &core.ValidationError{Field: "cardId", Reason: "unknown card " + entry.CardID}
		}
	}

	if err := s.repo.InsertEntry(ctx, entry); err != nil {
		return core.Entry{}, fmt.Errorf("save entry: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishEntryRecorded(ctx, entry.ID, string(entry.Kind), entry.Amount.Cents); err != nil {
			slog.ErrorContext(ctx, "Failed to publish entry recorded event",
				"entryId", entry.ID, "error", err)
			// Don't fail the request - entry is saved locally
		}
	}

	return entry, nil
}

func (s *LedgerService) AddCard(ctx context.Context, in core.CardInput) (core.Card, error) {
	card, err := core.NewCard(in)
	if err != nil {
		return core.Card{}, err
	}
	if err := s.repo.InsertCard(ctx, card); err != nil {
		return core.Card{}, fmt.Errorf("save card: %w", err)
	}
	return card, nil
}

func (s *LedgerService) AddDebt(ctx context.Context, in core.DebtInput) (core.Debt, error) {
	debt, err := core.NewDebt(in)
	if err != nil {
		return core.Debt{}, err
	}
	if err := s.repo.InsertDebt(ctx, debt); err != nil {
		return core.Debt{}, fmt.Errorf("save debt: %w", err)
	}
	return debt, nil
}

func (s *LedgerService) Snapshot(ctx context.Context) (core.Snapshot, error) {
	return s.repo.LoadSnapshot(ctx)
}

func (s *LedgerService) Summary(ctx context.Context) (balance.Summary, error) {
	snap, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return balance.Summary{}, fmt.Errorf("load snapshot: %w", err)
	}
	return balance.Compute(snap.Entries), nil
}

func (s *LedgerService) Health(ctx context.Context) (balance.Health, error) {
	snap, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return balance.Health{}, fmt.Errorf("load snapshot: %w", err)
	}
	summary := balance.Compute(snap.Entries)
	return balance.AnalyzeHealth(snap.Entries, summary.Cash), nil
}

// StatementView is one card's statement for a period, as the API reports it.
type StatementView struct {
	CardID         string       `json:"cardId"`
	Month          int          `json:"month"`
	Year           int          `json:"year"`
	Entries        []core.Entry `json:"entries"`
	Total          core.Money   `json:"totalCents"`
	AvailableLimit core.Money   `json:"availableLimitCents"`
}

// ErrCardNotFound is returned when a card ID does not exist.
var ErrCardNotFound = &core.ValidationError{Field: "cardId", Reason: "card not found"}

// ErrDebtNotFound is returned when a debt ID does not exist.
var ErrDebtNotFound = &core.ValidationError{Field: "debtId", Reason: "debt not found"}

func (s *LedgerService) Statement(ctx context.Context, cardID string, month, year int) (StatementView, error) {
	snap, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return StatementView{}, fmt.Errorf("load snapshot: %w", err)
	}
	card := snap.CardByID(cardID)
	if card == nil {
		return StatementView{}, ErrCardNotFound
	}

	entries := statement.EntriesForPeriod(snap.Entries, cardID, month, year)
	var total int64
	for _, e := range entries {
		total += e.Amount.Cents
	}

	return StatementView{
		CardID:         cardID,
		Month:          month,
		Year:           year,
		Entries:        entries,
		Total:          core.Money{Cents: total},
		AvailableLimit: statement.AvailableLimit(snap.Entries, *card),
	}, nil
}

// SettlementResult reports what a successful liquidation did.
type SettlementResult struct {
	CardID       string     `json:"cardId"`
	Month        int        `json:"month"`
	Year         int        `json:"year"`
	SettledCount int        `json:"settledCount"`
	Total        core.Money `json:"totalCents"`
	PaymentID    string     `json:"paymentId"`
}

// SettleStatement liquidates one card's statement: the settled entries and
// the synthetic payment are persisted atomically via ReplaceSnapshot, then a
// settlement event is published. Concurrent settlements are serialized by
// running them one at a time through this service.
func (s *LedgerService) SettleStatement(ctx context.Context, cardID string, month, year int) (SettlementResult, error) {
	snap, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return SettlementResult{}, fmt.Errorf("load snapshot: %w", err)
	}
	if snap.CardByID(cardID) == nil {
		return SettlementResult{}, ErrCardNotFound
	}

	settled := len(statement.EntriesForPeriod(snap.Entries, cardID, month, year))

	next, err := statement.Liquidate(snap, cardID, month, year, time.Now())
	if err != nil {
		return SettlementResult{}, err
	}

	if err := s.repo.ReplaceSnapshot(ctx, next); err != nil {
		return SettlementResult{}, fmt.Errorf("persist settlement: %w", err)
	}

	// Liquidate appends the synthetic payment last.
	payment := next.Entries[len(next.Entries)-1]

	result := SettlementResult{
		CardID:       cardID,
		Month:        month,
		Year:         year,
		SettledCount: settled,
		Total:        payment.Amount,
		PaymentID:    payment.ID,
	}

	if s.events != nil {
		if err := s.events.PublishStatementSettled(ctx, cardID, month, year, payment.Amount.Cents, payment.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to publish settlement event",
				"cardId", cardID, "month", month, "year", year, "error", err)
			// Don't fail the request - the settlement is already persisted
		}
	}

	return result, nil
}

func (s *LedgerService) SimulatePayoff(ctx context.Context, debtID string, available core.Money) (amortize.PayoffSimulation, error) {
	snap, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return amortize.PayoffSimulation{}, fmt.Errorf("load snapshot: %w", err)
	}
	debt := snap.DebtByID(debtID)
	if debt == nil {
		return amortize.PayoffSimulation{}, ErrDebtNotFound
	}
	return amortize.SimulateEarlyPayoff(*debt, available), nil
}

func (s *LedgerService) PayoffPlan(ctx context.Context) (amortize.PayoffPlan, error) {
	snap, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return amortize.PayoffPlan{}, fmt.Errorf("load snapshot: %w", err)
	}
	return amortize.RankPayoffPriority(snap.Debts, snap.Cards, snap.Entries), nil
}

// totalOutstanding sums every ranked payoff item: active structured debts
// plus open card balances.
func totalOutstanding(plan amortize.PayoffPlan) core.Money {
	var total int64
	for _, item := range plan.ByInterestRate {
		total += item.Outstanding.Cents
	}
	return core.Money{Cents: total}
}

// SetGoal commits to a debt-free target date. The starting debt is the
// total outstanding at the moment the goal is set.
func (s *LedgerService) SetGoal(ctx context.Context, target time.Time) (planner.Goal, error) {
	plan, err := s.PayoffPlan(ctx)
	if err != nil {
		return planner.Goal{}, err
	}
	startDebt := totalOutstanding(plan)

	now := time.Now()
	if _, err := planner.RequiredMonthlyContribution(now, target, startDebt); err != nil {
		return planner.Goal{}, err
	}

	goal := planner.Goal{
		ID:         "debt-free",
		TargetDate: target,
		StartDebt:  startDebt,
		CreatedAt:  now,
	}
	if err := s.repo.SetGoal(ctx, goal); err != nil {
		return planner.Goal{}, fmt.Errorf("save goal: %w", err)
	}
	return goal, nil
}

func (s *LedgerService) Goal(ctx context.Context) (*planner.Goal, error) {
	return s.repo.GetGoal(ctx)
}

// GoalFeasibility checks the active goal against the current outstanding
// debt and the caller-supplied monthly free cash. Returns ErrGoalExpired
// when the target date has passed, and a nil goal error when none is set.
func (s *LedgerService) GoalFeasibility(ctx context.Context, monthlyFreeCash core.Money) (planner.Feasibility, error) {
	goal, err := s.repo.GetGoal(ctx)
	if err != nil {
		return planner.Feasibility{}, fmt.Errorf("load goal: %w", err)
	}
	if goal == nil {
		return planner.Feasibility{}, &core.ValidationError{Field: "goal", Reason: "no active goal"}
	}

	plan, err := s.PayoffPlan(ctx)
	if err != nil {
		return planner.Feasibility{}, err
	}

	return planner.CheckFeasibility(time.Now(), goal.TargetDate, monthlyFreeCash, totalOutstanding(plan))
}

// WeeklyReport builds the advisor insights for the current week. The goal
// reminder is included when an active, still-future goal exists.
func (s *LedgerService) WeeklyReport(ctx context.Context) ([]advisor.Insight, error) {
	snap, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var reminder *advisor.GoalReminder
	goal, err := s.repo.GetGoal(ctx)
	if err != nil {
		return nil, fmt.Errorf("load goal: %w", err)
	}
	if goal != nil {
		plan := amortize.RankPayoffPriority(snap.Debts, snap.Cards, snap.Entries)
		required, err := planner.RequiredMonthlyContribution(time.Now(), goal.TargetDate, totalOutstanding(plan))
		if err == nil {
			reminder = &advisor.GoalReminder{
				TargetDate:      goal.TargetDate,
				RequiredMonthly: required,
			}
		}
	}

	return advisor.WeeklyReport(snap.Entries, reminder, time.Now()), nil
}

// Close closes both storage and AMQP connections.
func (s *LedgerService) Close() error {
	var errs []error

	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.events != nil {
		if err := s.events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}

	return nil
}
