// Package statement owns the credit-card statement lifecycle: selecting
// the entries of a billing period and settling them atomically.
//
// Liquidate is the only operation in the engine with write semantics, and
// it writes by returning a brand new snapshot. All checks happen before
// anything is built, so a failed call has no observable effect. The caller
// must persist the returned snapshot as one unit and must serialize
// concurrent liquidations of the same card and period itself.
package statement

import (
	"errors"
	"fmt"
	"time"

	"grana/internal/balance"
	"grana/internal/core"
)

// SettlementCategoryID tags the synthetic debit entry a settlement appends.
const SettlementCategoryID = "invoice-settlement"

// ErrNoPendingEntries means the requested period has nothing to settle.
// A liquidation that fails with it leaves the snapshot untouched.
var ErrNoPendingEntries = errors.New("no pending entries for this statement period")

// InsufficientFundsError means the ledger's cash balance cannot cover the
// statement total. Checked before any mutation is prepared.
type InsufficientFundsError struct {
	Required  core.Money
	Available core.Money
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: statement requires %d cents, cash balance is %d cents",
		e.Required.Cents, e.Available.Cents)
}

// EntriesForPeriod returns the card's unsettled credit expenses dated
// within the given calendar month. Only expenses belong to a statement; a
// credit-method income (a card refund) must never inflate the settlement
// payment. Period boundaries deliberately ignore the card's closing day:
// the statement window is the calendar month, matching how the rest of the
// engine reports periods.
func EntriesForPeriod(entries []core.Entry, cardID string, month, year int) []core.Entry {
	var out []core.Entry
	for _, e := range entries {
		if e.CardID != cardID || e.Method != core.MethodCredit || e.Kind != core.KindExpense {
			continue
		}
		if e.Status == core.StatusInvoiceSettled {
			continue
		}
		if int(e.OccurredAt.Month()) != month || e.OccurredAt.Year() != year {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Liquidate settles one card's statement for a calendar period. On success
// it returns a new snapshot in which every period entry is marked
// invoice_settled and a synthetic completed debit expense for the statement
// total is appended, dated now. The input snapshot is never modified.
func Liquidate(snap core.Snapshot, cardID string, month, year int, now time.Time) (core.Snapshot, error) {
	selected := EntriesForPeriod(snap.Entries, cardID, month, year)
	if len(selected) == 0 {
		return core.Snapshot{}, ErrNoPendingEntries
	}

	var total int64
	settledIDs := make(map[string]bool, len(selected))
	for _, e := range selected {
		total += e.Amount.Cents
		settledIDs[e.ID] = true
	}

	cash := balance.Compute(snap.Entries).Cash
	if cash.Cents < total {
		return core.Snapshot{}, &InsufficientFundsError{
			Required:  core.Money{Cents: total},
			Available: cash,
		}
	}

	payment, err := core.NewEntry(core.EntryInput{
		Description:  fmt.Sprintf("Statement payment %d/%d", month, year),
		AmountCents:  total,
		Kind:         string(core.KindExpense),
		Essentiality: string(core.EssentialityEssential),
		Method:       string(core.MethodDebit),
		OccurredAt:   now,
		CategoryID:   SettlementCategoryID,
		Status:       string(core.StatusCompleted),
	})
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("build settlement entry: %w", err)
	}

	out := snap.Clone()
	for i, e := range out.Entries {
		if settledIDs[e.ID] {
			out.Entries[i] = e.WithStatus(core.StatusInvoiceSettled)
		}
	}
	out.Entries = append(out.Entries, payment)
	return out, nil
}

// AvailableLimit reports how much of the card's limit is still free, given
// its unsettled credit spend. Informational only: the engine never blocks
// an overspend, so the result may go negative.
func AvailableLimit(entries []core.Entry, card core.Card) core.Money {
	var used int64
	for _, e := range entries {
		if e.CardID != card.ID || e.Kind != core.KindExpense || e.Method != core.MethodCredit {
			continue
		}
		if e.Status == core.StatusInvoiceSettled {
			continue
		}
		used += e.Amount.Cents
	}
	return core.Money{Cents: card.Limit.Cents - used}
}
