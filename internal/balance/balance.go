// Package balance computes the ledger's read-only projections: cash-basis
// balance, accrued credit liabilities, invested assets and net worth.
//
// Every function here is pure and order-independent over its input. The
// package never reads ambient state, never logs and never performs I/O.
package balance

import (
	"math"
	"time"

	"grana/internal/core"
)

// Summary is the full financial panorama over one snapshot, in cents.
type Summary struct {
	Cash        core.Money `json:"cashCents"`
	Liabilities core.Money `json:"liabilitiesCents"`
	Invested    core.Money `json:"investedCents"`
	NetWorth    core.Money `json:"netWorthCents"`
}

// Compute walks the entries once and classifies each by two independent
// questions: does it move cash now, and is it an open credit liability.
//
// Credit purchases never touch cash here; the statement settlement appends
// a separate debit entry for the payment, which prevents double counting.
func Compute(entries []core.Entry) Summary {
	var cash, liabilities, invested int64

	for _, e := range entries {
		if e.AffectsCash() {
			switch e.Kind {
			case core.KindIncome:
				cash += e.Amount.Cents
			case core.KindExpense:
				cash -= e.Amount.Cents
			case core.KindInvestment:
				// Leaves the wallet but stays on the balance sheet.
				cash -= e.Amount.Cents
				invested += e.Amount.Cents
			}
		}

		if e.IsOpenCreditExpense() {
			liabilities += e.Amount.Cents
		}
	}

	return Summary{
		Cash:        core.Money{Cents: cash},
		Liabilities: core.Money{Cents: liabilities},
		Invested:    core.Money{Cents: invested},
		NetWorth:    core.Money{Cents: cash + invested - liabilities},
	}
}

// SurvivalUnbounded is reported when there is no essential spend to burn
// through, so "days of survival" has no meaningful upper bound.
const SurvivalUnbounded = 9999

// Health is the runway estimate. It is a heuristic, not an accounting
// figure: the daily burn is extrapolated from whatever date range the
// essential expenses happen to cover.
type Health struct {
	MonthlyBurn  core.Money `json:"monthlyBurnCents"`
	SurvivalDays int        `json:"survivalDays"`
}

// AnalyzeHealth estimates how long the given cash lasts at the current
// essential burn rate. Entries that are not essential expenses are ignored.
func AnalyzeHealth(entries []core.Entry, cash core.Money) Health {
	var total int64
	var minDate, maxDate time.Time
	found := false

	for _, e := range entries {
		if e.Kind != core.KindExpense || e.Essentiality != core.EssentialityEssential {
			continue
		}
		total += e.Amount.Cents
		if !found || e.OccurredAt.Before(minDate) {
			minDate = e.OccurredAt
		}
		if !found || e.OccurredAt.After(maxDate) {
			maxDate = e.OccurredAt
		}
		found = true
	}

	if !found {
		return Health{SurvivalDays: SurvivalUnbounded}
	}

	// Floor the span at one day so a single day of data does not divide by
	// zero. Short spans still distort the estimate; that is accepted.
	spanDays := maxDate.Sub(minDate).Hours() / 24
	if spanDays < 1 {
		spanDays = 1
	}
	dailyBurn := float64(total) / spanDays

	survival := SurvivalUnbounded
	if dailyBurn > 0 {
		survival = int(math.Floor(float64(cash.Cents) / dailyBurn))
	}

	return Health{
		MonthlyBurn:  core.Money{Cents: int64(math.Round(dailyBurn * 30))},
		SurvivalDays: survival,
	}
}
