// Package amortize computes present values and payoff strategies for
// structured debts. Rates and intermediate math use decimals; every result
// that is money comes back rounded to whole cents.
package amortize

import (
	"sort"

	"github.com/shopspring/decimal"

	"grana/internal/core"
)

// CardRevolvingRate is the assumed monthly rate for open card balances when
// they are ranked against structured debts. Revolving credit is priced as
// the most expensive debt in the book.
var CardRevolvingRate = decimal.NewFromInt(12)

const divScale = 16

var one = decimal.NewFromInt(1)

// ratio is the debt's monthly rate as a fraction (2.5%/month -> 0.025).
func ratio(d core.Debt) decimal.Decimal {
	return d.MonthlyRate.DivRound(decimal.NewFromInt(100), divScale)
}

// priceInstallment is the fixed payment of a Price-system loan:
// pmt = total * i / (1 - (1+i)^-term). Only valid for a positive rate.
func priceInstallment(d core.Debt) decimal.Decimal {
	i := ratio(d)
	total := decimal.NewFromInt(d.Total.Cents)
	compound := one.Add(i).Pow(decimal.NewFromInt(int64(d.TermMonths)))
	factor := one.Sub(one.DivRound(compound, divScale))
	return total.Mul(i).DivRound(factor, divScale)
}

// straightLineRemaining is principal left under linear amortization.
func straightLineRemaining(d core.Debt) decimal.Decimal {
	total := decimal.NewFromInt(d.Total.Cents)
	perMonth := total.DivRound(decimal.NewFromInt(int64(d.TermMonths)), divScale)
	return total.Sub(perMonth.Mul(decimal.NewFromInt(int64(d.PaidMonths))))
}

// OutstandingBalance is the present value of the remaining installments,
// in cents. Zero-rate loans amortize straight-line; positive-rate Price
// loans discount the remaining fixed installments. SAC loans fall back to
// straight-line remaining principal, which for SAC is exact on principal
// and ignores only the interest still to accrue.
func OutstandingBalance(d core.Debt) core.Money {
	if d.MonthlyRate.IsZero() || d.System == core.SystemSAC {
		return core.Money{Cents: straightLineRemaining(d).Round(0).IntPart()}
	}

	i := ratio(d)
	pmt := priceInstallment(d)
	remaining := d.RemainingMonths()
	compound := one.Add(i).Pow(decimal.NewFromInt(int64(remaining)))
	pv := pmt.Mul(one.Sub(one.DivRound(compound, divScale))).DivRound(i, divScale)
	return core.Money{Cents: pv.Round(0).IntPart()}
}

// PayoffSimulation is the outcome of throwing a lump sum at the tail of a
// loan.
type PayoffSimulation struct {
	InstallmentsEliminated int             `json:"installmentsEliminated"`
	InterestSaved          core.Money      `json:"interestSavedCents"`
	NewRemainingTerm       int             `json:"newRemainingTerm"`
	ReturnOnCash           decimal.Decimal `json:"returnOnCashPercent"`
	FundsSpent             core.Money      `json:"fundsSpentCents"`
}

// SimulateEarlyPayoff walks the remaining installments from the last one
// backward, eliminating each whole installment whose present value the
// available funds still cover. Partial prepayment of a single installment
// is not modeled: the walk stops at the first installment that cannot be
// fully covered.
func SimulateEarlyPayoff(d core.Debt, available core.Money) PayoffSimulation {
	remaining := d.RemainingMonths()
	if remaining == 0 || d.Total.Cents == 0 || available.Cents <= 0 {
		return PayoffSimulation{NewRemainingTerm: remaining, ReturnOnCash: decimal.Zero}
	}

	i := ratio(d)
	var pmt decimal.Decimal
	if i.IsZero() {
		pmt = decimal.NewFromInt(d.Total.Cents).DivRound(decimal.NewFromInt(int64(d.TermMonths)), divScale)
	} else {
		pmt = priceInstallment(d)
	}

	funds := decimal.NewFromInt(available.Cents)
	saved := decimal.Zero
	eliminated := 0

	for k := remaining; k >= 1; k-- {
		pv := pmt
		if !i.IsZero() {
			compound := one.Add(i).Pow(decimal.NewFromInt(int64(k)))
			pv = pmt.DivRound(compound, divScale)
		}
		if funds.LessThan(pv) {
			break
		}
		funds = funds.Sub(pv)
		eliminated++
		saved = saved.Add(pmt.Sub(pv))
	}

	spent := decimal.NewFromInt(available.Cents).Sub(funds)
	returnOnCash := decimal.Zero
	if spent.IsPositive() {
		returnOnCash = saved.DivRound(spent, divScale).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return PayoffSimulation{
		InstallmentsEliminated: eliminated,
		InterestSaved:          core.Money{Cents: saved.Round(0).IntPart()},
		NewRemainingTerm:       remaining - eliminated,
		ReturnOnCash:           returnOnCash,
		FundsSpent:             core.Money{Cents: spent.Round(0).IntPart()},
	}
}

// PayoffItem is one debt in a payoff plan: either a structured loan or one
// card's open revolving balance modeled as a pseudo-debt.
type PayoffItem struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Source      string          `json:"source"` // "loan" or "card"
	Outstanding core.Money      `json:"outstandingCents"`
	MonthlyRate decimal.Decimal `json:"monthlyRate"`
	MinPayment  core.Money      `json:"minPaymentCents"`
}

// PayoffPlan exposes both classic orderings. ByInterestRate (avalanche)
// minimizes total interest paid; ByBalance (snowball) front-loads small
// wins. The engine ranks, the caller chooses.
type PayoffPlan struct {
	ByInterestRate []PayoffItem `json:"byInterestRate"`
	ByBalance      []PayoffItem `json:"byBalance"`
}

// RankPayoffPriority merges active structured debts with each card's open
// credit balance and returns both orderings. Cards are priced at
// CardRevolvingRate, so they typically rank first under avalanche.
func RankPayoffPriority(debts []core.Debt, cards []core.Card, entries []core.Entry) PayoffPlan {
	var items []PayoffItem

	for _, d := range debts {
		if !d.IsActive() {
			continue
		}
		minPayment := decimal.NewFromInt(d.Total.Cents).
			DivRound(decimal.NewFromInt(int64(d.TermMonths)), divScale).
			Round(0).IntPart()
		items = append(items, PayoffItem{
			ID:          d.ID,
			Description: d.Description,
			Source:      "loan",
			Outstanding: OutstandingBalance(d),
			MonthlyRate: d.MonthlyRate,
			MinPayment:  core.Money{Cents: minPayment},
		})
	}

	for _, c := range cards {
		var open int64
		for _, e := range entries {
			if e.CardID != c.ID || e.Kind != core.KindExpense || e.Method != core.MethodCredit {
				continue
			}
			if e.Status == core.StatusInvoiceSettled {
				continue
			}
			open += e.Amount.Cents
		}
		if open == 0 {
			continue
		}
		items = append(items, PayoffItem{
			ID:          c.ID,
			Description: "Statement " + c.Name,
			Source:      "card",
			Outstanding: core.Money{Cents: open},
			MonthlyRate: CardRevolvingRate,
			// Revolving balances should be cleared in full.
			MinPayment: core.Money{Cents: open},
		})
	}

	byRate := make([]PayoffItem, len(items))
	copy(byRate, items)
	sort.SliceStable(byRate, func(a, b int) bool {
		return byRate[a].MonthlyRate.GreaterThan(byRate[b].MonthlyRate)
	})

	byBalance := make([]PayoffItem, len(items))
	copy(byBalance, items)
	sort.SliceStable(byBalance, func(a, b int) bool {
		return byBalance[a].Outstanding.Cents < byBalance[b].Outstanding.Cents
	})

	return PayoffPlan{ByInterestRate: byRate, ByBalance: byBalance}
}
