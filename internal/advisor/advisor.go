// Package advisor holds the behavioral heuristics layered on top of the
// ledger: opportunity-cost nudges on superfluous spending and the weekly
// deviation report. Everything here is advisory; nothing feeds back into
// ledger math.
package advisor

import (
	"fmt"
	"math"
	"time"

	"grana/internal/core"
)

// Spends below this are never questioned, whatever their essentiality.
const opportunityCostFloor = 5000 // cents

// Assumed yearly return of the money had it been invested instead.
const assumedAnnualReturn = 0.10

// OpportunityAlert quantifies what a superfluous spend costs in forgone
// returns over five years.
type OpportunityAlert struct {
	Amount         core.Money `json:"amountCents"`
	FutureLoss     core.Money `json:"futureLossCents"`
	HorizonMonths  int        `json:"horizonMonths"`
	AnnualRatePct  float64    `json:"annualRatePct"`
}

// OpportunityCost returns an alert for superfluous spends above the floor,
// nil otherwise. The projection compounds at the assumed annual return; as
// with every advisor figure it is a heuristic, not a promise.
func OpportunityCost(amount core.Money, essentiality core.Essentiality) *OpportunityAlert {
	if essentiality != core.EssentialitySuperfluous || amount.Cents <= opportunityCostFloor {
		return nil
	}

	const horizonMonths = 60
	monthlyRate := math.Pow(1+assumedAnnualReturn, 1.0/12) - 1
	futureValue := float64(amount.Cents) * math.Pow(1+monthlyRate, horizonMonths)
	loss := int64(math.Round(futureValue - float64(amount.Cents)))

	return &OpportunityAlert{
		Amount:        amount,
		FutureLoss:    core.Money{Cents: loss},
		HorizonMonths: horizonMonths,
		AnnualRatePct: assumedAnnualReturn * 100,
	}
}

// Insight is one line of the weekly report.
type Insight struct {
	Title    string `json:"title"`
	Severity string `json:"severity"` // "alert" or "info"
	Message  string `json:"message"`
}

// GoalReminder carries the active goal's numbers into the weekly report.
type GoalReminder struct {
	TargetDate      time.Time
	RequiredMonthly core.Money
}

// A deviation above this fraction of the historical weekly average is
// worth interrupting the user for.
const deviationThreshold = 0.15

// WeeklyReport diagnoses the current week's spending against the trailing
// twelve-week average and restates the goal contribution when a goal is
// active. Returns nil when there is nothing worth saying.
func WeeklyReport(entries []core.Entry, goal *GoalReminder, now time.Time) []Insight {
	if len(entries) == 0 {
		return nil
	}

	weekAgo := now.AddDate(0, 0, -7)
	threeMonthsAgo := now.AddDate(0, 0, -90)

	var currentWeek, history int64
	for _, e := range entries {
		if e.Kind != core.KindExpense {
			continue
		}
		switch {
		case !e.OccurredAt.Before(weekAgo):
			currentWeek += e.Amount.Cents
		case !e.OccurredAt.Before(threeMonthsAgo):
			history += e.Amount.Cents
		}
	}

	var insights []Insight

	// Comparison window is roughly twelve weeks (90 days / 7).
	weeksCount := 90.0 / 7.0
	avgWeekly := float64(history) / weeksCount
	if avgWeekly > 0 && float64(currentWeek) > avgWeekly {
		deviation := (float64(currentWeek) - avgWeekly) / avgWeekly
		if deviation > deviationThreshold {
			insights = append(insights, Insight{
				Title:    "Spending off course",
				Severity: "alert",
				Message: fmt.Sprintf("This week's spend of %d cents is %.0f%% above your twelve-week average of %d cents.",
					currentWeek, deviation*100, int64(math.Round(avgWeekly))),
			})
		}
	}

	if goal != nil {
		insights = append(insights, Insight{
			Title:    "Goal contribution reminder",
			Severity: "info",
			Message: fmt.Sprintf("To be debt-free by %s, keep %d cents free each month.",
				goal.TargetDate.Format("2006-01-02"), goal.RequiredMonthly.Cents),
		})
	}

	return insights
}
