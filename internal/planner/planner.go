// Package planner implements reverse budgeting: given a target debt-free
// date, how much must go toward debt each month, and does the free cash
// flow actually cover it.
package planner

import (
	"errors"
	"math"
	"time"

	"grana/internal/core"
)

// ErrGoalExpired marks a target date that is not in the future. It is an
// expected planning outcome, not a failure: callers usually prompt for a
// new date instead of reporting an error.
var ErrGoalExpired = errors.New("goal target date is not in the future")

// Goal is the debt-free goal the user committed to. There is at most one
// active goal; setting a new one replaces it.
type Goal struct {
	ID         string     `json:"id"`
	TargetDate time.Time  `json:"targetDate"`
	StartDebt  core.Money `json:"startDebtCents"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Feasibility compares the required monthly contribution with the monthly
// free cash. Deficit is zero when the plan is feasible.
type Feasibility struct {
	Feasible bool       `json:"feasible"`
	Required core.Money `json:"requiredCents"`
	Deficit  core.Money `json:"deficitCents"`
}

// monthsRemaining approximates months as 30-day blocks, rounded up, so a
// goal 31 days out still demands two monthly contributions.
func monthsRemaining(now, target time.Time) (int, error) {
	if !target.After(now) {
		return 0, ErrGoalExpired
	}
	days := int(math.Ceil(target.Sub(now).Hours() / 24))
	months := (days + 29) / 30
	if months < 1 {
		months = 1
	}
	return months, nil
}

// RequiredMonthlyContribution is the ceiling division of the current total
// debt over the months left until the target date. Returns ErrGoalExpired
// when the target is not in the future.
func RequiredMonthlyContribution(now, target time.Time, totalDebt core.Money) (core.Money, error) {
	months, err := monthsRemaining(now, target)
	if err != nil {
		return core.Money{}, err
	}
	required := (totalDebt.Cents + int64(months) - 1) / int64(months)
	return core.Money{Cents: required}, nil
}

// CheckFeasibility reports whether the monthly free cash covers the
// required contribution, and by how much it falls short when it does not.
// Pure; no side effects.
func CheckFeasibility(now, target time.Time, monthlyFreeCash, totalDebt core.Money) (Feasibility, error) {
	required, err := RequiredMonthlyContribution(now, target, totalDebt)
	if err != nil {
		return Feasibility{}, err
	}
	if monthlyFreeCash.Cents < required.Cents {
		return Feasibility{
			Feasible: false,
			Required: required,
			Deficit:  core.Money{Cents: required.Cents - monthlyFreeCash.Cents},
		}, nil
	}
	return Feasibility{Feasible: true, Required: required}, nil
}
