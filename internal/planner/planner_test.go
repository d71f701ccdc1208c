package planner

import (
	"errors"
	"testing"
	"time"

	"grana/internal/core"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestRequiredMonthlyContribution(t *testing.T) {
	cases := []struct {
		name   string
		target time.Time
		debt   int64
		want   int64
	}{
		{"two 30-day blocks", now.AddDate(0, 0, 60), 600000, 300000},
		{"31 days needs two months", now.AddDate(0, 0, 31), 600000, 300000},
		{"ceiling division on cents", now.AddDate(0, 0, 60), 100001, 50001},
		{"under a month still demands one", now.AddDate(0, 0, 10), 90000, 90000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := RequiredMonthlyContribution(now, tc.target, core.Money{Cents: tc.debt})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Cents != tc.want {
				t.Errorf("expected %d, got %d", tc.want, got.Cents)
			}
		})
	}
}

func TestRequiredMonthlyContributionExpired(t *testing.T) {
	for _, target := range []time.Time{now, now.AddDate(0, 0, -1)} {
		_, err := RequiredMonthlyContribution(now, target, core.Money{Cents: 1000})
		if !errors.Is(err, ErrGoalExpired) {
			t.Errorf("target %s: expected ErrGoalExpired, got %v", target, err)
		}
	}
}

func TestCheckFeasibility(t *testing.T) {
	target := now.AddDate(0, 0, 60) // two months out

	t.Run("feasible", func(t *testing.T) {
		got, err := CheckFeasibility(now, target, core.Money{Cents: 350000}, core.Money{Cents: 600000})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Feasible || got.Deficit.Cents != 0 {
			t.Errorf("expected feasible with no deficit, got %+v", got)
		}
		if got.Required.Cents != 300000 {
			t.Errorf("expected required 300000, got %d", got.Required.Cents)
		}
	})

	t.Run("unfeasible reports the shortfall", func(t *testing.T) {
		got, err := CheckFeasibility(now, target, core.Money{Cents: 200000}, core.Money{Cents: 600000})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Feasible {
			t.Error("expected unfeasible plan")
		}
		if got.Deficit.Cents != 100000 {
			t.Errorf("expected deficit 100000, got %d", got.Deficit.Cents)
		}
	})

	t.Run("expired goal", func(t *testing.T) {
		_, err := CheckFeasibility(now, now.AddDate(0, 0, -5), core.Money{}, core.Money{})
		if !errors.Is(err, ErrGoalExpired) {
			t.Errorf("expected ErrGoalExpired, got %v", err)
		}
	})
}
