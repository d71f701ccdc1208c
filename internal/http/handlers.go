package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"grana/internal/advisor"
	"grana/internal/core"
	applog "grana/internal/log"
)

const summaryCacheKey = "summary"

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if summary, ok := s.summaryCache.Get(summaryCacheKey); ok {
		writeJSON(w, http.StatusOK, summary)
		return
	}

	summary, err := s.svc.Summary(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Summary failed", applog.FieldError, err.Error())
		writeDomainError(w, err)
		return
	}

	s.summaryCache.Set(summaryCacheKey, summary)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleHealthAnalysis(w http.ResponseWriter, r *http.Request) {
	health, err := s.svc.Health(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Health analysis failed", applog.FieldError, err.Error())
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, health)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}

	in, err := req.toInput()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	entry, err := s.svc.AddEntry(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.summaryCache.Delete(summaryCacheKey)

	// Superfluous spends above the advisor's floor carry a nudge about the
	// investment returns forgone.
	alert := advisor.OpportunityCost(entry.Amount, entry.Essentiality)

	writeJSON(w, http.StatusCreated, map[string]any{
		"entry":            entry,
		"opportunityAlert": alert,
	})
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}

	in, err := req.toInput()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	card, err := s.svc.AddCard(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	var req debtRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}

	in, err := req.toInput()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	debt, err := s.svc.AddDebt(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, debt)
}

func (s *Server) handleStatement(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "id")
	month, year := parsePeriodQuery(r.URL.Query())
	if !validPeriod(month, year) {
		writeError(w, http.StatusBadRequest, "bad_request", "month must be 1-12")
		return
	}

	view, err := s.svc.Statement(r.Context(), cardID, month, year)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleLiquidate(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "id")

	var req liquidateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}
	if !validPeriod(req.Month, req.Year) {
		writeError(w, http.StatusBadRequest, "bad_request", "month must be 1-12")
		return
	}

	result, err := s.svc.SettleStatement(r.Context(), cardID, req.Month, req.Year)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.summaryCache.Delete(summaryCacheKey)

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Statement settled",
		applog.NewFields().
			WithStatement(cardID, req.Month, req.Year).
			WithOperation(applog.OpSettle).
			ToSlice()...)

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePayoff(w http.ResponseWriter, r *http.Request) {
	debtID := chi.URLParam(r, "id")

	funds := r.URL.Query().Get("funds")
	cents, err := core.ParseDecimalToCents(funds)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "funds must be a decimal amount")
		return
	}

	sim, err := s.svc.SimulatePayoff(r.Context(), debtID, core.Money{Cents: cents})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sim)
}

func (s *Server) handlePayoffPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.svc.PayoffPlan(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Payoff plan failed", applog.FieldError, err.Error())
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleSetGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}

	target, err := time.Parse("2006-01-02", req.TargetDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "targetDate must be YYYY-MM-DD")
		return
	}

	goal, err := s.svc.SetGoal(r.Context(), target)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := s.svc.Goal(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if goal == nil {
		writeError(w, http.StatusNotFound, "not_found", "no active goal")
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (s *Server) handleGoalFeasibility(w http.ResponseWriter, r *http.Request) {
	freeCash := r.URL.Query().Get("freeCash")
	cents, err := core.ParseDecimalToCents(freeCash)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "freeCash must be a decimal amount")
		return
	}

	feas, err := s.svc.GoalFeasibility(r.Context(), core.Money{Cents: cents})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feas)
}

func (s *Server) handleWeeklyReport(w http.ResponseWriter, r *http.Request) {
	insights, err := s.svc.WeeklyReport(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Weekly report failed", applog.FieldError, err.Error())
		writeDomainError(w, err)
		return
	}
	if insights == nil {
		insights = []advisor.Insight{}
	}
	writeJSON(w, http.StatusOK, insights)
}
