package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"grana/internal/core"
	"grana/internal/planner"
	"grana/internal/services"
	"grana/internal/statement"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the API's error envelope: a machine code plus a
// human-readable message.
func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": msg,
		},
	})
}

// writeDomainError maps engine errors onto HTTP statuses. Settlement
// conflicts come back as 409 with a typed payload so clients can react to
// each case.
func writeDomainError(w http.ResponseWriter, err error) {
	var insufficient *statement.InsufficientFundsError
	var invalid *core.ValidationError

	switch {
	case errors.Is(err, statement.ErrNoPendingEntries):
		writeError(w, http.StatusConflict, "no_pending_entries", err.Error())
	case errors.As(err, &insufficient):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error": map[string]any{
				"code":           "insufficient_funds",
				"message":        insufficient.Error(),
				"requiredCents":  insufficient.Required.Cents,
				"availableCents": insufficient.Available.Cents,
			},
		})
	case errors.Is(err, planner.ErrGoalExpired):
		writeError(w, http.StatusUnprocessableEntity, "goal_expired", err.Error())
	case errors.Is(err, services.ErrCardNotFound), errors.Is(err, services.ErrDebtNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.As(err, &invalid):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", invalid.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
