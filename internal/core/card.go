package core

import (
	"strings"

	"github.com/google/uuid"
)

// Card describes one credit instrument: its limit and billing-cycle
// geometry. The limit is informational; the engine reports overspend, it
// does not block it.
type Card struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Limit      Money  `json:"limitCents"`
	ClosingDay int    `json:"closingDay"`
	DueDay     int    `json:"dueDay"`
	Active     bool   `json:"active"`
	Color      string `json:"color,omitempty"`
	Icon       string `json:"icon,omitempty"`
}

// CardInput is the loose bag NewCard validates.
type CardInput struct {
	ID         string
	Name       string
	LimitCents int64
	ClosingDay int
	DueDay     int
	Active     *bool
	Color      string
	Icon       string
}

// NewCard validates the input and returns a well-formed Card.
func NewCard(in CardInput) (Card, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Card{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if in.LimitCents < 0 {
		return Card{}, &ValidationError{Field: "creditLimit", Reason: "must be a non-negative amount in cents"}
	}
	if in.ClosingDay < 1 || in.ClosingDay > 31 {
		return Card{}, &ValidationError{Field: "closingDay", Reason: "must be between 1 and 31"}
	}
	if in.DueDay < 1 || in.DueDay > 31 {
		return Card{}, &ValidationError{Field: "dueDay", Reason: "must be between 1 and 31"}
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}

	return Card{
		ID:         id,
		Name:       name,
		Limit:      Money{Cents: in.LimitCents},
		ClosingDay: in.ClosingDay,
		DueDay:     in.DueDay,
		Active:     active,
		Color:      strings.TrimSpace(in.Color),
		Icon:       strings.TrimSpace(in.Icon),
	}, nil
}
