package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"grana/internal/core"
)

// Request bodies accept amounts as decimal strings ("12.34" or "12,34");
// the boundary converts them to cents before anything touches the engines.

type entryRequest struct {
	Description  string `json:"description"`
	Amount       string `json:"amount"`
	Kind         string `json:"kind"`
	Essentiality string `json:"essentiality"`
	Method       string `json:"method"`
	CardID       string `json:"cardId"`
	CategoryID   string `json:"categoryId"`
	OccurredAt   string `json:"occurredAt"`
	Status       string `json:"status"`
}

func (req entryRequest) toInput() (core.EntryInput, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.EntryInput{}, err
	}

	occurredAt := time.Now()
	if strings.TrimSpace(req.OccurredAt) != "" {
		occurredAt, err = time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			return core.EntryInput{}, &core.ValidationError{Field: "occurredAt", Reason: "must be RFC 3339"}
		}
	}

	return core.EntryInput{
		Description:  req.Description,
		AmountCents:  cents,
		Kind:         req.Kind,
		Essentiality: req.Essentiality,
		Method:       req.Method,
		CardID:       req.CardID,
		CategoryID:   req.CategoryID,
		OccurredAt:   occurredAt,
		Status:       req.Status,
	}, nil
}

type cardRequest struct {
	Name       string `json:"name"`
	Limit      string `json:"limit"`
	ClosingDay int    `json:"closingDay"`
	DueDay     int    `json:"dueDay"`
	Color      string `json:"color"`
	Icon       string `json:"icon"`
}

func (req cardRequest) toInput() (core.CardInput, error) {
	cents, err := core.ParseDecimalToCents(req.Limit)
	if err != nil {
		return core.CardInput{}, &core.ValidationError{Field: "limit", Reason: "must be a decimal amount"}
	}
	return core.CardInput{
		Name:       req.Name,
		LimitCents: cents,
		ClosingDay: req.ClosingDay,
		DueDay:     req.DueDay,
		Color:      req.Color,
		Icon:       req.Icon,
	}, nil
}

type debtRequest struct {
	Description string `json:"description"`
	Total       string `json:"total"`
	MonthlyRate string `json:"monthlyRate"`
	TermMonths  int    `json:"termMonths"`
	PaidMonths  int    `json:"paidMonths"`
	System      string `json:"system"`
}

func (req debtRequest) toInput() (core.DebtInput, error) {
	cents, err := core.ParseDecimalToCents(req.Total)
	if err != nil {
		return core.DebtInput{}, &core.ValidationError{Field: "total", Reason: "must be a decimal amount"}
	}
	return core.DebtInput{
		Description: req.Description,
		TotalCents:  cents,
		MonthlyRate: req.MonthlyRate,
		TermMonths:  req.TermMonths,
		PaidMonths:  req.PaidMonths,
		System:      req.System,
	}, nil
}

type liquidateRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

type goalRequest struct {
	TargetDate string `json:"targetDate"` // "2006-01-02"
}

const maxBodyBytes = 1 << 20

// decodeJSON strictly decodes a JSON body into dst. Unknown fields are
// rejected so typos surface as 400s instead of silent zero values.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// A second document after the first is a malformed request too.
	if dec.More() {
		return errors.New("unexpected trailing data")
	}
	return nil
}

// parsePeriodQuery extracts month and year, defaulting to the current
// calendar month.
func parsePeriodQuery(query url.Values) (month, year int) {
	now := time.Now()
	month, year = int(now.Month()), now.Year()

	if v := strings.TrimSpace(query.Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			month = m
		}
	}
	if v := strings.TrimSpace(query.Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	return month, year
}

func validPeriod(month, year int) bool {
	return month >= 1 && month <= 12 && year >= 1970 && year <= 9999
}
