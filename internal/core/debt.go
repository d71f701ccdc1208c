package core

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AmortizationSystem selects how an installment loan amortizes.
type AmortizationSystem string

const (
	// SystemPrice is fixed-installment amortization: constant payment with
	// a decreasing interest share.
	SystemPrice AmortizationSystem = "price"
	// SystemSAC is constant-amortization: the payment decreases over time.
	SystemSAC AmortizationSystem = "sac"
)

// Debt is one installment loan. It represents external financing, not a
// day-to-day ledger movement, so it has no link to entries.
type Debt struct {
	ID          string             `json:"id"`
	Description string             `json:"description"`
	Total       Money              `json:"totalCents"`
	MonthlyRate decimal.Decimal    `json:"monthlyRate"`
	TermMonths  int                `json:"termMonths"`
	PaidMonths  int                `json:"paidMonths"`
	System      AmortizationSystem `json:"system"`
}

// DebtInput is the loose bag NewDebt validates. MonthlyRate is a decimal
// string in percent per month ("2.5" means 2.5%/month); empty means zero.
type DebtInput struct {
	ID          string
	Description string
	TotalCents  int64
	MonthlyRate string
	TermMonths  int
	PaidMonths  int
	System      string
}

// NewDebt validates the input and returns a well-formed Debt.
func NewDebt(in DebtInput) (Debt, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return Debt{}, &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if in.TotalCents < 0 {
		return Debt{}, &ValidationError{Field: "totalValue", Reason: "must be a non-negative amount in cents"}
	}
	if in.TermMonths < 1 {
		return Debt{}, &ValidationError{Field: "termMonths", Reason: "must be at least 1"}
	}
	if in.PaidMonths < 0 || in.PaidMonths > in.TermMonths {
		return Debt{}, &ValidationError{Field: "paidMonths", Reason: "must be between 0 and termMonths"}
	}

	rate := decimal.Zero
	if s := strings.TrimSpace(in.MonthlyRate); s != "" {
		parsed, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
		if err != nil {
			return Debt{}, &ValidationError{Field: "monthlyRate", Reason: "malformed decimal"}
		}
		if parsed.IsNegative() {
			return Debt{}, &ValidationError{Field: "monthlyRate", Reason: "must not be negative"}
		}
		rate = parsed
	}

	system := AmortizationSystem(strings.ToLower(strings.TrimSpace(in.System)))
	if system == "" {
		system = SystemPrice
	}
	switch system {
	case SystemPrice, SystemSAC:
	default:
		return Debt{}, &ValidationError{Field: "system", Reason: "unknown amortization system " + quote(in.System)}
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}

	return Debt{
		ID:          id,
		Description: desc,
		Total:       Money{Cents: in.TotalCents},
		MonthlyRate: rate,
		TermMonths:  in.TermMonths,
		PaidMonths:  in.PaidMonths,
		System:      system,
	}, nil
}

// RemainingMonths is the number of installments still owed.
func (d Debt) RemainingMonths() int {
	return d.TermMonths - d.PaidMonths
}

// IsActive reports whether anything is still owed on the loan.
func (d Debt) IsActive() bool {
	return d.Total.Cents > 0 && d.PaidMonths < d.TermMonths
}
