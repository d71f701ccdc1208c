package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// EntryKind classifies the direction of a ledger movement.
type EntryKind string

const (
	KindIncome     EntryKind = "income"
	KindExpense    EntryKind = "expense"
	KindTransfer   EntryKind = "transfer"
	KindInvestment EntryKind = "investment"
)

// Essentiality grades how negotiable a spend is. It drives advisory
// heuristics only, never ledger math.
type Essentiality string

const (
	EssentialityEssential   Essentiality = "essential"
	EssentialityNecessary   Essentiality = "necessary"
	EssentialitySuperfluous Essentiality = "superfluous"
)

// SettlementMethod says how an entry was paid.
type SettlementMethod string

const (
	MethodCash   SettlementMethod = "cash"
	MethodDebit  SettlementMethod = "debit"
	MethodCredit SettlementMethod = "credit"
)

// EntryStatus tracks an entry through the statement lifecycle. The only
// transition this core performs is pending/completed -> invoice_settled,
// done by the statement package on liquidation.
type EntryStatus string

const (
	StatusPending        EntryStatus = "pending"
	StatusCompleted      EntryStatus = "completed"
	StatusInvoiceSettled EntryStatus = "invoice_settled"
)

// DefaultCategoryID tags entries the user never categorized.
const DefaultCategoryID = "uncategorized"

// Entry is one immutable ledger line. Build it with NewEntry; an update is
// a replacement value carrying the same ID.
type Entry struct {
	ID           string           `json:"id"`
	Description  string           `json:"description"`
	Amount       Money            `json:"amountCents"`
	Kind         EntryKind        `json:"kind"`
	Essentiality Essentiality     `json:"essentiality"`
	Method       SettlementMethod `json:"method"`
	OccurredAt   time.Time        `json:"occurredAt"`
	CategoryID   string           `json:"categoryId"`
	CardID       string           `json:"cardId,omitempty"`
	Status       EntryStatus      `json:"status"`
}

// EntryInput is the loose bag NewEntry validates. Zero values get the
// documented defaults where one exists.
type EntryInput struct {
	ID           string
	Description  string
	AmountCents  int64
	Kind         string
	Essentiality string
	Method       string
	OccurredAt   time.Time
	CategoryID   string
	CardID       string
	Status       string
}

// NewEntry validates the input and returns a well-formed Entry, or a
// *ValidationError naming the offending field.
func NewEntry(in EntryInput) (Entry, error) {
	desc := strings.TrimSpace(in.Description)
	if len(desc) < 3 {
		return Entry{}, &ValidationError{Field: "description", Reason: "must be at least 3 characters"}
	}
	if in.AmountCents < 0 {
		return Entry{}, &ValidationError{Field: "amount", Reason: "must be a non-negative amount in cents"}
	}

	kind := EntryKind(strings.TrimSpace(in.Kind))
	switch kind {
	case KindIncome, KindExpense, KindTransfer, KindInvestment:
	default:
		return Entry{}, &ValidationError{Field: "kind", Reason: "unknown kind " + quote(in.Kind)}
	}

	ess := Essentiality(strings.TrimSpace(in.Essentiality))
	if ess == "" {
		ess = EssentialityNecessary
	}
	switch ess {
	case EssentialityEssential, EssentialityNecessary, EssentialitySuperfluous:
	default:
		return Entry{}, &ValidationError{Field: "essentiality", Reason: "unknown essentiality " + quote(in.Essentiality)}
	}

	method := SettlementMethod(strings.TrimSpace(in.Method))
	switch method {
	case MethodCash, MethodDebit, MethodCredit:
	default:
		return Entry{}, &ValidationError{Field: "method", Reason: "unknown settlement method " + quote(in.Method)}
	}

	if in.OccurredAt.IsZero() {
		return Entry{}, &ValidationError{Field: "occurredAt", Reason: "missing or unparseable timestamp"}
	}

	cardID := strings.TrimSpace(in.CardID)
	if method == MethodCredit && cardID == "" {
		return Entry{}, &ValidationError{Field: "cardId", Reason: "required for credit entries"}
	}
	if method != MethodCredit && cardID != "" {
		return Entry{}, &ValidationError{Field: "cardId", Reason: "only allowed on credit entries"}
	}

	status := EntryStatus(strings.TrimSpace(in.Status))
	if status == "" {
		status = StatusCompleted
	}
	switch status {
	case StatusPending, StatusCompleted, StatusInvoiceSettled:
	default:
		return Entry{}, &ValidationError{Field: "status", Reason: "unknown status " + quote(in.Status)}
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}

	category := strings.TrimSpace(in.CategoryID)
	if category == "" {
		category = DefaultCategoryID
	}

	return Entry{
		ID:           id,
		Description:  desc,
		Amount:       Money{Cents: in.AmountCents},
		Kind:         kind,
		Essentiality: ess,
		Method:       method,
		OccurredAt:   in.OccurredAt,
		CategoryID:   category,
		CardID:       cardID,
		Status:       status,
	}, nil
}

// WithStatus returns a copy of the entry with a different status. The
// receiver is never modified.
func (e Entry) WithStatus(status EntryStatus) Entry {
	e.Status = status
	return e
}

// AffectsCash reports whether the entry moves real money right now.
// Credit purchases do not: cash only leaves when the statement is settled,
// via the synthetic debit entry the liquidation appends.
func (e Entry) AffectsCash() bool {
	return e.Method == MethodCash || e.Method == MethodDebit
}

// IsOpenCreditExpense reports whether the entry is spend already made on
// credit but not yet paid to the issuer.
func (e Entry) IsOpenCreditExpense() bool {
	return e.Kind == KindExpense &&
		e.Method == MethodCredit &&
		e.Status != StatusInvoiceSettled &&
		e.Status != StatusCompleted
}

func quote(s string) string {
	return "\"" + strings.TrimSpace(s) + "\""
}
