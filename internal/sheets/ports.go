package sheets

import (
	"context"
	"time"
)

// SettlementRecord is one exported row: a settled card statement.
type SettlementRecord struct {
	CardID     string
	CardName   string
	Month      int
	Year       int
	TotalCents int64
	PaymentID  string
	SettledAt  time.Time
}

// Ports for outbound adapters.
type (
	StatementWriter interface {
		AppendSettlement(ctx context.Context, rec SettlementRecord) (rowRef string, err error)
	}
)
