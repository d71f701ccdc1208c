// Package worker turns settlement events into spreadsheet rows.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"grana/internal/amqp"
	"grana/internal/core"
	"grana/internal/sheets"
)

// SnapshotLoader is the slice of the repository the worker needs: card
// names for the exported rows.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context) (core.Snapshot, error)
}

// ExportWorker appends one row per settled statement to the configured
// statement writer.
type ExportWorker struct {
	repo   SnapshotLoader
	writer sheets.StatementWriter
}

func NewExportWorker(repo SnapshotLoader, writer sheets.StatementWriter) *ExportWorker {
	return &ExportWorker{repo: repo, writer: writer}
}

// HandleSettlement processes a single settlement event. Returning an error
// requeues the event, so only transient failures should propagate; an
// unknown card is exported with a blank name instead of failing forever.
func (w *ExportWorker) HandleSettlement(ctx context.Context, msg *amqp.StatementSettledMessage) error {
	cardName := ""
	snap, err := w.repo.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if card := snap.CardByID(msg.CardID); card != nil {
		cardName = card.Name
	} else {
		slog.WarnContext(ctx, "Settlement event for unknown card", "cardId", msg.CardID)
	}

	rec := sheets.SettlementRecord{
		CardID:     msg.CardID,
		CardName:   cardName,
		Month:      msg.Month,
		Year:       msg.Year,
		TotalCents: msg.TotalCents,
		PaymentID:  msg.PaymentID,
		SettledAt:  msg.Timestamp,
	}

	ref, err := w.writer.AppendSettlement(ctx, rec)
	if err != nil {
		return fmt.Errorf("append settlement row: %w", err)
	}

	slog.InfoContext(ctx, "Exported settlement",
		"cardId", msg.CardID,
		"month", msg.Month,
		"year", msg.Year,
		"totalCents", msg.TotalCents,
		"sheets_ref", ref)

	return nil
}
