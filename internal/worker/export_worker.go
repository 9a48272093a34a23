package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Shakib-IO/food-expense-tracker/internal/amqp"
	"github.com/Shakib-IO/food-expense-tracker/internal/core"
)

// ExpenseSource is the slice of the store the export worker needs: read
// a record by id and track which records have been mirrored.
type ExpenseSource interface {
	GetExpense(ctx context.Context, id int64) (core.Expense, error)
	GetPendingExport(ctx context.Context, limit int) ([]int64, error)
	MarkExported(ctx context.Context, id int64) error
}

// SheetAppender mirrors a single expense to the shared sheet.
type SheetAppender interface {
	AppendExpense(ctx context.Context, e core.Expense) (string, error)
}

// ExportWorker pushes recorded expenses to the shared Google Sheet.
type ExportWorker struct {
	source    ExpenseSource
	sheet     SheetAppender
	batchSize int
}

func NewExportWorker(source ExpenseSource, sheet SheetAppender, batchSize int) *ExportWorker {
	return &ExportWorker{
		source:    source,
		sheet:     sheet,
		batchSize: batchSize,
	}
}

// HandleExpenseAdded processes a single expense-added event from AMQP.
func (w *ExportWorker) HandleExpenseAdded(ctx context.Context, msg *amqp.ExpenseAddedMessage) error {
	slog.InfoContext(ctx, "Processing expense added message", "id", msg.ID)
	return w.exportExpense(ctx, msg.ID)
}

// ProcessPending exports expenses that were never mirrored. Backup path
// for events lost while the worker or the broker was down.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	ids, err := w.source.GetPendingExport(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending expenses: %w", err)
	}

	if len(ids) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending expenses", "count", len(ids))

	for _, id := range ids {
		if err := w.exportExpense(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to export expense", "id", id, "error", err)
			continue
		}
	}

	return nil
}

// StartupCheck drains a larger pending backlog once at worker startup.
func (w *ExportWorker) StartupCheck(ctx context.Context) error {
	ids, err := w.source.GetPendingExport(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending expenses for startup check: %w", err)
	}

	if len(ids) == 0 {
		slog.InfoContext(ctx, "No pending expenses found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending expenses on startup, processing...", "count", len(ids))

	successCount := 0
	errorCount := 0
	for _, id := range ids {
		if err := w.exportExpense(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to export expense during startup", "id", id, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup export completed",
		"total", len(ids),
		"exported", successCount,
		"errors", errorCount)

	return nil
}

func (w *ExportWorker) exportExpense(ctx context.Context, id int64) error {
	expense, err := w.source.GetExpense(ctx, id)
	if err != nil {
		return fmt.Errorf("get expense from storage: %w", err)
	}

	ref, err := w.sheet.AppendExpense(ctx, expense)
	if err != nil {
		return fmt.Errorf("append to sheet: %w", err)
	}

	if err := w.source.MarkExported(ctx, id); err != nil {
		// The export itself worked; log and carry on so the row is not
		// lost, even though it may be appended twice later.
		slog.ErrorContext(ctx, "Failed to mark expense as exported", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Exported expense",
		"id", id,
		"sheets_ref", ref,
		"spender", expense.Spender,
		"amount", expense.Amount)

	return nil
}
