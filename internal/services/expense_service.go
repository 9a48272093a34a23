package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Shakib-IO/food-expense-tracker/internal/core"
	"github.com/Shakib-IO/food-expense-tracker/internal/store"
)

// EventPublisher publishes expense lifecycle events. The AMQP client
// satisfies this; a nil publisher disables eventing entirely.
type EventPublisher interface {
	PublishExpenseAdded(ctx context.Context, id int64) error
}

// ExpenseService orchestrates expense writes across the store and the
// event queue.
type ExpenseService struct {
	store     store.ExpenseStore
	publisher EventPublisher
}

func NewExpenseService(st store.ExpenseStore, publisher EventPublisher) *ExpenseService {
	return &ExpenseService{
		store:     st,
		publisher: publisher,
	}
}

// CreateExpense persists the expense and publishes an expense-added
// event. The event is best effort: a publish failure never fails the
// request because the record is already durable.
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	id, err := s.store.Add(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("save expense: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishExpenseAdded(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish expense added event",
				"id", id, "error", err)
		}
	}

	return id, nil
}

// ListExpenses returns the filtered expense list from the store.
func (s *ExpenseService) ListExpenses(ctx context.Context, f core.Filter) ([]core.Expense, error) {
	items, err := s.store.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return items, nil
}

// Totals returns the per-spender sums for the filter.
func (s *ExpenseService) Totals(ctx context.Context, f core.Filter) (core.Totals, error) {
	totals, err := s.store.Totals(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("expense totals: %w", err)
	}
	return totals, nil
}

// Close closes the store and publisher if they hold resources.
func (s *ExpenseService) Close() error {
	var errs []error

	if closer, ok := s.store.(io.Closer); ok && closer != nil {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if closer, ok := s.publisher.(io.Closer); ok && closer != nil {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %v", errs)
	}

	return nil
}
