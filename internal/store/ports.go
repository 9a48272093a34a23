package store

import (
	"context"

	"github.com/Shakib-IO/food-expense-tracker/internal/core"
)

// Ports for the persistence backends.
type (
	// ExpenseAdder persists a new expense and returns its assigned id.
	// The record is visible to readers as soon as Add returns.
	ExpenseAdder interface {
		Add(ctx context.Context, e core.Expense) (int64, error)
	}

	// ExpenseLister returns expenses matching the filter, ordered by date
	// ascending and, within the same date, by id descending.
	ExpenseLister interface {
		List(ctx context.Context, f core.Filter) ([]core.Expense, error)
	}

	// TotalsReader aggregates matching expenses into per-spender sums.
	TotalsReader interface {
		Totals(ctx context.Context, f core.Filter) (core.Totals, error)
	}

	// ExpenseGetter fetches a single expense by id. Used by the export
	// worker to re-read a record before mirroring it.
	ExpenseGetter interface {
		GetExpense(ctx context.Context, id int64) (core.Expense, error)
	}

	// ExpenseStore is the full capability set the HTTP surface needs.
	ExpenseStore interface {
		ExpenseAdder
		ExpenseLister
		TotalsReader
	}
)
