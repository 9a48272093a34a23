// Package memory provides an in-memory expense store used as the
// development backend and in tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Shakib-IO/food-expense-tracker/internal/core"
)

type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []core.Expense
}

func New() *Store {
	return &Store{nextID: 1}
}

// Add stores the expense and returns the assigned id. Ids are unique and
// strictly increasing across the lifetime of the store.
func (s *Store) Add(_ context.Context, e core.Expense) (int64, error) {
	if err := e.Date.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextID
	s.nextID++
	s.items = append(s.items, e)
	return e.ID, nil
}

// List returns matching expenses ordered by date ascending, then id
// descending among entries sharing a date.
func (s *Store) List(_ context.Context, f core.Filter) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Expense
	for _, e := range s.items {
		if f.Match(e.Date) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.Before(out[j].Date.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Totals sums matching expenses per spender. Spenders without a matching
// expense are absent from the result.
func (s *Store) Totals(_ context.Context, f core.Filter) (core.Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := make(core.Totals)
	for _, e := range s.items {
		if f.Match(e.Date) {
			totals[e.Spender] += e.Amount
		}
	}
	return totals, nil
}

// GetExpense fetches a single expense by id.
func (s *Store) GetExpense(_ context.Context, id int64) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.items {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Expense{}, fmt.Errorf("expense %d not found", id)
}
