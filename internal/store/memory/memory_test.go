package memory

import (
	"context"
	"testing"

	"github.com/Shakib-IO/food-expense-tracker/internal/core"
)

func add(t *testing.T, s *Store, spender, date, shop string, amount float64) int64 {
	t.Helper()
	d, err := core.ParseDate(date)
	if err != nil {
		t.Fatalf("parse date %q: %v", date, err)
	}
	id, err := s.Add(context.Background(), core.Expense{
		Spender: spender,
		Date:    d,
		Shop:    shop,
		Amount:  amount,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	return id
}

func TestAddAssignsIncreasingIDs(t *testing.T) {
	s := New()
	var prev int64
	for i := 0; i < 5; i++ {
		id := add(t, s, core.SpenderShakib, "2024-03-05", "Costco", 10)
		if id <= prev {
			t.Fatalf("id %d not greater than previous %d", id, prev)
		}
		prev = id
	}
}

func TestAddRejectsZeroDate(t *testing.T) {
	s := New()
	if _, err := s.Add(context.Background(), core.Expense{Spender: "Shakib"}); err == nil {
		t.Fatal("expected error for zero date")
	}
}

func TestListFilterComponents(t *testing.T) {
	s := New()
	add(t, s, core.SpenderShakib, "2024-03-05", "Costco", 100)
	add(t, s, core.SpenderJunit, "2024-03-10", "Walmart", 20)
	add(t, s, core.SpenderShakib, "2023-03-15", "Amazon", 30)
	add(t, s, core.SpenderJunit, "2024-04-05", "Mizan", 40)

	cases := []struct {
		name string
		f    core.Filter
		want int
	}{
		{"no filter", core.Filter{}, 4},
		{"year only", core.Filter{Year: 2024}, 3},
		{"year and month", core.Filter{Year: 2024, Month: 3}, 2},
		{"month across years", core.Filter{Month: 3}, 3},
		{"day across months", core.Filter{Day: 5}, 3},
		{"exact day", core.Filter{Year: 2024, Month: 3, Day: 5}, 1},
		{"no match", core.Filter{Year: 2020}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.List(context.Background(), tc.f)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != tc.want {
				t.Fatalf("got %d entries, want %d", len(got), tc.want)
			}
			for _, e := range got {
				if !tc.f.Match(e.Date) {
					t.Fatalf("entry %d (%s) does not match filter %+v", e.ID, e.Date.ISO(), tc.f)
				}
			}
		})
	}
}

func TestListOrdering(t *testing.T) {
	s := New()
	first := add(t, s, core.SpenderShakib, "2024-03-10", "Costco", 10)
	second := add(t, s, core.SpenderJunit, "2024-03-05", "Walmart", 20)
	third := add(t, s, core.SpenderShakib, "2024-03-10", "Amazon", 30)

	got, err := s.List(context.Background(), core.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// Date ascending; the two 03-10 entries newest-first by id.
	wantIDs := []int64{second, third, first}
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d entries, want %d", len(got), len(wantIDs))
	}
	for i, e := range got {
		if e.ID != wantIDs[i] {
			t.Fatalf("position %d: got id %d, want %d", i, e.ID, wantIDs[i])
		}
	}
}

func TestTotals(t *testing.T) {
	s := New()
	add(t, s, core.SpenderShakib, "2024-03-05", "Costco", 100)
	add(t, s, core.SpenderShakib, "2024-03-20", "Amazon", 25.5)
	add(t, s, core.SpenderJunit, "2024-03-10", "Walmart", 20)
	add(t, s, core.SpenderJunit, "2023-12-01", "Mizan", 99)

	totals, err := s.Totals(context.Background(), core.Filter{Year: 2024, Month: 3})
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("got %d spenders, want 2", len(totals))
	}
	if totals[core.SpenderShakib] != 125.5 {
		t.Fatalf("Shakib total: got %v", totals[core.SpenderShakib])
	}
	if totals[core.SpenderJunit] != 20 {
		t.Fatalf("Junit total: got %v", totals[core.SpenderJunit])
	}
}

func TestTotalsOmitsSpendersWithoutMatches(t *testing.T) {
	s := New()
	add(t, s, core.SpenderShakib, "2024-03-05", "Costco", 100)

	totals, err := s.Totals(context.Background(), core.Filter{Year: 2024})
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if _, present := totals[core.SpenderJunit]; present {
		t.Fatal("spender with no matching records must be absent, not zero")
	}
}

// Totals must equal the per-spender sums over List for any filter.
func TestTotalsConsistentWithList(t *testing.T) {
	s := New()
	add(t, s, core.SpenderShakib, "2024-03-05", "Costco", 100)
	add(t, s, core.SpenderJunit, "2024-03-10", "Walmart", 20)
	add(t, s, core.SpenderShakib, "2023-03-15", "Amazon", 30)
	add(t, s, core.SpenderJunit, "2024-04-05", "Mizan", 40)

	filters := []core.Filter{
		{}, {Year: 2024}, {Month: 3}, {Year: 2024, Month: 3}, {Day: 5}, {Year: 2020},
	}
	for _, f := range filters {
		list, err := s.List(context.Background(), f)
		if err != nil {
			t.Fatalf("list %+v: %v", f, err)
		}
		totals, err := s.Totals(context.Background(), f)
		if err != nil {
			t.Fatalf("totals %+v: %v", f, err)
		}
		sums := make(core.Totals)
		for _, e := range list {
			sums[e.Spender] += e.Amount
		}
		if len(sums) != len(totals) {
			t.Fatalf("filter %+v: totals has %d spenders, list implies %d", f, len(totals), len(sums))
		}
		for spender, sum := range sums {
			if totals[spender] != sum {
				t.Fatalf("filter %+v spender %s: totals %v, list sum %v", f, spender, totals[spender], sum)
			}
		}
	}
}

func TestGetExpense(t *testing.T) {
	s := New()
	id := add(t, s, core.SpenderJunit, "2024-03-10", "Walmart", 20)

	e, err := s.GetExpense(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e.Spender != core.SpenderJunit || e.Shop != "Walmart" || e.Amount != 20 {
		t.Fatalf("got %+v", e)
	}
	if _, err := s.GetExpense(context.Background(), 9999); err == nil {
		t.Fatal("expected error for unknown id")
	}
}
