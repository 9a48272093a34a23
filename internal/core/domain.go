package core

import (
	"errors"
	"strings"
	"time"
)

const (
	SpenderShakib = "Shakib"
	SpenderJunit  = "Junit"
)

type (
	// Date is a calendar date without a time component, held at UTC midnight.
	Date struct {
		time.Time
	}

	// Expense is a single shared-expense entry. ID is zero until the store
	// assigns one.
	Expense struct {
		ID      int64
		Spender string
		Date    Date
		Shop    string
		Amount  float64
	}

	// Filter selects expenses by calendar components. A zero component is a
	// wildcard: Month without Year matches that month across all years.
	Filter struct {
		Year  int
		Month int
		Day   int
	}

	// Totals maps spender name to the summed amount of matching expenses.
	// Spenders with no matching expenses are absent, never present as zero.
	Totals = map[string]float64
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptySpender  = errors.New("empty spender")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO 8601 date (YYYY-MM-DD). Non-existent calendar
// dates such as 2024-02-30 are rejected, not normalized.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t.UTC()}, nil
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the 4-digit year.
func (d Date) Year() int {
	return d.Time.Year()
}

// ISO returns the date formatted as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Time.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Spender) == "" {
		return ErrEmptySpender
	}
	return nil
}

// IsZero reports whether the filter has no components set.
func (f Filter) IsZero() bool {
	return f.Year == 0 && f.Month == 0 && f.Day == 0
}

// Match reports whether the date satisfies every set filter component.
func (f Filter) Match(d Date) bool {
	if f.Year != 0 && d.Year() != f.Year {
		return false
	}
	if f.Month != 0 && d.Month() != f.Month {
		return false
	}
	if f.Day != 0 && d.Day() != f.Day {
		return false
	}
	return true
}
