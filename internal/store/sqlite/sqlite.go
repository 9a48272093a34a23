// Package sqlite implements the expense store on a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Shakib-IO/food-expense-tracker/internal/core"
	"github.com/Shakib-IO/food-expense-tracker/internal/store"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

// Interface conformance.
var (
	_ store.ExpenseStore  = (*Repository)(nil)
	_ store.ExpenseGetter = (*Repository)(nil)
)

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Add persists the expense and returns the id SQLite assigned. The date
// components are decomposed here so filters run on integer equality
// rather than strftime string matching.
func (r *Repository) Add(ctx context.Context, e core.Expense) (int64, error) {
	if err := e.Date.Validate(); err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (spender, date, year, month, day, shop, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Spender, e.Date.ISO(), e.Date.Year(), e.Date.Month(), e.Date.Day(), e.Shop, e.Amount)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", id,
		"spender", e.Spender,
		"date", e.Date.ISO(),
		"shop", e.Shop,
		"amount", e.Amount)

	return id, nil
}

// whereClause builds the filter predicate. Each set component constrains
// its own column; unset components are wildcards.
func whereClause(f core.Filter) (string, []any) {
	var conditions []string
	var args []any

	if f.Year != 0 {
		conditions = append(conditions, "year = ?")
		args = append(args, f.Year)
	}
	if f.Month != 0 {
		conditions = append(conditions, "month = ?")
		args = append(args, f.Month)
	}
	if f.Day != 0 {
		conditions = append(conditions, "day = ?")
		args = append(args, f.Day)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// List returns matching expenses ordered by date ascending; entries on
// the same date come newest-first by id. The tie-break is pinned by tests.
func (r *Repository) List(ctx context.Context, f core.Filter) ([]core.Expense, error) {
	where, args := whereClause(f)
	query := `
		SELECT id, spender, date, shop, amount
		FROM expenses` + where + `
		ORDER BY date ASC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var (
			e       core.Expense
			dateStr string
		)
		if err := rows.Scan(&e.ID, &e.Spender, &dateStr, &e.Shop, &e.Amount); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		d, err := core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("stored date %q: %w", dateStr, err)
		}
		e.Date = d
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

// Totals sums matching expenses per spender.
func (r *Repository) Totals(ctx context.Context, f core.Filter) (core.Totals, error) {
	where, args := whereClause(f)
	query := `
		SELECT spender, SUM(amount)
		FROM expenses` + where + `
		GROUP BY spender`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query totals: %w", err)
	}
	defer rows.Close()

	totals := make(core.Totals)
	for rows.Next() {
		var (
			spender string
			sum     sql.NullFloat64
		)
		if err := rows.Scan(&spender, &sum); err != nil {
			return nil, fmt.Errorf("scan totals: %w", err)
		}
		totals[spender] = sum.Float64
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate totals: %w", err)
	}
	return totals, nil
}

// GetExpense fetches a single expense by id.
func (r *Repository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	var (
		e       core.Expense
		dateStr string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, spender, date, shop, amount
		FROM expenses
		WHERE id = ?`, id).Scan(&e.ID, &e.Spender, &dateStr, &e.Shop, &e.Amount)
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, err)
	}
	d, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Expense{}, fmt.Errorf("stored date %q: %w", dateStr, err)
	}
	e.Date = d
	return e, nil
}

// GetPendingExport returns ids of expenses not yet mirrored to the
// shared sheet, oldest first. Backup path for lost queue messages.
func (r *Repository) GetPendingExport(ctx context.Context, limit int) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM expenses
		WHERE synced = 0
		ORDER BY id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending export: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pending id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending ids: %w", err)
	}
	return ids, nil
}

// MarkExported records that an expense has been mirrored to the sheet.
func (r *Repository) MarkExported(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE expenses SET synced = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}
	slog.InfoContext(ctx, "Expense marked as exported", "id", id)
	return nil
}
