package http

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Shakib-IO/food-expense-tracker/internal/core"
)

// Shops is the fixed dropdown list for the add-expense form.
var Shops = []string{
	"Mizan",
	"Newon",
	"Madina",
	"Beau-Soir",
	"Costco",
	"Restaurents",
	"Walmart",
	"Amazon",
}

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

type monthOption struct {
	Value int
	Name  string
}

func monthOptions() []monthOption {
	opts := make([]monthOption, 0, len(monthNames))
	for i, name := range monthNames {
		opts = append(opts, monthOption{Value: i + 1, Name: name})
	}
	return opts
}

// yearOptions returns the selectable year range around the current year.
func yearOptions(now time.Time) []int {
	years := make([]int, 0, 5)
	for y := now.Year() - 2; y <= now.Year()+2; y++ {
		years = append(years, y)
	}
	return years
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	filter := core.Filter{Year: now.Year(), Month: int(now.Month())}

	totals, err := s.backend.Totals(r.Context(), filter)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Month totals error", "error", err)
		totals = core.Totals{}
	}

	data := struct {
		Today         string
		Spenders      []string
		Shops         []string
		MonthName     string
		Year          int
		ShakibTotal   string
		JunitTotal    string
		BalanceNotice string
	}{
		Today:         now.Format("2006-01-02"),
		Spenders:      []string{core.SpenderShakib, core.SpenderJunit},
		Shops:         Shops,
		MonthName:     monthNames[int(now.Month())-1],
		Year:          now.Year(),
		ShakibTotal:   core.FormatAmount(totals[core.SpenderShakib]),
		JunitTotal:    core.FormatAmount(totals[core.SpenderJunit]),
		BalanceNotice: core.ComputeBalanceMessage(totals),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.logger.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	spender := sanitizeInput(r.Form.Get("spender"))
	if spender != core.SpenderShakib && spender != core.SpenderJunit {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Unknown spender</div>`))
		return
	}

	date, err := core.ParseDate(r.Form.Get("date"))
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid date, expected YYYY-MM-DD</div>`))
		return
	}

	amount, err := core.ParseAmount(r.Form.Get("amount"))
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid amount</div>`))
		return
	}

	exp := core.Expense{
		Spender: spender,
		Date:    date,
		Shop:    sanitizeInput(r.Form.Get("shop")),
		Amount:  amount,
	}
	if err := exp.Validate(); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid expense: ` + template.HTMLEscapeString(err.Error()) + `</div>`))
		return
	}

	id, err := s.backend.CreateExpense(r.Context(), exp)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Expense create error", "error", err, "spender", exp.Spender, "amount", exp.Amount)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Failed to save expense</div>`))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Expense #` + strconv.FormatInt(id, 10) + ` recorded: ` +
		template.HTMLEscapeString(exp.Spender) + ` spent ` +
		template.HTMLEscapeString(core.FormatAmount(exp.Amount)) + ` at ` +
		template.HTMLEscapeString(exp.Shop) + ` on ` + exp.Date.ISO() + `</div>`))
}

type expenseRow struct {
	ID      int64
	Date    string
	Spender string
	Shop    string
	Amount  string
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	data := struct {
		Months        []monthOption
		Years         []int
		SelectedMonth int
		SelectedYear  int
		SelectedDay   int
		HasResults    bool
		Prompt        string
		Rows          []expenseRow
		ShakibTotal   string
		JunitTotal    string
		Balance       string
	}{
		Months: monthOptions(),
		Years:  yearOptions(now),
	}

	filter := core.Filter{
		Year:  queryInt(r, "year"),
		Month: queryInt(r, "month"),
		Day:   queryInt(r, "day"),
	}
	data.SelectedYear = filter.Year
	data.SelectedMonth = filter.Month
	data.SelectedDay = filter.Day

	if filter.Month < 1 || filter.Month > 12 {
		data.Prompt = "Please select a month to see expenses."
		if err := s.templates.ExecuteTemplate(w, "view.html", data); err != nil {
			s.logger.ErrorContext(r.Context(), "View template execution failed", "error", err, "template", "view.html")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	items, err := s.backend.ListExpenses(r.Context(), filter)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List expenses error", "error", err, "year", filter.Year, "month", filter.Month)
		http.Error(w, "failed to load expenses", http.StatusInternalServerError)
		return
	}

	totals, err := s.backend.Totals(r.Context(), filter)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Expense totals error", "error", err, "year", filter.Year, "month", filter.Month)
		http.Error(w, "failed to load totals", http.StatusInternalServerError)
		return
	}

	data.HasResults = true
	data.ShakibTotal = core.FormatAmount(totals[core.SpenderShakib])
	data.JunitTotal = core.FormatAmount(totals[core.SpenderJunit])
	data.Balance = core.ComputeBalanceMessage(totals)
	for _, e := range items {
		data.Rows = append(data.Rows, expenseRow{
			ID:      e.ID,
			Date:    e.Date.ISO(),
			Spender: e.Spender,
			Shop:    e.Shop,
			Amount:  core.FormatAmount(e.Amount),
		})
	}

	if err := s.templates.ExecuteTemplate(w, "view.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "View template execution failed", "error", err, "template", "view.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// queryInt reads an integer query parameter, treating missing or
// malformed values as unset.
func queryInt(r *http.Request, key string) int {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
