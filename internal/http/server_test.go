package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Shakib-IO/food-expense-tracker/internal/services"
	"github.com/Shakib-IO/food-expense-tracker/internal/store/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	svc := services.NewExpenseService(memory.New(), nil)
	s := NewServer(":0", svc)
	t.Cleanup(func() { s.limiter.stop() })
	return s
}

func postForm(s *Server, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func get(s *Server, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func validForm() url.Values {
	return url.Values{
		"spender": {"Shakib"},
		"date":    {"2024-03-05"},
		"shop":    {"Costco"},
		"amount":  {"42.50"},
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := get(s, path)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: got status %d, want 200", path, rec.Code)
		}
	}
}

func TestCreateExpense(t *testing.T) {
	s := newTestServer(t)

	rec := postForm(s, validForm())
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "recorded") || !strings.Contains(body, "Shakib") {
		t.Errorf("unexpected success body: %s", body)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(url.Values)
	}{
		{"unknown spender", func(f url.Values) { f.Set("spender", "Alice") }},
		{"missing spender", func(f url.Values) { f.Del("spender") }},
		{"malformed date", func(f url.Values) { f.Set("date", "05/03/2024") }},
		{"impossible date", func(f url.Values) { f.Set("date", "2024-02-30") }},
		{"non-numeric amount", func(f url.Values) { f.Set("amount", "ten") }},
		{"negative amount", func(f url.Values) { f.Set("amount", "-5") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			form := validForm()
			tt.mutate(form)

			rec := postForm(s, form)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("got status %d, want 422; body: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCreateExpenseEmptyAmountDefaultsToZero(t *testing.T) {
	s := newTestServer(t)
	form := validForm()
	form.Set("amount", "")

	rec := postForm(s, form)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "0.00$") {
		t.Errorf("expected zero amount in body: %s", rec.Body.String())
	}
}

func TestCreateExpenseMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/expenses")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("got status %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "POST" {
		t.Errorf("Allow header = %q, want POST", allow)
	}
}

func TestViewRequiresMonth(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/view")
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Please select a month to see expenses.") {
		t.Errorf("expected month prompt, body: %s", rec.Body.String())
	}
}

func TestViewFilteredResults(t *testing.T) {
	s := newTestServer(t)

	seed := []url.Values{
		{"spender": {"Shakib"}, "date": {"2024-03-01"}, "shop": {"Costco"}, "amount": {"100"}},
		{"spender": {"Junit"}, "date": {"2024-03-15"}, "shop": {"Walmart"}, "amount": {"20"}},
		{"spender": {"Junit"}, "date": {"2024-04-01"}, "shop": {"Amazon"}, "amount": {"55"}},
	}
	for _, f := range seed {
		if rec := postForm(s, f); rec.Code != http.StatusOK {
			t.Fatalf("seed failed with status %d", rec.Code)
		}
	}

	rec := get(s, "/view?month=3&year=2024")
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Costco") || !strings.Contains(body, "Walmart") {
		t.Errorf("expected March rows, body: %s", body)
	}
	if strings.Contains(body, "Amazon") {
		t.Errorf("April expense leaked into March view")
	}
	if !strings.Contains(body, "Junit owes Shakib 40.00$.") {
		t.Errorf("expected settlement message, body: %s", body)
	}
}

func TestViewMonthWithoutYearSpansYears(t *testing.T) {
	s := newTestServer(t)

	seed := []url.Values{
		{"spender": {"Shakib"}, "date": {"2023-03-01"}, "shop": {"Mizan"}, "amount": {"10"}},
		{"spender": {"Shakib"}, "date": {"2024-03-01"}, "shop": {"Newon"}, "amount": {"10"}},
	}
	for _, f := range seed {
		if rec := postForm(s, f); rec.Code != http.StatusOK {
			t.Fatalf("seed failed with status %d", rec.Code)
		}
	}

	body := get(s, "/view?month=3").Body.String()
	if !strings.Contains(body, "Mizan") || !strings.Contains(body, "Newon") {
		t.Errorf("month without year should match all years, body: %s", body)
	}
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/")
	headers := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	}
	for name, want := range headers {
		if got := rec.Header().Get(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("missing Content-Security-Policy header")
	}
}

func TestIndexRenders(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{"Shakib", "Junit", "Costco"} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
}

func TestIndexUnknownPath(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/nope")
	if rec.Code != http.StatusNotFound {
		t.Errorf("got status %d, want 404", rec.Code)
	}
}

func TestWriteLimiterBudget(t *testing.T) {
	l := &writeLimiter{windows: make(map[string]*submitWindow)}
	metrics := &securityMetrics{}

	for i := 0; i < writeBudget; i++ {
		if !l.allow("10.1.2.3", metrics) {
			t.Fatalf("submission %d should be allowed", i+1)
		}
	}
	if l.allow("10.1.2.3", metrics) {
		t.Errorf("submission %d within a window should be rejected", writeBudget+1)
	}
	if metrics.RateLimitHits() != 1 {
		t.Errorf("rate limit hits = %d, want 1", metrics.RateLimitHits())
	}
	if !l.allow("10.9.9.9", metrics) {
		t.Error("different client must not be affected")
	}
}

func TestWriteLimiterWindowReset(t *testing.T) {
	l := &writeLimiter{windows: make(map[string]*submitWindow)}

	for i := 0; i < writeBudget; i++ {
		l.allow("10.1.2.3", nil)
	}
	if l.allow("10.1.2.3", nil) {
		t.Fatal("exhausted window should reject")
	}

	// Age the window past its length; the next submission reopens it.
	l.windows["10.1.2.3"].openedAt = time.Now().Add(-2 * writeWindow)
	if !l.allow("10.1.2.3", nil) {
		t.Error("aged-out window should admit submissions again")
	}
}

func TestWriteLimiterEvictsStaleClients(t *testing.T) {
	l := &writeLimiter{windows: make(map[string]*submitWindow)}

	l.allow("10.1.2.3", nil)
	l.allow("10.9.9.9", nil)
	l.windows["10.1.2.3"].openedAt = time.Now().Add(-2 * clientStaleAge)

	l.evictStale()

	if _, ok := l.windows["10.1.2.3"]; ok {
		t.Error("stale client window should be evicted")
	}
	if _, ok := l.windows["10.9.9.9"]; !ok {
		t.Error("active client window must survive eviction")
	}
}

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		want       string
	}{
		{"direct", "203.0.113.7:4444", "", "203.0.113.7"},
		{"untrusted proxy ignores xff", "203.0.113.7:4444", "198.51.100.9", "203.0.113.7"},
		{"trusted proxy honors xff", "127.0.0.1:4444", "198.51.100.9", "198.51.100.9"},
		{"trusted proxy bad xff", "127.0.0.1:4444", "not-an-ip", "127.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := extractClientIP(req); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
