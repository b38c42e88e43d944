package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tally/internal/ledger"
	"tally/internal/ledger/memory"
	"tally/internal/session"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	mgr := session.NewManager(time.Hour, func() (ledger.Store, error) {
		return memory.New(), nil
	})
	t.Cleanup(mgr.Stop)

	s := NewServer(":0", mgr, nil, 3, false, []string{"Food", "Rent"})
	t.Cleanup(func() { s.rateLimiter.stop() })
	return s
}

func postForm(s *Server, path, form string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func get(s *Server, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	if rec := get(s, "/healthz", nil); rec.Code != http.StatusOK {
		t.Errorf("healthz = %d, want 200", rec.Code)
	}
	if rec := get(s, "/readyz", nil); rec.Code != http.StatusOK {
		t.Errorf("readyz = %d, want 200", rec.Code)
	}
}

func TestIndexRendersForm(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("index = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "/transactions") || !strings.Contains(body, "/fixed-costs") {
		t.Error("index is missing entry forms")
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("first visit should set a session cookie")
	}
}

func TestCreateTransaction(t *testing.T) {
	s := newTestServer(t)

	rec := postForm(s, "/transactions", "kind=bank_income&amount=70,00&category=Salary&date=2024-01-15", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("create = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	trigger := rec.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, "record:created") {
		t.Errorf("HX-Trigger = %q, want record:created", trigger)
	}

	// Same session sees the new record in its balance.
	cookies := rec.Result().Cookies()
	bal := get(s, "/ui/balances", cookies)
	if bal.Code != http.StatusOK {
		t.Fatalf("balances = %d, want 200", bal.Code)
	}
	if !strings.Contains(bal.Body.String(), "70,00") {
		t.Errorf("balance partial missing amount: %s", bal.Body.String())
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		form string
		code int
	}{
		{"bad amount", "kind=bank_income&amount=abc&category=Salary", http.StatusUnprocessableEntity},
		{"zero amount", "kind=bank_income&amount=0&category=Salary", http.StatusUnprocessableEntity},
		{"empty category", "kind=bank_income&amount=10,00&category=", http.StatusUnprocessableEntity},
		{"bad kind", "kind=wire_income&amount=10,00&category=Salary", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postForm(s, "/transactions", tt.form, nil)
			if rec.Code != tt.code {
				t.Errorf("got %d, want %d: %s", rec.Code, tt.code, rec.Body.String())
			}
		})
	}
}

func TestCreateTransactionMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/transactions", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET /transactions = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "POST" {
		t.Errorf("Allow = %q, want POST", allow)
	}
}

func TestFixedCostLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := postForm(s, "/fixed-costs", "direction=expense&amount=650,00&category=Rent&start_date=2024-01-01", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("create = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()

	deact := postForm(s, "/fixed-costs/deactivate", "id=1", cookies)
	if deact.Code != http.StatusOK {
		t.Fatalf("deactivate = %d, want 200: %s", deact.Code, deact.Body.String())
	}
	if !strings.Contains(deact.Header().Get("HX-Trigger"), "fixed-cost:deactivated") {
		t.Error("deactivate response missing trigger")
	}

	again := postForm(s, "/fixed-costs/deactivate", "id=99", cookies)
	if again.Code != http.StatusNotFound {
		t.Fatalf("unknown id = %d, want 404", again.Code)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	s := newTestServer(t)

	rec := postForm(s, "/transactions", "kind=cash_income&amount=50,00&category=Gift&date=2024-02-01", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("create = %d, want 200", rec.Code)
	}

	// A request with no cookie gets a fresh, empty ledger.
	other := get(s, "/ui/balances", nil)
	if other.Code != http.StatusOK {
		t.Fatalf("balances = %d, want 200", other.Code)
	}
	if strings.Contains(other.Body.String(), "50,00") {
		t.Error("fresh session sees another session's records")
	}
}

func TestDashboardPartials(t *testing.T) {
	s := newTestServer(t)

	rec := postForm(s, "/transactions", "kind=bank_expense&amount=30,00&category=Food&date=2024-03-10", nil)
	cookies := rec.Result().Cookies()

	for _, path := range []string{"/ui/balances", "/ui/categories?from=2024-01-01&to=2024-12-31", "/ui/trend", "/ui/projection"} {
		resp := get(s, path, cookies)
		if resp.Code != http.StatusOK {
			t.Errorf("%s = %d, want 200", path, resp.Code)
		}
	}

	cat := get(s, "/ui/categories?from=2024-01-01&to=2024-12-31", cookies)
	if !strings.Contains(cat.Body.String(), "Food") {
		t.Errorf("categories partial missing Food: %s", cat.Body.String())
	}

	trend := get(s, "/ui/trend", cookies)
	if !strings.Contains(trend.Body.String(), "2024-03") {
		t.Errorf("trend partial missing month: %s", trend.Body.String())
	}
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/", nil)
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}
