package http

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"loan-advisor/domain"
	"loan-advisor/finance"
	"loan-advisor/repository"
	"loan-advisor/service"
)

func newTestRouter(t *testing.T, capacity int) http.Handler {
	t.Helper()
	return newTestRouterWithOptions(t, capacity, RouterOptions{})
}

func newTestRouterWithOptions(t *testing.T, capacity int, opts RouterOptions) http.Handler {
	t.Helper()

	loanService := service.NewLoanService(repository.NewLoanRepositoryMemory(10), finance.DefaultPurposeDefaults())
	narrator := service.NewAIService("")
	analysisService := service.NewAnalysisService(
		repository.NewAnalysisRepositoryMemory(),
		repository.NewMemoryCache(time.Minute, time.Minute),
		narrator,
		finance.DefaultReportOptions(),
	)

	limiter := NewRateLimiter(capacity, time.Minute)
	t.Cleanup(limiter.Stop)

	return NewRouter(Handlers{
		Loan:     NewLoanHandler(loanService),
		Terms:    NewTermRecommendationHandler(service.NewTermRecommendationService(loanService, narrator)),
		Analyses: NewAnalysisHandler(analysisService),
	}, limiter, opts)
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCalculateLoanHandler_OK(t *testing.T) {
	router := newTestRouter(t, 100)

	w := do(router, http.MethodPost, "/loan/calculate", `{
		"principal": "$100,000",
		"annualInterestRatePercent": 7.5,
		"termMonths": 120
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}

	var resp loanCalculationResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if math.Abs(resp.MonthlyPayment-1187.02) > 0.01 {
		t.Errorf("unexpected payment %v", resp.MonthlyPayment)
	}
	if len(resp.Schedule) != 120 || len(resp.AnnualSchedule) != 10 {
		t.Errorf("unexpected schedules: %d monthly, %d annual", len(resp.Schedule), len(resp.AnnualSchedule))
	}
}

func TestCalculateLoanHandler_MethodNotAllowed(t *testing.T) {
	w := do(newTestRouter(t, 100), http.MethodGet, "/loan/calculate", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}

func TestCalculateLoanHandler_BadRequest(t *testing.T) {
	router := newTestRouter(t, 100)

	if w := do(router, http.MethodPost, "/loan/calculate", `{invalid-json}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", w.Code)
	}
	if w := do(router, http.MethodPost, "/loan/calculate", `{"principal": 0, "annualInterestRatePercent": 5, "termMonths": 12}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid terms, got %d", w.Code)
	}
}

func TestCalculateLoanHandler_UnsupportedMediaType(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/loan/calculate", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	newTestRouter(t, 100).ServeHTTP(w, req)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Errorf("expected 415, got %d", w.Code)
	}
}

func TestLoanDefaultsHandler(t *testing.T) {
	w := do(newTestRouter(t, 100), http.MethodGet, "/loan/defaults", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var defaults map[string]domain.LoanDefaults
	if err := json.NewDecoder(w.Body).Decode(&defaults); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if defaults["equipment"].TermMonths != 60 {
		t.Errorf("unexpected defaults: %+v", defaults)
	}
}

func TestRecommendTermHandler(t *testing.T) {
	router := newTestRouter(t, 100)

	body := `{"amount": 10000, "interestRate": 12, "minTermMonths": 12, "maxTermMonths": 36,
		"maxMonthlyPayment": 500, "preference": "minimize_interest"}`
	w := do(router, http.MethodPost, "/loan/recommend-term", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}

	var result domain.TermRecommendationResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.RecommendedTerm != 23 {
		t.Errorf("expected 23 months, got %d", result.RecommendedTerm)
	}

	body = strings.Replace(body, `"maxMonthlyPayment": 500`, `"maxMonthlyPayment": 50`, 1)
	if w := do(router, http.MethodPost, "/loan/recommend-term", body); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 when nothing fits, got %d", w.Code)
	}
}

func TestDebtSummaryHandler(t *testing.T) {
	w := do(newTestRouter(t, 100), http.MethodPost, "/debts/summary", `{"debts": [
		{"category": "credit card", "monthlyPayment": "$1,000", "outstandingBalance": 8000, "creditLimit": 20000},
		{"category": "REAL_ESTATE", "monthlyPayment": 2000, "outstandingBalance": 150000}
	]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}

	var summary domain.DebtPortfolioSummary
	if err := json.NewDecoder(w.Body).Decode(&summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if summary.TotalMonthlyPayment != 3000 || summary.CreditUtilization.Value != 0.4 {
		t.Errorf("unexpected summary %+v", summary)
	}
	if summary.Groups[0].Category != domain.CategoryRealEstate {
		t.Errorf("groups out of order: %+v", summary.Groups)
	}
}

const analysisBody = `{
	"loan": {"businessName": "Harbor Bakery LLC", "purpose": "equipment", "requestedAmount": "100,000",
		"annualInterestRatePercent": 7.5, "termMonths": 120},
	"years": [
		{"year": 2023, "input": {"revenue": 500000, "cogs": 200000, "operatingExpenses": 150000, "depreciation": 20000}},
		{"year": 2024, "yearToDate": true, "asOfMonth": 6, "input": {"revenue": 260000, "cogs": 100000, "operatingExpenses": 80000}}
	],
	"debts": [{"category": "REAL_ESTATE", "monthlyPayment": 2000, "outstandingBalance": 150000}]
}`

func TestAnalysisHandlers_Lifecycle(t *testing.T) {
	router := newTestRouter(t, 100)

	w := do(router, http.MethodPost, "/analyses", analysisBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body)
	}
	var created domain.Report
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || w.Header().Get("Location") != "/analyses/"+created.ID {
		t.Fatalf("missing id or location: %q %q", created.ID, w.Header().Get("Location"))
	}
	if len(created.DSCR) != 2 || created.DSCR[1].DebtService != 12000 {
		t.Errorf("unexpected coverage: %+v", created.DSCR)
	}
	if created.Narrative == "" {
		t.Error("expected a narrative")
	}

	w = do(router, http.MethodGet, "/analyses/"+created.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	updated := strings.Replace(analysisBody, `"monthlyPayment": 2000`, `"monthlyPayment": 500`, 1)
	w = do(router, http.MethodPut, "/analyses/"+created.ID, updated)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}
	var recomputed domain.Report
	json.NewDecoder(w.Body).Decode(&recomputed)
	if recomputed.Portfolio.TotalMonthlyPayment != 500 || recomputed.ID != created.ID {
		t.Errorf("report not recomputed: %+v", recomputed.Portfolio)
	}

	w = do(router, http.MethodGet, "/analyses/"+created.ID+"/summary", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
		t.Errorf("unexpected content type %q", w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Body.String(), "Harbor Bakery LLC") {
		t.Error("summary missing business name")
	}
}

func TestAnalysisHandlers_NotFound(t *testing.T) {
	router := newTestRouter(t, 100)

	if w := do(router, http.MethodGet, "/analyses/missing", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if w := do(router, http.MethodPut, "/analyses/missing", analysisBody); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 on update, got %d", w.Code)
	}
}

func TestAnalysisHandlers_Invalid(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
	}{
		{"month out of range", `"asOfMonth": 6`, `"asOfMonth": 14`},
		{"month without year-to-date", `"yearToDate": true, `, ``},
		{"overflowing amounts", `"revenue": 500000, "cogs": 200000, "operatingExpenses": 150000, "depreciation": 20000`,
			`"revenue": "1.7e308", "depreciation": "1.7e308"`},
	}

	router := newTestRouter(t, 100)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := strings.Replace(analysisBody, tt.old, tt.new, 1)
			if body == analysisBody {
				t.Fatal("replacement did not apply")
			}
			w := do(router, http.MethodPost, "/analyses", body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body)
			}
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	router := newTestRouter(t, 2)

	for i := 0; i < 2; i++ {
		if w := do(router, http.MethodGet, "/loan/defaults", ""); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
	if w := do(router, http.MethodGet, "/loan/defaults", ""); w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
	if w := do(router, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Errorf("health should not be rate limited, got %d", w.Code)
	}
}

func requestFrom(router http.Handler, forwardedFor string) int {
	req := httptest.NewRequest(http.MethodGet, "/loan/defaults", nil)
	req.Header.Set("X-Forwarded-For", forwardedFor)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitMiddleware_IgnoresForwardedForByDefault(t *testing.T) {
	router := newTestRouter(t, 2)

	codes := []int{
		requestFrom(router, "203.0.113.1"),
		requestFrom(router, "203.0.113.2"),
		requestFrom(router, "203.0.113.3"),
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("rotating X-Forwarded-For bypassed the limit: %v", codes)
	}
}

func TestRateLimitMiddleware_TrustedProxy(t *testing.T) {
	router := newTestRouterWithOptions(t, 1, RouterOptions{TrustProxyHeaders: true})

	if code := requestFrom(router, "203.0.113.1"); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if code := requestFrom(router, "203.0.113.1"); code != http.StatusTooManyRequests {
		t.Errorf("same forwarded client should be limited, got %d", code)
	}
	if code := requestFrom(router, "203.0.113.2"); code != http.StatusOK {
		t.Errorf("distinct forwarded clients get their own bucket, got %d", code)
	}
}
