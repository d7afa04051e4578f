package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"loan-amortizer/domain"
	"loan-amortizer/repository"
	"loan-amortizer/service"
)

func newTestRouter(t *testing.T, limiter *RateLimiter) http.Handler {
	t.Helper()
	return newTestRouterWithLogger(t, limiter, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestRouterWithLogger(t *testing.T, limiter *RateLimiter, logger *slog.Logger) http.Handler {
	t.Helper()

	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	loanService := service.NewLoanService(logger)
	termService := service.NewTermRecommendationService(repository.NewMemoryCache(time.Minute, 16), logger)

	return NewRouter(RouterDeps{
		Loans:    NewLoanHandler(loanService, metrics, logger),
		Terms:    NewTermRecommendationHandler(termService, metrics, logger),
		Limiter:  limiter,
		Metrics:  metrics,
		Gatherer: registry,
		Logger:   logger,
	})
}

func postJSON(handler http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestCalculatePaymentHandler_OK(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postJSON(router, "/loan/payment", `{
		"principal": 100000,
		"annual_interest_rate": 5,
		"term_years": 30
	}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result domain.PaymentResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if math.Abs(result.YearlyPayment-6505.14) > 0.01 {
		t.Errorf("expected ~6505.14, got %v", result.YearlyPayment)
	}
}

func TestCalculateScheduleHandler_OK(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postJSON(router, "/loan/schedule", `{"principal": 1000, "annual_interest_rate": 0, "term_years": 4}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var raw struct {
		Entries []map[string]float64 `json:"entries"`
	}
	if err := json.NewDecoder(w.Body).Decode(&raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(raw.Entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(raw.Entries))
	}

	wantBalances := []float64{750, 500, 250, 0}
	for i, e := range raw.Entries {
		for _, field := range []string{"year", "payment", "principal_paid", "interest_paid", "remaining_balance"} {
			if _, ok := e[field]; !ok {
				t.Errorf("entry %d missing %s", i, field)
			}
		}
		if e["remaining_balance"] != wantBalances[i] {
			t.Errorf("entry %d balance %v, want %v", i, e["remaining_balance"], wantBalances[i])
		}
	}
}

func TestCalculatePaymentHandler_ValidationErrors(t *testing.T) {
	router := newTestRouter(t, nil)

	tests := []struct {
		name     string
		body     string
		wantKind string
		wantMsg  string
	}{
		{"principal", `{"principal": -1, "annual_interest_rate": 5, "term_years": 10}`, "invalid_principal", "Principal must be positive"},
		{"rate", `{"principal": 1000, "annual_interest_rate": -1, "term_years": 10}`, "invalid_rate", "Interest rate cannot be negative"},
		{"term", `{"principal": 1000, "annual_interest_rate": 5, "term_years": 0}`, "invalid_term", "Term must be at least one year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, path := range []string{"/loan/payment", "/loan/schedule"} {
				w := postJSON(router, path, tt.body)
				if w.Code != http.StatusUnprocessableEntity {
					t.Fatalf("%s: expected 422, got %d", path, w.Code)
				}
				var resp errorResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if resp.Kind != tt.wantKind || resp.Error != tt.wantMsg {
					t.Errorf("%s: got %+v", path, resp)
				}
			}
		})
	}
}

func TestLoanHandlers_NonFiniteResult(t *testing.T) {
	router := newTestRouter(t, nil)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"payment NaN", "/loan/payment", `{"principal": 1000, "annual_interest_rate": 1e6, "term_years": 100}`},
		{"payment Inf", "/loan/payment", `{"principal": 1e308, "annual_interest_rate": 100, "term_years": 1}`},
		{"schedule NaN", "/loan/schedule", `{"principal": 1000, "annual_interest_rate": 1e6, "term_years": 100}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, tt.path, tt.body)
			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
			}
			var resp errorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Kind != KindNonFiniteResult {
				t.Errorf("expected kind %s, got %+v", KindNonFiniteResult, resp)
			}
		})
	}
}

func TestLoanHandlers_TermAboveHostLimit(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, path := range []string{"/loan/payment", "/loan/schedule"} {
		w := postJSON(router, path, `{"principal": 1000, "annual_interest_rate": 5, "term_years": 2000000}`)
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%s: expected 422, got %d", path, w.Code)
		}
		var resp errorResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Kind != "invalid_request" || resp.Field != "term_years" {
			t.Errorf("%s: got %+v", path, resp)
		}
	}
}

func TestLoanHandlers_LogThroughInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	router := newTestRouterWithLogger(t, nil, logger)

	if w := postJSON(router, "/loan/payment", `{invalid-json}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(buf.String(), "invalid request body") {
		t.Errorf("expected decode failure in injected logger output, got %q", buf.String())
	}
}

func TestCalculatePaymentHandler_MethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/loan/payment", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}

func TestCalculatePaymentHandler_BadRequest(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, body := range []string{`{invalid-json}`, `{"principal": 1000, "term_years": -3}`, `{"principal": 1, "unknown": true}`} {
		w := postJSON(router, "/loan/payment", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, w.Code)
		}
	}
}

func TestCalculatePaymentHandler_UnsupportedMediaType(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/loan/payment", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Errorf("expected 415, got %d", w.Code)
	}
}

func TestRecommendTermHandler(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postJSON(router, "/loan/recommend-term", `{
		"principal": 10000,
		"annual_interest_rate": 5,
		"min_term_years": 1,
		"max_term_years": 10,
		"max_yearly_payment": 3000,
		"preference": "minimize_interest"
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var result domain.TermRecommendationResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.RecommendedTerm != 4 {
		t.Errorf("expected term 4, got %d", result.RecommendedTerm)
	}

	w = postJSON(router, "/loan/recommend-term", `{
		"principal": 10000,
		"annual_interest_rate": 5,
		"min_term_years": 1,
		"max_term_years": 10,
		"max_yearly_payment": 3000,
		"preference": "fastest"
	}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	var resp errorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Field != "preference" {
		t.Errorf("expected field preference, got %+v", resp)
	}
}

func TestRouter_RequestIDAndHealth(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get(RequestIDHeader) == "" {
		t.Errorf("expected generated request id")
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("expected propagated id, got %q", got)
	}
}

func TestRouter_Metrics(t *testing.T) {
	router := newTestRouter(t, nil)

	postJSON(router, "/loan/payment", `{"principal": 1000, "annual_interest_rate": 5, "term_years": 10}`)
	postJSON(router, "/loan/payment", `{"principal": 0, "annual_interest_rate": 5, "term_years": 10}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	body := w.Body.String()
	for _, want := range []string{
		`amortizer_http_requests_total{code="200",method="POST",route="/loan/payment"} 1`,
		`amortizer_http_requests_total{code="422",method="POST",route="/loan/payment"} 1`,
		`amortizer_rejected_inputs_total{kind="invalid_principal"} 1`,
	} {
		if !bytes.Contains([]byte(body), []byte(want)) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestRouter_RateLimited(t *testing.T) {
	limiter := NewRateLimiter(2, time.Hour)
	defer limiter.Stop()
	router := newTestRouter(t, limiter)

	body := `{"principal": 1000, "annual_interest_rate": 5, "term_years": 10}`
	for i := 0; i < 2; i++ {
		if w := postJSON(router, "/loan/payment", body); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}

	w := postJSON(router, "/loan/payment", body)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("expected remaining 0, got %q", w.Header().Get("X-RateLimit-Remaining"))
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("health endpoint must not be rate limited, got %d", rec.Code)
	}
}
