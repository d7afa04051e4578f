package http

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps are the collaborators wired into the HTTP API.
type RouterDeps struct {
	Loans    *LoanHandler
	Terms    *TermRecommendationHandler
	Limiter  *RateLimiter
	Metrics  *Metrics
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// NewRouter registers every route. Calculation routes are rate limited;
// health and metrics are not.
func NewRouter(deps RouterDeps) *mux.Router {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	router := mux.NewRouter()
	router.Use(RequestIDMiddleware)
	router.Use(LoggingMiddleware(deps.Logger, deps.Metrics))

	health := newResponder(deps.Logger, deps.Metrics)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		health.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	limit := func(h http.HandlerFunc) http.Handler { return h }
	if deps.Limiter != nil {
		limiter := RateLimitMiddleware(deps.Limiter, deps.Logger)
		limit = func(h http.HandlerFunc) http.Handler { return limiter(h) }
	}
	router.Handle("/loan/payment", limit(deps.Loans.CalculatePayment)).Methods(http.MethodPost)
	router.Handle("/loan/schedule", limit(deps.Loans.CalculateSchedule)).Methods(http.MethodPost)
	router.Handle("/loan/recommend-term", limit(deps.Terms.RecommendTerm)).Methods(http.MethodPost)

	return router
}
