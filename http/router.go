package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handlers struct {
	Loan     *LoanHandler
	Terms    *TermRecommendationHandler
	Analyses *AnalysisHandler
}

type RouterOptions struct {
	// TrustProxyHeaders lets X-Forwarded-For and X-Real-IP replace the
	// remote address, which the rate limiter keys on.
	TrustProxyHeaders bool
}

func NewRouter(h Handlers, limiter *RateLimiter, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	if opts.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(ContextualLoggerMiddleware)
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		sendJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(RateLimitMiddleware(limiter))

		r.Post("/loan/calculate", h.Loan.CalculateLoan)
		r.Post("/loan/recommend-term", h.Terms.RecommendTerm)
		r.Get("/loan/defaults", h.Loan.Defaults)

		r.Post("/debts/summary", h.Analyses.SummarizeDebts)

		r.Route("/analyses", func(r chi.Router) {
			r.Post("/", h.Analyses.Create)
			r.Get("/{id}", h.Analyses.Get)
			r.Put("/{id}", h.Analyses.Update)
			r.Get("/{id}/summary", h.Analyses.Summary)
		})
	})

	return r
}
