package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/kiranshivaraju/cancerscan/internal/api/middleware"
	"github.com/kiranshivaraju/cancerscan/internal/api/response"
)

// Dependencies holds all handler dependencies for the router.
type Dependencies struct {
	PredictHandler   http.HandlerFunc
	HistoriesHandler http.HandlerFunc
	HealthHandler    http.HandlerFunc
	MetricsHandler   http.Handler
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", orNotImplemented(deps.HealthHandler))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Post("/predict", orNotImplemented(deps.PredictHandler))
	r.Get("/predict/histories", orNotImplemented(deps.HistoriesHandler))

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, http.StatusNotImplemented, "Endpoint not yet implemented")
	}
}
