package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/kiranshivaraju/gamesmith/internal/api/middleware"
	"github.com/kiranshivaraju/gamesmith/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	RateLimit *mw.RateLimit

	HealthHandler       http.HandlerFunc
	GenerateHandler     http.HandlerFunc
	MatchHandler        http.HandlerFunc
	MatchSessionHandler http.HandlerFunc
	GetTaskHandler      http.HandlerFunc
	ListTasksHandler    http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public health check
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	// Player routes
	r.Group(func(r chi.Router) {
		r.Use(mw.Identify)
		r.Use(deps.RateLimit.Limit)

		r.Post("/api/v1/generations", orNotImplemented(deps.GenerateHandler))
		r.Post("/api/v1/matches", orNotImplemented(deps.MatchHandler))
		r.Get("/api/v1/matches/{taskID}/session", orNotImplemented(deps.MatchSessionHandler))

		r.Get("/api/v1/tasks", orNotImplemented(deps.ListTasksHandler))
		r.Get("/api/v1/tasks/{taskID}", orNotImplemented(deps.GetTaskHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
