// Package handler provides HTTP handlers for the user service API.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// DatabaseChecker is the health probe for the backing store.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// RouterConfig contains the collaborators for the router.
type RouterConfig struct {
	UserHandler    *UserHandler
	AuthHandler    *AuthHandler
	AuthMiddleware func(http.Handler) http.Handler
	Metrics        func(http.Handler) http.Handler
	Database       DatabaseChecker
	Logger         zerolog.Logger
}

// NewRouter assembles the API router. Registration, login and health are
// open; user management routes sit behind the bearer-token middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(RequestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics)
	}

	r.Get("/health", handleHealth(cfg.Database))

	r.Route("/api/auth", cfg.AuthHandler.RegisterRoutes)

	r.Route("/api/users", func(r chi.Router) {
		r.Use(cfg.AuthMiddleware)
		cfg.UserHandler.RegisterRoutes(r)
	})

	return r
}

// handleHealth reports liveness and store reachability.
func handleHealth(db DatabaseChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}
