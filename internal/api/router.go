package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.StripSlashes)
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.cacheControlMiddleware)
	r.Use(s.bodySizeLimitMiddleware)
	r.Use(s.negotiationMiddleware)

	// Liveness probe (no session required)
	r.Get("/healthz", s.handleHealthz)

	// Negotiated routes, gzip-compressed.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Compress(5))

		// Login establishes the session credential, so it sits outside the gate.
		r.Get("/login", s.envelope(s.handleLoginGet))
		r.Post("/login", s.envelope(s.handleLoginPost))

		// Gated routes
		r.Group(func(r chi.Router) {
			r.Use(s.authGate)

			r.Get("/", s.envelope(s.handleEntryGet))
			r.Post("/", s.envelope(s.handleEntryPost))
		})
	})

	// The event feed is gated but stays outside the compression group:
	// the WebSocket upgrade needs to hijack the raw connection.
	r.Group(func(r chi.Router) {
		r.Use(s.authGate)

		r.Get("/events", s.handleEvents)
	})

	return r
}

// handleHealthz reports gateway liveness and the health of registered
// subsystems. It answers 200 when everything passes and 503 when any
// check fails, with a JSON document either way.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	healthy := true
	checks := make(map[string]string, len(s.checks))
	for name, checker := range s.checks {
		if err := checker.HealthCheck(ctx); err != nil {
			checks[name] = err.Error()
			healthy = false
		} else {
			checks[name] = "ok"
		}
	}

	doc := map[string]any{
		"status":  "ok",
		"version": s.version,
	}
	if len(checks) > 0 {
		doc["checks"] = checks
	}

	status := http.StatusOK
	if !healthy {
		doc["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // Nothing to do if the client went away mid-write
	json.NewEncoder(w).Encode(doc)
}
