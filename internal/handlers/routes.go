package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	if len(h.opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Operational endpoints sit outside the rate limit and timeout
	r.Get("/healthz", h.handleHealth)
	if h.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.opts.Metrics)
	}
	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	r.Group(func(r chi.Router) {
		if h.limiter != nil {
			r.Use(h.limiter.Middleware)
		}
		r.Use(middleware.Timeout(60 * time.Second))

		if h.staticServer != nil {
			r.Handle("/static/*", http.StripPrefix("/static/", h.staticServer))
		}
		if h.templates != nil {
			r.Get("/", h.handleIndex)
			r.Get("/e/{token}", h.handleSchedulePage)
		}

		// Auth (public)
		r.Post("/api/auth/login", h.handleLogin)
		r.Post("/api/auth/logout", h.handleLogout)

		// Read-only API (public)
		r.Get("/api/events/{eventID}", h.handleGetEvent)
		r.Get("/api/events/{eventID}/participants", h.handleListParticipants)
		r.Put("/api/events/{eventID}/participants/{epID}/attendance", h.handleSetAttendance)
		r.Get("/api/events/{eventID}/schedule", h.handleGetSchedule)
		r.Get("/api/events/{eventID}/schedule/status", h.handleScheduleStatus)
		r.Get("/api/events/{eventID}/schedule/qr.png", h.handleScheduleQR)

		// Organizer API (protected)
		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireAuthAPI)

			r.Get("/api/events", h.handleListEvents)
			r.Post("/api/events", h.handleCreateEvent)
			r.Post("/api/events/{eventID}/participants", h.handleAddParticipant)
			r.Post("/api/events/{eventID}/participants/import", h.handleImportParticipants)

			r.Post("/api/events/{eventID}/schedule/generate", h.handleGenerate)
			r.Get("/api/events/{eventID}/schedule/draft", h.handleGetDraft)
			r.Post("/api/events/{eventID}/schedule/publish", h.handlePublish)
			r.Post("/api/events/{eventID}/schedule/reset", h.handleReset)
			r.Post("/api/events/{eventID}/schedule/scores", h.handleSetScore)
			r.Post("/api/events/{eventID}/schedule/substitute", h.handleSubstitute)

			r.Get("/api/settings", h.handleGetSettings)
			r.Put("/api/settings", h.handleUpdateSettings)
		})
	})

	return r
}

// handleHealth reports whether the store is reachable
func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.opts.Health != nil {
		if err := h.opts.Health(r.Context()); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	respondOK(w, map[string]string{"status": "ok"})
}
