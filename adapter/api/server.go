// Package api provides the HTTP API for the Praxis scheduling engine.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Server is the HTTP API server.
type Server struct {
	mux       *http.ServeMux
	server    *http.Server
	logger    *slog.Logger
	bookings  *BookingHandler
	locations *LocationHandler
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "127.0.0.1:8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig, bookings *BookingHandler, locations *LocationHandler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	s := &Server{
		mux:       mux,
		logger:    logger,
		bookings:  bookings,
		locations: locations,
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// registerRoutes sets up the API routes.
func (s *Server) registerRoutes() {
	// Health check
	s.mux.HandleFunc("GET /health", s.handleHealth)

	// Bookings API v1
	s.mux.HandleFunc("GET /api/v1/bookings", s.bookings.List)
	s.mux.HandleFunc("POST /api/v1/bookings", s.bookings.Create)
	s.mux.HandleFunc("POST /api/v1/bookings/recurring", s.bookings.CreateRecurring)
	s.mux.HandleFunc("GET /api/v1/bookings/{bookingID}", s.bookings.Get)
	s.mux.HandleFunc("PUT /api/v1/bookings/{bookingID}", s.bookings.Reschedule)
	s.mux.HandleFunc("PATCH /api/v1/bookings/{bookingID}/row", s.bookings.UpdateRow)
	s.mux.HandleFunc("DELETE /api/v1/bookings/{bookingID}", s.bookings.Delete)

	// Day view
	s.mux.HandleFunc("GET /api/v1/schedule/day", s.bookings.DaySchedule)
	s.mux.HandleFunc("GET /api/v1/schedule/day/export", s.bookings.ExportDay)

	// Locations
	s.mux.HandleFunc("GET /api/v1/locations", s.locations.List)
	s.mux.HandleFunc("GET /api/v1/locations/{key}", s.locations.Get)
	s.mux.HandleFunc("PUT /api/v1/locations/{key}", s.locations.Put)
	s.mux.HandleFunc("DELETE /api/v1/locations/{key}", s.locations.Delete)
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting API server",
		"addr", s.server.Addr,
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error":   http.StatusText(status),
		"message": message,
	})
}

// writeMessages writes a rejection payload in the shape clients classify.
func writeMessages(w http.ResponseWriter, status int, messages []string) {
	writeJSON(w, status, map[string]any{
		"messages": messages,
	})
}
