// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/text/language"

	service "github.com/okian/floorwatch/internal/app"
	"github.com/okian/floorwatch/internal/domain/dashboard"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the session service.
type Dependencies interface {
	Open(ctx context.Context, tag language.Tag) (service.Session, error)
	View(ctx context.Context, id string, since int, tag language.Tag) (dashboard.View, error)
	Toggle(ctx context.Context, id string, tag language.Tag) (dashboard.View, error)
	NewBatch(ctx context.Context, id, key string, tag language.Tag) (service.BatchResult, error)
	Close(ctx context.Context, id string) error
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	sessionsHandler *SessionsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		sessionsHandler: NewSessionsHandler(deps),
	}
}

// Register attaches all API routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	route := func(method, pattern string, h http.HandlerFunc) {
		mux.HandleFunc(method+" "+pattern, MetricsMiddleware(h, pattern))
	}
	route(http.MethodGet, "/healthz", s.healthHandler.HandleHealth)
	route(http.MethodGet, "/metrics", s.healthHandler.HandleHealth)
	route(http.MethodGet, "/stats", s.statsHandler.HandleStats)

	route(http.MethodPost, "/api/sessions", s.sessionsHandler.HandleOpen)
	route(http.MethodGet, "/api/sessions/{id}", s.sessionsHandler.HandleView)
	route(http.MethodDelete, "/api/sessions/{id}", s.sessionsHandler.HandleClose)
	route(http.MethodPost, "/api/sessions/{id}/toggle", s.sessionsHandler.HandleToggle)
	route(http.MethodPost, "/api/sessions/{id}/batch", s.sessionsHandler.HandleBatch)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service errors into HTTP responses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrSessionClosed):
		writeError(w, http.StatusGone, "session_closed", err)
	case errors.Is(err, service.ErrBusy), errors.Is(err, ErrBackpressure):
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusTooManyRequests, "backpressure", err)
	case errors.Is(err, service.ErrNotStarted),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal", err)
	}
}
