// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/sharpscore/internal/app"
	"github.com/okian/sharpscore/internal/domain/fingerprint"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Score returns the aggregated score and reason for a user.
	Score(ctx context.Context, userID string) (service.Decision, error)

	// Activity returns a user's stored records, empty when unknown.
	Activity(ctx context.Context, userID string) ([]fingerprint.Record, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	limitHandler    *LimitHandler
	activityHandler *ActivityHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		limitHandler:    NewLimitHandler(deps),
		activityHandler: NewActivityHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	mux.Handle("/metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/limit-increase", MetricsMiddleware(s.limitHandler.HandleLimitIncrease, "limit_increase"))
	mux.HandleFunc("/user-activity", MetricsMiddleware(s.activityHandler.HandleUserActivity, "user_activity"))
}

// userRequest is the body of POST /limit-increase and POST /user-activity.
type userRequest struct {
	UserID *string `json:"userId"`
}

// successResponse wraps every successful payload.
type successResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

// errorResponse wraps every failure.
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, successResponse{Status: "success", Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Status: "error", Message: msg})
}
