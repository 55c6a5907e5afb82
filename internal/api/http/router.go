// Package http serves the admin endpoints of the daemon: health, metrics and
// the approval outcome history.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/approver/internal/logger"
	"github.com/dtroode/approver/internal/model"
)

const (
	defaultOutcomeLimit = 50
	maxOutcomeLimit     = 500
	healthTimeout       = 2 * time.Second
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OutcomeLister lists recorded approval outcomes for a user, newest first.
type OutcomeLister interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]model.Outcome, error)
}

// Router serves admin endpoints.
type Router struct {
	db       Pinger
	outcomes OutcomeLister
	gatherer prometheus.Gatherer
	logger   *logger.Logger
}

// NewRouter creates a new admin Router.
func NewRouter(db Pinger, outcomes OutcomeLister, gatherer prometheus.Gatherer, logger *logger.Logger) *Router {
	return &Router{db: db, outcomes: outcomes, gatherer: gatherer, logger: logger}
}

// Register builds the chi handler.
func (rt *Router) Register() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", rt.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(rt.gatherer, promhttp.HandlerOpts{}))
	r.Get("/v1/users/{user_id}/outcomes", rt.handleListOutcomes)

	return r
}

type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := rt.db.Ping(ctx); err != nil {
		rt.logger.Error("Admin router: health check failed", "error", err.Error())
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

type outcomeDTO struct {
	ID        string    `json:"id"`
	CycleID   string    `json:"cycle_id"`
	SessionID string    `json:"session_id,omitempty"`
	UserID    string    `json:"user_id"`
	Kind      string    `json:"kind"`
	Result    string    `json:"result"`
	Choice    *int      `json:"choice,omitempty"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type outcomesResponse struct {
	Outcomes []outcomeDTO `json:"outcomes"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (rt *Router) handleListOutcomes(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	limit := defaultOutcomeLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = min(n, maxOutcomeLimit)
	}

	outcomes, err := rt.outcomes.ListByUser(r.Context(), userID, limit)
	if err != nil {
		rt.logger.Error("Admin router: failed to list outcomes",
			"user_id", userID,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err.Error())
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}

	resp := outcomesResponse{Outcomes: make([]outcomeDTO, 0, len(outcomes))}
	for _, o := range outcomes {
		resp.Outcomes = append(resp.Outcomes, outcomeDTO{
			ID:        o.ID.String(),
			CycleID:   o.CycleID.String(),
			SessionID: o.SessionID,
			UserID:    o.UserID,
			Kind:      string(o.Kind),
			Result:    string(o.Result),
			Choice:    o.Choice,
			Message:   o.Message,
			CreatedAt: o.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
