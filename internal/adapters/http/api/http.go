// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/hireflow/internal/adapters/cache"
	"github.com/okian/hireflow/internal/app"
	"github.com/okian/hireflow/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle
// keeps the handler layer loosely coupled to the orchestrator.
type Dependencies interface {
	ScoreAssessment(ctx context.Context, assessmentID string) (app.ScoreResult, error)

	WebhookConfigBySecret(ctx context.Context, secret string) (*model.WebhookConfig, error)
	LogWebhookEvent(ctx context.Context, tenantID, event string, payload map[string]any, handled bool, handlerErr error)

	NotifyApplicationSubmitted(ctx context.Context, applicationID string)
	NotifyCandidateShortlisted(ctx context.Context, applicationID string, score float64)
	NotifyCandidateRejected(ctx context.Context, applicationID, reason string)

	RecordEmailEvent(ctx context.Context, providerMessageID, status, reason string) error

	Dashboard(ctx context.Context, tenantID string) (app.DashboardStats, error)

	RateLimit(ctx context.Context, identity string) cache.RateLimit
	RateLimitMax() int64
}

// Server wires HTTP routes for the scoring API.
type Server struct {
	scoreHandler     *ScoreHandler
	webhookHandler   *WebhookHandler
	emailHandler     *EmailWebhookHandler
	dashboardHandler *DashboardHandler
	healthHandler    *HealthHandler
	deps             Dependencies
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		scoreHandler:     NewScoreHandler(deps),
		webhookHandler:   NewWebhookHandler(deps),
		emailHandler:     NewEmailWebhookHandler(deps),
		dashboardHandler: NewDashboardHandler(deps),
		healthHandler:    NewHealthHandler(),
		deps:             deps,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	limit := func(next http.HandlerFunc) http.HandlerFunc {
		return RateLimitMiddleware(s.deps, next)
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/assessments/score", MetricsMiddleware(limit(s.scoreHandler.HandleScore), "assessments_score"))
	mux.HandleFunc("/webhooks/external", MetricsMiddleware(s.webhookHandler.Handle, "webhooks_external"))
	mux.HandleFunc("/webhooks/email-provider", MetricsMiddleware(s.emailHandler.Handle, "webhooks_email"))
	mux.HandleFunc("/dashboard", MetricsMiddleware(limit(s.dashboardHandler.HandleDashboard), "dashboard"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
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
