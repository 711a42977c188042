// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/okian/hireflow/pkg/metrics"
)

// Webhook auth headers.
const (
	headerWebhookSignature = "x-webhook-signature"
	headerWebhookSecret    = "x-webhook-secret"
)

// Internal event names the webhook dispatches on. Unknown names are
// acknowledged but produce no action.
const (
	EventApplicationCreated   = "application.created"
	EventApplicationUpdated   = "application.updated"
	EventAssessmentSubmitted  = "assessment.submitted"
	EventCandidateShortlisted = "candidate.shortlisted"
	EventCandidateRejected    = "candidate.rejected"
)

// SupportedWebhookEvents lists the handled internal event names.
var SupportedWebhookEvents = []string{
	EventApplicationCreated,
	EventApplicationUpdated,
	EventAssessmentSubmitted,
	EventCandidateShortlisted,
	EventCandidateRejected,
}

// webhookRequest mirrors the POST /webhooks/external body.
type webhookRequest struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data"`
}

type webhookAck struct {
	Received bool   `json:"received"`
	Event    string `json:"event,omitempty"`
}

// WebhookHandler handles the internal event webhook.
type WebhookHandler struct {
	deps Dependencies
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(deps Dependencies) *WebhookHandler {
	return &WebhookHandler{deps: deps}
}

// Handle routes GET (discovery) and POST (ingestion) for
// /webhooks/external.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"events": SupportedWebhookEvents})
	case http.MethodPost:
		h.handlePost(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handlePost authenticates the delivery, dispatches the named
// handler, and writes exactly one webhook log row after dispatch
// completes or fails. Auth happens before any side effect.
func (h *WebhookHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	secret := r.Header.Get(headerWebhookSecret)
	signature := r.Header.Get(headerWebhookSignature)
	if secret == "" || signature == "" {
		metrics.RecordWebhookUnauthorized()
		writeError(w, http.StatusUnauthorized, "unauthorized", ErrMissingCredentials)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	cfg, err := h.deps.WebhookConfigBySecret(r.Context(), secret)
	if err != nil {
		metrics.RecordWebhookUnauthorized()
		writeError(w, http.StatusUnauthorized, "unauthorized", ErrInvalidCredentials)
		return
	}
	if !verifySignature(body, secret, signature) {
		metrics.RecordWebhookUnauthorized()
		writeError(w, http.StatusUnauthorized, "unauthorized", ErrInvalidCredentials)
		return
	}

	var req webhookRequest
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	metrics.RecordWebhookEvent(req.Event)
	handled, handlerErr := h.dispatch(r, req)

	// One log row per received delivery, matched or not, after the
	// handler ran.
	h.deps.LogWebhookEvent(r.Context(), cfg.TenantID, req.Event, req.Data, handled, handlerErr)

	writeJSON(w, http.StatusOK, webhookAck{Received: true, Event: req.Event})
}

// dispatch invokes the named handler. Handler failures are returned
// for logging but never fail the delivery; the provider still gets
// an acknowledgement.
func (h *WebhookHandler) dispatch(r *http.Request, req webhookRequest) (bool, error) {
	ctx := r.Context()
	switch req.Event {
	case EventApplicationCreated:
		h.deps.NotifyApplicationSubmitted(ctx, stringField(req.Data, "application_id"))
		return true, nil
	case EventApplicationUpdated:
		// Nothing for the pipeline to do; acknowledged and logged.
		return true, nil
	case EventAssessmentSubmitted:
		// Re-enters the scoring orchestrator. A failed trigger is
		// log-and-continue.
		_, err := h.deps.ScoreAssessment(ctx, stringField(req.Data, "assessment_id"))
		return err == nil, err
	case EventCandidateShortlisted:
		h.deps.NotifyCandidateShortlisted(ctx, stringField(req.Data, "application_id"), floatField(req.Data, "score"))
		return true, nil
	case EventCandidateRejected:
		h.deps.NotifyCandidateRejected(ctx, stringField(req.Data, "application_id"), stringField(req.Data, "reason"))
		return true, nil
	default:
		return false, nil
	}
}

func verifySignature(body []byte, secret, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func stringField(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func floatField(data map[string]any, key string) float64 {
	if v, ok := data[key].(float64); ok {
		return v
	}
	return 0
}
