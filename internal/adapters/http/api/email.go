// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/okian/hireflow/pkg/metrics"
)

// Email provider delivery event types.
const (
	EmailEventSent            = "sent"
	EmailEventDelivered       = "delivered"
	EmailEventDeliveryDelayed = "delivery_delayed"
	EmailEventBounced         = "bounced"
	EmailEventComplained      = "complained"
	EmailEventClicked         = "clicked"
	EmailEventOpened          = "opened"
)

// SupportedEmailEvents lists the handled delivery event types.
var SupportedEmailEvents = []string{
	EmailEventSent,
	EmailEventDelivered,
	EmailEventDeliveryDelayed,
	EmailEventBounced,
	EmailEventComplained,
	EmailEventClicked,
	EmailEventOpened,
}

// emailStatuses maps provider event types to email log statuses.
var emailStatuses = map[string]string{
	EmailEventSent:            "sent",
	EmailEventDelivered:       "delivered",
	EmailEventDeliveryDelayed: "delayed",
	EmailEventBounced:         "bounced",
	EmailEventComplained:      "complained",
	EmailEventClicked:         "clicked",
	EmailEventOpened:          "opened",
}

// emailEvent mirrors the provider's event envelope.
type emailEvent struct {
	Type string `json:"type"`
	Data struct {
		EmailID string `json:"email_id"`
		Reason  string `json:"reason"`
	} `json:"data"`
}

// EmailWebhookHandler handles the email provider delivery webhook.
//
// The endpoint always acknowledges with received:true, even when
// internal persistence fails, to avoid provider retry storms. Real
// failures are visible only through the observability collector.
type EmailWebhookHandler struct {
	deps Dependencies
	// secret enables signature verification when set; verification
	// is a configuration option for this endpoint, not mandatory.
	secret string
}

// NewEmailWebhookHandler creates a new email webhook handler.
func NewEmailWebhookHandler(deps Dependencies) *EmailWebhookHandler {
	return &EmailWebhookHandler{deps: deps}
}

// Handle routes GET (discovery) and POST (ingestion) for
// /webhooks/email-provider.
func (h *EmailWebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"events": SupportedEmailEvents})
	case http.MethodPost:
		h.handlePost(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *EmailWebhookHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	if h.secret != "" {
		sig := r.Header.Get(headerWebhookSignature)
		if !verifySignature(body, h.secret, sig) {
			metrics.RecordWebhookUnauthorized()
			writeError(w, http.StatusUnauthorized, "unauthorized", ErrInvalidCredentials)
			return
		}
	}

	var ev emailEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		// Only a parse failure breaks the always-200 contract.
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	status, known := emailStatuses[ev.Type]
	if !known {
		// Unknown delivery events are logged and ignored.
		metrics.RecordErrorByComponent("email_webhook", "unknown_event")
		writeJSON(w, http.StatusOK, webhookAck{Received: true})
		return
	}

	// Per-event failures are caught and reported; the provider
	// still gets its acknowledgement.
	if err := h.deps.RecordEmailEvent(r.Context(), ev.Data.EmailID, status, ev.Data.Reason); err != nil {
		metrics.RecordErrorByComponent("email_webhook", "persist_failed")
	}

	writeJSON(w, http.StatusOK, webhookAck{Received: true})
}
