// Package notify defines the outbound notification trigger contract
// and an AMQP-backed implementation.
//
// Triggers are fire-and-forget from the orchestrator's perspective:
// the caller catches and reports errors, a delivery outage never
// blocks pipeline progress.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/okian/hireflow/pkg/metrics"
)

// Notification kinds published on the bus.
const (
	KindAssessmentScored     = "assessment.scored"
	KindApplicationSubmitted = "application.submitted"
	KindCandidateShortlisted = "candidate.shortlisted"
	KindCandidateRejected    = "candidate.rejected"
)

// Default AMQP configuration constants.
const (
	defaultExchange = "hireflow.notifications"
)

// Trigger maps pipeline events to outbound notification requests.
type Trigger interface {
	OnAssessmentScored(ctx context.Context, assessmentID string) error
	OnApplicationSubmitted(ctx context.Context, applicationID string) error
	OnCandidateShortlisted(ctx context.Context, applicationID string, score float64) error
	OnCandidateRejected(ctx context.Context, applicationID, reason string) error
}

// Envelope is the JSON message published per trigger.
type Envelope struct {
	Kind     string    `json:"kind"`
	RecordID string    `json:"record_id"`
	Score    *float64  `json:"score,omitempty"`
	Reason   string    `json:"reason,omitempty"`
	At       time.Time `json:"at"`
}

// Publisher is the narrow slice of an AMQP channel the trigger
// needs; *amqp.Channel satisfies it.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPTrigger publishes notification envelopes to a fanout exchange
// consumed by the email worker.
type AMQPTrigger struct {
	ch       Publisher
	exchange string
	now      func() time.Time
}

// Option applies a configuration option to the AMQPTrigger.
type Option func(*AMQPTrigger)

// WithExchange overrides the target exchange.
func WithExchange(name string) Option {
	return func(t *AMQPTrigger) {
		if name != "" {
			t.exchange = name
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(t *AMQPTrigger) {
		if now != nil {
			t.now = now
		}
	}
}

// NewAMQPTrigger creates a trigger over an AMQP channel.
func NewAMQPTrigger(ch Publisher, opts ...Option) *AMQPTrigger {
	t := &AMQPTrigger{
		ch:       ch,
		exchange: defaultExchange,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// DeclareExchange sets up the fanout exchange on a real channel.
// Call once at startup.
func DeclareExchange(ch *amqp.Channel, name string) error {
	if name == "" {
		name = defaultExchange
	}
	if err := ch.ExchangeDeclare(name, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}
	return nil
}

// OnAssessmentScored publishes an assessment-scored trigger.
func (t *AMQPTrigger) OnAssessmentScored(ctx context.Context, assessmentID string) error {
	return t.publish(ctx, Envelope{Kind: KindAssessmentScored, RecordID: assessmentID})
}

// OnApplicationSubmitted publishes an application-submitted trigger.
func (t *AMQPTrigger) OnApplicationSubmitted(ctx context.Context, applicationID string) error {
	return t.publish(ctx, Envelope{Kind: KindApplicationSubmitted, RecordID: applicationID})
}

// OnCandidateShortlisted publishes a shortlist trigger with the
// composite score that crossed the threshold.
func (t *AMQPTrigger) OnCandidateShortlisted(ctx context.Context, applicationID string, score float64) error {
	return t.publish(ctx, Envelope{Kind: KindCandidateShortlisted, RecordID: applicationID, Score: &score})
}

// OnCandidateRejected publishes a rejection trigger.
func (t *AMQPTrigger) OnCandidateRejected(ctx context.Context, applicationID, reason string) error {
	return t.publish(ctx, Envelope{Kind: KindCandidateRejected, RecordID: applicationID, Reason: reason})
}

func (t *AMQPTrigger) publish(ctx context.Context, env Envelope) error {
	env.At = t.now().UTC()
	body, err := json.Marshal(env)
	if err != nil {
		metrics.RecordNotificationError()
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}
	err = t.ch.PublishWithContext(ctx, t.exchange, env.Kind, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   env.At,
		Body:        body,
	})
	if err != nil {
		metrics.RecordNotificationError()
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}
	metrics.RecordNotificationDispatched(env.Kind)
	return nil
}
