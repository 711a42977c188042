// Package repository defines the persistence contract for the
// scoring pipeline and its GORM-backed implementation.
//
// Every read or write after the initial primary-key assessment load
// is scoped by tenant id; this is the multi-tenancy isolation
// invariant and must hold for every query added here.
package repository

import (
	"context"
	"time"

	"github.com/okian/hireflow/internal/domain/model"
)

// AssessmentBundle is the single-fetch load the orchestrator starts
// from: the assessment, its application, and the job's settings.
type AssessmentBundle struct {
	Assessment  model.Assessment
	Application model.Application
	// Settings is nil when the job has no settings row; the stage
	// rule falls back to its default threshold.
	Settings *model.JobSettings
}

// StageCount is one row of a dashboard aggregate.
type StageCount struct {
	Key   string `gorm:"column:k"`
	Count int64  `gorm:"column:n"`
}

// Store is the persistence contract consumed by the orchestrator and
// the webhook handlers.
type Store interface {
	// LoadAssessmentBundle fetches assessment, application, and job
	// settings in one logical load. Returns ErrNotFound when the
	// assessment does not exist.
	LoadAssessmentBundle(ctx context.Context, assessmentID string) (*AssessmentBundle, error)

	// SaveAssessmentScores persists the score record, composite,
	// ai_scored status, and scoring timestamp.
	SaveAssessmentScores(ctx context.Context, tenantID, assessmentID string, scores *model.AIScoreRecord, scoredAt time.Time) error

	// UpdateApplicationStage persists a stage and its coarse status.
	UpdateApplicationStage(ctx context.Context, tenantID, applicationID string, stage model.Stage, status string) error

	// AppendAuditLog appends one audit entry.
	AppendAuditLog(ctx context.Context, entry model.AuditLogEntry) error

	// WebhookConfigBySecret resolves an enabled webhook credential.
	// Returns ErrNotFound when no enabled config matches.
	WebhookConfigBySecret(ctx context.Context, secret string) (*model.WebhookConfig, error)

	// AppendWebhookLog appends one webhook delivery record.
	AppendWebhookLog(ctx context.Context, entry model.WebhookLog) error

	// EmailLogByProviderID resolves an email log row by the
	// provider's message id. Returns ErrNotFound when absent.
	EmailLogByProviderID(ctx context.Context, providerMessageID string) (*model.EmailLog, error)

	// UpdateEmailLogStatus records a delivery event on the email log.
	UpdateEmailLogStatus(ctx context.Context, tenantID, providerMessageID, status, reason string, at time.Time) error

	// Dashboard aggregates. Each is an independent read-only query so
	// callers may issue them concurrently.
	CountApplicationsByStage(ctx context.Context, tenantID string) (map[string]int64, error)
	CountAssessmentsByStatus(ctx context.Context, tenantID string) (map[string]int64, error)
	CountEmailsByStatus(ctx context.Context, tenantID string) (map[string]int64, error)
}
