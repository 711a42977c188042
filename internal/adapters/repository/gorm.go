package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/okian/hireflow/internal/domain/model"
)

// GormStore implements Store over a relational database through the
// GORM query builder.
type GormStore struct {
	db          *gorm.DB
	autoMigrate bool
}

// NewGormStore wraps a gorm handle with configuration options.
func NewGormStore(db *gorm.DB, opts ...Option) (*GormStore, error) {
	s := &GormStore{db: db}
	for _, opt := range opts {
		opt(s)
	}
	if s.autoMigrate {
		err := db.AutoMigrate(
			&model.Application{},
			&model.Assessment{},
			&model.JobSettings{},
			&model.AuditLogEntry{},
			&model.WebhookConfig{},
			&model.WebhookLog{},
			&model.EmailLog{},
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMigrate, err)
		}
	}
	return s, nil
}

// LoadAssessmentBundle fetches the assessment by primary key, then
// the application and job settings scoped by the assessment's
// tenant.
func (s *GormStore) LoadAssessmentBundle(ctx context.Context, assessmentID string) (*AssessmentBundle, error) {
	var b AssessmentBundle

	err := s.db.WithContext(ctx).
		Where("id = ?", assessmentID).
		First(&b.Assessment).Error
	if err != nil {
		return nil, translate(err)
	}

	tenantID := b.Assessment.TenantID
	err = s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", b.Assessment.ApplicationID, tenantID).
		First(&b.Application).Error
	if err != nil {
		return nil, translate(err)
	}

	var settings model.JobSettings
	err = s.db.WithContext(ctx).
		Where("job_id = ? AND tenant_id = ?", b.Application.JobID, tenantID).
		First(&settings).Error
	switch {
	case err == nil:
		b.Settings = &settings
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Settings are optional; the stage rule has a default.
	default:
		return nil, translate(err)
	}

	return &b, nil
}

// SaveAssessmentScores persists score fields onto the assessment.
// Last write wins; re-running scoring is idempotent for these
// columns.
func (s *GormStore) SaveAssessmentScores(ctx context.Context, tenantID, assessmentID string, scores *model.AIScoreRecord, scoredAt time.Time) error {
	res := s.db.WithContext(ctx).
		Model(&model.Assessment{}).
		Where("id = ? AND tenant_id = ?", assessmentID, tenantID).
		Updates(map[string]any{
			"status":          model.AssessmentAIScored,
			"ai_scores":       scores,
			"composite_score": scores.CompositeScore,
			"scored_at":       scoredAt,
		})
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrWrite, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateApplicationStage persists the new stage and coarse status.
func (s *GormStore) UpdateApplicationStage(ctx context.Context, tenantID, applicationID string, stage model.Stage, status string) error {
	res := s.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("id = ? AND tenant_id = ?", applicationID, tenantID).
		Updates(map[string]any{
			"stage":  stage,
			"status": status,
		})
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrWrite, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendAuditLog appends one audit entry.
func (s *GormStore) AppendAuditLog(ctx context.Context, entry model.AuditLogEntry) error {
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// WebhookConfigBySecret resolves an enabled credential by secret.
func (s *GormStore) WebhookConfigBySecret(ctx context.Context, secret string) (*model.WebhookConfig, error) {
	var cfg model.WebhookConfig
	err := s.db.WithContext(ctx).
		Where("secret = ? AND enabled = ?", secret, true).
		First(&cfg).Error
	if err != nil {
		return nil, translate(err)
	}
	return &cfg, nil
}

// AppendWebhookLog appends one delivery record.
func (s *GormStore) AppendWebhookLog(ctx context.Context, entry model.WebhookLog) error {
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// EmailLogByProviderID resolves an email log by provider message id.
func (s *GormStore) EmailLogByProviderID(ctx context.Context, providerMessageID string) (*model.EmailLog, error) {
	var log model.EmailLog
	err := s.db.WithContext(ctx).
		Where("provider_message_id = ?", providerMessageID).
		First(&log).Error
	if err != nil {
		return nil, translate(err)
	}
	return &log, nil
}

// UpdateEmailLogStatus records a delivery event.
func (s *GormStore) UpdateEmailLogStatus(ctx context.Context, tenantID, providerMessageID, status, reason string, at time.Time) error {
	res := s.db.WithContext(ctx).
		Model(&model.EmailLog{}).
		Where("provider_message_id = ? AND tenant_id = ?", providerMessageID, tenantID).
		Updates(map[string]any{
			"status":        status,
			"status_reason": reason,
			"last_event_at": at,
		})
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrWrite, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountApplicationsByStage groups tenant applications by stage.
func (s *GormStore) CountApplicationsByStage(ctx context.Context, tenantID string) (map[string]int64, error) {
	return s.groupCount(ctx, &model.Application{}, "stage", tenantID)
}

// CountAssessmentsByStatus groups tenant assessments by status.
func (s *GormStore) CountAssessmentsByStatus(ctx context.Context, tenantID string) (map[string]int64, error) {
	return s.groupCount(ctx, &model.Assessment{}, "status", tenantID)
}

// CountEmailsByStatus groups tenant email logs by delivery status.
func (s *GormStore) CountEmailsByStatus(ctx context.Context, tenantID string) (map[string]int64, error) {
	return s.groupCount(ctx, &model.EmailLog{}, "status", tenantID)
}

func (s *GormStore) groupCount(ctx context.Context, mdl any, column, tenantID string) (map[string]int64, error) {
	var rows []StageCount
	err := s.db.WithContext(ctx).
		Model(mdl).
		Select(column+" AS k, COUNT(*) AS n").
		Where("tenant_id = ?", tenantID).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Count
	}
	return out, nil
}

// translate maps gorm errors onto this package's sentinels.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrQuery, err)
}
