// Package app provides the scoring orchestrator that implements the
// dependencies required by the HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/hireflow/internal/adapters/cache"
	"github.com/okian/hireflow/internal/adapters/notify"
	"github.com/okian/hireflow/internal/adapters/repository"
	"github.com/okian/hireflow/internal/domain/model"
	"github.com/okian/hireflow/internal/domain/scoring"
	"github.com/okian/hireflow/internal/domain/stage"
	"github.com/okian/hireflow/pkg/logger"
	"github.com/okian/hireflow/pkg/metrics"
	"github.com/okian/hireflow/pkg/report"
)

// Default service configuration constants.
const (
	defaultRateLimitWindow = 60 * time.Second
	defaultRateLimitMax    = 100
	scoreCacheTTL          = 10 * time.Minute
)

// ScoreResult is what a completed scoring run returns to the caller.
type ScoreResult struct {
	Scores *model.AIScoreRecord `json:"scores"`
	Stage  model.Stage          `json:"stage"`
}

// DashboardStats aggregates tenant-wide pipeline counts.
type DashboardStats struct {
	Applications map[string]int64 `json:"applications_by_stage"`
	Assessments  map[string]int64 `json:"assessments_by_status"`
	Emails       map[string]int64 `json:"emails_by_status"`
}

// Service orchestrates the scoring pipeline: fetch, score, persist,
// transition, audit, notify. All collaborators are injected; there
// is no ambient global lookup.
type Service struct {
	store    repository.Store
	cache    *cache.Cache
	scorer   scoring.Scorer
	notifier notify.Trigger
	reporter report.Reporter
	logger   logger.Logger

	rateLimitWindow time.Duration
	rateLimitMax    int64

	now   func() time.Time
	newID func() string

	// dispatch runs a best-effort side effect. Replaced in tests to
	// run synchronously.
	dispatch func(fn func())
	wg       sync.WaitGroup
}

// New constructs a Service with the given options. Store and scorer
// are required; the rest default to no-op or global collaborators.
func New(opts ...Option) *Service {
	s := &Service{
		rateLimitWindow: defaultRateLimitWindow,
		rateLimitMax:    defaultRateLimitMax,
		now:             time.Now,
		newID:           uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("app")
	}
	if s.reporter == nil {
		s.reporter = report.NewLogReporter(s.logger)
	}
	if s.dispatch == nil {
		s.dispatch = func(fn func()) {
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				fn()
			}()
		}
	}
	return s
}

// Close waits for in-flight best-effort dispatches to finish.
func (s *Service) Close() {
	s.wg.Wait()
}

// ScoreAssessment runs the full pipeline for one assessment.
//
// Failure contract: load and score failures leave no state behind;
// a score-persist failure stops everything downstream; a
// stage-persist failure is a partial failure (scores kept, stage
// unchanged); audit and notification failures are contained.
func (s *Service) ScoreAssessment(ctx context.Context, assessmentID string) (ScoreResult, error) {
	// 1. Load assessment, application, and job settings.
	bundle, err := s.store.LoadAssessmentBundle(ctx, assessmentID)
	if err != nil {
		if isNotFound(err) {
			return ScoreResult{}, fmt.Errorf("%w: assessment %s", ErrNotFound, assessmentID)
		}
		return ScoreResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	tenantID := bundle.Assessment.TenantID

	// 2. Score. Side-effect free up to this point, safe to retry.
	start := s.now()
	scores, err := s.scorer.Score(ctx, scoring.Input{
		Content:  bundle.Assessment.Content,
		Settings: bundle.Settings,
	})
	metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordScoringError()
		return ScoreResult{}, fmt.Errorf("%w: %v", ErrScoringUnavailable, err)
	}

	// 3. Persist score fields. Gates everything downstream.
	scoredAt := s.now().UTC()
	if err := s.store.SaveAssessmentScores(ctx, tenantID, assessmentID, &scores, scoredAt); err != nil {
		return ScoreResult{}, fmt.Errorf("%w: save scores: %v", ErrPersistence, err)
	}
	metrics.RecordAssessmentScored()

	// 4. Stage transition. Required step; failure here is a partial
	// failure, the score write stays.
	threshold := stage.Threshold(bundle.Settings)
	decision := stage.Apply(bundle.Application.Stage, scores.CompositeScore, threshold)
	if decision.Changed {
		err := s.store.UpdateApplicationStage(ctx, tenantID, bundle.Application.ID, decision.Next, decision.Coarse)
		if err != nil {
			return ScoreResult{Scores: &scores, Stage: bundle.Application.Stage},
				fmt.Errorf("%w: update stage: %v", ErrPersistence, err)
		}
		metrics.RecordStageTransition(string(decision.Next))
	}

	// 5. Audit trail, best-effort.
	entry := model.AuditLogEntry{
		ID:        s.newID(),
		TenantID:  tenantID,
		Table:     model.Assessment{}.TableName(),
		RecordID:  assessmentID,
		Action:    model.AuditActionAIScored,
		Actor:     model.AuditActorSystem,
		CreatedAt: scoredAt,
		Changes: map[string]any{
			"ai_scores": scores,
			"stage":     decision.Next,
		},
	}
	if err := s.store.AppendAuditLog(ctx, entry); err != nil {
		s.reporter.Report(ctx, err, "audit", logger.String("assessment_id", assessmentID))
	}

	// 6. Notifications, one-way dispatch with error sink. Completion
	// is not awaited by the success path.
	s.dispatchNotifications(assessmentID, bundle.Application.ID, decision, scores.CompositeScore)

	// Warm the score cache; purely an accelerator.
	s.cacheScores(ctx, assessmentID, &scores)

	s.logger.Info(ctx, "assessment scored",
		logger.String("assessment_id", assessmentID),
		logger.Float64("composite", scores.CompositeScore),
		logger.String("stage", string(decision.Next)),
	)

	// 7. Return scores and resulting stage.
	return ScoreResult{Scores: &scores, Stage: decision.Next}, nil
}

func (s *Service) dispatchNotifications(assessmentID, applicationID string, decision stage.Decision, composite float64) {
	if s.notifier == nil {
		return
	}
	s.dispatch(func() {
		ctx := context.Background()
		if err := s.notifier.OnAssessmentScored(ctx, assessmentID); err != nil {
			s.reporter.Report(ctx, err, "notify", logger.String("assessment_id", assessmentID))
		}
		if decision.Changed && decision.Next == model.StageShortlisted {
			if err := s.notifier.OnCandidateShortlisted(ctx, applicationID, composite); err != nil {
				s.reporter.Report(ctx, err, "notify", logger.String("application_id", applicationID))
			}
		}
	})
}

func (s *Service) cacheScores(ctx context.Context, assessmentID string, scores *model.AIScoreRecord) {
	if s.cache == nil {
		return
	}
	s.cache.Set(ctx, cache.AIScoreKey(assessmentID), scores, scoreCacheTTL)
}

// NotifyApplicationSubmitted forwards the trigger, containing any
// dispatch failure.
func (s *Service) NotifyApplicationSubmitted(ctx context.Context, applicationID string) {
	if s.notifier == nil {
		return
	}
	s.dispatch(func() {
		bg := context.Background()
		if err := s.notifier.OnApplicationSubmitted(bg, applicationID); err != nil {
			s.reporter.Report(bg, err, "notify", logger.String("application_id", applicationID))
		}
	})
}

// NotifyCandidateShortlisted forwards the trigger, containing any
// dispatch failure.
func (s *Service) NotifyCandidateShortlisted(ctx context.Context, applicationID string, score float64) {
	if s.notifier == nil {
		return
	}
	s.dispatch(func() {
		bg := context.Background()
		if err := s.notifier.OnCandidateShortlisted(bg, applicationID, score); err != nil {
			s.reporter.Report(bg, err, "notify", logger.String("application_id", applicationID))
		}
	})
}

// NotifyCandidateRejected forwards the trigger, containing any
// dispatch failure.
func (s *Service) NotifyCandidateRejected(ctx context.Context, applicationID, reason string) {
	if s.notifier == nil {
		return
	}
	s.dispatch(func() {
		bg := context.Background()
		if err := s.notifier.OnCandidateRejected(bg, applicationID, reason); err != nil {
			s.reporter.Report(bg, err, "notify", logger.String("application_id", applicationID))
		}
	})
}

// WebhookConfigBySecret resolves an enabled webhook credential.
// Returns ErrUnauthorized when no enabled config matches.
func (s *Service) WebhookConfigBySecret(ctx context.Context, secret string) (*model.WebhookConfig, error) {
	cfg, err := s.store.WebhookConfigBySecret(ctx, secret)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return cfg, nil
}

// LogWebhookEvent appends one webhook log row. Best-effort: failures
// are reported, never escalated.
func (s *Service) LogWebhookEvent(ctx context.Context, tenantID, event string, payload map[string]any, handled bool, handlerErr error) {
	entry := model.WebhookLog{
		ID:        s.newID(),
		TenantID:  tenantID,
		Event:     event,
		Payload:   payload,
		Handled:   handled,
		CreatedAt: s.now().UTC(),
	}
	if handlerErr != nil {
		entry.HandlerErr = handlerErr.Error()
	}
	if err := s.store.AppendWebhookLog(ctx, entry); err != nil {
		s.reporter.Report(ctx, err, "webhook_log", logger.String("event", event))
	}
}

// RecordEmailEvent maps a provider delivery event onto the email log
// keyed by provider message id.
func (s *Service) RecordEmailEvent(ctx context.Context, providerMessageID, status, reason string) error {
	log, err := s.store.EmailLogByProviderID(ctx, providerMessageID)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: email %s", ErrNotFound, providerMessageID)
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	err = s.store.UpdateEmailLogStatus(ctx, log.TenantID, providerMessageID, status, reason, s.now().UTC())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	metrics.RecordEmailEvent(status)
	return nil
}

// Dashboard issues the independent tenant aggregates concurrently;
// they are mutually independent reads.
func (s *Service) Dashboard(ctx context.Context, tenantID string) (DashboardStats, error) {
	var (
		stats DashboardStats
		wg    sync.WaitGroup
		mu    sync.Mutex
		first error
	)

	run := func(name string, fn func() (map[string]int64, error), dst *map[string]int64) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			counts, err := fn()
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if first == nil {
					first = fmt.Errorf("%w: %s: %v", ErrPersistence, name, err)
				}
				return
			}
			*dst = counts
		}()
	}

	run("applications", func() (map[string]int64, error) { return s.store.CountApplicationsByStage(ctx, tenantID) }, &stats.Applications)
	run("assessments", func() (map[string]int64, error) { return s.store.CountAssessmentsByStatus(ctx, tenantID) }, &stats.Assessments)
	run("emails", func() (map[string]int64, error) { return s.store.CountEmailsByStatus(ctx, tenantID) }, &stats.Emails)

	wg.Wait()
	if first != nil {
		return DashboardStats{}, first
	}
	return stats, nil
}

// RateLimit increments and returns the counter for an identity using
// the configured window and budget. Fails open when no cache is
// wired.
func (s *Service) RateLimit(ctx context.Context, identity string) cache.RateLimit {
	if s.cache == nil {
		return cache.RateLimit{Count: 0, Remaining: s.rateLimitMax}
	}
	return s.cache.IncrementRateLimit(ctx, identity, s.rateLimitWindow, s.rateLimitMax)
}

// RateLimitMax exposes the configured per-window budget.
func (s *Service) RateLimitMax() int64 { return s.rateLimitMax }

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
