// Package app provides the scoring orchestrator that implements the
// dependencies required by the HTTP API.
package app

import (
	"time"

	"github.com/okian/hireflow/internal/adapters/cache"
	"github.com/okian/hireflow/internal/adapters/notify"
	"github.com/okian/hireflow/internal/adapters/repository"
	"github.com/okian/hireflow/internal/domain/scoring"
	"github.com/okian/hireflow/pkg/logger"
	"github.com/okian/hireflow/pkg/report"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the persistence store. Required.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCache sets the optional cache accelerator.
func WithCache(c *cache.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithScorer sets the AI scorer. Required.
func WithScorer(scorer scoring.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// WithNotifier sets the outbound notification trigger.
func WithNotifier(t notify.Trigger) Option {
	return func(s *Service) {
		s.notifier = t
	}
}

// WithReporter sets the observability reporter for contained
// failures.
func WithReporter(r report.Reporter) Option {
	return func(s *Service) {
		if r != nil {
			s.reporter = r
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRateLimit configures the per-identity request budget.
func WithRateLimit(window time.Duration, max int64) Option {
	return func(s *Service) {
		if window > 0 {
			s.rateLimitWindow = window
		}
		if max > 0 {
			s.rateLimitMax = max
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the id source for audit and log rows.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithSyncDispatch runs best-effort side effects inline instead of
// on a goroutine. Used by tests that assert on dispatch outcomes.
func WithSyncDispatch() Option {
	return func(s *Service) {
		s.dispatch = func(fn func()) { fn() }
	}
}
