package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/okian/hireflow/pkg/logger"
	"github.com/okian/hireflow/pkg/metrics"
)

// Default cache configuration constants.
const (
	defaultTTL = 3600 * time.Second
)

// Cache is the namespaced, fail-open cache service.
type Cache struct {
	backend Backend
	ttl     time.Duration
	logger  logger.Logger
}

// New creates a cache over the given backend with configuration
// options.
func New(backend Backend, opts ...Option) *Cache {
	c := &Cache{
		backend: backend,
		ttl:     defaultTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("cache")
	}
	return c
}

// Set serializes value and stores it under the namespaced key.
// Returns false on any backend failure; caching is a performance
// optimization, never a correctness dependency.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		c.swallow(ctx, "set", err)
		return false
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	if err := c.backend.SetEx(ctx, namespaced(key), string(raw), ttl); err != nil {
		c.swallow(ctx, "set", err)
		return false
	}
	return true
}

// Get deserializes the cached value into out. Returns false on
// absence or any backend failure.
func (c *Cache) Get(ctx context.Context, key string, out any) bool {
	raw, err := c.backend.Get(ctx, namespaced(key))
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			c.swallow(ctx, "get", err)
		}
		metrics.RecordCacheMiss()
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		c.swallow(ctx, "get", err)
		metrics.RecordCacheMiss()
		return false
	}
	metrics.RecordCacheHit()
	return true
}

// Del removes the key. Returns true iff a key was actually removed.
func (c *Cache) Del(ctx context.Context, key string) bool {
	n, err := c.backend.Del(ctx, namespaced(key))
	if err != nil {
		c.swallow(ctx, "del", err)
		return false
	}
	return n > 0
}

// RateLimit is the result of a rate limiter increment or check.
type RateLimit struct {
	Count     int64 `json:"count"`
	Remaining int64 `json:"remaining"`
}

// IncrementRateLimit atomically increments the counter for identity.
// The expiry window is applied exactly once, on the increment that
// creates the counter; later increments never reset it. Fails open:
// on backend errors the caller sees a zero count and a full
// remaining budget.
func (c *Cache) IncrementRateLimit(ctx context.Context, identity string, window time.Duration, max int64) RateLimit {
	key := RateLimitKey(identity)
	count, err := c.backend.Incr(ctx, key)
	if err != nil {
		c.swallow(ctx, "rate_limit", err)
		return RateLimit{Count: 0, Remaining: max}
	}
	if count == 1 {
		if err := c.backend.Expire(ctx, key, window); err != nil {
			c.swallow(ctx, "rate_limit", err)
		}
	}
	remaining := max - count
	if remaining < 0 {
		remaining = 0
	}
	if count > max {
		metrics.RecordRateLimitRejected()
	}
	return RateLimit{Count: count, Remaining: remaining}
}

// CheckRateLimit reads the current count without incrementing.
// Returns 0 when absent or on backend failure.
func (c *Cache) CheckRateLimit(ctx context.Context, identity string) int64 {
	raw, err := c.backend.Get(ctx, RateLimitKey(identity))
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			c.swallow(ctx, "rate_limit", err)
		}
		return 0
	}
	var count int64
	if err := json.Unmarshal([]byte(raw), &count); err != nil {
		c.swallow(ctx, "rate_limit", err)
		return 0
	}
	return count
}

// swallow records a backend failure without letting it escape.
func (c *Cache) swallow(ctx context.Context, op string, err error) {
	metrics.RecordCacheError()
	c.logger.Warn(ctx, "cache backend error",
		logger.String("op", op),
		logger.Error(err),
	)
}
