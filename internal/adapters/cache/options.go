package cache

import (
	"time"

	"github.com/okian/hireflow/pkg/logger"
)

// Option applies a configuration option to the Cache.
type Option func(*Cache)

// WithDefaultTTL sets the TTL used when a caller passes none.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLogger sets a custom logger for the cache.
func WithLogger(l logger.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}
