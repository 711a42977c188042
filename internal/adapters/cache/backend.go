// Package cache provides a namespaced read-through cache and a
// counter-based rate limiter over a remote key-value backend.
//
// The backend is an optional accelerator: every operation degrades
// to a no-op or a miss on backend failure instead of propagating
// the error.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Backend is the narrow key-value contract the cache needs. It
// mirrors the string-keyed TTL operations of the remote store.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	SetEx(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) (int64, error)
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}

// ErrMiss distinguishes an absent key from a backend failure.
var ErrMiss = redis.Nil

// redisBackend adapts a go-redis client to Backend.
type redisBackend struct {
	rdb *redis.Client
}

// NewRedisBackend wraps a go-redis client.
func NewRedisBackend(rdb *redis.Client) Backend {
	return &redisBackend{rdb: rdb}
}

func (b *redisBackend) Get(ctx context.Context, key string) (string, error) {
	return b.rdb.Get(ctx, key).Result()
}

func (b *redisBackend) SetEx(ctx context.Context, key, value string, ttl time.Duration) error {
	return b.rdb.SetEx(ctx, key, value, ttl).Err()
}

func (b *redisBackend) Del(ctx context.Context, key string) (int64, error) {
	return b.rdb.Del(ctx, key).Result()
}

func (b *redisBackend) Incr(ctx context.Context, key string) (int64, error) {
	return b.rdb.Incr(ctx, key).Result()
}

func (b *redisBackend) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return b.rdb.Expire(ctx, key, ttl).Err()
}

func (b *redisBackend) TTL(ctx context.Context, key string) (time.Duration, error) {
	return b.rdb.TTL(ctx, key).Result()
}
