// Package usage enforces a per-key daily cap on generative calls.
package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Counter increments the value at key, starting a fresh count that
// expires after ttl when the key is new.
type Counter interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type RedisCounter struct {
	rdb *redis.Client
}

func NewRedisCounter(rdb *redis.Client) *RedisCounter {
	return &RedisCounter{rdb: rdb}
}

func (c *RedisCounter) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, key, ttl).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

type MemoryCounter struct {
	cache *cache.Cache
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{cache: cache.New(24*time.Hour, 10*time.Minute)}
}

func (c *MemoryCounter) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	if err := c.cache.Add(key, int64(1), ttl); err == nil {
		return 1, nil
	}
	return c.cache.IncrementInt64(key, 1)
}

type Decision struct {
	Allowed bool      `json:"allowed"`
	Used    int64     `json:"used"`
	Limit   int       `json:"limit"`
	ResetAt time.Time `json:"resetAt"`
}

type Limiter struct {
	primary  Counter
	fallback Counter
	limit    int
	now      func() time.Time
}

type Option func(*Limiter)

func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

func WithFallback(c Counter) Option {
	return func(l *Limiter) { l.fallback = c }
}

// NewLimiter allows limit calls per key per UTC day. A limit of 0 disables
// counting entirely.
func NewLimiter(primary Counter, limit int, opts ...Option) *Limiter {
	l := &Limiter{
		primary: primary,
		limit:   limit,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Limiter) Enabled() bool {
	return l != nil && l.limit > 0
}

// Allow counts one call for key. When the primary counter fails the
// fallback is used; with neither available the call is let through.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.now().UTC()
	day := now.Format("2006-01-02")
	resetAt := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)

	if !l.Enabled() {
		return Decision{Allowed: true, ResetAt: resetAt}, nil
	}

	counterKey := fmt.Sprintf("usage:%s:%s", day, key)
	ttl := resetAt.Sub(now)

	used, err := l.primary.Incr(ctx, counterKey, ttl)
	if err != nil && l.fallback != nil {
		used, err = l.fallback.Incr(ctx, counterKey, ttl)
	}
	if err != nil {
		return Decision{Allowed: true, Limit: l.limit, ResetAt: resetAt}, fmt.Errorf("usage counter unavailable: %w", err)
	}

	return Decision{
		Allowed: used <= int64(l.limit),
		Used:    used,
		Limit:   l.limit,
		ResetAt: resetAt,
	}, nil
}
