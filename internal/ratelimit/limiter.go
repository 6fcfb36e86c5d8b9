// Package ratelimit caps how many certificate requests one caller can make in
// a fixed time window. Counters live in Redis so every replica shares them.
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Result is the outcome of one rate limit check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // seconds, only set when not allowed
}

// Store counts hits per key. Increment adds one hit to key and returns the
// new count. A new key expires after ttl.
type Store interface {
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Limiter applies a fixed window limit per caller key.
type Limiter struct {
	store  Store
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

type Option func(*Limiter)

// WithClock overrides the time source used to pick the window.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// WithKeyPrefix namespaces the counters in a shared store.
func WithKeyPrefix(prefix string) Option {
	return func(l *Limiter) {
		l.prefix = prefix
	}
}

func NewLimiter(store Store, limit int, window time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		store:  store,
		limit:  limit,
		window: window,
		prefix: "certificate-api:rl",
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow records one request for client and reports whether it fits the
// current window.
func (l *Limiter) Allow(ctx context.Context, client string) (*Result, error) {
	now := l.now()
	start := now.Truncate(l.window)
	resetAt := start.Add(l.window)

	count, err := l.store.Increment(ctx, l.key(client, start), l.window)
	if err != nil {
		return nil, fmt.Errorf("increment rate limit counter: %w", err)
	}

	result := &Result{
		Allowed:   count <= int64(l.limit),
		Limit:     l.limit,
		Remaining: max(l.limit-int(count), 0),
		ResetAt:   resetAt,
	}
	if !result.Allowed {
		result.RetryAfter = max(int(resetAt.Sub(now).Round(time.Second)/time.Second), 1)
	}
	return result, nil
}

func (l *Limiter) key(client string, windowStart time.Time) string {
	return fmt.Sprintf("%s:%s:%d", l.prefix, sanitizeKeySegment(client), windowStart.Unix())
}

// sanitizeKeySegment escapes the key delimiter so a crafted client key cannot
// address another caller's counter. '_' is escaped first so the mapping
// stays injective.
func sanitizeKeySegment(s string) string {
	s = strings.ReplaceAll(s, "_", "__")
	s = strings.ReplaceAll(s, ":", "_c")
	return s
}
