// Package redis opens the shared Redis connection used for rate limit counters.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"certificate-api/internal/platform/metrics"
)

// Config holds Redis connection settings.
type Config struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Client wraps the go-redis client with health checking and pool metrics.
type Client struct {
	*redis.Client
	lastStats *redis.PoolStats
}

// New connects to Redis. It returns nil when no URL is configured.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck // best-effort cleanup on init failure
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Client{Client: client}, nil
}

// Health checks if the Redis connection is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// RecordPoolStats copies the pool statistics into m. Counters advance by the
// delta since the previous call, so call it from a single goroutine.
func (c *Client) RecordPoolStats(m *metrics.Metrics) {
	stats := c.PoolStats()

	m.RedisPoolTotalConns.Set(float64(stats.TotalConns))
	m.RedisPoolIdleConns.Set(float64(stats.IdleConns))

	prev := c.lastStats
	if prev == nil {
		prev = &redis.PoolStats{}
	}
	m.RedisPoolHits.Add(float64(delta(stats.Hits, prev.Hits)))
	m.RedisPoolMisses.Add(float64(delta(stats.Misses, prev.Misses)))
	m.RedisPoolTimeouts.Add(float64(delta(stats.Timeouts, prev.Timeouts)))
	m.RedisPoolStaleConns.Add(float64(delta(stats.StaleConns, prev.StaleConns)))

	c.lastStats = stats
}

func delta(now, before uint32) uint32 {
	if now < before {
		return 0
	}
	return now - before
}
