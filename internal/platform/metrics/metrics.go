// Package metrics holds the infrastructure gauges of the process: connection
// pools of the backing stores.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RedisPoolHits       prometheus.Counter
	RedisPoolMisses     prometheus.Counter
	RedisPoolTimeouts   prometheus.Counter
	RedisPoolStaleConns prometheus.Counter
	RedisPoolTotalConns prometheus.Gauge
	RedisPoolIdleConns  prometheus.Gauge

	DBOpenConns  prometheus.Gauge
	DBInUseConns prometheus.Gauge
	DBWaitCount  prometheus.Gauge
}

// New registers the metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RedisPoolHits: f.NewCounter(prometheus.CounterOpts{
			Name: "certificate_api_redis_pool_hits_total",
			Help: "Number of times a connection was found in the pool",
		}),
		RedisPoolMisses: f.NewCounter(prometheus.CounterOpts{
			Name: "certificate_api_redis_pool_misses_total",
			Help: "Number of times a connection was not found in the pool",
		}),
		RedisPoolTimeouts: f.NewCounter(prometheus.CounterOpts{
			Name: "certificate_api_redis_pool_timeouts_total",
			Help: "Number of times a connection was not obtained due to timeout",
		}),
		RedisPoolStaleConns: f.NewCounter(prometheus.CounterOpts{
			Name: "certificate_api_redis_pool_stale_conns_total",
			Help: "Number of stale connections removed from the pool",
		}),
		RedisPoolTotalConns: f.NewGauge(prometheus.GaugeOpts{
			Name: "certificate_api_redis_pool_total_conns",
			Help: "Number of total connections in the pool",
		}),
		RedisPoolIdleConns: f.NewGauge(prometheus.GaugeOpts{
			Name: "certificate_api_redis_pool_idle_conns",
			Help: "Number of idle connections in the pool",
		}),
		DBOpenConns: f.NewGauge(prometheus.GaugeOpts{
			Name: "certificate_api_db_open_conns",
			Help: "Open connections to the registry database",
		}),
		DBInUseConns: f.NewGauge(prometheus.GaugeOpts{
			Name: "certificate_api_db_in_use_conns",
			Help: "Registry database connections currently in use",
		}),
		DBWaitCount: f.NewGauge(prometheus.GaugeOpts{
			Name: "certificate_api_db_wait_count",
			Help: "Total connections waited for since start",
		}),
	}
}
