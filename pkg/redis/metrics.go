package redis

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	poolTotalConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "redis_pool_total_conns",
		Help: "Number of total connections in the redis pool",
	})
	poolIdleConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "redis_pool_idle_conns",
		Help: "Number of idle connections in the redis pool",
	})
	poolHits = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "redis_pool_hits",
		Help: "Number of times a free connection was found in the pool",
	})
	poolMisses = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "redis_pool_misses",
		Help: "Number of times a free connection was not found in the pool",
	})
	poolTimeouts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "redis_pool_timeouts",
		Help: "Number of times a wait timeout occurred",
	})
)

// CollectPoolStats publishes pool statistics every interval until ctx is cancelled.
func (c *Client) CollectPoolStats(ctx context.Context, interval time.Duration) {
	if c == nil || c.Client == nil {
		return
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		stats := c.PoolStats()
		poolTotalConns.Set(float64(stats.TotalConns))
		poolIdleConns.Set(float64(stats.IdleConns))
		poolHits.Set(float64(stats.Hits))
		poolMisses.Set(float64(stats.Misses))
		poolTimeouts.Set(float64(stats.Timeouts))

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
