package rates

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nordbyte/orderbot/pkg/metrics"
)

// Cache holds the last fetched rate and its timestamp. Inside the freshness
// window reads are served from memory; once stale, the next read triggers a
// refresh. A failed refresh keeps and returns the previous value, and
// fetchedAt only advances on success, so the next call tries again.
type Cache struct {
	mu        sync.Mutex
	provider  Provider
	log       *slog.Logger
	freshness time.Duration

	rate      float64
	fetchedAt time.Time
	now       func() time.Time
}

// NewCache seeds the cache with a fallback rate used until the first
// successful fetch. The zero fetchedAt makes the first read refresh
// immediately.
func NewCache(provider Provider, fallbackRate float64, freshness time.Duration, log *slog.Logger) *Cache {
	if log == nil {
		log = slog.Default()
	}
	if freshness <= 0 {
		freshness = 6 * time.Hour
	}

	return &Cache{
		provider:  provider,
		log:       log,
		freshness: freshness,
		rate:      fallbackRate,
		now:       time.Now,
	}
}

// Rate returns the current EUR→local multiplier. The mutex makes the
// refresh single-flight: concurrent callers wait for the one in-flight
// fetch instead of racing their own.
func (c *Cache) Rate(ctx context.Context) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.now().Sub(c.fetchedAt) < c.freshness {
		return c.rate
	}

	c.refreshLocked(ctx)
	return c.rate
}

// Refresh forces a fetch attempt regardless of freshness. Used by the
// scheduled warm-refresh job so interactive confirms rarely pay the
// network latency.
func (c *Cache) Refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.refreshLocked(ctx)
}

// Snapshot returns the cached rate and its fetch timestamp without
// triggering a refresh.
func (c *Cache) Snapshot() (float64, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rate, c.fetchedAt
}

func (c *Cache) refreshLocked(ctx context.Context) error {
	rate, err := c.provider.FetchRate(ctx)
	if err != nil {
		metrics.RecordRateFetch("error")
		c.log.Warn("exchange rate fetch failed, serving cached rate",
			slog.Float64("cached_rate", c.rate),
			slog.Any("error", err),
		)
		return err
	}

	c.rate = rate
	c.fetchedAt = c.now()

	metrics.RecordRateFetch("ok")
	metrics.SetExchangeRate(rate)
	c.log.Info("exchange rate updated", slog.Float64("rate", rate))

	return nil
}
