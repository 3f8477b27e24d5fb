// Package metrics exposes Prometheus instrumentation for the order bot.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nordbyte/orderbot/internal/order"
)

var (
	botCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Total number of bot updates handled, labeled by command and status",
		},
		[]string{"command", "status"},
	)
	commandDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "command_duration_seconds",
			Help:    "Duration of bot update handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
	ordersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Total number of orders placed",
		},
	)
	orderTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_transitions_total",
			Help: "Total number of order lifecycle transitions",
		},
		[]string{"action", "from", "to"},
	)
	liveOrders = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "live_orders",
			Help: "Number of live orders per status",
		},
		[]string{"status"},
	)
	exchangeRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "exchange_rate_eur_local",
			Help: "Last successfully fetched EUR to local currency rate",
		},
	)
	rateFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_fetches_total",
			Help: "Exchange rate fetch attempts by result",
		},
		[]string{"result"},
	)
)

var trackedStatuses = []order.Status{
	order.StatusPending,
	order.StatusConfirmed,
	order.StatusPaymentPending,
}

func init() {
	order.RegisterTransitionRecorder(RecordOrderTransition)
}

// RecordCommand increments command counters and records duration.
func RecordCommand(command, status string, duration time.Duration) {
	if command == "" {
		command = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	botCommandsTotal.WithLabelValues(command, status).Inc()
	commandDurationSeconds.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordOrderCreated counts a placed order.
func RecordOrderCreated() {
	ordersCreatedTotal.Inc()
}

// RecordOrderTransition tracks lifecycle transitions.
func RecordOrderTransition(action order.Action, from, to order.Status) {
	orderTransitionsTotal.WithLabelValues(string(action), string(from), string(to)).Inc()
}

// SetExchangeRate updates the exchange rate gauge.
func SetExchangeRate(rate float64) {
	exchangeRate.Set(rate)
}

// RecordRateFetch counts a fetch attempt outcome ("ok" or "error").
func RecordRateFetch(result string) {
	if result == "" {
		result = "unknown"
	}

	rateFetchesTotal.WithLabelValues(result).Inc()
}

// OrderCollector periodically gathers live order counts and emits gauge metrics.
type OrderCollector struct {
	store order.Store
}

// NewOrderCollector builds a metrics collector bound to the provided store.
func NewOrderCollector(store order.Store) *OrderCollector {
	return &OrderCollector{store: store}
}

// Run polls the store every 10 seconds until ctx is cancelled.
func (c *OrderCollector) Run(ctx context.Context) {
	if c == nil || c.store == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	for {
		_ = c.collect(ctx)

		select {
		case <-ctx.Done():
			return
		case <-time.After(10 * time.Second):
		}
	}
}

func (c *OrderCollector) collect(ctx context.Context) error {
	orders, err := c.store.List(ctx)
	if err != nil {
		return err
	}

	counts := make(map[string]int, len(orders))
	for _, o := range orders {
		label := "unknown"
		if o != nil && o.Status != "" {
			label = string(o.Status)
		}
		counts[label]++
	}

	liveOrders.Reset()

	for _, tracked := range trackedStatuses {
		label := string(tracked)
		liveOrders.WithLabelValues(label).Set(float64(counts[label]))
		delete(counts, label)
	}

	for label, count := range counts {
		liveOrders.WithLabelValues(label).Set(float64(count))
	}

	return nil
}
