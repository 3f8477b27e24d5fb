package handlers

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/nordbyte/orderbot/internal/rates"
)

// RatesRefreshHandler forces a refresh of the exchange rate cache so the
// bot normally serves a freshly fetched rate instead of hitting the lazy
// refresh path inside a user interaction.
type RatesRefreshHandler struct {
	cache *rates.Cache
	log   *slog.Logger
}

func NewRatesRefreshHandler(cache *rates.Cache, log *slog.Logger) *RatesRefreshHandler {
	return &RatesRefreshHandler{cache: cache, log: log}
}

func (h *RatesRefreshHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	if err := h.cache.Refresh(ctx); err != nil {
		if h.log != nil {
			h.log.WarnContext(ctx, "rates refresh: fetch failed, keeping cached rate",
				slog.String("task_type", t.Type()),
				slog.Any("error", err),
			)
		}
		// The cache keeps serving the previous rate. Returning nil avoids
		// asynq retry storms against a provider that is already down.
		return nil
	}

	rate, fetchedAt := h.cache.Snapshot()

	if h.log != nil {
		h.log.InfoContext(ctx, "rates refresh: cache warmed",
			slog.String("task_type", t.Type()),
			slog.Float64("rate", rate),
			slog.Time("fetched_at", fetchedAt),
		)
	}

	return nil
}
