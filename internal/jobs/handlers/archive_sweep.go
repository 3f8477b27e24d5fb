package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/nordbyte/orderbot/internal/archive"
	"github.com/nordbyte/orderbot/internal/jobs"
	"github.com/nordbyte/orderbot/internal/order"
)

// ArchiveSweepHandler moves settled orders out of the live store into the
// archive so the live store only ever holds orders that are still in flight.
type ArchiveSweepHandler struct {
	store order.Store
	repo  archive.Repository
	log   *slog.Logger
	now   func() time.Time
}

func NewArchiveSweepHandler(store order.Store, repo archive.Repository, log *slog.Logger) *ArchiveSweepHandler {
	return &ArchiveSweepHandler{
		store: store,
		repo:  repo,
		log:   log,
		now:   time.Now,
	}
}

func (h *ArchiveSweepHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload jobs.ArchiveSweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		if h.log != nil {
			h.log.ErrorContext(ctx, "archive sweep: failed to decode payload",
				slog.String("task_type", t.Type()), slog.Any("error", err))
		}
		return err
	}

	orders, err := h.store.List(ctx)
	if err != nil {
		return err
	}

	cutoff := h.now().UTC().Add(-payload.OlderThan)

	var archived, failed int
	for _, o := range orders {
		if !o.Settled() || o.CreatedAt.After(cutoff) {
			continue
		}

		if err := h.repo.Save(ctx, archive.FromOrder(o, h.now())); err != nil {
			failed++
			if h.log != nil {
				h.log.WarnContext(ctx, "archive sweep: failed to archive order",
					slog.String("order_id", o.ID), slog.Any("error", err))
			}
			continue
		}

		// Only drop the live record once the archive write succeeded, so a
		// failed save never loses the order.
		if err := h.store.Delete(ctx, o.ID); err != nil {
			failed++
			if h.log != nil {
				h.log.WarnContext(ctx, "archive sweep: failed to remove live order",
					slog.String("order_id", o.ID), slog.Any("error", err))
			}
			continue
		}

		archived++
	}

	if h.log != nil {
		h.log.InfoContext(ctx, "archive sweep: completed",
			slog.String("task_type", t.Type()),
			slog.Int("scanned", len(orders)),
			slog.Int("archived", archived),
			slog.Int("failed", failed),
			slog.Duration("older_than", payload.OlderThan),
		)
	}

	return nil
}
