package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/nordbyte/orderbot/internal/bot/handlers"
	"github.com/nordbyte/orderbot/internal/bot/keyboard"
	"github.com/nordbyte/orderbot/internal/idempotency"
)

const idempotencyTTL = 24 * time.Hour

// Idempotency ensures handlers execute at most once per Telegram update.
// Duplicate taps on an order button replay silently instead of transitioning twice.
func Idempotency(manager idempotency.Manager, log *slog.Logger) handlers.Middleware {
	if manager == nil {
		return func(next handlers.Handler) handlers.Handler {
			return next
		}
	}
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			key := updateKey(c)
			if key == "" {
				return next(c)
			}

			_, err := manager.Execute(context.Background(), key, idempotencyTTL, func(context.Context) (interface{}, error) {
				return nil, next(c)
			})
			if err != nil {
				if errors.Is(err, idempotency.ErrInProgress) {
					return nil
				}

				log.Error("idempotent handler failed", slog.String("key", key), slog.Any("error", err))
				return err
			}

			return nil
		}
	}
}

func updateKey(c telebot.Context) string {
	if c == nil {
		return ""
	}

	if cb := c.Callback(); cb != nil {
		return callbackKey(cb)
	}

	if msg := c.Message(); msg != nil && msg.ID != 0 {
		chatID := int64(0)
		if msg.Chat != nil {
			chatID = msg.Chat.ID
		}
		return fmt.Sprintf("msg:%d:%d", chatID, msg.ID)
	}

	return ""
}

// callbackKey keys mutating callbacks on the action payload; keying on the
// data rather than on the callback ID also catches retaps, which Telegram
// delivers with fresh IDs. Page flips are read-only and legitimately
// repeat, so they bypass deduplication entirely.
func callbackKey(cb *telebot.Callback) string {
	if action, _, err := keyboard.DecodeCallback(cb.Data); err == nil && action == keyboard.ActionOrdersPage {
		return ""
	}

	userID := int64(0)
	if cb.Sender != nil {
		userID = cb.Sender.ID
	}
	return idempotency.Key("cb", userID, cb.Data)
}
