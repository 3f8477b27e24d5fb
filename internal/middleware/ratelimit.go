package middleware

import (
	"context"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/nordbyte/orderbot/internal/bot/handlers"
	"github.com/nordbyte/orderbot/internal/i18n"
	"github.com/nordbyte/orderbot/internal/ratelimit"
)

// RateLimit enforces per-user limits on incoming updates. Limiter errors fail
// open so a redis outage never takes commands down with it.
func RateLimit(limiter ratelimit.Limiter, rules *ratelimit.Rules, translator *i18n.Translator, log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			if limiter == nil || rules == nil {
				return next(c)
			}

			sender := c.Sender()
			if sender == nil {
				return next(c)
			}

			userID := sender.ID
			if rules.IsWhitelisted(userID) {
				return next(c)
			}

			limit, window, err := rules.PerUserLimit()
			if err != nil {
				log.Error("failed to load per-user rate limit", slog.Int64("user_id", userID), slog.Any("error", err))
				return next(c)
			}

			key := fmt.Sprintf("user:%d", userID)
			result, err := limiter.Check(context.Background(), key, limit, window)
			if err != nil && result == nil {
				log.Warn("rate limiter error", slog.Int64("user_id", userID), slog.Any("error", err))
				return next(c)
			}

			if !result.Allowed {
				log.Warn("rate limit exceeded", slog.Int64("user_id", userID))
				return c.Send(translator.T(i18n.LocaleFromContext(c), "errors.rate_limited"))
			}

			return next(c)
		}
	}
}
