package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/nordbyte/orderbot/internal/archive"
	"github.com/nordbyte/orderbot/internal/i18n"
	"github.com/nordbyte/orderbot/internal/order"
)

// NewStatusHandler serves /status <order id>. Live orders come from the
// store; orders already swept away are looked up in the archive.
func NewStatusHandler(service *order.Service, repo archive.Repository, translator *i18n.Translator, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		locale := i18n.LocaleFromContext(c)

		orderID := strings.ToUpper(commandPayload(c))
		if orderID == "" {
			return c.Send(translator.T(locale, "help.text"))
		}

		ctx := context.Background()

		o, err := service.Get(ctx, orderID)
		if err == nil {
			return c.Send(translator.T(locale, "status.live",
				o.ID, o.GameName, statusLabel(translator, locale, string(o.Status))))
		}
		if !errors.Is(err, order.ErrNotFound) {
			return err
		}

		if repo != nil {
			rec, archiveErr := repo.Find(ctx, orderID)
			if archiveErr == nil {
				return c.Send(translator.T(locale, "status.archived",
					rec.ID, rec.GameName, statusLabel(translator, locale, rec.Status)))
			}
			if !errors.Is(archiveErr, archive.ErrNotFound) {
				log.Warn("archive lookup failed",
					slog.String("order_id", orderID), slog.Any("error", archiveErr))
			}
		}

		return c.Send(translator.T(locale, "order.not_found", orderID))
	}
}

func statusLabel(translator *i18n.Translator, locale, status string) string {
	return translator.T(locale, "statuses."+status)
}
