package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/nordbyte/orderbot/internal/bot/keyboard"
	"github.com/nordbyte/orderbot/internal/i18n"
	"github.com/nordbyte/orderbot/internal/order"
)

// NewCancelCallback cancels a pending order. The order record is removed
// entirely and the originating message is edited to reflect that.
func NewCancelCallback(service *order.Service, translator *i18n.Translator, log *slog.Logger) CallbackHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		cb := c.Callback()
		if cb == nil || c.Sender() == nil {
			return nil
		}

		locale := i18n.LocaleFromContext(c)

		_, orderID, err := keyboard.DecodeCallback(cb.Data)
		if err != nil || orderID == "" {
			return respondAlert(c, translator.T(locale, "errors.internal"))
		}

		o, err := service.Transition(context.Background(), orderID, c.Sender().ID, order.ActionCancel)
		if err != nil {
			return respondTransitionError(c, translator, locale, orderID, err)
		}

		if err := c.Edit(translator.T(locale, "order.cancelled", o.ID)); err != nil {
			log.Warn("failed to edit cancelled order message",
				slog.String("order_id", o.ID), slog.Any("error", err))
		}

		return c.Respond(&telebot.CallbackResponse{})
	}
}
