package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/nordbyte/orderbot/internal/bot/keyboard"
	"github.com/nordbyte/orderbot/internal/i18n"
	"github.com/nordbyte/orderbot/internal/order"
)

// NewPaidCallback marks a confirmed order as payment_pending when the
// requester presses "Paid" under the payment instructions. Verifying that
// the money actually arrived happens outside the bot.
func NewPaidCallback(service *order.Service, translator *i18n.Translator, log *slog.Logger) CallbackHandler {
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

		o, err := service.Transition(context.Background(), orderID, c.Sender().ID, order.ActionConfirmPayment)
		if err != nil {
			return respondTransitionError(c, translator, locale, orderID, err)
		}

		if err := c.Edit(translator.T(locale, "order.payment_pending", o.ID)); err != nil {
			log.Warn("failed to edit payment message",
				slog.String("order_id", o.ID), slog.Any("error", err))
		}

		return c.Respond(&telebot.CallbackResponse{})
	}
}
