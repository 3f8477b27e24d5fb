package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/nordbyte/orderbot/internal/bot/keyboard"
	"github.com/nordbyte/orderbot/internal/i18n"
	"github.com/nordbyte/orderbot/internal/order"
	"github.com/nordbyte/orderbot/internal/pricing"
	"github.com/nordbyte/orderbot/internal/rates"
	"github.com/nordbyte/orderbot/pkg/config"
)

// ConfirmDeps bundles what the confirm callback needs.
type ConfirmDeps struct {
	Service    *order.Service
	Rates      *rates.Cache
	Payments   *config.PaymentSource
	Currency   string
	Keyboard   *keyboard.Builder
	Translator *i18n.Translator
	Log        *slog.Logger
}

// NewConfirmCallback moves a pending order to confirmed and sends payment
// instructions to the requester in a private chat. The order message in the
// originating chat is edited in place so the buttons disappear.
func NewConfirmCallback(d ConfirmDeps) CallbackHandler {
	log := d.Log
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
			return respondAlert(c, d.Translator.T(locale, "errors.internal"))
		}

		ctx := context.Background()
		o, err := d.Service.Transition(ctx, orderID, c.Sender().ID, order.ActionConfirm)
		if err != nil {
			return respondTransitionError(c, d.Translator, locale, orderID, err)
		}

		if err := c.Edit(d.Translator.T(locale, "order.confirmed", o.ID)); err != nil {
			log.Warn("failed to edit confirmed order message",
				slog.String("order_id", o.ID), slog.Any("error", err))
		}

		if err := sendPaymentInstructions(c, d, locale, o, log); err != nil {
			// The order stays confirmed; the user can still reach us via /status.
			log.Error("failed to send payment instructions",
				slog.String("order_id", o.ID),
				slog.Int64("user_id", c.Sender().ID),
				slog.Any("error", err),
			)
		}

		return c.Respond(&telebot.CallbackResponse{})
	}
}

func sendPaymentInstructions(c telebot.Context, d ConfirmDeps, locale string, o *order.Order, log *slog.Logger) error {
	ctx := context.Background()

	rate := d.Rates.Rate(ctx)
	quote := pricing.Compute(o.RawPrice, rate, d.Currency)

	payLine := d.Translator.T(locale, "payment.pay_amount", quote.Display, quote.Amount, d.Currency)
	text := d.Translator.T(locale, "payment.instructions",
		o.ID, o.GameName, payLine, string(o.PaymentMethod))
	text += "\n\n" + methodInstructions(d, locale, o.PaymentMethod, quote.Amount)

	msg, err := c.Bot().Send(c.Sender(), text, d.Keyboard.PaidButton(locale, o.ID))
	if err != nil {
		return err
	}

	threadRef := fmt.Sprintf("%d:%d", msg.Chat.ID, msg.ID)
	if err := d.Service.AttachThread(ctx, o.ID, o.RequesterID, threadRef); err != nil {
		log.Warn("failed to attach payment thread",
			slog.String("order_id", o.ID), slog.Any("error", err))
	}

	return nil
}

func methodInstructions(d ConfirmDeps, locale string, method order.PaymentMethod, amount int64) string {
	payment := d.Payments.Current()

	switch method {
	case order.MethodSwish:
		return d.Translator.T(locale, "payment.swish", amount, d.Currency, payment.SwishNumber)
	case order.MethodPayPal:
		return d.Translator.T(locale, "payment.paypal", amount, d.Currency, payment.PayPalLink)
	case order.MethodBank:
		return d.Translator.T(locale, "payment.bank_transfer", amount, d.Currency, payment.BankAccount)
	default:
		return d.Translator.T(locale, "payment.other", amount, d.Currency)
	}
}

// respondTransitionError maps lifecycle sentinels onto localized callback alerts.
func respondTransitionError(c telebot.Context, t *i18n.Translator, locale, orderID string, err error) error {
	switch {
	case errors.Is(err, order.ErrNotFound):
		return respondAlert(c, t.T(locale, "order.not_found", orderID))
	case errors.Is(err, order.ErrForbidden):
		return respondAlert(c, t.T(locale, "errors.forbidden"))
	case errors.Is(err, order.ErrInvalidTransition):
		return respondAlert(c, t.T(locale, "errors.invalid_transition"))
	case errors.Is(err, order.ErrLocked):
		return respondAlert(c, t.T(locale, "errors.locked"))
	default:
		return err
	}
}

func respondAlert(c telebot.Context, text string) error {
	return c.Respond(&telebot.CallbackResponse{Text: text, ShowAlert: true})
}
