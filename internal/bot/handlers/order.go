package handlers

import (
	"context"
	"log/slog"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/nordbyte/orderbot/internal/bot/keyboard"
	"github.com/nordbyte/orderbot/internal/i18n"
	"github.com/nordbyte/orderbot/internal/order"
	"github.com/nordbyte/orderbot/pkg/metrics"
)

// OrderDeps bundles what the order creation handlers need.
type OrderDeps struct {
	Service    *order.Service
	Keyboard   *keyboard.Builder
	Translator *i18n.Translator
	Log        *slog.Logger
}

// NewFreeTextOrderHandler watches plain chat messages for the order prefix
// ("order:" or "beställ:") and creates a pending order from them. Messages
// without the prefix are ignored; a prefixed message that does not split into
// exactly four fields gets a format hint. The payment method is free text
// here and is normalized, never rejected.
func NewFreeTextOrderHandler(d OrderDeps) Handler {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		text := c.Text()
		if !order.HasPrefix(text) {
			return nil
		}

		locale := i18n.LocaleFromContext(c)

		parsed, ok := order.Parse(text)
		if !ok {
			return c.Send(d.Translator.T(locale, "order.parse_error"))
		}

		return createOrder(c, d, parsed, order.NormalizeMethod(parsed.PaymentMethod), log)
	}
}

// NewOrderCommandHandler serves /order. Unlike the free-text path the method
// field is constrained to the enumerated payment methods.
func NewOrderCommandHandler(d OrderDeps) Handler {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		locale := i18n.LocaleFromContext(c)

		body := commandPayload(c)
		if body == "" {
			return c.Send(d.Translator.T(locale, "order.usage"))
		}

		parsed, ok := order.ParseFields(body)
		if !ok {
			return c.Send(d.Translator.T(locale, "order.parse_error"))
		}

		method, ok := order.LookupMethod(parsed.PaymentMethod)
		if !ok {
			return c.Send(d.Translator.T(locale, "order.invalid_method",
				parsed.PaymentMethod, methodList()))
		}

		return createOrder(c, d, parsed, method, log)
	}
}

func createOrder(c telebot.Context, d OrderDeps, parsed order.Parsed, method order.PaymentMethod, log *slog.Logger) error {
	sender := c.Sender()
	locale := i18n.LocaleFromContext(c)

	o, err := d.Service.Create(context.Background(), order.CreateInput{
		GameName:      parsed.GameName,
		RawPrice:      parsed.RawPrice,
		SteamName:     parsed.SteamName,
		PaymentMethod: method,
		RequesterID:   sender.ID,
		RequesterName: requesterName(sender),
	})
	if err != nil {
		log.Error("failed to create order",
			slog.Int64("user_id", sender.ID), slog.Any("error", err))
		return err
	}

	metrics.RecordOrderCreated()

	text := d.Translator.T(locale, "order.created",
		o.ID, o.GameName, o.RawPrice, o.SteamName, string(o.PaymentMethod))

	return c.Send(text, d.Keyboard.OrderActions(locale, o.ID))
}

func requesterName(sender *telebot.User) string {
	if sender.Username != "" {
		return sender.Username
	}

	name := strings.TrimSpace(sender.FirstName + " " + sender.LastName)
	if name != "" {
		return name
	}

	return "unknown"
}

// commandPayload returns the text after the command itself.
func commandPayload(c telebot.Context) string {
	if msg := c.Message(); msg != nil && msg.Payload != "" {
		return strings.TrimSpace(msg.Payload)
	}

	text := c.Text()
	if idx := strings.IndexByte(text, ' '); idx > 0 {
		return strings.TrimSpace(text[idx+1:])
	}

	return ""
}

func methodList() string {
	methods := order.Methods()
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
