package handlers

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/nordbyte/orderbot/internal/bot/keyboard"
	"github.com/nordbyte/orderbot/internal/i18n"
	"github.com/nordbyte/orderbot/internal/order"
)

const ordersPageSize = 5

// OrdersDeps bundles what the order list handlers need.
type OrdersDeps struct {
	Service    *order.Service
	Keyboard   *keyboard.Builder
	Translator *i18n.Translator
	Log        *slog.Logger
}

// NewOrdersHandler serves /orders: the caller's live orders, newest last,
// five per page.
func NewOrdersHandler(d OrdersDeps) Handler {
	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		text, markup, err := renderOrdersPage(c, d, 1)
		if err != nil {
			return err
		}

		return c.Send(text, markup)
	}
}

// NewOrdersPageCallback flips the order list to the requested page by
// editing the list message in place.
func NewOrdersPageCallback(d OrdersDeps) CallbackHandler {
	return func(c telebot.Context) error {
		cb := c.Callback()
		if cb == nil || c.Sender() == nil {
			return nil
		}

		_, data, err := keyboard.DecodeCallback(cb.Data)
		if err != nil {
			return err
		}

		page, err := strconv.Atoi(data)
		if err != nil || page < 1 {
			page = 1
		}

		text, markup, err := renderOrdersPage(c, d, page)
		if err != nil {
			return err
		}

		if err := c.Edit(text, markup); err != nil {
			return err
		}

		return c.Respond(&telebot.CallbackResponse{})
	}
}

func renderOrdersPage(c telebot.Context, d OrdersDeps, page int) (string, *telebot.ReplyMarkup, error) {
	locale := i18n.LocaleFromContext(c)

	orders, err := d.Service.ListByRequester(context.Background(), c.Sender().ID)
	if err != nil {
		return "", nil, err
	}

	if len(orders) == 0 {
		return d.Translator.T(locale, "orders.empty"), &telebot.ReplyMarkup{}, nil
	}

	totalPages := (len(orders) + ordersPageSize - 1) / ordersPageSize
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * ordersPageSize
	end := start + ordersPageSize
	if end > len(orders) {
		end = len(orders)
	}

	var sb strings.Builder
	sb.WriteString(d.Translator.T(locale, "orders.header", page, totalPages))
	for _, o := range orders[start:end] {
		sb.WriteString("\n")
		sb.WriteString(d.Translator.T(locale, "orders.line",
			o.ID, o.GameName, statusLabel(d.Translator, locale, string(o.Status))))
	}

	return sb.String(), d.Keyboard.Pagination(locale, page, totalPages), nil
}
