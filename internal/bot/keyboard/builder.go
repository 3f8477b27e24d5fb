package keyboard

import (
	"log/slog"
	"strconv"

	telebot "gopkg.in/telebot.v3"

	"github.com/nordbyte/orderbot/internal/i18n"
)

// Callback action identifiers. The payload after the separator is the order
// id, or the page number for list pagination.
const (
	ActionConfirm    = "confirm"
	ActionCancel     = "cancel"
	ActionPaid       = "paid"
	ActionOrdersPage = "orders_page"
)

// Builder creates the inline keyboards attached to order messages.
type Builder struct {
	translator *i18n.Translator
	log        *slog.Logger
}

// NewBuilder returns a new Builder instance.
func NewBuilder(translator *i18n.Translator, log *slog.Logger) *Builder {
	return &Builder{translator: translator, log: log}
}

// OrderActions builds the Confirm/Cancel row shown under a pending order.
func (b *Builder) OrderActions(locale, orderID string) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{
			b.button(locale, "buttons.confirm", ActionConfirm, orderID),
			b.button(locale, "buttons.cancel", ActionCancel, orderID),
		},
	}
	return markup
}

// PaidButton builds the single Paid button sent with payment instructions.
func (b *Builder) PaidButton(locale, orderID string) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{
			b.button(locale, "buttons.paid", ActionPaid, orderID),
		},
	}
	return markup
}

// Pagination builds the prev/next row for the order list. Pages are 1-based.
func (b *Builder) Pagination(locale string, page, totalPages int) *telebot.ReplyMarkup {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	row := make([]telebot.InlineButton, 0, 2)
	if page > 1 {
		row = append(row, b.button(locale, "buttons.prev", ActionOrdersPage, strconv.Itoa(page-1)))
	}
	if page < totalPages {
		row = append(row, b.button(locale, "buttons.next", ActionOrdersPage, strconv.Itoa(page+1)))
	}

	markup := &telebot.ReplyMarkup{}
	if len(row) > 0 {
		markup.InlineKeyboard = [][]telebot.InlineButton{row}
	}
	return markup
}

func (b *Builder) button(locale, labelKey, action, data string) telebot.InlineButton {
	payload, err := EncodeCallback(action, data)
	if err != nil {
		if b.log != nil {
			b.log.Error("failed to encode callback data",
				slog.String("action", action), slog.String("data", data), slog.Any("error", err))
		}
		payload = action
	}

	return telebot.InlineButton{
		Text: b.translator.T(locale, labelKey),
		Data: payload,
	}
}
