package handlers

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/nordbyte/orderbot/internal/i18n"
)

// NewHelpHandler explains the order format and the available commands.
// It also serves /start.
func NewHelpHandler(translator *i18n.Translator, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			log.Warn("help handler invoked without sender")
			return nil
		}

		return c.Send(translator.T(i18n.LocaleFromContext(c), "help.text"))
	}
}
