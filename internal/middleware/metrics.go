package middleware

import (
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/nordbyte/orderbot/internal/bot/handlers"
	"github.com/nordbyte/orderbot/pkg/metrics"
)

// Metrics measures execution time and status for bot handlers, reporting them to Prometheus.
func Metrics(next handlers.Handler) handlers.Handler {
	if next == nil {
		return nil
	}

	return func(c telebot.Context) error {
		start := time.Now()
		err := next(c)

		status := "ok"
		if err != nil {
			status = "error"
		}

		metrics.RecordCommand(commandLabel(c), status, time.Since(start))

		return err
	}
}

// commandLabel maps the update to a low-cardinality metric label: the slash
// command, the callback action prefix, or a generic "text".
func commandLabel(c telebot.Context) string {
	if c == nil {
		return "unknown"
	}

	if cb := c.Callback(); cb != nil && cb.Data != "" {
		data := strings.TrimPrefix(cb.Data, "\f")
		if idx := strings.IndexByte(data, ':'); idx > 0 {
			return "cb:" + data[:idx]
		}
		return "cb:" + data
	}

	if text := c.Text(); strings.HasPrefix(text, "/") {
		cmd := strings.Fields(text)[0]
		if idx := strings.IndexByte(cmd, '@'); idx > 0 {
			cmd = cmd[:idx]
		}
		return cmd
	}

	if c.Text() != "" {
		return "text"
	}

	return "unknown"
}
