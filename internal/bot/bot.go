// Package bot wires the Telegram transport: update routing, the middleware
// chain and the order handlers.
package bot

import (
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/nordbyte/orderbot/internal/archive"
	"github.com/nordbyte/orderbot/internal/bot/handlers"
	"github.com/nordbyte/orderbot/internal/bot/keyboard"
	apperrors "github.com/nordbyte/orderbot/internal/errors"
	"github.com/nordbyte/orderbot/internal/i18n"
	"github.com/nordbyte/orderbot/internal/idempotency"
	"github.com/nordbyte/orderbot/internal/middleware"
	"github.com/nordbyte/orderbot/internal/order"
	"github.com/nordbyte/orderbot/internal/ratelimit"
	"github.com/nordbyte/orderbot/internal/rates"
	"github.com/nordbyte/orderbot/pkg/config"
)

// Deps carries everything the bot needs to serve updates.
type Deps struct {
	Config      config.Config
	Log         *slog.Logger
	Orders      *order.Service
	Rates       *rates.Cache
	Archive     archive.Repository
	Payments    *config.PaymentSource
	Idempotency idempotency.Manager
	Limiter     ratelimit.Limiter
	Rules       *ratelimit.Rules
	Translator  *i18n.Translator
}

// Bot wraps telebot.Bot with application dependencies required for handling updates.
type Bot struct {
	telebot    *telebot.Bot
	log        *slog.Logger
	router     *Router
	keyboard   *keyboard.Builder
	errHandler *apperrors.Handler
}

// New builds a telegram bot instance configured according to the application settings.
func New(d Deps) (*Bot, error) {
	settings := telebot.Settings{
		Token: d.Config.Bot.Token,
	}

	if d.Config.Bot.Mode == "webhook" {
		settings.Poller = &telebot.Webhook{
			Listen: d.Config.Server.Port,
		}
	} else {
		settings.Poller = &telebot.LongPoller{
			Timeout: d.Config.Bot.Timeout,
		}
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	b := &Bot{
		telebot:    tb,
		log:        d.Log,
		router:     NewRouter(d.Log),
		keyboard:   keyboard.NewBuilder(d.Translator, d.Log),
		errHandler: apperrors.NewHandler(d.Log, d.Config.Sentry.Enabled),
	}

	b.setupRouter(d)

	b.telebot.Handle(telebot.OnText, b.router.Route)
	b.telebot.Handle(telebot.OnCallback, b.router.Route)

	return b, nil
}

// Start runs the telegram bot event loop.
func (b *Bot) Start() {
	if b.telebot != nil {
		b.telebot.Start()
	}
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	if b.log != nil {
		b.log.Info("stopping telegram bot...")
	}

	b.telebot.Stop()
}

// Telebot exposes the underlying telebot.Bot instance for integrations such as health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

func (b *Bot) setupRouter(d Deps) {
	b.router.Use(RecoveryMiddleware(b.log, b.errHandler))
	if d.Config.RateLimit.Enabled {
		b.router.Use(middleware.RateLimit(d.Limiter, d.Rules, d.Translator, b.log))
	}
	b.router.Use(middleware.Idempotency(d.Idempotency, b.log))
	b.router.Use(ErrorHandlingMiddleware(b.errHandler))
	b.router.Use(LoggingMiddleware(b.log))
	b.router.Use(middleware.Metrics)

	orderDeps := handlers.OrderDeps{
		Service:    d.Orders,
		Keyboard:   b.keyboard,
		Translator: d.Translator,
		Log:        b.log,
	}

	helpHandler := handlers.NewHelpHandler(d.Translator, b.log)
	b.router.RegisterCommand(CommandStart, helpHandler)
	b.router.RegisterCommand(CommandHelp, helpHandler)
	b.router.RegisterCommand(CommandOrder, handlers.NewOrderCommandHandler(orderDeps))
	b.router.RegisterCommand(CommandOrders, handlers.NewOrdersHandler(handlers.OrdersDeps{
		Service:    d.Orders,
		Keyboard:   b.keyboard,
		Translator: d.Translator,
		Log:        b.log,
	}))
	b.router.RegisterCommand(CommandStatus, handlers.NewStatusHandler(d.Orders, d.Archive, d.Translator, b.log))

	b.router.SetDefault(handlers.NewFreeTextOrderHandler(orderDeps))

	b.router.RegisterCallback(keyboard.ActionConfirm, handlers.NewConfirmCallback(handlers.ConfirmDeps{
		Service:    d.Orders,
		Rates:      d.Rates,
		Payments:   d.Payments,
		Currency:   d.Config.Rates.Currency,
		Keyboard:   b.keyboard,
		Translator: d.Translator,
		Log:        b.log,
	}))
	b.router.RegisterCallback(keyboard.ActionCancel, handlers.NewCancelCallback(d.Orders, d.Translator, b.log))
	b.router.RegisterCallback(keyboard.ActionPaid, handlers.NewPaidCallback(d.Orders, d.Translator, b.log))
	b.router.RegisterCallback(keyboard.ActionOrdersPage, handlers.NewOrdersPageCallback(handlers.OrdersDeps{
		Service:    d.Orders,
		Keyboard:   b.keyboard,
		Translator: d.Translator,
		Log:        b.log,
	}))
}
