package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/nordbyte/orderbot/internal/archive"
	"github.com/nordbyte/orderbot/internal/bot"
	"github.com/nordbyte/orderbot/internal/events"
	"github.com/nordbyte/orderbot/internal/health"
	"github.com/nordbyte/orderbot/internal/i18n"
	"github.com/nordbyte/orderbot/internal/idempotency"
	"github.com/nordbyte/orderbot/internal/jobs"
	jobhandlers "github.com/nordbyte/orderbot/internal/jobs/handlers"
	"github.com/nordbyte/orderbot/internal/lifecycle"
	appmiddleware "github.com/nordbyte/orderbot/internal/middleware"
	"github.com/nordbyte/orderbot/internal/order"
	"github.com/nordbyte/orderbot/internal/ratelimit"
	"github.com/nordbyte/orderbot/internal/rates"
	"github.com/nordbyte/orderbot/pkg/config"
	"github.com/nordbyte/orderbot/pkg/graceful"
	"github.com/nordbyte/orderbot/pkg/logger"
	"github.com/nordbyte/orderbot/pkg/metrics"
	redisclient "github.com/nordbyte/orderbot/pkg/redis"

	_ "github.com/lib/pq"
)

const limiterCleanupInterval = 10 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "orderbot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
	}

	log := logger.New(cfg.Log, cfg.Sentry.Enabled)
	log.Info("starting order bot",
		slog.String("env", cfg.AppEnv),
		slog.String("mode", cfg.Bot.Mode),
		slog.String("http_port", cfg.Server.Port),
	)

	translator, err := i18n.Load("sv")
	if err != nil {
		return fmt.Errorf("load translations: %w", err)
	}

	shutdown := lifecycle.NewShutdown(log)
	checker := health.NewChecker(log)

	// Redis backs the live order store, distributed locks, rate limiting,
	// idempotency and the job queue. Without it everything degrades to
	// in-process equivalents and background jobs are disabled.
	var redisClient *redisclient.Client
	if cfg.Redis.Enabled {
		redisClient, err = redisclient.New(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		shutdown.Register("redis", func(context.Context) error { return redisClient.Close() })
		checker.AddCheck("redis", health.NewRedisChecker(redisClient.Client))
		go redisClient.CollectPoolStats(ctx, 15*time.Second)
	}

	var store order.Store
	if redisClient != nil {
		store = order.NewRedisStore(redisClient.Client, log)
	} else {
		store = order.NewMemoryStore()
	}

	// PostgreSQL archive for settled orders swept out of the live store.
	var archiveRepo archive.Repository
	var db *sql.DB
	if cfg.Database.Enabled {
		db, err = sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping database: %w", err)
		}
		if err := archive.Migrate(db); err != nil {
			return fmt.Errorf("migrate archive schema: %w", err)
		}

		cached, err := archive.NewCachedRepository(archive.NewPostgresRepository(db, log), 256)
		if err != nil {
			return fmt.Errorf("build archive cache: %w", err)
		}
		archiveRepo = cached

		shutdown.Register("database", func(context.Context) error { return db.Close() })
		checker.AddCheck("database", health.NewDBChecker(db))
	}

	var eventSink order.EventSink
	if cfg.Kafka.Enabled {
		publisher := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		eventSink = publisher
		shutdown.Register("kafka", func(context.Context) error { return publisher.Close() })
	}

	orderService := order.NewService(store, log, rawRedis(redisClient), eventSink)

	provider := rates.NewHTTPProvider(cfg.Rates.Endpoint, cfg.Rates.Currency, cfg.Rates.FetchTimeout)
	rateCache := rates.NewCache(provider, cfg.Rates.FallbackRate, cfg.Rates.FreshnessWindow, log)
	checker.AddCheck("rates", health.NewRatesChecker(rateCache.Snapshot))

	var idemManager idempotency.Manager
	if redisClient != nil {
		idemManager = idempotency.NewManager(idempotency.NewRedisStore(redisClient.Client, log), log)
	}

	rules := ratelimit.NewRules(cfg.RateLimit)
	var limiter ratelimit.Limiter
	if redisClient != nil {
		limiter = ratelimit.NewRedisLimiter(redisClient.Client, log)
	} else {
		memLimiter := ratelimit.NewMemoryLimiter(log)
		limiter = memLimiter
		go func() {
			ticker := time.NewTicker(limiterCleanupInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					memLimiter.Cleanup(limiterCleanupInterval)
				}
			}
		}()
	}

	// Payment destinations hot-reload with the config file, no restart needed.
	payments := config.NewPaymentSource(cfg.Payment)
	config.Watch(v, log, func(fresh config.Config) {
		payments.Update(fresh.Payment)
	})

	b, err := bot.New(bot.Deps{
		Config:      *cfg,
		Log:         log,
		Orders:      orderService,
		Rates:       rateCache,
		Archive:     archiveRepo,
		Payments:    payments,
		Idempotency: idemManager,
		Limiter:     limiter,
		Rules:       rules,
		Translator:  translator,
	})
	if err != nil {
		return fmt.Errorf("build bot: %w", err)
	}
	checker.AddCheck("telegram", health.NewTelegramChecker(b.Telebot()))
	shutdown.Register("telegram", func(context.Context) error {
		b.Stop()
		return nil
	})

	if cfg.Jobs.Enabled && redisClient != nil {
		redisOpt := asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}

		worker := jobs.NewWorker(redisOpt, cfg.Jobs.Concurrency, log)
		worker.RegisterHandler(jobs.TaskTypeRatesRefresh, jobhandlers.NewRatesRefreshHandler(rateCache, log))

		archiveRetention := cfg.Jobs.ArchiveRetention
		if archiveRepo != nil {
			worker.RegisterHandler(jobs.TaskTypeArchiveSweep, jobhandlers.NewArchiveSweepHandler(store, archiveRepo, log))
		} else {
			archiveRetention = 0
		}

		go func() {
			if err := worker.Run(); err != nil {
				log.Error("jobs worker stopped", slog.Any("error", err))
			}
		}()
		shutdown.Register("jobs-worker", func(context.Context) error {
			worker.Shutdown()
			return nil
		})

		scheduler := jobs.NewScheduler(redisOpt, log)
		if err := scheduler.RegisterTasks(archiveRetention); err != nil {
			return fmt.Errorf("register scheduled tasks: %w", err)
		}
		scheduler.Run()
		shutdown.Register("jobs-scheduler", func(context.Context) error {
			scheduler.Shutdown()
			return nil
		})

		manager := jobs.NewManager(redisOpt, log)
		shutdown.Register("jobs-manager", func(context.Context) error { return manager.Close() })

		// Warm the rate cache right away instead of waiting for the first cron tick.
		if _, err := manager.Enqueue(ctx, jobs.NewRatesRefreshTask()); err != nil {
			log.Warn("failed to enqueue initial rate refresh", slog.Any("error", err))
		}
	}

	collector := metrics.NewOrderCollector(store)
	go collector.Run(ctx)

	opsServer := newOpsServer(cfg, log, checker)
	go func() {
		if err := opsServer.ListenAndServe(ctx); err != nil {
			log.Error("ops server stopped", slog.Any("error", err))
		}
	}()

	go b.Start()
	log.Info("order bot is running")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := shutdown.Execute(shutdownCtx); err != nil {
		log.Error("shutdown finished with errors", slog.Any("error", err))
	}

	if cfg.Sentry.Enabled {
		sentry.Flush(2 * time.Second)
	}

	log.Info("order bot stopped")
	return nil
}

func newOpsServer(cfg *config.Config, log *slog.Logger, checker *health.Checker) *graceful.Server {
	r := chi.NewRouter()
	r.Use(logger.Middleware)
	r.Use(appmiddleware.RequestLogger(log))

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if !checker.Healthy(req.Context()) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: r,
	}

	return graceful.NewServer(log, srv, cfg.Server.ShutdownTimeout)
}

func rawRedis(c *redisclient.Client) *goredis.Client {
	if c == nil {
		return nil
	}
	return c.Client
}
