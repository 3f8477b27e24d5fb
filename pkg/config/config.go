package config

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Config holds runtime configuration for the order bot.
type Config struct {
	AppEnv string

	Log       LogConfig       `mapstructure:"log"`
	Bot       BotConfig       `mapstructure:"bot"`
	Server    ServerConfig    `mapstructure:"server"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Rates     RatesConfig     `mapstructure:"rates"`
	Payment   PaymentConfig   `mapstructure:"payment"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Jobs      JobsConfig      `mapstructure:"jobs"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
}

// LogConfig controls slog output format and optional file rotation.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// BotConfig carries Telegram transport settings.
type BotConfig struct {
	Token   string        `mapstructure:"token" validate:"required"`
	Mode    string        `mapstructure:"mode" validate:"oneof=polling webhook"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ServerConfig describes the operational HTTP server.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RedisConfig defines connection parameters for Redis.
type RedisConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Addr            string        `mapstructure:"addr"`
	Password        string        `mapstructure:"password"`
	DB              int           `mapstructure:"db"`
	PoolSize        int           `mapstructure:"pool_size"`
	MinIdleConns    int           `mapstructure:"min_idle_conns"`
	PoolTimeout     time.Duration `mapstructure:"pool_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	MaxRetries      int           `mapstructure:"max_retries"`
	MinRetryBackoff time.Duration `mapstructure:"min_retry_backoff"`
	MaxRetryBackoff time.Duration `mapstructure:"max_retry_backoff"`
}

// DatabaseConfig defines the PostgreSQL archive connection.
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// RatesConfig configures the exchange-rate provider and cache.
type RatesConfig struct {
	Endpoint        string        `mapstructure:"endpoint" validate:"required,url"`
	Currency        string        `mapstructure:"currency" validate:"required"`
	FreshnessWindow time.Duration `mapstructure:"freshness_window"`
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
	FallbackRate    float64       `mapstructure:"fallback_rate" validate:"gt=0"`
}

// PaymentConfig holds per-method payment destinations. These are operator
// identities, not secrets, but they change without a redeploy.
type PaymentConfig struct {
	SwishNumber string `mapstructure:"swish_number"`
	PayPalLink  string `mapstructure:"paypal_link"`
	BankAccount string `mapstructure:"bank_account"`
}

// RateLimitRule describes a single limit/window pair.
type RateLimitRule struct {
	Limit  int    `mapstructure:"limit"`
	Window string `mapstructure:"window"`
}

// RateLimitConfig controls per-user throttling of bot updates.
type RateLimitConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	PerUser   RateLimitRule `mapstructure:"per_user"`
	Whitelist []int64       `mapstructure:"whitelist"`
}

// SentryConfig enables error reporting.
type SentryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}

// JobsConfig controls the background worker and scheduler.
type JobsConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	Concurrency      int           `mapstructure:"concurrency"`
	ArchiveRetention time.Duration `mapstructure:"archive_retention"`
}

// KafkaConfig enables the order event stream for downstream moderation.
type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// PaymentSource exposes the current payment destinations, swapped atomically
// when the config file is reloaded.
type PaymentSource struct {
	v atomic.Value
}

// NewPaymentSource seeds the source with the initial destinations.
func NewPaymentSource(initial PaymentConfig) *PaymentSource {
	s := &PaymentSource{}
	s.v.Store(initial)
	return s
}

// Current returns the active payment destinations.
func (s *PaymentSource) Current() PaymentConfig {
	if s == nil {
		return PaymentConfig{}
	}

	cfg, _ := s.v.Load().(PaymentConfig)
	return cfg
}

// Update replaces the active payment destinations.
func (s *PaymentSource) Update(cfg PaymentConfig) {
	if s == nil {
		return
	}
	s.v.Store(cfg)
}
