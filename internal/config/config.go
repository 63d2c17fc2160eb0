// Package config loads service configuration from defaults, an optional
// YAML file and EVENTCATALOG_ environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const EnvPrefix = "EVENTCATALOG_"

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Logging  LoggingConfig  `koanf:"logging"`
	Auth     AuthConfig     `koanf:"auth"`
	Payments PaymentsConfig `koanf:"payments"`
}

type ServerConfig struct {
	Addr              string        `koanf:"addr" validate:"required"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	// RequestTimeout applies to routes without an entry in RouteTimeouts.
	RequestTimeout time.Duration            `koanf:"request_timeout" validate:"gte=0"`
	RouteTimeouts  map[string]time.Duration `koanf:"route_timeouts" validate:"dive,keys,startswith=/,endkeys,gte=0"`
	RateLimit      int                      `koanf:"rate_limit" validate:"gte=0"`
	RateWindow     time.Duration            `koanf:"rate_window" validate:"gt=0"`
	CORSOrigins    []string                 `koanf:"cors_origins" validate:"dive,required"`
	Metrics        bool                     `koanf:"metrics"`
}

type DatabaseConfig struct {
	Driver         string `koanf:"driver" validate:"oneof=sqlite postgres"`
	DSN            string `koanf:"dsn" validate:"required"`
	MigrateOnStart bool   `koanf:"migrate_on_start"`
}

type LoggingConfig struct {
	Level      string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format     string `koanf:"format" validate:"oneof=json console"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `koanf:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `koanf:"max_age_days" validate:"gte=0"`
	Compress   bool   `koanf:"compress"`
}

// AuthConfig configures Clerk. Admin routes reject every request when
// ClerkPublicKey is empty.
type AuthConfig struct {
	ClerkPublicKey string        `koanf:"clerk_public_key"`
	ClerkIssuer    string        `koanf:"clerk_issuer" validate:"omitempty,url"`
	ClerkSecretKey string        `koanf:"clerk_secret_key" validate:"required_with=ClerkPublicKey"`
	ClerkAPIURL    string        `koanf:"clerk_api_url" validate:"omitempty,url"`
	AdminRole      string        `koanf:"admin_role" validate:"required"`
	Timeout        time.Duration `koanf:"timeout" validate:"gte=0"`
}

func (a AuthConfig) Enabled() bool {
	return a.ClerkPublicKey != ""
}

// PaymentsConfig configures Stripe. Checkout answers 503 when
// StripeSecretKey is empty.
type PaymentsConfig struct {
	StripeSecretKey     string        `koanf:"stripe_secret_key"`
	StripeWebhookSecret string        `koanf:"stripe_webhook_secret" validate:"required_with=StripeSecretKey"`
	StripeAPIURL        string        `koanf:"stripe_api_url" validate:"omitempty,url"`
	SuccessURL          string        `koanf:"success_url" validate:"omitempty,url"`
	CancelURL           string        `koanf:"cancel_url" validate:"omitempty,url"`
	Timeout             time.Duration `koanf:"timeout" validate:"gte=0"`
}

func (p PaymentsConfig) Enabled() bool {
	return p.StripeSecretKey != ""
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			RequestTimeout:    10 * time.Second,
			RouteTimeouts: map[string]time.Duration{
				"/v1/checkout/*": 30 * time.Second,
			},
			RateLimit:  120,
			RateWindow: time.Minute,
			Metrics:    true,
		},
		Database: DatabaseConfig{
			Driver:         "sqlite",
			DSN:            "./eventcatalog.sqlite",
			MigrateOnStart: true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Auth: AuthConfig{
			AdminRole: "admin",
			Timeout:   5 * time.Second,
		},
		Payments: PaymentsConfig{
			Timeout: 10 * time.Second,
		},
	}
}

// Load layers defaults, the YAML file at path (skipped when path is empty)
// and environment variables. EVENTCATALOG_DATABASE__DSN maps to
// database.dsn.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("config file: %w", err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Payments.Enabled() && (c.Payments.SuccessURL == "" || c.Payments.CancelURL == "") {
		return errors.New("invalid config: payments.success_url and payments.cancel_url are required when stripe is enabled")
	}
	return nil
}
