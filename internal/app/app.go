package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/atvirokodosprendimai/eventcatalog/internal/adapters/clerk"
	"github.com/atvirokodosprendimai/eventcatalog/internal/adapters/httpapi"
	"github.com/atvirokodosprendimai/eventcatalog/internal/adapters/store"
	"github.com/atvirokodosprendimai/eventcatalog/internal/adapters/store/gormdb"
	"github.com/atvirokodosprendimai/eventcatalog/internal/adapters/stripe"
	"github.com/atvirokodosprendimai/eventcatalog/internal/config"
	"github.com/atvirokodosprendimai/eventcatalog/internal/core/ports"
	"github.com/atvirokodosprendimai/eventcatalog/internal/core/usecase"
	"github.com/atvirokodosprendimai/eventcatalog/migrations"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

const migrateTimeout = 30 * time.Second

type resourceCloser struct {
	closers []io.Closer
}

func (r resourceCloser) Close() error {
	var firstErr error
	for _, c := range r.closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func openDB(cfg config.DatabaseConfig, logger zerolog.Logger) (*gormdb.DB, error) {
	db, err := gormdb.Open(gormdb.Config{Driver: cfg.Driver, DSN: cfg.DSN}, logger)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}
	return db, nil
}

func migrate(ctx context.Context, db *gormdb.DB) error {
	writeSQLDB, err := db.WriteSQLDB()
	if err != nil {
		return fmt.Errorf("resolve writer sql db: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, migrateTimeout)
	defer cancel()
	return migrations.Up(ctx, writeSQLDB, db.Dialect())
}

// Migrate applies pending migrations and exits.
func Migrate(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	db, err := openDB(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	return migrate(ctx, db)
}

func NewServer(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*http.Server, io.Closer, error) {
	db, err := openDB(cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.MigrateOnStart {
		if err := migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}

	cityRepo := store.NewCityRepository(db)
	eventRepo := store.NewEventRepository(db)

	var identity ports.IdentityProvider
	if cfg.Auth.Enabled() {
		client, err := clerk.New(clerk.Config{
			PublicKeyPEM: cfg.Auth.ClerkPublicKey,
			Issuer:       cfg.Auth.ClerkIssuer,
			SecretKey:    cfg.Auth.ClerkSecretKey,
			APIURL:       cfg.Auth.ClerkAPIURL,
			Timeout:      cfg.Auth.Timeout,
		})
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		identity = client
	} else {
		logger.Warn().Msg("clerk not configured; protected routes will reject every request")
	}

	var payments ports.PaymentProvider
	if cfg.Payments.Enabled() {
		payments = stripe.New(stripe.Config{
			SecretKey:     cfg.Payments.StripeSecretKey,
			WebhookSecret: cfg.Payments.StripeWebhookSecret,
			APIURL:        cfg.Payments.StripeAPIURL,
			Timeout:       cfg.Payments.Timeout,
		})
	} else {
		logger.Warn().Msg("stripe not configured; checkout is disabled")
	}

	cityService := usecase.NewCityService(cityRepo, eventRepo)
	eventService := usecase.NewEventService(eventRepo, cityRepo)
	authService := usecase.NewAuthService(identity, cfg.Auth.AdminRole)
	checkoutService := usecase.NewCheckoutService(eventRepo, payments, cfg.Payments.SuccessURL, cfg.Payments.CancelURL)

	opts := httpapi.Options{
		Logger: logger,
		Timeouts: httpapi.TimeoutPolicy{
			Default: cfg.Server.RequestTimeout,
			Routes:  cfg.Server.RouteTimeouts,
		},
		RateLimit:   cfg.Server.RateLimit,
		RateWindow:  cfg.Server.RateWindow,
		CORSOrigins: cfg.Server.CORSOrigins,
	}
	if cfg.Server.Metrics {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts.Registry = registry
	}

	handler := httpapi.NewHandler(cityService, eventService, authService, checkoutService, opts)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	return server, resourceCloser{closers: []io.Closer{db}}, nil
}
