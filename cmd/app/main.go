package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/atvirokodosprendimai/eventcatalog/internal/app"
	"github.com/atvirokodosprendimai/eventcatalog/internal/config"
	"github.com/atvirokodosprendimai/eventcatalog/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "eventcatalog",
		Usage: "Events and cities catalog API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Sources: cli.EnvVars(config.EnvPrefix + "CONFIG"),
				Usage:   "Optional YAML config file",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "HTTP listen address (overrides server.addr)",
			},
			&cli.StringFlag{
				Name:  "db-driver",
				Usage: "Database driver: sqlite or postgres (overrides database.driver)",
			},
			&cli.StringFlag{
				Name:  "db-dsn",
				Usage: "Database DSN or SQLite file path (overrides database.dsn)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (overrides logging.level)",
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Apply database migrations and exit",
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, logger, closer, err := bootstrap(c)
					if err != nil {
						return err
					}
					defer closer()

					if err := app.Migrate(ctx, cfg, logger); err != nil {
						return fmt.Errorf("migrate: %w", err)
					}
					logger.Info().Str("driver", cfg.Database.Driver).Msg("migrations applied")
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("eventcatalog failed")
	}
}

func bootstrap(c *cli.Command) (config.Config, zerolog.Logger, func(), error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return config.Config{}, zerolog.Nop(), nil, err
	}
	if c.IsSet("addr") {
		cfg.Server.Addr = c.String("addr")
	}
	if c.IsSet("db-driver") {
		cfg.Database.Driver = c.String("db-driver")
	}
	if c.IsSet("db-dsn") {
		cfg.Database.DSN = c.String("db-dsn")
	}
	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, zerolog.Nop(), nil, err
	}

	logger, logCloser, err := logging.Setup(logging.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return config.Config{}, zerolog.Nop(), nil, fmt.Errorf("setup logging: %w", err)
	}
	return cfg, logger, func() { _ = logCloser.Close() }, nil
}

func serve(ctx context.Context, c *cli.Command) error {
	cfg, logger, closeLog, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer closeLog()

	server, closer, err := app.NewServer(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	defer func() {
		if closeErr := closer.Close(); closeErr != nil {
			logger.Error().Err(closeErr).Msg("close resources")
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("listening")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	shutdown := func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}

	select {
	case <-ctx.Done():
		return shutdown()
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		return shutdown()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
