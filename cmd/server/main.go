// Package main implements the entry point for the to-do HTTP server, which
// serves the JSON API under /api/v1 and the cookie-authenticated web pages.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/realtonyos/go-todo/internal/config"
	"github.com/realtonyos/go-todo/internal/platform/logger"
	"github.com/realtonyos/go-todo/internal/platform/postgres"
)

func main() {
	migrate := flag.String("migrate", "", "run a migration command (up, down, status, version, reset) and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	if err := run(context.Background(), cfg, appLogger, *migrate); err != nil {
		appLogger.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run wires the application and blocks until the server stops. When
// migrateCmd is set, only the migration runs.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, migrateCmd string) error {
	logger.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("environment", cfg.Server.Environment))

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer func() { _ = db.Close() }()
		if err := postgres.Migrate(ctx, db, migrateCmd, logger); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		return nil
	}

	app, err := newApplication(ctx, cfg, logger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
