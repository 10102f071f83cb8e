// Package main implements the background worker that consumes jobs from the
// Redis queue and sends welcome e-mails.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/realtonyos/go-todo/internal/config"
	"github.com/realtonyos/go-todo/internal/platform/cache"
	"github.com/realtonyos/go-todo/internal/platform/logger"
	"github.com/realtonyos/go-todo/internal/platform/mail"
	"github.com/realtonyos/go-todo/internal/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error("worker exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run consumes jobs until ctx is canceled. Jobs already taken off the queue
// are finished before it returns.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	client, err := cache.NewClient(ctx, cfg.Redis.URL, -1)
	if err != nil {
		return fmt.Errorf("failed to connect queue redis: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("Error closing redis connection", slog.String("error", err.Error()))
		}
	}()

	sender := mail.NewSender(cfg.SMTP, logger)
	if !cfg.SMTP.Enabled() {
		logger.Warn("SMTP relay not configured, welcome emails will only be logged")
	}

	registry := task.NewRegistry()
	registry.Register(task.JobWelcomeEmail, task.NewWelcomeEmailHandler(sender, logger))

	runnerCfg := task.DefaultRunnerConfig()
	runnerCfg.WorkerCount = cfg.Worker.Count
	runnerCfg.MaxAttempts = cfg.Worker.MaxAttempts

	queue := task.NewQueue(client, cfg.Worker.QueueKey, logger)
	runner := task.NewRunner(queue, registry, runnerCfg, logger)

	logger.Info("Worker started",
		slog.String("queue", cfg.Worker.QueueKey),
		slog.Int("workers", cfg.Worker.Count),
		slog.Int("max_attempts", cfg.Worker.MaxAttempts))

	if err := runner.Run(ctx); err != nil {
		return fmt.Errorf("job runner failed: %w", err)
	}

	logger.Info("Worker shutdown completed")
	return nil
}
