package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/realtonyos/go-todo/internal/api"
	apimw "github.com/realtonyos/go-todo/internal/api/middleware"
	"github.com/realtonyos/go-todo/internal/config"
	"github.com/realtonyos/go-todo/internal/platform/cache"
	"github.com/realtonyos/go-todo/internal/platform/postgres"
	"github.com/realtonyos/go-todo/internal/service"
	"github.com/realtonyos/go-todo/internal/service/auth"
	"github.com/realtonyos/go-todo/internal/store"
	"github.com/realtonyos/go-todo/internal/task"
	"github.com/realtonyos/go-todo/internal/web"
)

// application holds the shared dependencies of the server process and
// releases them on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	cacheClient *redis.Client
	queueClient *redis.Client

	userStore store.UserStore
	taskStore store.TaskStore

	jwtService  auth.JWTService
	producer    *task.AsyncProducer
	userService service.UserService
	taskService service.TaskService

	resolver *apimw.Resolver
	limiter  *apimw.RateLimiter
	web      *web.Handler

	// stops background goroutines owned by the application
	stop context.CancelFunc
}

// newApplication connects to Redis and builds every store, service and
// handler on top of db. On failure everything opened so far, db included,
// is closed.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	appCtx, stop := context.WithCancel(context.Background())
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
		stop:   stop,
	}

	var err error
	app.cacheClient, err = cache.NewClient(ctx, cfg.Redis.URL, cfg.Redis.CacheDB)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to connect cache redis: %w", err)
	}
	// -1 keeps the database named in the URL for the job queue.
	app.queueClient, err = cache.NewClient(ctx, cfg.Redis.URL, -1)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to connect queue redis: %w", err)
	}
	logger.Info("Redis connections established", slog.Int("cache_db", cfg.Redis.CacheDB))

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.taskStore = cache.NewTaskCache(
		postgres.NewPostgresTaskStore(db, logger),
		app.cacheClient,
		cfg.Cache.TaskListTTL(),
		logger,
	)

	queue := task.NewQueue(app.queueClient, cfg.Worker.QueueKey, logger)
	app.producer = task.NewAsyncProducer(queue, 0, logger)

	app.userService = service.NewUserService(
		app.userStore,
		db,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		auth.NewBcryptVerifier(),
		app.producer,
		logger,
	)
	app.taskService = service.NewTaskService(app.taskStore, logger)

	app.resolver = apimw.NewResolver(app.jwtService, app.userStore, logger)
	if cfg.RateLimit.Enabled() {
		app.limiter = apimw.NewRateLimiter(appCtx, cfg.RateLimit)
		logger.Info("Rate limiting enabled",
			slog.Float64("requests_per_second", cfg.RateLimit.RequestsPerSecond),
			slog.Int("burst", cfg.RateLimit.Burst))
	}

	app.web, err = web.New(web.Config{
		Users:         app.userService,
		Tasks:         app.taskService,
		JWT:           app.jwtService,
		Resolver:      app.resolver,
		RateLimiter:   app.limiter,
		SecureCookies: cfg.Server.IsProduction(),
		Logger:        logger,
	})
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to initialize web handler: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// routes assembles the JSON API handlers.
func (app *application) routes() *api.Routes {
	return &api.Routes{
		Auth:        api.NewAuthHandler(app.userService, app.jwtService, app.logger),
		Users:       api.NewUserHandler(app.logger),
		Tasks:       api.NewTaskHandler(app.taskService, app.logger),
		Resolver:    app.resolver,
		RateLimiter: app.limiter,
	}
}

// Run serves HTTP until a shutdown signal arrives or ctx is canceled.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup waits for in-flight job hand-offs and closes every connection.
func (app *application) cleanup() {
	if app.stop != nil {
		app.stop()
	}

	if app.producer != nil {
		app.producer.Wait()
	}

	for name, client := range map[string]*redis.Client{
		"cache": app.cacheClient,
		"queue": app.queueClient,
	} {
		if client == nil {
			continue
		}
		if err := client.Close(); err != nil {
			app.logger.Error("Error closing redis connection",
				slog.String("client", name),
				slog.String("error", err.Error()))
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("Application shutdown completed")
}
