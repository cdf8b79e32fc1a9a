// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the bookshelf HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables and set up tracing.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis when REDIS_URL is set.
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/bookshelf/internal/api"
	"github.com/taibuivan/bookshelf/internal/core/book"
	"github.com/taibuivan/bookshelf/internal/platform/config"
	"github.com/taibuivan/bookshelf/internal/platform/constants"
	"github.com/taibuivan/bookshelf/internal/platform/middleware"
	"github.com/taibuivan/bookshelf/internal/platform/migration"
	pgstore "github.com/taibuivan/bookshelf/internal/platform/postgres"
	redisstore "github.com/taibuivan/bookshelf/internal/platform/redis"
	"github.com/taibuivan/bookshelf/internal/platform/telemetry"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("redis", cfg.HasRedis()),
	)

	if cfg.IsProduction() && len(cfg.AllowedOrigins()) == 0 {
		log.Warn("cors_whitelist_empty", slog.String("effect", "cross-origin requests are rejected"))
	}

	// Root context for background workers; cancelled on shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Misconfiguration should fail fast rather than hang.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, constants.StartupTimeout)
	defer startupCancel()

	shutdownTracing, err := telemetry.Setup(startupCtx, cfg.OTLPEndpoint, constants.AppName, constants.AppVersion, log)
	must(log, err, "set up tracing")
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Error("tracing shutdown error", slog.Any("error", err))
		}
	}()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, pgstore.ServerOptions(cfg), log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	dependencies := []api.Dependency{{
		Name:  "postgres",
		Check: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
	}}

	// ── 4. Redis & rate limiting ──────────────────────────────────────────
	var limiter middleware.Limiter
	if cfg.HasRedis() {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer closeRedis(log, rdb)

		dependencies = append(dependencies, api.Dependency{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
		})
		limiter = middleware.NewRedisLimiter(rdb, windowLimit(cfg), constants.RateLimitWindow)
	} else {
		limiter = middleware.NewMemoryLimiter(rootCtx, cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(log, dependencies...)

	bookRepository := book.NewPostgresRepository(pool)
	bookService := book.NewService(bookRepository, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Book:      book.NewHandler(bookService),
	}

	server := api.NewServer(cfg, log, limiter, handlers)

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// windowLimit converts the token-bucket settings to a fixed-window quota so
// both limiters admit roughly the same traffic.
func windowLimit(cfg *config.Config) int {
	perWindow := int(math.Ceil(cfg.RateLimitRPS * constants.RateLimitWindow.Seconds()))
	return max(perWindow, cfg.RateLimitBurst)
}

func closeRedis(log *slog.Logger, rdb *goredis.Client) {
	log.Info("closing redis client")
	if err := rdb.Close(); err != nil {
		log.Error("redis close error", slog.Any("error", err))
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
