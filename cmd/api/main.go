// Copyright (c) 2026 Filmorate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Filmorate HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables (and an optional .env).
//  3. Connect to PostgreSQL and run migrations, unless STORAGE_DRIVER=memory.
//  4. Connect to Redis when REDIS_URL is set (reference-data cache).
//  5. Wire repositories, services and HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/filmorate/internal/api"
	"github.com/taibuivan/filmorate/internal/core/film"
	"github.com/taibuivan/filmorate/internal/core/reference"
	"github.com/taibuivan/filmorate/internal/core/user"
	"github.com/taibuivan/filmorate/internal/platform/config"
	"github.com/taibuivan/filmorate/internal/platform/constants"
	"github.com/taibuivan/filmorate/internal/platform/middleware"
	"github.com/taibuivan/filmorate/internal/platform/migration"
	pgstore "github.com/taibuivan/filmorate/internal/platform/postgres"
	redisstore "github.com/taibuivan/filmorate/internal/platform/redis"
)

// repositories is the storage graph selected by STORAGE_DRIVER.
type repositories struct {
	films     film.Repository
	users     user.Repository
	reference reference.Repository
}

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("[Filmorate] service_initializing")

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
		slog.String("storage_driver", cfg.StorageDriver),
		slog.Bool("reference_cache", cfg.CacheEnabled()),
	)

	// Root context for background workers; cancelled on shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Startup deadline so misconfiguration is caught quickly rather than hanging.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, constants.StartupTimeout)
	defer startupCancel()

	var checks []api.HealthCheck

	// ── 3. Storage ────────────────────────────────────────────────────────
	var repos repositories
	if cfg.UsesPostgres() {
		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing postgres pool")
			pool.Close()
		}()

		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		repos = postgresRepositories(pool)
		checks = append(checks, api.HealthCheck{
			Name:  "postgres",
			Check: func(context context.Context) error { return pgstore.Ping(context, pool) },
		})
	} else {
		log.Warn("using in-memory storage; data is lost on restart")
		repos = memoryRepositories()
	}

	// ── 4. Redis ──────────────────────────────────────────────────────────
	if cfg.CacheEnabled() {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		repos.reference = reference.NewCachedRepository(repos.reference, rdb, cfg.ReferenceCacheTTL, log)
		checks = append(checks, api.HealthCheck{
			Name:  "redis",
			Check: func(context context.Context) error { return redisstore.Ping(context, rdb) },
		})
	}

	// ── 5. Domain Wiring ──────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(log, checks...)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Film:      film.NewHandler(film.NewService(repos.films, log)),
		User:      user.NewHandler(user.NewService(repos.users, log)),
		Reference: reference.NewHandler(reference.NewService(repos.reference, log)),
	}

	limiter := middleware.NewRateLimiter(rootCtx, cfg.RateLimitRPS, cfg.RateLimitBurst)
	server := api.NewServer(cfg, log, limiter, handlers)

	// ── 6. Graceful Shutdown ──────────────────────────────────────────────
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
		return
	}

	log.Info("server stopped cleanly")
}

// newLogger builds the JSON logger tagged with the application name.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String(constants.FieldApp, constants.AppName))
}

// postgresRepositories wires every store to the shared pool.
func postgresRepositories(pool *pgxpool.Pool) repositories {
	return repositories{
		films:     film.NewPostgresRepository(pool),
		users:     user.NewPostgresRepository(pool),
		reference: reference.NewPostgresRepository(pool),
	}
}

// memoryRepositories wires the in-process stores. The film store checks user
// ids against the user store, as the foreign keys do in PostgreSQL.
func memoryRepositories() repositories {
	refs := reference.NewMemoryRepository()
	users := user.NewMemoryRepository()

	return repositories{
		films:     film.NewMemoryRepository(refs, users),
		users:     users,
		reference: refs,
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
