// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Staffroom HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Build the token service (fatal on an empty secret).
//  4. Select the employee store: PostgreSQL (with migrations) or memory.
//  5. Connect to Redis when configured and enable the read cache.
//  6. Bootstrap the administrator account when configured.
//  7. Start HTTP server with graceful shutdown.
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

	"github.com/taibuivan/staffroom/internal/api"
	"github.com/taibuivan/staffroom/internal/employee"
	"github.com/taibuivan/staffroom/internal/platform/config"
	"github.com/taibuivan/staffroom/internal/platform/constants"
	"github.com/taibuivan/staffroom/internal/platform/middleware"
	"github.com/taibuivan/staffroom/internal/platform/migration"
	pgstore "github.com/taibuivan/staffroom/internal/platform/postgres"
	redisstore "github.com/taibuivan/staffroom/internal/platform/redis"
	"github.com/taibuivan/staffroom/internal/platform/sec"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing")

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
		slog.String("store_driver", cfg.StoreDriver),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), constants.StartupTimeout)
	defer startupCancel()

	// ── 3. Security ───────────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(sec.StaticSecret(cfg.SecretKey),
		sec.WithAccessTTL(cfg.AccessTokenTTL),
		sec.WithRefreshTTL(cfg.RefreshTokenTTL),
	)
	must(log, err, "initialize token service")

	hasher := sec.NewBcryptHasher(cfg.BcryptCost)

	// ── 4. Employee Store ─────────────────────────────────────────────────
	var (
		store  employee.Store
		checks []api.HealthCheck
	)

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing_postgres_pool")
			pool.Close()
		}()

		store = employee.NewPostgresStore(pool)
		checks = append(checks, api.HealthCheck{
			Name:  "postgres",
			Check: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		})

	case config.DriverMemory:
		log.Warn("memory_store_enabled", slog.String("note", "employees are lost on restart"))
		store = employee.NewMemoryStore()
	}

	repositoryOptions := []employee.RepositoryOption{employee.WithLogger(log)}

	// ── 5. Redis (optional) ───────────────────────────────────────────────
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()

		cache := redisstore.NewJSONCache[employee.Employee](rdb, constants.RedisPrefixEmployee, cfg.CacheTTL)
		repositoryOptions = append(repositoryOptions, employee.WithCache(cache))
		checks = append(checks, api.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
		})
	}

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	repository := employee.NewRepository(store, hasher, repositoryOptions...)
	service := employee.NewService(repository, hasher, tokens, log)

	if cfg.HasBootstrapAdmin() {
		must(log, service.EnsureAdmin(startupCtx, cfg.AdminEmail, cfg.AdminPassword), "bootstrap admin")
	}

	liveness, readiness := api.NewHealthHandlers(checks, log)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	loginLimiter := middleware.NewRateLimiter(constants.LoginRateLimitRPS, constants.LoginRateLimitBurst,
		middleware.WithIPResolver(middleware.NewIPResolver(cfg.TrustedProxyPrefixes()...)),
	)
	loginLimiter.StartSweeper(serverCtx)

	employeeHandler := employee.NewHandler(service, middleware.NewGuard(tokens),
		employee.WithLoginLimiter(loginLimiter),
	)

	server := api.NewServer(serverCtx, cfg, log, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Employee:  employeeHandler,
	})

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
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("server_shutting_down", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// newLogger returns the JSON logger tagged with the application name.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
