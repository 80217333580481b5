// Copyright (c) 2026 Kryspinoff. All rights reserved.

// Command api is the entry point for the bookstore HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (GORM).
//  4. Connect to Redis.
//  5. Run schema migration (idempotent AutoMigrate).
//  6. Bootstrap the first SUPER_ADMIN account.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
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
	"time"

	"github.com/Kryspinoff/bookstore/internal/api"
	"github.com/Kryspinoff/bookstore/internal/catalog/author"
	"github.com/Kryspinoff/bookstore/internal/catalog/book"
	"github.com/Kryspinoff/bookstore/internal/catalog/genre"
	"github.com/Kryspinoff/bookstore/internal/catalog/order"
	"github.com/Kryspinoff/bookstore/internal/catalog/review"
	"github.com/Kryspinoff/bookstore/internal/platform/config"
	"github.com/Kryspinoff/bookstore/internal/platform/constants"
	"github.com/Kryspinoff/bookstore/internal/platform/database"
	"github.com/Kryspinoff/bookstore/internal/platform/filestore"
	redisstore "github.com/Kryspinoff/bookstore/internal/platform/redis"
	"github.com/Kryspinoff/bookstore/internal/platform/sec"
	"github.com/Kryspinoff/bookstore/internal/users/account"
	"github.com/Kryspinoff/bookstore/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	db, err := database.Open(startupCtx, cfg.DatabaseURL, cfg.Debug, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing database connection")
		if cerr := database.Close(db); cerr != nil {
			log.Error("database close error", slog.Any("error", cerr))
		}
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.New(startupCtx, cfg.RedisURL)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Schema Migration ───────────────────────────────────────────────
	must(log, db.WithContext(startupCtx).AutoMigrate(
		&author.Author{},
		&genre.Genre{},
		&review.Review{},
		&book.Book{},
		&book.Asset{},
		&account.Account{},
		&order.Order{},
	), "migrate schema")

	// ── 6. Asset Storage & Token Codec ────────────────────────────────────
	files, err := filestore.New(cfg.StaticDir)
	must(log, err, "initialize file store")

	codec, err := sec.NewTokenCodec(cfg.SecretKey, cfg.JWTAlgorithm, cfg.AccessTokenTTL())
	must(log, err, "initialize token codec")

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	authorService := author.NewService(author.NewGormRepository(db), log)
	genreService := genre.NewService(genre.NewGormRepository(db), log)

	bookRepository := book.NewGormRepository(db)
	bookService := book.NewService(bookRepository, bookRepository, authorService, genreService, files, log)

	reviewService := review.NewService(review.NewGormRepository(db), bookService, log)

	accountRepository := account.NewGormRepository(db)
	accountService := account.NewService(accountRepository, bookService, log)

	authService := auth.NewService(
		accountRepository,
		accountService,
		codec,
		auth.NewRedisThrottle(rdb, log),
		cfg.OpenRegistration,
		log,
	)

	orderService := order.NewService(order.NewGormRepository(db), bookService, accountService, log)

	// ── 8. Super Admin Bootstrap ──────────────────────────────────────────
	must(log, accountService.EnsureSuperAdmin(startupCtx, account.CreateInput{
		FirstName: cfg.FirstSuperAdminFirstName,
		LastName:  cfg.FirstSuperAdminLastName,
		Username:  cfg.FirstSuperAdminUsername,
		Email:     cfg.FirstSuperAdminEmail,
		Password:  cfg.FirstSuperAdminPassword,
	}), "bootstrap super admin")

	// ── 9. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return database.Ping(context.Background(), db)
		},
		CheckCache: func() error {
			return rdb.Ping(context.Background()).Err()
		},
	}, log)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Account:   account.NewHandler(accountService),
		Book:      book.NewHandler(bookService, accountService),
		Author:    author.NewHandler(authorService),
		Genre:     genre.NewHandler(genreService),
		Review:    review.NewHandler(reviewService),
		Order:     order.NewHandler(orderService),
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, codec, accountService, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
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

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
