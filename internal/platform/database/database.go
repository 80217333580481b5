// Copyright (c) 2026 Kryspinoff. All rights reserved.

/*
Package database manages the PostgreSQL connection for the bookstore API.

It wraps GORM session construction with production pool tuning and exposes
small helpers for classifying driver errors into domain-agnostic categories.

Architecture:

  - Open: dials PostgreSQL through GORM's pgx-based driver and verifies
    connectivity before the server starts accepting traffic.
  - Error classification: storage layers call [IsUniqueViolation] and
    [IsNotFound] instead of matching driver errors themselves.
*/
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connection pool tuning. Sized for a single API instance against a small
// managed PostgreSQL.
const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
	connMaxIdleTime = 5 * time.Minute
	pingTimeout     = 5 * time.Second
)

// Open dials PostgreSQL and returns a configured [*gorm.DB].
//
// TranslateError is enabled so driver-specific errors surface as GORM
// sentinels (e.g. [gorm.ErrDuplicatedKey]) regardless of backend.
func Open(ctx context.Context, databaseURL string, debug bool, logger *slog.Logger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("database: failed to open connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: failed to access connection pool: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("database: failed to ping: %w", err)
	}

	logger.InfoContext(ctx, "database_connected",
		slog.Int("max_open_conns", maxOpenConns),
		slog.Int("max_idle_conns", maxIdleConns),
	)
	return db, nil
}

// Close shuts down the underlying connection pool. Safe to call on a nil db.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping verifies connectivity for health checks.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return sqlDB.PingContext(pingCtx)
}
