// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres provides the managed PostgreSQL connection pool used by
// the book store.
//
// # Workloads
//
// The API server and the export command share one pool implementation but
// size it differently: the server keeps a warm set of connections and bounds
// every statement by the request deadline, while the export command runs a
// single long read and needs neither.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/bookshelf/internal/platform/config"
	"github.com/taibuivan/bookshelf/internal/platform/constants"
)

const (
	maxConnLifetime   = 60 * time.Minute
	maxConnIdleTime   = 10 * time.Minute
	healthCheckPeriod = 1 * time.Minute
	connectTimeout    = 5 * time.Second
	pingTimeout       = 2 * time.Second
)

// Options sizes a pool for one workload.
type Options struct {
	DSN      string
	MaxConns int32
	MinConns int32
	// StatementTimeout is sent as the statement_timeout session parameter.
	// Zero leaves the server default in place.
	StatementTimeout time.Duration
	// Role tags connections in pg_stat_activity (application_name).
	Role string
}

// ServerOptions returns the pool sizing for the HTTP API.
func ServerOptions(cfg *config.Config) Options {
	return Options{
		DSN:              cfg.DatabaseURL,
		MaxConns:         cfg.DBMaxConns,
		MinConns:         cfg.DBMinConns,
		StatementTimeout: constants.GlobalRequestTimeout,
		Role:             "api",
	}
}

// BatchOptions returns the pool sizing for one-shot commands that read the
// whole book table.
func BatchOptions(cfg *config.Config, role string) Options {
	return Options{
		DSN:      cfg.DatabaseURL,
		MaxConns: 2,
		Role:     role,
	}
}

// PoolConfig translates options into a pgxpool configuration.
func (options Options) PoolConfig() (*pgxpool.Config, error) {
	if options.MaxConns < 1 {
		return nil, fmt.Errorf("postgres: max connections must be positive, got %d", options.MaxConns)
	}
	if options.MinConns < 0 || options.MinConns > options.MaxConns {
		return nil, fmt.Errorf("postgres: min connections %d outside [0, %d]", options.MinConns, options.MaxConns)
	}

	poolConfig, err := pgxpool.ParseConfig(options.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	poolConfig.MaxConns = options.MaxConns
	poolConfig.MinConns = options.MinConns
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	params := poolConfig.ConnConfig.RuntimeParams
	params["application_name"] = constants.AppName + "-" + options.Role
	if options.StatementTimeout > 0 {
		params["statement_timeout"] = strconv.FormatInt(options.StatementTimeout.Milliseconds(), 10)
	}

	return poolConfig, nil
}

// NewPool opens a pool for the given workload and verifies it with a ping.
func NewPool(ctx context.Context, options Options, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := options.PoolConfig()
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_pool_connected",
		slog.String("role", options.Role),
		slog.Int("max_conns", int(options.MaxConns)),
		slog.Int("min_conns", int(options.MinConns)),
	)

	return pool, nil
}

// Ping verifies that the pool can reach the server.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}
	return nil
}
