// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides the client that backs the shared rate limiter.

Redis holds only rate-limit windows; no book data is ever stored here. The
client is optional: without REDIS_URL the API falls back to per-process
limiting.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/bookshelf/internal/platform/constants"
)

const pingTimeout = 2 * time.Second

// ParseOptions parses redisURL and tunes the client for the limiter, which
// issues one INCR (plus an EXPIRE on the first hit) per request.
//
// Socket timeouts are kept well below the request deadline so a slow Redis
// degrades to fail-open limiting instead of stalling requests.
func ParseOptions(redisURL string) (*redis.Options, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.ClientName = constants.AppName + "-ratelimit"
	options.PoolSize = 10
	options.MinIdleConns = 2
	options.DialTimeout = 3 * time.Second
	options.ReadTimeout = 200 * time.Millisecond
	options.WriteTimeout = 200 * time.Millisecond
	options.MaxRetries = 1

	return options, nil
}

// NewClient connects to redisURL and verifies the connection.
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := ParseOptions(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(options)
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
	)
	return client, nil
}

// Ping verifies that the client can reach the server.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
