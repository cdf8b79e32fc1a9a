// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/constants"
	"github.com/taibuivan/bookshelf/internal/platform/ctxutil"
	"github.com/taibuivan/bookshelf/internal/platform/respond"
)

// # Rate Limiting

// Limiter decides whether one more request from key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit rejects requests with 429 once the client IP exceeds its budget.
//
// A limiter error lets the request through; the failure is logged.
func RateLimit(limiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			allowed, err := limiter.Allow(request.Context(), RealIP(request))
			if err != nil {
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "rate_limit_unavailable",
					slog.Any("error", err),
				)
				allowed = true
			}

			if !allowed {
				retryAfter := int(math.Ceil(constants.RateLimitWindow.Seconds()))
				writer.Header().Set(constants.HeaderRetryAfter, strconv.Itoa(retryAfter))
				respond.Error(writer, request, apperr.RateLimited(retryAfter))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # In-process Token Bucket

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter keeps one token bucket per key in process memory.
type MemoryLimiter struct {
	mu      sync.Mutex
	clients map[string]*rateLimitClient
	rps     rate.Limit
	burst   int
	now     func() time.Time
}

// NewMemoryLimiter creates a limiter and starts its cleanup loop, which
// stops when ctx is cancelled.
func NewMemoryLimiter(ctx context.Context, rps float64, burst int) *MemoryLimiter {
	limiter := &MemoryLimiter{
		clients: make(map[string]*rateLimitClient),
		rps:     rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}

	go limiter.cleanupLoop(ctx)
	return limiter
}

// Allow implements [Limiter]. It never fails.
func (limiter *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	clientInfo, found := limiter.clients[key]
	if !found {
		clientInfo = &rateLimitClient{limiter: rate.NewLimiter(limiter.rps, limiter.burst)}
		limiter.clients[key] = clientInfo
	}

	clientInfo.lastSeen = limiter.now()
	return clientInfo.limiter.Allow(), nil
}

func (limiter *MemoryLimiter) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(constants.RateLimitCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			limiter.evictIdle()
		case <-ctx.Done():
			return
		}
	}
}

// evictIdle drops clients idle for longer than [constants.RateLimitClientTTL].
func (limiter *MemoryLimiter) evictIdle() {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	for key, clientInfo := range limiter.clients {
		if limiter.now().Sub(clientInfo.lastSeen) > constants.RateLimitClientTTL {
			delete(limiter.clients, key)
		}
	}
}

// # Shared Fixed Window (Redis)

// counter is the subset of the Redis client used by [RedisLimiter].
type counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RedisLimiter counts requests per key in fixed windows shared by every
// API instance pointed at the same Redis.
type RedisLimiter struct {
	client counter
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewRedisLimiter allows limit requests per key in each window.
func NewRedisLimiter(client counter, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}
}

// Allow implements [Limiter].
func (limiter *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowStart := limiter.now().Truncate(limiter.window).Unix()
	redisKey := constants.RedisPrefixRateLimit + key + ":" + strconv.FormatInt(windowStart, 10)

	count, err := limiter.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}

	// First hit in this window owns the expiry.
	if count == 1 {
		if err := limiter.client.Expire(ctx, redisKey, 2*limiter.window).Err(); err != nil {
			return false, err
		}
	}

	return count <= limiter.limit, nil
}
