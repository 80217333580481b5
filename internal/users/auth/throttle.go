// Copyright (c) 2026 Kryspinoff. All rights reserved.

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Kryspinoff/bookstore/internal/platform/apperr"
	"github.com/Kryspinoff/bookstore/internal/platform/constants"
)

// Throttle limits failed login attempts per identifier+IP pair.
type Throttle interface {
	// Allow returns a rate-limit error when the pair has exhausted its
	// failed-attempt budget.
	Allow(context context.Context, identifier, ip string) error
	// RecordFailure counts one failed attempt against the pair.
	RecordFailure(context context.Context, identifier, ip string) error
	// Reset clears the pair's counter after a successful login.
	Reset(context context.Context, identifier, ip string) error
}

// RedisThrottle implements [Throttle] with a counter per identifier+IP that
// expires after the throttle window.
//
// Redis outages fail open: a broken cache must not lock every member out of
// the store.
type RedisThrottle struct {
	client *redis.Client
	logger *slog.Logger

	maxAttempts int
	window      time.Duration
}

func NewRedisThrottle(client *redis.Client, logger *slog.Logger) *RedisThrottle {
	return &RedisThrottle{
		client:      client,
		logger:      logger,
		maxAttempts: constants.LoginThrottleMaxAttempts,
		window:      constants.LoginThrottleWindow,
	}
}

func (throttle *RedisThrottle) key(identifier, ip string) string {
	return constants.RedisKeyLoginAttempts + identifier + ":" + ip
}

func (throttle *RedisThrottle) Allow(ctx context.Context, identifier, ip string) error {
	key := throttle.key(identifier, ip)

	count, err := throttle.client.Get(ctx, key).Int()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		throttle.logger.Warn("login_throttle_unavailable", slog.String("error", err.Error()))
		return nil
	}

	if count >= throttle.maxAttempts {
		retryAfter := int(throttle.window.Seconds())
		if ttl, err := throttle.client.TTL(ctx, key).Result(); err == nil && ttl > 0 {
			retryAfter = int(ttl.Seconds())
		}
		return apperr.RateLimited(retryAfter)
	}
	return nil
}

func (throttle *RedisThrottle) RecordFailure(ctx context.Context, identifier, ip string) error {
	key := throttle.key(identifier, ip)

	count, err := throttle.client.Incr(ctx, key).Result()
	if err != nil {
		throttle.logger.Warn("login_throttle_unavailable", slog.String("error", err.Error()))
		return nil
	}
	if count == 1 {
		// First failure in the window starts the clock.
		if err := throttle.client.Expire(ctx, key, throttle.window).Err(); err != nil {
			throttle.logger.Warn("login_throttle_unavailable", slog.String("error", err.Error()))
		}
	}
	return nil
}

func (throttle *RedisThrottle) Reset(ctx context.Context, identifier, ip string) error {
	if err := throttle.client.Del(ctx, throttle.key(identifier, ip)).Err(); err != nil {
		throttle.logger.Warn("login_throttle_unavailable", slog.String("error", err.Error()))
	}
	return nil
}
