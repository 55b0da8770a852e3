package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sniffcheck/sniffcheck-api/pkg/logging"
)

const redisKeyPrefix = "ratelimit:contact:"

// RedisWindow is a fixed-window limiter backed by a shared Redis instance, for
// deployments that want one limit across replicas instead of the default
// per-process counters. Same contract as FixedWindow; on any Redis error it
// fails open and allows the request.
type RedisWindow struct {
	client   *redis.Client
	window   time.Duration
	capacity int
	logger   *logging.Logger
	now      func() time.Time
}

// NewRedisWindow creates a Redis-backed limiter.
func NewRedisWindow(client *redis.Client, window time.Duration, capacity int, logger *logging.Logger) *RedisWindow {
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisWindow{
		client:   client,
		window:   window,
		capacity: capacity,
		logger:   logger,
		now:      time.Now,
	}
}

// Check increments the identifier's window counter and returns the decision.
func (l *RedisWindow) Check(ctx context.Context, identifier string) Decision {
	if identifier == "" {
		return Decision{Allowed: true, Remaining: l.capacity}
	}

	key := redisKeyPrefix + identifier
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Error("rate limit check failed, allowing request", "error", err, "identifier", identifier)
		return Decision{Allowed: true, Remaining: l.capacity}
	}

	// First hit in the window owns setting the expiry.
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Error("rate limit expiry set failed", "error", err, "identifier", identifier)
		}
	}

	resetAt := l.now().Add(l.window)
	if ttl, err := l.client.TTL(ctx, key).Result(); err == nil && ttl > 0 {
		resetAt = l.now().Add(ttl)
	}

	if int(count) > l.capacity {
		return Decision{Allowed: false, Remaining: 0, ResetAt: resetAt}
	}

	return Decision{
		Allowed:   true,
		Remaining: l.capacity - int(count),
		ResetAt:   resetAt,
	}
}

var _ Limiter = (*RedisWindow)(nil)
