package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hupe1980/dialogkit/core"
	"github.com/hupe1980/dialogkit/logging"
)

// Compile-time check that RedisLimiter satisfies core.RateLimiter.
var _ core.RateLimiter = (*RedisLimiter)(nil)

// RedisOptions configures RedisLimiter.
type RedisOptions struct {
	// Logger receives limit-exceeded warnings and fail-open notices.
	Logger logging.Logger
}

// RedisLimiter is a sliding-window core.RateLimiter on a redis sorted
// set per identifier, scored by request time, so the window is shared
// across replicas. Redis failures fail open: an unreachable redis
// must not take the conversation surface down with it.
type RedisLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
	logger logging.Logger
}

// NewRedisLimiter creates a RedisLimiter allowing maxRequests per
// window per identifier.
func NewRedisLimiter(client *redis.Client, maxRequests int, window time.Duration, optFns ...func(o *RedisOptions)) *RedisLimiter {
	opts := RedisOptions{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &RedisLimiter{
		client: client,
		max:    maxRequests,
		window: window,
		logger: opts.Logger,
	}
}

func limiterKey(identifier string) string {
	return "ratelimit:" + identifier
}

// Allow reports whether the identifier may make a request now. The
// request is scored into the set before the verdict is known, so a
// denied request still ages through the window.
func (l *RedisLimiter) Allow(ctx context.Context, identifier string) bool {
	key := limiterKey(identifier)
	now := float64(time.Now().UnixNano()) / 1e9
	cutoff := now - l.window.Seconds()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", formatScore(cutoff))
	count := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{Score: now, Member: formatScore(now)})
	pipe.Expire(ctx, key, l.window)

	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Warn("rate limit check failed, allowing request", "identifier", identifier, "error", err)
		return true
	}

	if count.Val() >= int64(l.max) {
		l.logger.Warn("rate limit exceeded", "identifier", identifier)
		return false
	}

	return true
}

// Remaining returns how many requests the identifier has left in the
// current window. Redis failures report the full allowance.
func (l *RedisLimiter) Remaining(ctx context.Context, identifier string) int {
	key := limiterKey(identifier)
	cutoff := float64(time.Now().UnixNano())/1e9 - l.window.Seconds()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", formatScore(cutoff))
	count := pipe.ZCard(ctx, key)

	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Warn("rate limit count failed", "identifier", identifier, "error", err)
		return l.max
	}

	return max(0, l.max-int(count.Val()))
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
