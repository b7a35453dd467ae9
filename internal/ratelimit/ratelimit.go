// Package ratelimit bounds how many analyses a caller may request per
// window. Counters live in Redis so limits hold across server instances.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Lua script for an atomic fixed-window check-and-increment. Checking and
// incrementing in one script avoids the race a GET -> check -> INCR
// sequence would have.
const fixedWindowLuaScript = `
local key = KEYS[1]
local increment = tonumber(ARGV[1])
local limit = tonumber(ARGV[2])
local ttl = tonumber(ARGV[3])

local current = tonumber(redis.call("GET", key) or "0")

if current + increment > limit then
    return {0, current}
end

local newVal = redis.call("INCRBY", key, increment)
if newVal == increment then
    redis.call("EXPIRE", key, ttl)
end

return {1, newVal}
`

// Limiter is a Redis-backed fixed-window rate limiter keyed per caller.
type Limiter struct {
	redis  *redis.Client
	script *redis.Script
	limit  int
	window time.Duration
	logger *zap.Logger
}

// New creates a limiter on an existing Redis client.
func New(client *redis.Client, limit int, window time.Duration, logger *zap.Logger) *Limiter {
	return &Limiter{
		redis:  client,
		script: redis.NewScript(fixedWindowLuaScript),
		limit:  limit,
		window: window,
		logger: logger,
	}
}

// NewFromURL creates a limiter by connecting to Redis.
func NewFromURL(redisURL string, limit int, window time.Duration, logger *zap.Logger) (*Limiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return New(client, limit, window, logger), nil
}

// Allow reports whether the caller identified by key may proceed, counting
// this call against the current window. On Redis failure it fails open so a
// limiter outage never blocks analyses; the error is returned for logging.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	windowKey := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().Unix()/int64(l.window.Seconds()))

	result, err := l.script.Run(ctx, l.redis, []string{windowKey},
		1, l.limit, int(l.window.Seconds())).Result()
	if err != nil {
		return true, fmt.Errorf("rate limit check failed: %w", err)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) < 2 {
		return true, fmt.Errorf("unexpected rate limit script result: %v", result)
	}

	allowed, ok := values[0].(int64)
	if !ok {
		return true, fmt.Errorf("unexpected rate limit script result: %v", result)
	}

	if allowed == 0 {
		l.logger.Debug("Rate limit exceeded",
			zap.String("key", key),
			zap.Int("limit", l.limit))
		return false, nil
	}
	return true, nil
}

// Close releases the underlying Redis connection.
func (l *Limiter) Close() error {
	return l.redis.Close()
}
