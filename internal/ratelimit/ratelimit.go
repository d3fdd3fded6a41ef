package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter answers whether a caller may perform one more attempt.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Config is a fixed quota per rolling window.
type Config struct {
	Limit  int
	Window time.Duration
}

// RedisLimiter counts attempts in a redis sorted set per key, trimming
// entries that fell out of the window.
type RedisLimiter struct {
	client *redis.Client
	config Config
}

func NewRedisLimiter(client *redis.Client, config Config) *RedisLimiter {
	if config.Limit <= 0 {
		config.Limit = 10
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	return &RedisLimiter{client: client, config: config}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now()
	redisKey := fmt.Sprintf("ratelimit:%s", key)
	windowStart := now.Add(-l.config.Window).UnixNano()
	nowNano := now.UnixNano()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart))
	zcard := pipe.ZCard(ctx, redisKey)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(nowNano), Member: nowNano})
	pipe.Expire(ctx, redisKey, l.config.Window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to execute pipeline: %w", err)
	}

	return zcard.Val() < int64(l.config.Limit), nil
}
