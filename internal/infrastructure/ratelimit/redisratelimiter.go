package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter keeps one sorted set of request timestamps per key and
// window, shared by every server instance.
type RedisRateLimiter struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		now:    time.Now,
	}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string, config RateLimitConfig) (bool, error) {
	if config.Limit <= 0 || config.Window <= 0 {
		return true, nil
	}

	now := l.now()
	redisKey := l.getKey(key, config.Window)
	windowStart := now.Add(-config.Window).UnixNano()
	nowNano := now.UnixNano()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart))
	zcard := pipe.ZCard(ctx, redisKey)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(nowNano), Member: nowNano})
	pipe.Expire(ctx, redisKey, config.Window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to execute pipeline: %w", err)
	}

	return zcard.Val() < int64(config.Limit), nil
}

func (l *RedisRateLimiter) GetRemaining(ctx context.Context, key string, config RateLimitConfig) (int64, error) {
	redisKey := l.getKey(key, config.Window)
	windowStart := l.now().Add(-config.Window).UnixNano()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart))
	zcard := pipe.ZCard(ctx, redisKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to get remaining: %w", err)
	}

	remaining := int64(config.Limit) - zcard.Val()
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (l *RedisRateLimiter) getKey(identifier string, window time.Duration) string {
	return fmt.Sprintf("ratelimit:%s:%s", identifier, window.String())
}
