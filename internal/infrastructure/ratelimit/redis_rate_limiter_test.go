package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestLimiter uses redis db 15 on localhost and skips when it is absent.
func newTestLimiter(t *testing.T) *RedisRateLimiter {
	t.Helper()
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 15})
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}
	require.NoError(t, client.FlushDB(ctx).Err())
	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})
	return NewRedisRateLimiter(client)
}

func allowN(t *testing.T, l *RedisRateLimiter, key string, cfg RateLimitConfig, n int) []bool {
	t.Helper()
	got := make([]bool, 0, n)
	for range n {
		ok, err := l.Allow(context.Background(), key, cfg)
		require.NoError(t, err)
		got = append(got, ok)
	}
	return got
}

func TestRedisRateLimiter_Allow(t *testing.T) {
	limiter := newTestLimiter(t)
	cfg := RateLimitConfig{Limit: 3, Window: time.Minute}

	assert.Equal(t, []bool{true, true, true, false}, allowN(t, limiter, "user:7", cfg, 4))
	assert.Equal(t, []bool{true}, allowN(t, limiter, "user:8", cfg, 1), "keys have separate budgets")
}

func TestRedisRateLimiter_WindowSlides(t *testing.T) {
	limiter := newTestLimiter(t)
	cfg := RateLimitConfig{Limit: 2, Window: time.Minute}
	// members are timestamps, so every call needs a distinct instant
	clock := time.Now()
	limiter.now = func() time.Time {
		clock = clock.Add(time.Millisecond)
		return clock
	}
	assert.Equal(t, []bool{true, true, false}, allowN(t, limiter, "user:7", cfg, 3))

	clock = clock.Add(cfg.Window + time.Second)
	assert.Equal(t, []bool{true}, allowN(t, limiter, "user:7", cfg, 1))
}

func TestRedisRateLimiter_GetRemaining(t *testing.T) {
	limiter := newTestLimiter(t)
	cfg := RateLimitConfig{Limit: 3, Window: time.Minute}
	ctx := context.Background()

	remaining, err := limiter.GetRemaining(ctx, "user:7", cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(3), remaining)

	allowN(t, limiter, "user:7", cfg, 5)
	remaining, err = limiter.GetRemaining(ctx, "user:7", cfg)
	require.NoError(t, err)
	assert.Zero(t, remaining)
}

func TestRedisRateLimiter_DisabledConfigAllows(t *testing.T) {
	limiter := NewRedisRateLimiter(nil)

	for _, cfg := range []RateLimitConfig{{}, {Limit: 5}, {Window: time.Minute}} {
		allowed, err := limiter.Allow(context.Background(), "user:7", cfg)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}
