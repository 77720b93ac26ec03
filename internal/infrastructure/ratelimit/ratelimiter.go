package ratelimit

import (
	"context"
	"time"
)

// RateLimitConfig allows Limit requests per key in any sliding Window.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

// RateLimiter is shared by every server instance; keys are caller ids.
type RateLimiter interface {
	Allow(ctx context.Context, key string, config RateLimitConfig) (bool, error)
	GetRemaining(ctx context.Context, key string, config RateLimitConfig) (int64, error)
}
