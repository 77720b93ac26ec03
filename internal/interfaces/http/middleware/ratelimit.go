package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campusdesk/campusdesk/internal/infrastructure/ratelimit"
	"github.com/campusdesk/campusdesk/internal/shared/constants"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
	"github.com/campusdesk/campusdesk/internal/shared/utils"
)

// RateLimiter throttles write endpoints per authenticated user, falling back
// to the client IP before auth has run. If the backing store is unavailable
// the request is let through.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	config  ratelimit.RateLimitConfig
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.RateLimiter, config ratelimit.RateLimitConfig, logger logger.Interface) *RateLimiter {
	return &RateLimiter{
		limiter: limiter,
		config:  config,
		logger:  logger,
	}
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if v, ok := c.Get(constants.ContextKeyUserID); ok {
			key = fmt.Sprintf("user:%v", v)
		}

		allowed, err := rl.limiter.Allow(c.Request.Context(), key, rl.config)
		if err != nil {
			rl.logger.Warnw("rate limiter unavailable, allowing request", "key", key, "error", err)
			c.Next()
			return
		}

		if remaining, err := rl.limiter.GetRemaining(c.Request.Context(), key, rl.config); err == nil {
			c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
			c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		}

		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
