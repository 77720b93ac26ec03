package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusdesk/campusdesk/internal/shared/constants"
	"github.com/campusdesk/campusdesk/internal/shared/errors"
	"github.com/campusdesk/campusdesk/internal/shared/id"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

// RequestID propagates X-Request-ID, minting one when the client sent none.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = id.NewRequestID()
		}
		c.Set("request_id", requestID)
		c.Header(constants.HeaderXRequestID, requestID)
		c.Next()
	}
}

// RequestLogger logs one line per request. Routes are logged by their
// template so ticket ids do not explode log cardinality.
func RequestLogger(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		args := []any{
			"method", c.Request.Method,
			"route", route,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"body_size", c.Writer.Size(),
		}
		if requestID, ok := c.Get("request_id"); ok {
			args = append(args, "request_id", requestID)
		}
		if userID, ok := c.Get(constants.ContextKeyUserID); ok {
			args = append(args, "user_id", userID)
		}
		if len(c.Errors) > 0 {
			args = append(args, "error", c.Errors.String())
		}

		var cause error
		if last := c.Errors.Last(); last != nil {
			cause = last.Err
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			log.Errorw("HTTP request completed with server error", args...)
		case errors.IsValidationError(cause):
			log.Debugw("HTTP request rejected by validation", args...)
		case errors.IsForbiddenError(cause):
			log.Warnw("HTTP request denied", args...)
		case status >= 400:
			log.Warnw("HTTP request completed with client error", args...)
		default:
			log.Debugw("HTTP request completed", args...)
		}
	}
}
