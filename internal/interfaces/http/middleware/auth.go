package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/campusdesk/campusdesk/internal/infrastructure/auth"
	"github.com/campusdesk/campusdesk/internal/shared/constants"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
	"github.com/campusdesk/campusdesk/internal/shared/utils"
)

// ProfileRecorder stores the name and email carried by a token so the user
// directory can label messages and address notifications.
type ProfileRecorder interface {
	Upsert(ctx context.Context, id uint, displayName, email string) error
}

type AuthMiddleware struct {
	jwtService *auth.JWTService
	profiles   ProfileRecorder
	logger     logger.Interface

	// last profile recorded per user, so unchanged tokens skip the write
	seen sync.Map
}

// NewAuthMiddleware builds the JWT middleware. profiles may be nil.
func NewAuthMiddleware(jwtService *auth.JWTService, profiles ProfileRecorder, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		profiles:   profiles,
		logger:     logger,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := m.jwtService.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}
		userID, _ := claims.UserID()

		c.Set(constants.ContextKeyUserID, userID)
		c.Set(constants.ContextKeySessionID, claims.SessionID)

		m.recordProfile(c.Request.Context(), userID, claims)

		c.Next()
	}
}

func (m *AuthMiddleware) recordProfile(ctx context.Context, userID uint, claims *auth.Claims) {
	if m.profiles == nil || claims.Name == "" {
		return
	}
	profile := claims.Name + "\x00" + claims.Email
	if prev, ok := m.seen.Load(userID); ok && prev.(string) == profile {
		return
	}
	if err := m.profiles.Upsert(ctx, userID, claims.Name, claims.Email); err != nil {
		m.logger.Warnw("failed to record user profile", "user_id", userID, "error", err)
		return
	}
	m.seen.Store(userID, profile)
}
