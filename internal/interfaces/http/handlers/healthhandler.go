package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const healthProbeTimeout = 2 * time.Second

// HealthHandler reports whether the service and its backing stores respond.
type HealthHandler struct {
	db           *gorm.DB
	redis        *redis.Client
	readTracking bool
}

// NewHealthHandler creates a health handler. redis may be nil.
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client, readTracking bool) *HealthHandler {
	return &HealthHandler{
		db:           db,
		redis:        redisClient,
		readTracking: readTracking,
	}
}

// HealthCheck handles GET /health
//
//	@Summary		Service health
//	@Description	Pings the database and, when configured, Redis
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}
//	@Failure		503	{object}	map[string]interface{}
//	@Router			/health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthProbeTimeout)
	defer cancel()

	checks := gin.H{}
	healthy := true

	if err := h.pingDatabase(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	} else {
		checks["database"] = "ok"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	}

	status := "healthy"
	code := http.StatusOK
	if !healthy {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":        status,
		"service":       "campusdesk",
		"read_tracking": h.readTracking,
		"checks":        checks,
	})
}

func (h *HealthHandler) pingDatabase(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
