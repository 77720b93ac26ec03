package http

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/campusdesk/campusdesk/internal/infrastructure/config"
	"github.com/campusdesk/campusdesk/internal/infrastructure/notification"
	"github.com/campusdesk/campusdesk/internal/interfaces/http/middleware"
	"github.com/campusdesk/campusdesk/internal/interfaces/http/validation"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

// Container holds the infrastructure components, repositories, use cases
// and handlers of the ticket service and wires them together. Shutdown
// releases what Start acquired.
type Container struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	readTracking bool

	repos    *repositories
	services *infraServices
	ucs      *allUseCases
	hdlrs    *allHandlers

	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter

	dispatcher *notification.Dispatcher
}

// NewContainer builds every component but starts nothing.
func NewContainer(cfg *config.Config, db *gorm.DB, log logger.Interface) (*Container, error) {
	if err := validation.Register(); err != nil {
		return nil, err
	}

	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - Redis, repositories, adapters
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Use cases
	c.initUseCases()

	// Section 3: Handlers and middlewares
	c.initHandlers()

	c.setupRoutes()
	return c, nil
}

// Engine returns the configured gin engine.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// ReadTracking reports whether unread counts are served.
func (c *Container) ReadTracking() bool {
	return c.readTracking
}

// Start launches background workers.
func (c *Container) Start() error {
	return c.dispatcher.Start()
}

// Shutdown drains pending notifications and closes Redis.
func (c *Container) Shutdown(ctx context.Context) error {
	var errs []error

	done := make(chan error, 1)
	go func() { done <- c.dispatcher.Stop() }()
	select {
	case err := <-done:
		if err != nil {
			errs = append(errs, err)
		}
	case <-ctx.Done():
		errs = append(errs, ctx.Err())
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
