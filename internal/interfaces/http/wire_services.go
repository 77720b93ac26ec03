package http

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/campusdesk/campusdesk/internal/infrastructure/auth"
	"github.com/campusdesk/campusdesk/internal/infrastructure/config"
	"github.com/campusdesk/campusdesk/internal/infrastructure/email"
	"github.com/campusdesk/campusdesk/internal/infrastructure/notification"
	"github.com/campusdesk/campusdesk/internal/infrastructure/permission"
	"github.com/campusdesk/campusdesk/internal/infrastructure/ratelimit"
	"github.com/campusdesk/campusdesk/internal/infrastructure/repository"
	"github.com/campusdesk/campusdesk/internal/infrastructure/services"
	"github.com/campusdesk/campusdesk/internal/infrastructure/storage"
	"github.com/campusdesk/campusdesk/internal/interfaces/http/middleware"
	sharedConfig "github.com/campusdesk/campusdesk/internal/shared/config"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
	"github.com/campusdesk/campusdesk/internal/shared/services/markdown"
)

// infraServices holds the adapters behind the use case ports.
type infraServices struct {
	jwtSvc    *auth.JWTService
	oracle    *permission.TicketOracle
	store     *storage.LocalStore
	renderer  *markdown.BodyRenderer
	numberGen *services.TicketNumberGenerator
}

// ============================================================
// Section 1: Infrastructure
// ============================================================

func (c *Container) initInfrastructure() error {
	cfg := c.cfg
	log := c.log

	if cfg.Notification.RedisEnabled || cfg.RateLimit.Enabled {
		client, err := initRedis(cfg, log)
		if err != nil {
			return err
		}
		c.redis = client
	}

	c.readTracking = resolveReadTracking(cfg.Ticket.ReadTracking, func() bool {
		return repository.HasReadMarkerTable(c.db)
	})
	log.Infow("ticket read tracking resolved", "mode", cfg.Ticket.ReadTracking, "enabled", c.readTracking)

	c.repos = newRepositories(c.db, c.readTracking, log)

	enforcer, err := permission.NewEnforcer(c.db, log.Named("casbin"))
	if err != nil {
		return fmt.Errorf("failed to initialize permission enforcer: %w", err)
	}
	if err := permission.InitTicketPermissions(enforcer, log); err != nil {
		return fmt.Errorf("failed to install ticket permissions: %w", err)
	}

	store, err := storage.NewLocalStore(cfg.Storage.Root, cfg.Storage.PublicBaseURL, log.Named("storage"))
	if err != nil {
		return fmt.Errorf("failed to initialize attachment store: %w", err)
	}

	c.services = &infraServices{
		jwtSvc:    auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes),
		oracle:    permission.NewTicketOracle(enforcer),
		store:     store,
		renderer:  markdown.NewBodyRenderer(log.Named("renderer")),
		numberGen: services.NewTicketNumberGenerator(c.repos.ticketRepo, cfg.Ticket.NumberMaxAttempts),
	}

	c.dispatcher = notification.NewDispatcher(cfg.Notification.BufferSize, log.Named("notification"), c.notificationSinks()...)

	c.authMiddleware = middleware.NewAuthMiddleware(c.services.jwtSvc, c.repos.directoryRepo, log)
	if cfg.RateLimit.Enabled {
		c.rateLimiter = middleware.NewRateLimiter(
			ratelimit.NewRedisRateLimiter(c.redis),
			ratelimit.RateLimitConfig{Limit: cfg.RateLimit.WriteRequests, Window: cfg.RateLimit.Window},
			log,
		)
	}
	return nil
}

func (c *Container) notificationSinks() []notification.Sink {
	cfg := c.cfg
	log := c.log.Named("notification")

	sinks := []notification.Sink{notification.NewLogSink(log)}
	if cfg.Notification.EmailEnabled {
		mailer := email.NewSMTPEmailService(email.SMTPConfig{
			Host:        cfg.Email.SMTPHost,
			Port:        cfg.Email.SMTPPort,
			Username:    cfg.Email.SMTPUser,
			Password:    cfg.Email.SMTPPassword,
			FromAddress: cfg.Email.FromAddress,
			FromName:    cfg.Email.FromName,
		})
		sinks = append(sinks, notification.NewEmailSink(mailer, c.repos.directoryRepo, c.services.oracle, cfg.Server.BaseURL, log))
	}
	if cfg.Notification.RedisEnabled {
		sinks = append(sinks, notification.NewRedisSink(c.redis, cfg.Notification.RedisChannel, log))
	}
	return sinks
}

// resolveReadTracking turns the configured mode into a yes/no. probe is
// only consulted in auto mode.
func resolveReadTracking(mode string, probe func() bool) bool {
	switch mode {
	case sharedConfig.ReadTrackingOn:
		return true
	case sharedConfig.ReadTrackingOff:
		return false
	default:
		return probe()
	}
}

// initRedis creates and tests the Redis client connection.
func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Infow("Redis connection established successfully", "addr", cfg.Redis.GetAddr())
	return client, nil
}
