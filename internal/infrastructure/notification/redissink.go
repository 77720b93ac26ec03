package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

// RedisSink publishes each event as JSON on a pub/sub channel for other
// services (chat bots, dashboards) to consume.
type RedisSink struct {
	client  *redis.Client
	channel string
	logger  logger.Interface
}

func NewRedisSink(client *redis.Client, channel string, logger logger.Interface) *RedisSink {
	return &RedisSink{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Deliver(ctx context.Context, event ticket.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal ticket event: %w", err)
	}

	if err := s.client.Publish(ctx, s.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish ticket event: %w", err)
	}

	s.logger.Debugw("ticket event published to Redis",
		"channel", s.channel,
		"event_type", event.Type,
		"ticket_id", event.TicketID,
	)
	return nil
}
