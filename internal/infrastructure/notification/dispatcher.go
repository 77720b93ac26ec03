// Package notification fans committed ticket events out to delivery sinks
// off the request path.
package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	"github.com/campusdesk/campusdesk/internal/shared/goroutine"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

var (
	ErrDispatcherStopped = errors.New("notification dispatcher is not running")
	ErrQueueFull         = errors.New("notification queue is full")
)

// Sink delivers one event. Failures are logged and never retried.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event ticket.Event) error
}

// Dispatcher queues events in a bounded channel and hands each one to every
// sink from a single worker, so a sink sees events in publish order.
type Dispatcher struct {
	sinks          []Sink
	queue          chan ticket.Event
	deliverTimeout time.Duration
	logger         logger.Interface

	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

func NewDispatcher(bufferSize int, logger logger.Interface, sinks ...Sink) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	return &Dispatcher{
		sinks:          sinks,
		queue:          make(chan ticket.Event, bufferSize),
		deliverTimeout: 30 * time.Second,
		logger:         logger,
		stopCh:         make(chan struct{}),
	}
}

// Publish enqueues event without waiting for delivery.
func (d *Dispatcher) Publish(_ context.Context, event ticket.Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.running {
		return ErrDispatcherStopped
	}

	select {
	case d.queue <- event:
		return nil
	default:
		d.logger.Warnw("notification queue full, dropping event",
			"event_type", event.Type,
			"ticket_id", event.TicketID,
		)
		return ErrQueueFull
	}
}

func (d *Dispatcher) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return fmt.Errorf("notification dispatcher is already running")
	}
	d.running = true
	d.wg.Add(1)

	goroutine.SafeGo(d.logger, "notification-dispatcher", func() {
		defer d.wg.Done()
		d.processEvents()
	})

	d.logger.Infow("notification dispatcher started", "sinks", len(d.sinks))
	return nil
}

// Stop refuses new events, delivers what is already queued and waits for
// the worker to finish.
func (d *Dispatcher) Stop() error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return ErrDispatcherStopped
	}
	d.running = false
	d.mu.Unlock()

	close(d.stopCh)
	d.wg.Wait()

	d.logger.Info("notification dispatcher stopped")
	return nil
}

func (d *Dispatcher) processEvents() {
	for {
		select {
		case <-d.stopCh:
			for {
				select {
				case event := <-d.queue:
					d.deliver(event)
				default:
					return
				}
			}
		case event := <-d.queue:
			d.deliver(event)
		}
	}
}

func (d *Dispatcher) deliver(event ticket.Event) {
	for _, sink := range d.sinks {
		goroutine.Run(d.logger, "notification-sink-"+sink.Name(), func() {
			ctx, cancel := context.WithTimeout(context.Background(), d.deliverTimeout)
			defer cancel()

			if err := sink.Deliver(ctx, event); err != nil {
				d.logger.Errorw("notification delivery failed",
					"sink", sink.Name(),
					"event_type", event.Type,
					"ticket_id", event.TicketID,
					"error", err,
				)
			}
		})
	}
}

// LogSink records every event; it is always installed so deployments without
// email or Redis still see notifications in the log.
type LogSink struct {
	logger logger.Interface
}

func NewLogSink(logger logger.Interface) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Deliver(_ context.Context, event ticket.Event) error {
	s.logger.Infow("ticket event",
		"event_type", event.Type,
		"ticket_id", event.TicketID,
		"ticket_number", event.TicketNumber,
		"actor_id", event.ActorID,
		"recipients", event.Recipients,
		"audience", event.Audience,
	)
	return nil
}
