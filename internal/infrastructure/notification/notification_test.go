package notification

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	vo "github.com/campusdesk/campusdesk/internal/domain/ticket/valueobjects"
	"github.com/campusdesk/campusdesk/internal/infrastructure/email"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

type recordingSink struct {
	mu     sync.Mutex
	events []ticket.Event
	err    error
	panics bool
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Deliver(_ context.Context, e ticket.Event) error {
	if s.panics {
		panic("sink exploded")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func (s *recordingSink) types() []ticket.EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ticket.EventType, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Type)
	}
	return out
}

func TestDispatcher_DeliversInOrderAndDrainsOnStop(t *testing.T) {
	sink := &recordingSink{}
	broken := &recordingSink{panics: true}
	d := NewDispatcher(10, logger.NewLogger(), broken, sink)
	ctx := context.Background()

	require.ErrorIs(t, d.Publish(ctx, ticket.Event{Type: ticket.EventAssigned}), ErrDispatcherStopped)

	require.NoError(t, d.Start())
	require.NoError(t, d.Publish(ctx, ticket.Event{Type: ticket.EventTicketCreated, TicketID: 1}))
	require.NoError(t, d.Publish(ctx, ticket.Event{Type: ticket.EventReplyAdded, TicketID: 1}))
	require.NoError(t, d.Publish(ctx, ticket.Event{Type: ticket.EventStatusChanged, TicketID: 1}))
	require.NoError(t, d.Stop())

	assert.Equal(t, []ticket.EventType{ticket.EventTicketCreated, ticket.EventReplyAdded, ticket.EventStatusChanged}, sink.types())
	assert.ErrorIs(t, d.Publish(ctx, ticket.Event{}), ErrDispatcherStopped)
}

func TestDispatcher_QueueFull(t *testing.T) {
	d := NewDispatcher(1, logger.NewLogger())
	// running without a worker so the queue never drains
	d.running = true

	require.NoError(t, d.Publish(context.Background(), ticket.Event{Type: ticket.EventAssigned}))
	assert.ErrorIs(t, d.Publish(context.Background(), ticket.Event{Type: ticket.EventAssigned}), ErrQueueFull)
}

type staticHandlers struct {
	ids []uint
	err error
}

func (h staticHandlers) HandlerIDs(context.Context) ([]uint, error) { return h.ids, h.err }

func TestExpandRecipients(t *testing.T) {
	event := ticket.Event{ActorID: 2, Recipients: []uint{9, 2}, Audience: ticket.AudienceHandlers}

	ids, err := expandRecipients(context.Background(), event, staticHandlers{ids: []uint{2, 3, 9}})

	require.NoError(t, err)
	assert.Equal(t, []uint{3, 9}, ids)

	_, err = expandRecipients(context.Background(), event, staticHandlers{err: errors.New("casbin down")})
	assert.Error(t, err)
}

type sentMail struct {
	to, subject, html, plain, thread string
}

type fakeSender struct {
	sent []sentMail
	fail map[string]bool
}

func (f *fakeSender) SendBatch(_ context.Context, msgs []email.Message) (int, error) {
	for i, m := range msgs {
		if f.fail[m.To] {
			return i, errors.New("smtp refused")
		}
		f.sent = append(f.sent, sentMail{m.To, m.Subject, m.HTMLBody, m.PlainBody, m.ThreadKey})
	}
	return len(msgs), nil
}

type fakeDirectory map[uint]string

func (d fakeDirectory) Emails(_ context.Context, ids []uint) (map[uint]string, error) {
	out := make(map[uint]string)
	for _, id := range ids {
		if e, ok := d[id]; ok {
			out[id] = e
		}
	}
	return out, nil
}

func TestEmailSink_StatusChangeMailsRequester(t *testing.T) {
	sender := &fakeSender{}
	dir := fakeDirectory{7: "sam@campus.example", 2: "priya@campus.example"}
	sink := NewEmailSink(sender, dir, staticHandlers{}, "https://desk.campus.example/", logger.NewLogger())

	err := sink.Deliver(context.Background(), ticket.Event{
		Type:         ticket.EventStatusChanged,
		TicketID:     42,
		TicketNumber: "TKT-7Q2M9XKD",
		Subject:      "Wifi <down>",
		ActorID:      2,
		Recipients:   []uint{7},
		OldStatus:    vo.StatusOpen,
		NewStatus:    vo.StatusInProgress,
	})

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	mail := sender.sent[0]
	assert.Equal(t, "sam@campus.example", mail.to)
	assert.Equal(t, "[TKT-7Q2M9XKD] Status changed to in progress", mail.subject)
	assert.Contains(t, mail.plain, "https://desk.campus.example/tickets/42")
	assert.Contains(t, mail.html, "Wifi &lt;down&gt;")
	assert.NotContains(t, mail.html, "<down>")
	assert.Equal(t, "TKT-7Q2M9XKD", mail.thread)
}

func TestEmailSink_AudienceAndFailures(t *testing.T) {
	sender := &fakeSender{fail: map[string]bool{"b@x": true}}
	dir := fakeDirectory{2: "a@x", 3: "b@x"}
	sink := NewEmailSink(sender, dir, staticHandlers{ids: []uint{2, 3, 4}}, "http://localhost", logger.NewLogger())

	err := sink.Deliver(context.Background(), ticket.Event{
		Type:     ticket.EventTicketCreated,
		TicketID: 1,
		Kind:     vo.KindDoubt,
		Subject:  "Limits",
		ActorID:  7,
		Audience: ticket.AudienceHandlers,
	})

	require.Error(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "a@x", sender.sent[0].to)
	assert.Contains(t, sender.sent[0].subject, "New doubt: Limits")
}
