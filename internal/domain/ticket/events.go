package ticket

import (
	"time"

	vo "github.com/campusdesk/campusdesk/internal/domain/ticket/valueobjects"
	"github.com/campusdesk/campusdesk/internal/shared/biztime"
)

type EventType string

const (
	EventTicketCreated EventType = "ticket_created"
	EventReplyAdded    EventType = "reply_added"
	EventStatusChanged EventType = "status_changed"
	EventAssigned      EventType = "assigned"
)

// Audience names a group of recipients the delivery side resolves itself.
type Audience string

const (
	AudienceNone     Audience = ""
	AudienceHandlers Audience = "handlers"
)

// Event is emitted after a workflow change has been committed. Recipients
// lists individual users; Audience, when set, asks for a group fan-out.
type Event struct {
	Type         EventType       `json:"type"`
	TicketID     uint            `json:"ticket_id"`
	TicketNumber string          `json:"ticket_number"`
	Kind         vo.Kind         `json:"kind"`
	Subject      string          `json:"subject"`
	ActorID      uint            `json:"actor_id"`
	Recipients   []uint          `json:"recipients,omitempty"`
	Audience     Audience        `json:"audience,omitempty"`
	OldStatus    vo.TicketStatus `json:"old_status,omitempty"`
	NewStatus    vo.TicketStatus `json:"new_status,omitempty"`
	MessageID    uint            `json:"message_id,omitempty"`
	AssigneeID   *uint           `json:"assignee_id,omitempty"`
	OccurredAt   time.Time       `json:"occurred_at"`
}

func newEvent(eventType EventType, t *Ticket, actorID uint) Event {
	return Event{
		Type:         eventType,
		TicketID:     t.ID(),
		TicketNumber: t.Number(),
		Kind:         t.Kind(),
		Subject:      t.Subject(),
		ActorID:      actorID,
		OccurredAt:   biztime.NowUTC(),
	}
}

func NewTicketCreatedEvent(t *Ticket) Event {
	e := newEvent(EventTicketCreated, t, t.RequesterID())
	e.Audience = AudienceHandlers
	e.NewStatus = t.Status()
	return e
}

// NewReplyAddedEvent addresses the other party: the requester when a handler
// replied publicly, the handlers (and the assignee by name) otherwise.
func NewReplyAddedEvent(t *Ticket, msg *Message) Event {
	e := newEvent(EventReplyAdded, t, msg.AuthorID())
	e.MessageID = msg.ID()
	e.NewStatus = t.Status()

	if msg.IsHandlerAuthored() && !msg.Visibility().IsInternal() {
		e.Recipients = []uint{t.RequesterID()}
		return e
	}
	e.Audience = AudienceHandlers
	if a := t.AssigneeID(); a != nil && *a != msg.AuthorID() {
		e.Recipients = []uint{*a}
	}
	return e
}

func NewStatusChangedEvent(t *Ticket, change StatusChange, actorID uint) Event {
	e := newEvent(EventStatusChanged, t, actorID)
	e.OldStatus = change.From
	e.NewStatus = change.To
	if actorID != t.RequesterID() {
		e.Recipients = []uint{t.RequesterID()}
	} else {
		e.Audience = AudienceHandlers
	}
	return e
}

func NewAssignedEvent(t *Ticket, actorID uint) Event {
	e := newEvent(EventAssigned, t, actorID)
	e.AssigneeID = t.AssigneeID()
	if a := t.AssigneeID(); a != nil && *a != actorID {
		e.Recipients = []uint{*a}
	}
	return e
}
