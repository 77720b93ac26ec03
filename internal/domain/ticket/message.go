package ticket

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/campusdesk/campusdesk/internal/domain/ticket/valueobjects"
	"github.com/campusdesk/campusdesk/internal/shared/biztime"
	"github.com/campusdesk/campusdesk/internal/shared/errors"
)

const MaxMessageBodyLength = 20000

// Message is one immutable entry of a ticket thread.
type Message struct {
	id              uint
	ticketID        uint
	authorID        uint
	body            string
	bodyFormat      vo.BodyFormat
	handlerAuthored bool
	visibility      vo.Visibility
	hasAttachments  bool
	createdAt       time.Time
}

// NewMessage builds an unsaved message. ticketID may be zero for the first
// message of a ticket that is being created in the same transaction.
func NewMessage(
	ticketID uint,
	authorID uint,
	body string,
	format vo.BodyFormat,
	handlerAuthored bool,
	visibility vo.Visibility,
) (*Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, errors.NewFieldValidationError("body", "body is required")
	}
	if len([]rune(body)) > MaxMessageBodyLength {
		return nil, errors.NewFieldValidationError("body", fmt.Sprintf("body exceeds maximum length of %d characters", MaxMessageBodyLength))
	}
	if !format.IsValid() {
		return nil, errors.NewFieldValidationError("body_format", "invalid body format")
	}
	if !visibility.IsValid() {
		return nil, errors.NewFieldValidationError("visibility", "invalid visibility")
	}
	if authorID == 0 {
		return nil, errors.NewFieldValidationError("author_id", "author ID is required")
	}

	return &Message{
		ticketID:        ticketID,
		authorID:        authorID,
		body:            body,
		bodyFormat:      format,
		handlerAuthored: handlerAuthored,
		visibility:      visibility,
		createdAt:       biztime.NowUTC(),
	}, nil
}

func ReconstructMessage(
	id uint,
	ticketID uint,
	authorID uint,
	body string,
	format vo.BodyFormat,
	handlerAuthored bool,
	visibility vo.Visibility,
	hasAttachments bool,
	createdAt time.Time,
) (*Message, error) {
	if id == 0 {
		return nil, fmt.Errorf("message ID cannot be zero")
	}
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("invalid body format: %s", format)
	}
	if !visibility.IsValid() {
		return nil, fmt.Errorf("invalid visibility: %s", visibility)
	}

	return &Message{
		id:              id,
		ticketID:        ticketID,
		authorID:        authorID,
		body:            body,
		bodyFormat:      format,
		handlerAuthored: handlerAuthored,
		visibility:      visibility,
		hasAttachments:  hasAttachments,
		createdAt:       createdAt,
	}, nil
}

func (m *Message) ID() uint {
	return m.id
}

func (m *Message) TicketID() uint {
	return m.ticketID
}

func (m *Message) AuthorID() uint {
	return m.authorID
}

func (m *Message) Body() string {
	return m.body
}

func (m *Message) BodyFormat() vo.BodyFormat {
	return m.bodyFormat
}

// IsHandlerAuthored reports the handler voice: the author held handler
// rights and was not the ticket's requester.
func (m *Message) IsHandlerAuthored() bool {
	return m.handlerAuthored
}

func (m *Message) Visibility() vo.Visibility {
	return m.visibility
}

func (m *Message) HasAttachments() bool {
	return m.hasAttachments
}

func (m *Message) CreatedAt() time.Time {
	return m.createdAt
}

func (m *Message) SetID(id uint) error {
	if m.id != 0 {
		return fmt.Errorf("message ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("message ID cannot be zero")
	}
	m.id = id
	return nil
}

// Stamp sets the creation time of an unsaved message. Replies are stamped
// once the ticket row is locked so thread order follows commit order.
func (m *Message) Stamp(at time.Time) error {
	if m.id != 0 {
		return fmt.Errorf("message %d is already persisted", m.id)
	}
	m.createdAt = at
	return nil
}

// BindTicket sets the owning ticket of a first message once the ticket row
// has an id.
func (m *Message) BindTicket(ticketID uint) error {
	if m.ticketID != 0 && m.ticketID != ticketID {
		return fmt.Errorf("message already belongs to ticket %d", m.ticketID)
	}
	m.ticketID = ticketID
	return nil
}

// MarkHasAttachments must be called before the message is saved.
func (m *Message) MarkHasAttachments() {
	m.hasAttachments = true
}

// CountsAsUnreadFor reports whether the message feeds the requester's unread
// counter.
func (m *Message) CountsAsUnreadFor() bool {
	return m.handlerAuthored && !m.visibility.IsInternal()
}
