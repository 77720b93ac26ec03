package ticket

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	vo "github.com/campusdesk/campusdesk/internal/domain/ticket/valueobjects"
	"github.com/campusdesk/campusdesk/internal/shared/errors"
)

var (
	ErrTicketNotFound  = errors.NewNotFoundError("ticket not found")
	ErrVersionConflict = errors.NewConflictError("ticket was modified concurrently, please retry")
	ErrMessageNotFound = errors.NewNotFoundError("message not found")
)

// TicketRepository persists the aggregate. Every method joins the
// transaction carried by ctx, if any.
type TicketRepository interface {
	Create(ctx context.Context, t *Ticket) error
	// GetByID returns ErrTicketNotFound for unknown ids.
	GetByID(ctx context.Context, id uint) (*Ticket, error)
	// GetByIDForUpdate is GetByID with a row lock held until the enclosing
	// transaction ends.
	GetByIDForUpdate(ctx context.Context, id uint) (*Ticket, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	// Update writes the mutable fields and fails with ErrVersionConflict when
	// the stored version no longer matches t.ExpectedVersion().
	Update(ctx context.Context, t *Ticket) error
	List(ctx context.Context, filter ListFilter) ([]*Ticket, int64, error)
	ListByRequester(ctx context.Context, requesterID uint, kind *vo.Kind) ([]*Ticket, error)
	// CountByStatus groups the tickets in scope by status in one query.
	CountByStatus(ctx context.Context, scope CountScope) (map[vo.TicketStatus]int64, error)
	// Delete removes the ticket with its messages, attachment rows and read
	// markers.
	Delete(ctx context.Context, id uint) error
}

type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	// GetByID returns ErrMessageNotFound for unknown ids.
	GetByID(ctx context.Context, id uint) (*Message, error)
	// ListByTicket returns the thread ordered by created_at, then id.
	ListByTicket(ctx context.Context, ticketID uint, includeInternal bool) ([]*Message, error)
	// ListHandlerAuthoredIDs returns the public handler-authored message ids
	// of the ticket, the ones a requester can have unread.
	ListHandlerAuthoredIDs(ctx context.Context, ticketID uint) ([]uint, error)
}

type AttachmentRepository interface {
	CreateBatch(ctx context.Context, attachments []*Attachment) error
	ListByMessageIDs(ctx context.Context, messageIDs []uint) ([]*Attachment, error)
	// ListByStorageKey returns every row pointing at the blob; identical
	// content uploaded twice shares a key.
	ListByStorageKey(ctx context.Context, key string) ([]*Attachment, error)
}

// ReadMarkerRepository backs unread counters. It is only wired when the
// deployment has the read-marker table.
type ReadMarkerRepository interface {
	// MarkRead is idempotent.
	MarkRead(ctx context.Context, ticketID, userID uint, messageIDs []uint) error
	// UnreadCounts returns, per ticket, the public handler-authored messages
	// without a marker for userID. Tickets with nothing unread are absent.
	UnreadCounts(ctx context.Context, userID uint, ticketIDs []uint) (map[uint]int, error)
}

type assignedMode int

const (
	assignedSpecific assignedMode = iota + 1
	assignedNone
	assignedSelf
)

// AssignedFilter selects tickets by assignee: a specific user, nobody, or
// the caller.
type AssignedFilter struct {
	mode assignedMode
	id   uint
}

func AssignedTo(userID uint) AssignedFilter {
	return AssignedFilter{mode: assignedSpecific, id: userID}
}

func Unassigned() AssignedFilter {
	return AssignedFilter{mode: assignedNone}
}

func AssignedToSelf() AssignedFilter {
	return AssignedFilter{mode: assignedSelf}
}

// ParseAssignedFilter accepts "unassigned", "self" or a numeric user id.
func ParseAssignedFilter(raw string) (AssignedFilter, error) {
	switch s := strings.TrimSpace(strings.ToLower(raw)); s {
	case "unassigned", "none":
		return Unassigned(), nil
	case "self", "me":
		return AssignedToSelf(), nil
	default:
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil || id == 0 {
			return AssignedFilter{}, fmt.Errorf("invalid assigned filter: %q", raw)
		}
		return AssignedTo(uint(id)), nil
	}
}

// Resolve replaces "self" with callerID.
func (f AssignedFilter) Resolve(callerID uint) AssignedFilter {
	if f.mode == assignedSelf {
		return AssignedTo(callerID)
	}
	return f
}

func (f AssignedFilter) IsUnassigned() bool {
	return f.mode == assignedNone
}

// AssigneeID returns the concrete assignee of a resolved filter.
func (f AssignedFilter) AssigneeID() (uint, bool) {
	return f.id, f.mode == assignedSpecific
}

// ListFilter is the handler queue query. Nil fields do not filter; set
// fields combine with AND.
type ListFilter struct {
	Kind     *vo.Kind
	Status   *vo.TicketStatus
	Priority *vo.Priority
	Assigned *AssignedFilter
	// Search matches subject or body as a literal substring.
	Search   string
	Page     int
	PageSize int
}

// CountScope bounds the status summary; the list filters do not apply.
type CountScope struct {
	Kind *vo.Kind
}
