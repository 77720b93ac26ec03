package ticket

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/campusdesk/campusdesk/internal/domain/ticket/valueobjects"
	"github.com/campusdesk/campusdesk/internal/shared/biztime"
	"github.com/campusdesk/campusdesk/internal/shared/errors"
	"github.com/campusdesk/campusdesk/internal/shared/id"
)

const MaxSubjectLength = 200

// Ticket is the aggregate root of a support or doubt thread. Subject, body and
// requester never change after creation; everything else moves through the
// methods below, each of which bumps the version at most once until the
// ticket is persisted again.
type Ticket struct {
	id            uint
	number        string
	kind          vo.Kind
	requesterID   uint
	subject       string
	body          string
	category      vo.Category
	status        vo.TicketStatus
	priority      vo.Priority
	assigneeID    *uint
	lastMessageID *uint
	version       int
	dirty         bool
	createdAt     time.Time
	updatedAt     time.Time
	resolvedAt    *time.Time
}

func NewTicket(
	kind vo.Kind,
	requesterID uint,
	subject string,
	body string,
	category vo.Category,
	priority vo.Priority,
) (*Ticket, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, errors.NewFieldValidationError("subject", "subject is required")
	}
	if len([]rune(subject)) > MaxSubjectLength {
		return nil, errors.NewFieldValidationError("subject", fmt.Sprintf("subject exceeds maximum length of %d characters", MaxSubjectLength))
	}
	if strings.TrimSpace(body) == "" {
		return nil, errors.NewFieldValidationError("body", "body is required")
	}
	if !kind.IsValid() {
		return nil, errors.NewFieldValidationError("kind", "invalid ticket kind")
	}
	if !priority.IsValid() {
		return nil, errors.NewFieldValidationError("priority", "invalid priority")
	}
	if category == "" {
		category = vo.DefaultCategory
	}
	if requesterID == 0 {
		return nil, errors.NewFieldValidationError("requester_id", "requester ID is required")
	}

	now := biztime.NowUTC()
	return &Ticket{
		kind:        kind,
		requesterID: requesterID,
		subject:     subject,
		body:        body,
		category:    category,
		status:      vo.StatusOpen,
		priority:    priority,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructTicket rebuilds a persisted ticket. It rejects rows that break
// the resolution invariant rather than silently repairing them.
func ReconstructTicket(
	id uint,
	number string,
	kind vo.Kind,
	requesterID uint,
	subject string,
	body string,
	category vo.Category,
	status vo.TicketStatus,
	priority vo.Priority,
	assigneeID *uint,
	lastMessageID *uint,
	version int,
	createdAt, updatedAt time.Time,
	resolvedAt *time.Time,
) (*Ticket, error) {
	if id == 0 {
		return nil, fmt.Errorf("ticket ID cannot be zero")
	}
	if number == "" {
		return nil, fmt.Errorf("ticket number is required")
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid ticket kind: %s", kind)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("invalid priority: %s", priority)
	}
	if status.IsSettled() != (resolvedAt != nil) {
		return nil, fmt.Errorf("ticket %d: resolved_at inconsistent with status %s", id, status)
	}

	return &Ticket{
		id:            id,
		number:        number,
		kind:          kind,
		requesterID:   requesterID,
		subject:       subject,
		body:          body,
		category:      category,
		status:        status,
		priority:      priority,
		assigneeID:    assigneeID,
		lastMessageID: lastMessageID,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		resolvedAt:    resolvedAt,
	}, nil
}

func (t *Ticket) ID() uint {
	return t.id
}

func (t *Ticket) Number() string {
	return t.number
}

func (t *Ticket) Kind() vo.Kind {
	return t.kind
}

func (t *Ticket) RequesterID() uint {
	return t.requesterID
}

func (t *Ticket) Subject() string {
	return t.subject
}

func (t *Ticket) Body() string {
	return t.body
}

func (t *Ticket) Category() vo.Category {
	return t.category
}

func (t *Ticket) Status() vo.TicketStatus {
	return t.status
}

func (t *Ticket) Priority() vo.Priority {
	return t.priority
}

func (t *Ticket) AssigneeID() *uint {
	return t.assigneeID
}

func (t *Ticket) LastMessageID() *uint {
	return t.lastMessageID
}

func (t *Ticket) Version() int {
	return t.version
}

func (t *Ticket) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Ticket) UpdatedAt() time.Time {
	return t.updatedAt
}

func (t *Ticket) ResolvedAt() *time.Time {
	return t.resolvedAt
}

func (t *Ticket) IsRequester(userID uint) bool {
	return t.requesterID == userID
}

func (t *Ticket) IsAssignedTo(userID uint) bool {
	return t.assigneeID != nil && *t.assigneeID == userID
}

func (t *Ticket) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("ticket ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("ticket ID cannot be zero")
	}
	t.id = id
	return nil
}

func (t *Ticket) SetNumber(number string) error {
	if t.number != "" {
		return fmt.Errorf("ticket number is already set")
	}
	if !id.IsTicketNumber(number) {
		return fmt.Errorf("malformed ticket number %q", number)
	}
	t.number = number
	return nil
}

// ExpectedVersion is the version the stored row must still carry for a
// pending update to apply.
func (t *Ticket) ExpectedVersion() int {
	if t.dirty {
		return t.version - 1
	}
	return t.version
}

// MarkPersisted is called by the repository after a successful write.
func (t *Ticket) MarkPersisted() {
	t.dirty = false
}

func (t *Ticket) touch(now time.Time) {
	t.updatedAt = now
	if !t.dirty {
		t.version++
		t.dirty = true
	}
}

// transitionTo moves the status and keeps resolvedAt consistent with it:
// entering a settled status stamps it, moving between settled statuses keeps
// the original stamp, leaving them clears it.
func (t *Ticket) transitionTo(target vo.TicketStatus, now time.Time) bool {
	if t.status == target {
		return false
	}
	switch {
	case target.IsSettled() && !t.status.IsSettled():
		stamp := now
		t.resolvedAt = &stamp
	case !target.IsSettled():
		t.resolvedAt = nil
	}
	t.status = target
	return true
}

// AttachFirstMessage links message #1 after both rows exist.
func (t *Ticket) AttachFirstMessage(msg *Message) error {
	if msg == nil || msg.ID() == 0 {
		return fmt.Errorf("first message must be persisted")
	}
	if t.lastMessageID != nil {
		return fmt.Errorf("ticket %d already has messages", t.id)
	}
	if msg.IsHandlerAuthored() {
		return fmt.Errorf("first message must be authored by the requester")
	}
	id := msg.ID()
	t.lastMessageID = &id
	return nil
}

// StatusChange reports the status before and after an operation.
type StatusChange struct {
	From    vo.TicketStatus
	To      vo.TicketStatus
	Changed bool
}

// ReplyPolicy carries the deployment choices that shape the reply rule.
type ReplyPolicy struct {
	// ReopenClosed lets a requester reply reopen a closed ticket, not just
	// a resolved one.
	ReopenClosed bool
}

// RecordReply appends msg to the thread and applies the reply rule:
//
//	requester reply on resolved (or closed, per policy) -> open
//	handler reply on open                                -> in_progress
//	handler reply with markResolved                      -> resolved
//
// markResolved must already be restricted to handlers by the caller and takes
// precedence over the automatic rule. Visibility does not matter: an internal
// handler note on an open ticket also starts work on it.
func (t *Ticket) RecordReply(msg *Message, markResolved bool, policy ReplyPolicy) (StatusChange, error) {
	if msg == nil || msg.ID() == 0 {
		return StatusChange{}, fmt.Errorf("reply must be persisted before it is recorded")
	}
	if msg.TicketID() != t.id {
		return StatusChange{}, fmt.Errorf("message %d does not belong to ticket %d", msg.ID(), t.id)
	}

	now := msg.CreatedAt()
	if now.IsZero() {
		now = biztime.NowUTC()
	}
	id := msg.ID()
	t.lastMessageID = &id
	t.touch(now)

	change := StatusChange{From: t.status, To: t.status}
	target, move := t.replyTarget(msg, markResolved, policy)
	if move && t.transitionTo(target, now) {
		change.To = target
		change.Changed = true
	}
	return change, nil
}

func (t *Ticket) replyTarget(msg *Message, markResolved bool, policy ReplyPolicy) (vo.TicketStatus, bool) {
	if markResolved {
		return vo.StatusResolved, true
	}
	if msg.IsHandlerAuthored() {
		switch t.status {
		case vo.StatusOpen:
			return vo.StatusInProgress, true
		case vo.StatusInProgress, vo.StatusResolved, vo.StatusClosed:
			return t.status, false
		}
		return t.status, false
	}

	if !t.IsRequester(msg.AuthorID()) {
		return t.status, false
	}
	switch t.status {
	case vo.StatusResolved:
		return vo.StatusOpen, true
	case vo.StatusClosed:
		return vo.StatusOpen, policy.ReopenClosed
	case vo.StatusOpen, vo.StatusInProgress:
		return t.status, false
	}
	return t.status, false
}

// ChangeStatus is the explicit handler transition; any valid target is
// allowed. An optional note message, already persisted, becomes the latest
// message of the thread.
func (t *Ticket) ChangeStatus(target vo.TicketStatus, note *Message) (StatusChange, error) {
	if !target.IsValid() {
		return StatusChange{}, errors.NewFieldValidationError("status", fmt.Sprintf("invalid status: %s", target))
	}

	now := biztime.NowUTC()
	if note != nil {
		if note.ID() == 0 || note.TicketID() != t.id {
			return StatusChange{}, fmt.Errorf("status note must be a persisted message of ticket %d", t.id)
		}
		// the note becomes the thread tail, so the ticket carries its time
		now = note.CreatedAt()
		id := note.ID()
		t.lastMessageID = &id
	}
	change := StatusChange{From: t.status, To: target}
	change.Changed = t.transitionTo(target, now)
	if change.Changed || note != nil {
		t.touch(now)
	}
	return change, nil
}

// Assign sets or clears the assignee. Status is left untouched.
func (t *Ticket) Assign(assigneeID *uint) bool {
	if equalIDs(t.assigneeID, assigneeID) {
		return false
	}
	if assigneeID == nil {
		t.assigneeID = nil
	} else {
		id := *assigneeID
		t.assigneeID = &id
	}
	t.touch(biztime.NowUTC())
	return true
}

func equalIDs(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
