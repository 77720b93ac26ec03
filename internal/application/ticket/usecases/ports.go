package usecases

import (
	"context"
	"io"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	vo "github.com/campusdesk/campusdesk/internal/domain/ticket/valueobjects"
)

// PermissionOracle answers role questions. Implementations may be remote, so
// each operation asks each question at most once and before any row lock.
type PermissionOracle interface {
	IsHandler(ctx context.Context, userID uint) (bool, error)
	// AreHandlers answers IsHandler for several users in one call.
	AreHandlers(ctx context.Context, userIDs ...uint) (map[uint]bool, error)
	IsAdmin(ctx context.Context, userID uint) (bool, error)
	// CanViewTicket covers viewers that are neither the requester nor a
	// handler, such as a non-handler assignee.
	CanViewTicket(ctx context.Context, userID uint, t *ticket.Ticket) (bool, error)
}

// UserDirectory resolves display names in one batched lookup. Unknown ids
// are simply absent from the result.
type UserDirectory interface {
	DisplayNames(ctx context.Context, userIDs []uint) (map[uint]string, error)
}

// AttachmentStore persists blob bytes. The returned hash and size describe
// the bytes actually written.
type AttachmentStore interface {
	Store(ctx context.Context, data []byte, filename, declaredMIME string) (ticket.StoredFile, error)
	ResolveURL(a *ticket.Attachment) string
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// NotificationDispatcher receives committed workflow events. Publish must
// not block on delivery.
type NotificationDispatcher interface {
	Publish(ctx context.Context, event ticket.Event) error
}

// BodyRenderer turns stored message bodies into safe HTML and plain-text
// previews.
type BodyRenderer interface {
	RenderHTML(body string, format vo.BodyFormat) string
	Preview(body string, format vo.BodyFormat, limit int) string
}

// WorkflowConfig carries deployment policy into the use cases.
type WorkflowConfig struct {
	// ReadTracking is decided once at startup from the presence of the
	// read-marker table.
	ReadTracking        bool
	ReopenClosedOnReply bool
	PreviewLength       int
}

func (c WorkflowConfig) replyPolicy() ticket.ReplyPolicy {
	return ticket.ReplyPolicy{ReopenClosed: c.ReopenClosedOnReply}
}

func (c WorkflowConfig) previewLength() int {
	if c.PreviewLength <= 0 {
		return 150
	}
	return c.PreviewLength
}
