package dto

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
)

// TicketDTO is the ticket header without its thread.
type TicketDTO struct {
	ID            uint       `json:"id"`
	Number        string     `json:"number"`
	Kind          string     `json:"kind"`
	RequesterID   uint       `json:"requester_id"`
	Subject       string     `json:"subject"`
	Category      string     `json:"category"`
	Status        string     `json:"status"`
	Priority      string     `json:"priority"`
	AssigneeID    *uint      `json:"assignee_id"`
	LastMessageID *uint      `json:"last_message_id"`
	Version       int        `json:"version"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	ResolvedAt    *time.Time `json:"resolved_at"`
}

// TicketSummaryDTO is one row of a ticket listing.
type TicketSummaryDTO struct {
	TicketDTO
	AssigneeName string `json:"assignee_name,omitempty"`
	UnreadCount  int    `json:"unread_count"`
	Preview      string `json:"preview"`
	TimeAgo      string `json:"time_ago"`
}

type StatusSummaryDTO struct {
	Total      int64 `json:"total"`
	Open       int64 `json:"open"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
	Closed     int64 `json:"closed"`
}

type HandlerQueueDTO struct {
	Items      []*TicketSummaryDTO `json:"items"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	TotalPages int                 `json:"total_pages"`
	Summary    StatusSummaryDTO    `json:"summary"`
}

type AttachmentDTO struct {
	ID          uint   `json:"id"`
	Filename    string `json:"filename"`
	MIMEType    string `json:"mime_type"`
	SizeBytes   int64  `json:"size_bytes"`
	Size        string `json:"size"`
	ContentHash string `json:"content_hash"`
	URL         string `json:"url"`
}

type MessageDTO struct {
	ID             uint             `json:"id"`
	AuthorID       uint             `json:"author_id"`
	AuthorName     string           `json:"author_name"`
	Body           string           `json:"body"`
	BodyFormat     string           `json:"body_format"`
	BodyHTML       string           `json:"body_html"`
	IsHandlerReply bool             `json:"is_handler_authored"`
	Visibility     string           `json:"visibility"`
	HasAttachments bool             `json:"has_attachments"`
	Attachments    []*AttachmentDTO `json:"attachments"`
	CreatedAt      time.Time        `json:"created_at"`
}

type TicketDetailDTO struct {
	TicketDTO
	RequesterName string        `json:"requester_name"`
	AssigneeName  string        `json:"assignee_name,omitempty"`
	Body          string        `json:"body"`
	Messages      []*MessageDTO `json:"messages"`
}

func ToTicketDTO(t *ticket.Ticket) *TicketDTO {
	if t == nil {
		return nil
	}
	return &TicketDTO{
		ID:            t.ID(),
		Number:        t.Number(),
		Kind:          t.Kind().String(),
		RequesterID:   t.RequesterID(),
		Subject:       t.Subject(),
		Category:      t.Category().String(),
		Status:        t.Status().String(),
		Priority:      t.Priority().String(),
		AssigneeID:    t.AssigneeID(),
		LastMessageID: t.LastMessageID(),
		Version:       t.Version(),
		CreatedAt:     t.CreatedAt(),
		UpdatedAt:     t.UpdatedAt(),
		ResolvedAt:    t.ResolvedAt(),
	}
}

// ToTicketSummaryDTO fills the derived fields of a listing row. now anchors
// the relative time string.
func ToTicketSummaryDTO(t *ticket.Ticket, preview string, unread int, now time.Time) *TicketSummaryDTO {
	return &TicketSummaryDTO{
		TicketDTO:   *ToTicketDTO(t),
		UnreadCount: unread,
		Preview:     preview,
		TimeAgo:     humanize.RelTime(t.CreatedAt(), now, "ago", "from now"),
	}
}

func ToAttachmentDTO(a *ticket.Attachment, url string) *AttachmentDTO {
	return &AttachmentDTO{
		ID:          a.ID(),
		Filename:    a.Filename(),
		MIMEType:    a.MIMEType(),
		SizeBytes:   a.SizeBytes(),
		Size:        humanize.IBytes(uint64(a.SizeBytes())),
		ContentHash: a.ContentHash(),
		URL:         url,
	}
}

func ToMessageDTO(m *ticket.Message, authorName, bodyHTML string, attachments []*AttachmentDTO) *MessageDTO {
	if attachments == nil {
		attachments = []*AttachmentDTO{}
	}
	return &MessageDTO{
		ID:             m.ID(),
		AuthorID:       m.AuthorID(),
		AuthorName:     authorName,
		Body:           m.Body(),
		BodyFormat:     m.BodyFormat().String(),
		BodyHTML:       bodyHTML,
		IsHandlerReply: m.IsHandlerAuthored(),
		Visibility:     m.Visibility().String(),
		HasAttachments: m.HasAttachments(),
		Attachments:    attachments,
		CreatedAt:      m.CreatedAt(),
	}
}
