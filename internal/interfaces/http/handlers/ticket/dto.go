package ticket

import (
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/campusdesk/campusdesk/internal/application/ticket/usecases"
	"github.com/campusdesk/campusdesk/internal/shared/errors"
	"github.com/campusdesk/campusdesk/internal/shared/utils"
)

// CreateTicketRequest binds from either a JSON body or a multipart form.
// Files only travel in the multipart variant.
type CreateTicketRequest struct {
	Kind       string `json:"kind" form:"kind" binding:"required,oneof=support doubt"`
	Subject    string `json:"subject" form:"subject" binding:"required,max=200"`
	Body       string `json:"body" form:"body" binding:"required,max=20000"`
	BodyFormat string `json:"body_format" form:"body_format" binding:"omitempty,oneof=plain markdown html"`
	Category   string `json:"category" form:"category" binding:"omitempty,max=50"`
	Priority   string `json:"priority" form:"priority" binding:"omitempty,ticket_priority"`
}

func (r *CreateTicketRequest) ToCommand(requesterID uint, uploads []usecases.Upload) usecases.CreateTicketCommand {
	return usecases.CreateTicketCommand{
		RequesterID: requesterID,
		Kind:        r.Kind,
		Subject:     r.Subject,
		Category:    r.Category,
		Priority:    r.Priority,
		Body:        r.Body,
		BodyFormat:  r.BodyFormat,
		Attachments: uploads,
	}
}

type ReplyRequest struct {
	Body         string `json:"body" form:"body" binding:"required,max=20000"`
	BodyFormat   string `json:"body_format" form:"body_format" binding:"omitempty,oneof=plain markdown html"`
	Visibility   string `json:"visibility" form:"visibility" binding:"omitempty,visibility"`
	MarkResolved bool   `json:"mark_resolved" form:"mark_resolved"`
}

func (r *ReplyRequest) ToCommand(ticketID, authorID uint, uploads []usecases.Upload) usecases.ReplyCommand {
	return usecases.ReplyCommand{
		TicketID:     ticketID,
		AuthorID:     authorID,
		Body:         r.Body,
		BodyFormat:   r.BodyFormat,
		Visibility:   r.Visibility,
		MarkResolved: r.MarkResolved,
		Attachments:  uploads,
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,ticket_status"`
	Note   string `json:"note" binding:"omitempty,max=5000"`
}

// AssignTicketRequest clears the assignment when assignee_id is null or
// missing.
type AssignTicketRequest struct {
	AssigneeID *uint `json:"assignee_id" binding:"omitempty,gt=0"`
}

type ListMineRequest struct {
	Kind string `form:"kind" binding:"omitempty,oneof=support doubt"`
}

type ListQueueRequest struct {
	Kind     string `form:"kind" binding:"omitempty,oneof=support doubt"`
	Status   string `form:"status" binding:"omitempty,ticket_status"`
	Priority string `form:"priority" binding:"omitempty,ticket_priority"`
	Assigned string `form:"assigned" binding:"omitempty,max=20"`
	Search   string `form:"q" binding:"omitempty,max=100"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

func (r *ListQueueRequest) ToQuery(handlerID uint) usecases.ListForHandlerQuery {
	p := utils.ValidatePagination(r.Page, r.PageSize)
	return usecases.ListForHandlerQuery{
		HandlerID: handlerID,
		Kind:      r.Kind,
		Status:    r.Status,
		Priority:  r.Priority,
		Assigned:  r.Assigned,
		Search:    r.Search,
		Page:      p.Page,
		PageSize:  p.PageSize,
	}
}

type CreateTicketResponse struct {
	TicketID        uint   `json:"ticket_id"`
	Number          string `json:"number"`
	Status          string `json:"status"`
	MessageID       uint   `json:"message_id"`
	AttachmentCount int    `json:"attachment_count"`
}

type ReplyResponse struct {
	MessageID       uint   `json:"message_id"`
	Status          string `json:"status"`
	StatusChanged   bool   `json:"status_changed"`
	AttachmentCount int    `json:"attachment_count"`
}

type MarkReadResponse struct {
	Marked int `json:"marked"`
}

// Multipart field names carrying files. Clients send either a repeated
// field or a single one; both end up in the same list.
var uploadFields = []string{"attachments", "attachments[]", "attachment"}

// collectUploads reads every file of a multipart request. Per-file problems
// are reported through Upload.Err and left to the ingestor to skip.
func collectUploads(c *gin.Context, maxBytes int64) ([]usecases.Upload, error) {
	if c.ContentType() != binding.MIMEMultipartPOSTForm {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, errors.NewValidationError("invalid multipart form", err.Error())
	}

	var uploads []usecases.Upload
	for _, field := range uploadFields {
		for _, fh := range form.File[field] {
			uploads = append(uploads, readUpload(fh, maxBytes))
		}
	}
	return uploads, nil
}

func readUpload(fh *multipart.FileHeader, maxBytes int64) usecases.Upload {
	up := usecases.Upload{
		Filename:     fh.Filename,
		DeclaredMIME: fh.Header.Get("Content-Type"),
	}
	if fh.Size == 0 {
		up.Err = usecases.UploadErrNoFile
		return up
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		up.Err = usecases.UploadErrTooLarge
		return up
	}

	f, err := fh.Open()
	if err != nil {
		up.Err = usecases.UploadErrPartial
		return up
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil || int64(len(data)) != fh.Size {
		up.Err = usecases.UploadErrPartial
		return up
	}
	up.Data = data
	return up
}
