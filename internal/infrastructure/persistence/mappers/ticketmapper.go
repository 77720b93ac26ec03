package mappers

import (
	"time"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	vo "github.com/campusdesk/campusdesk/internal/domain/ticket/valueobjects"
	"github.com/campusdesk/campusdesk/internal/infrastructure/persistence/models"
	"github.com/campusdesk/campusdesk/internal/shared/biztime"
)

// TicketMapper converts between the ticket aggregate and its rows.
type TicketMapper interface {
	ToModel(t *ticket.Ticket) *models.TicketModel
	ToDomain(model *models.TicketModel) (*ticket.Ticket, error)

	MessageToModel(m *ticket.Message) *models.TicketMessageModel
	MessageToDomain(model *models.TicketMessageModel) (*ticket.Message, error)

	AttachmentToModel(a *ticket.Attachment) *models.TicketAttachmentModel
	AttachmentToDomain(model *models.TicketAttachmentModel) (*ticket.Attachment, error)
}

type TicketMapperImpl struct{}

func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

func (m *TicketMapperImpl) ToModel(t *ticket.Ticket) *models.TicketModel {
	return &models.TicketModel{
		ID:            t.ID(),
		Number:        t.Number(),
		Kind:          t.Kind().String(),
		RequesterID:   t.RequesterID(),
		Subject:       t.Subject(),
		Body:          t.Body(),
		Category:      t.Category().String(),
		Status:        t.Status().String(),
		Priority:      t.Priority().String(),
		AssigneeID:    t.AssigneeID(),
		LastMessageID: t.LastMessageID(),
		Version:       t.Version(),
		CreatedAt:     t.CreatedAt().UnixMilli(),
		UpdatedAt:     t.UpdatedAt().UnixMilli(),
		ResolvedAt:    toMillisPtr(t.ResolvedAt()),
	}
}

// ToDomain rejects rows holding values outside the closed enums rather than
// guessing a replacement.
func (m *TicketMapperImpl) ToDomain(model *models.TicketModel) (*ticket.Ticket, error) {
	return ticket.ReconstructTicket(
		model.ID,
		model.Number,
		vo.Kind(model.Kind),
		model.RequesterID,
		model.Subject,
		model.Body,
		vo.Category(model.Category),
		vo.TicketStatus(model.Status),
		vo.Priority(model.Priority),
		model.AssigneeID,
		model.LastMessageID,
		model.Version,
		biztime.FromMillis(model.CreatedAt),
		biztime.FromMillis(model.UpdatedAt),
		fromMillisPtr(model.ResolvedAt),
	)
}

func (m *TicketMapperImpl) MessageToModel(msg *ticket.Message) *models.TicketMessageModel {
	return &models.TicketMessageModel{
		ID:                msg.ID(),
		TicketID:          msg.TicketID(),
		AuthorID:          msg.AuthorID(),
		Body:              msg.Body(),
		BodyFormat:        msg.BodyFormat().String(),
		IsHandlerAuthored: msg.IsHandlerAuthored(),
		Visibility:        msg.Visibility().String(),
		HasAttachments:    msg.HasAttachments(),
		CreatedAt:         msg.CreatedAt().UnixMilli(),
	}
}

func (m *TicketMapperImpl) MessageToDomain(model *models.TicketMessageModel) (*ticket.Message, error) {
	return ticket.ReconstructMessage(
		model.ID,
		model.TicketID,
		model.AuthorID,
		model.Body,
		vo.BodyFormat(model.BodyFormat),
		model.IsHandlerAuthored,
		vo.Visibility(model.Visibility),
		model.HasAttachments,
		biztime.FromMillis(model.CreatedAt),
	)
}

func (m *TicketMapperImpl) AttachmentToModel(a *ticket.Attachment) *models.TicketAttachmentModel {
	return &models.TicketAttachmentModel{
		ID:          a.ID(),
		MessageID:   a.MessageID(),
		TicketID:    a.TicketID(),
		Filename:    a.Filename(),
		MimeType:    a.MIMEType(),
		SizeBytes:   a.SizeBytes(),
		ContentHash: a.ContentHash(),
		StorageKey:  a.StorageKey(),
		CreatedAt:   a.CreatedAt().UnixMilli(),
	}
}

func (m *TicketMapperImpl) AttachmentToDomain(model *models.TicketAttachmentModel) (*ticket.Attachment, error) {
	return ticket.ReconstructAttachment(
		model.ID,
		model.MessageID,
		model.TicketID,
		model.Filename,
		model.MimeType,
		model.SizeBytes,
		model.ContentHash,
		model.StorageKey,
		biztime.FromMillis(model.CreatedAt),
	), nil
}

func toMillisPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func fromMillisPtr(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := biztime.FromMillis(*ms)
	return &t
}
