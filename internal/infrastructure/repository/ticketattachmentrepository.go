package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	"github.com/campusdesk/campusdesk/internal/infrastructure/persistence/mappers"
	"github.com/campusdesk/campusdesk/internal/infrastructure/persistence/models"
	"github.com/campusdesk/campusdesk/internal/shared/db"
)

type TicketAttachmentRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketAttachmentRepository(db *gorm.DB) *TicketAttachmentRepository {
	return &TicketAttachmentRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *TicketAttachmentRepository) CreateBatch(ctx context.Context, attachments []*ticket.Attachment) error {
	if len(attachments) == 0 {
		return nil
	}

	rows := make([]*models.TicketAttachmentModel, 0, len(attachments))
	for _, a := range attachments {
		rows = append(rows, r.mapper.AttachmentToModel(a))
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to create ticket attachments: %w", err)
	}

	for i, a := range attachments {
		if err := a.SetID(rows[i].ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *TicketAttachmentRepository) ListByMessageIDs(ctx context.Context, messageIDs []uint) ([]*ticket.Attachment, error) {
	if len(messageIDs) == 0 {
		return nil, nil
	}
	var rows []models.TicketAttachmentModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("message_id IN ?", messageIDs).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket attachments: %w", err)
	}
	return r.toDomainList(rows)
}

func (r *TicketAttachmentRepository) ListByStorageKey(ctx context.Context, key string) ([]*ticket.Attachment, error) {
	var rows []models.TicketAttachmentModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("storage_key = ?", key).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments by key: %w", err)
	}
	return r.toDomainList(rows)
}

func (r *TicketAttachmentRepository) toDomainList(rows []models.TicketAttachmentModel) ([]*ticket.Attachment, error) {
	out := make([]*ticket.Attachment, 0, len(rows))
	for i := range rows {
		a, err := r.mapper.AttachmentToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
