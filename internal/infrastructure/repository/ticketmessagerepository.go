package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	vo "github.com/campusdesk/campusdesk/internal/domain/ticket/valueobjects"
	"github.com/campusdesk/campusdesk/internal/infrastructure/persistence/mappers"
	"github.com/campusdesk/campusdesk/internal/infrastructure/persistence/models"
	"github.com/campusdesk/campusdesk/internal/shared/db"
)

type TicketMessageRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketMessageRepository(db *gorm.DB) *TicketMessageRepository {
	return &TicketMessageRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *TicketMessageRepository) Create(ctx context.Context, m *ticket.Message) error {
	model := r.mapper.MessageToModel(m)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create ticket message: %w", err)
	}
	return m.SetID(model.ID)
}

func (r *TicketMessageRepository) GetByID(ctx context.Context, id uint) (*ticket.Message, error) {
	var model models.TicketMessageModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ticket.ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to get ticket message %d: %w", id, err)
	}
	return r.mapper.MessageToDomain(&model)
}

func (r *TicketMessageRepository) ListByTicket(ctx context.Context, ticketID uint, includeInternal bool) ([]*ticket.Message, error) {
	query := db.GetTxFromContext(ctx, r.db).Where("ticket_id = ?", ticketID)
	if !includeInternal {
		query = query.Where("visibility = ?", vo.VisibilityPublic.String())
	}

	var rows []models.TicketMessageModel
	if err := query.Order("created_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list messages of ticket %d: %w", ticketID, err)
	}

	messages := make([]*ticket.Message, 0, len(rows))
	for i := range rows {
		m, err := r.mapper.MessageToDomain(&rows[i])
		if err != nil {
			return nil, fmt.Errorf("failed to map ticket message %d: %w", rows[i].ID, err)
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func (r *TicketMessageRepository) ListHandlerAuthoredIDs(ctx context.Context, ticketID uint) ([]uint, error) {
	var ids []uint
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.TicketMessageModel{}).
		Where("ticket_id = ? AND is_handler_authored = ? AND visibility = ?", ticketID, true, vo.VisibilityPublic.String()).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list handler messages of ticket %d: %w", ticketID, err)
	}
	return ids, nil
}
