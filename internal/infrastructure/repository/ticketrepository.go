package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/campusdesk/campusdesk/internal/domain/ticket"
	vo "github.com/campusdesk/campusdesk/internal/domain/ticket/valueobjects"
	"github.com/campusdesk/campusdesk/internal/infrastructure/persistence/mappers"
	"github.com/campusdesk/campusdesk/internal/infrastructure/persistence/models"
	"github.com/campusdesk/campusdesk/internal/shared/db"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

// likeEscape is the LIKE escape character; it needs no quoting in either
// MySQL or SQLite string literals.
const likeEscape = "!"

type TicketRepository struct {
	db             *gorm.DB
	mapper         mappers.TicketMapper
	hasReadMarkers bool
	logger         logger.Interface
}

// NewTicketRepository builds the repository. hasReadMarkers tells Delete
// whether the read-marker table exists and must be cascaded into.
func NewTicketRepository(db *gorm.DB, hasReadMarkers bool, logger logger.Interface) *TicketRepository {
	return &TicketRepository{
		db:             db,
		mapper:         mappers.NewTicketMapper(),
		hasReadMarkers: hasReadMarkers,
		logger:         logger,
	}
}

func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	if err := t.SetID(model.ID); err != nil {
		return err
	}
	t.MarkPersisted()
	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id uint) (*ticket.Ticket, error) {
	return r.get(db.GetTxFromContext(ctx, r.db), id)
}

func (r *TicketRepository) GetByIDForUpdate(ctx context.Context, id uint) (*ticket.Ticket, error) {
	if !db.InTransaction(ctx) {
		r.logger.Warnw("row lock requested outside a transaction", "ticket_id", id)
	}
	return r.get(db.GetTxFromContext(ctx, r.db).Scopes(db.ForUpdate()), id)
}

func (r *TicketRepository) get(tx *gorm.DB, id uint) (*ticket.Ticket, error) {
	var model models.TicketModel
	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ticket.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket %d: %w", id, err)
	}

	t, err := r.mapper.ToDomain(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map ticket %d: %w", id, err)
	}
	return t, nil
}

func (r *TicketRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.TicketModel{}).
		Where("number = ?", number).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check ticket number: %w", err)
	}
	return count > 0, nil
}

// Update writes the mutable columns guarded by the expected version. The DSN
// sets clientFoundRows so RowsAffected counts matched rows on MySQL.
func (r *TicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.TicketModel{}).
		Where("id = ? AND version = ?", model.ID, t.ExpectedVersion()).
		Updates(map[string]any{
			"status":          model.Status,
			"priority":        model.Priority,
			"assignee_id":     model.AssigneeID,
			"last_message_id": model.LastMessageID,
			"version":         model.Version,
			"updated_at":      model.UpdatedAt,
			"resolved_at":     model.ResolvedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update ticket: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.TicketModel{}).Where("id = ?", model.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check ticket existence: %w", err)
		}
		if count == 0 {
			return ticket.ErrTicketNotFound
		}
		r.logger.Warnw("ticket version conflict",
			"ticket_id", model.ID,
			"expected_version", t.ExpectedVersion(),
		)
		return ticket.ErrVersionConflict
	}

	t.MarkPersisted()
	return nil
}

func (r *TicketRepository) List(ctx context.Context, filter ticket.ListFilter) ([]*ticket.Ticket, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.TicketModel{})

	if filter.Kind != nil {
		query = query.Where("kind = ?", filter.Kind.String())
	}
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", filter.Priority.String())
	}
	if filter.Assigned != nil {
		if filter.Assigned.IsUnassigned() {
			query = query.Where("assignee_id IS NULL")
		} else if id, ok := filter.Assigned.AssigneeID(); ok {
			query = query.Where("assignee_id = ?", id)
		}
	}
	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		query = query.Where(
			"(subject LIKE ? ESCAPE '"+likeEscape+"' OR body LIKE ? ESCAPE '"+likeEscape+"')",
			pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	var rows []models.TicketModel
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Scopes(db.Paginate(filter.Page, filter.PageSize)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}

	tickets, err := r.toDomainList(rows)
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

func (r *TicketRepository) ListByRequester(ctx context.Context, requesterID uint, kind *vo.Kind) ([]*ticket.Ticket, error) {
	query := db.GetTxFromContext(ctx, r.db).Where("requester_id = ?", requesterID)
	if kind != nil {
		query = query.Where("kind = ?", kind.String())
	}

	var rows []models.TicketModel
	if err := query.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list tickets for requester %d: %w", requesterID, err)
	}
	return r.toDomainList(rows)
}

type statusCount struct {
	Status string
	Total  int64
}

func (r *TicketRepository) CountByStatus(ctx context.Context, scope ticket.CountScope) (map[vo.TicketStatus]int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.TicketModel{})
	if scope.Kind != nil {
		query = query.Where("kind = ?", scope.Kind.String())
	}

	var rows []statusCount
	if err := query.Select("status, COUNT(*) AS total").Group("status").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count tickets by status: %w", err)
	}

	counts := make(map[vo.TicketStatus]int64, len(rows))
	for _, row := range rows {
		counts[vo.TicketStatus(row.Status)] = row.Total
	}
	return counts, nil
}

// Delete removes the ticket and everything hanging off it. Callers are
// expected to run it inside a transaction.
func (r *TicketRepository) Delete(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Delete(&models.TicketModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete ticket: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ticket.ErrTicketNotFound
	}

	if r.hasReadMarkers {
		if err := tx.Where("ticket_id = ?", id).Delete(&models.TicketReadMarkerModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete read markers: %w", err)
		}
	}
	if err := tx.Where("ticket_id = ?", id).Delete(&models.TicketAttachmentModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete attachments: %w", err)
	}
	if err := tx.Where("ticket_id = ?", id).Delete(&models.TicketMessageModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	return nil
}

func (r *TicketRepository) toDomainList(rows []models.TicketModel) ([]*ticket.Ticket, error) {
	tickets := make([]*ticket.Ticket, 0, len(rows))
	for i := range rows {
		t, err := r.mapper.ToDomain(&rows[i])
		if err != nil {
			return nil, fmt.Errorf("failed to map ticket %d: %w", rows[i].ID, err)
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(
		likeEscape, likeEscape+likeEscape,
		"%", likeEscape+"%",
		"_", likeEscape+"_",
	).Replace(s)
}
