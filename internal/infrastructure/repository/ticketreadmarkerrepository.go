package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	vo "github.com/campusdesk/campusdesk/internal/domain/ticket/valueobjects"
	"github.com/campusdesk/campusdesk/internal/infrastructure/persistence/models"
	"github.com/campusdesk/campusdesk/internal/shared/biztime"
	"github.com/campusdesk/campusdesk/internal/shared/db"
)

type TicketReadMarkerRepository struct {
	db *gorm.DB
}

func NewTicketReadMarkerRepository(db *gorm.DB) *TicketReadMarkerRepository {
	return &TicketReadMarkerRepository{db: db}
}

// HasReadMarkerTable probes the schema once; deployments without the table
// run with read tracking off.
func HasReadMarkerTable(db *gorm.DB) bool {
	return db.Migrator().HasTable(&models.TicketReadMarkerModel{})
}

func (r *TicketReadMarkerRepository) MarkRead(ctx context.Context, ticketID, userID uint, messageIDs []uint) error {
	if len(messageIDs) == 0 {
		return nil
	}
	now := biztime.NowUTC().UnixMilli()
	rows := make([]models.TicketReadMarkerModel, 0, len(messageIDs))
	for _, id := range messageIDs {
		rows = append(rows, models.TicketReadMarkerModel{
			MessageID: id,
			UserID:    userID,
			TicketID:  ticketID,
			CreatedAt: now,
		})
	}

	err := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}

type unreadRow struct {
	TicketID uint
	Unread   int
}

// UnreadCounts counts, in one grouped query, the public handler-authored
// messages of each ticket that userID has no marker for.
func (r *TicketReadMarkerRepository) UnreadCounts(ctx context.Context, userID uint, ticketIDs []uint) (map[uint]int, error) {
	counts := make(map[uint]int, len(ticketIDs))
	if len(ticketIDs) == 0 {
		return counts, nil
	}

	var rows []unreadRow
	err := db.GetTxFromContext(ctx, r.db).
		Table("ticket_messages AS m").
		Select("m.ticket_id AS ticket_id, COUNT(*) AS unread").
		Joins("LEFT JOIN ticket_read_markers AS r ON r.message_id = m.id AND r.user_id = ?", userID).
		Where("m.ticket_id IN ?", ticketIDs).
		Where("m.is_handler_authored = ? AND m.visibility = ?", true, vo.VisibilityPublic.String()).
		Where("r.message_id IS NULL").
		Group("m.ticket_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count unread messages: %w", err)
	}

	for _, row := range rows {
		counts[row.TicketID] = row.Unread
	}
	return counts, nil
}
