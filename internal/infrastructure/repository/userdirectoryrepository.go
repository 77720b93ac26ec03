package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campusdesk/campusdesk/internal/infrastructure/persistence/models"
	"github.com/campusdesk/campusdesk/internal/shared/db"
)

// UserDirectoryRepository reads the local users table for display names and
// notification addresses.
type UserDirectoryRepository struct {
	db *gorm.DB
}

func NewUserDirectoryRepository(db *gorm.DB) *UserDirectoryRepository {
	return &UserDirectoryRepository{db: db}
}

func (r *UserDirectoryRepository) find(ctx context.Context, userIDs []uint) ([]models.UserModel, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var rows []models.UserModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", userIDs).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to look up users: %w", err)
	}
	return rows, nil
}

// DisplayNames resolves every id in one query. Unknown ids are absent.
func (r *UserDirectoryRepository) DisplayNames(ctx context.Context, userIDs []uint) (map[uint]string, error) {
	rows, err := r.find(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(rows))
	for _, u := range rows {
		names[u.ID] = u.DisplayName
	}
	return names, nil
}

// Emails returns the non-empty addresses of userIDs.
func (r *UserDirectoryRepository) Emails(ctx context.Context, userIDs []uint) (map[uint]string, error) {
	rows, err := r.find(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	emails := make(map[uint]string, len(rows))
	for _, u := range rows {
		if u.Email != "" {
			emails[u.ID] = u.Email
		}
	}
	return emails, nil
}

// Upsert creates the user or refreshes its name and email.
func (r *UserDirectoryRepository) Upsert(ctx context.Context, id uint, displayName, email string) error {
	row := models.UserModel{ID: id, DisplayName: displayName, Email: email}
	err := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "email", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert user %d: %w", id, err)
	}
	return nil
}
