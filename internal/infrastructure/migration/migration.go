package migration

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/campusdesk/campusdesk/internal/shared/constants"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

// Manager runs one migration Strategy and logs its outcome.
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks gorm AutoMigrate for development and the versioned goose
// scripts everywhere else.
func NewManager(environment string) *Manager {
	var strategy Strategy

	switch strings.ToLower(environment) {
	case constants.EnvTest, constants.EnvProduction, "release":
		strategy = NewGooseStrategy()
	default:
		strategy = NewGormAutoMigrateStrategy()
	}

	return NewManagerWithStrategy(strategy)
}

func NewManagerWithStrategy(strategy Strategy) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   logger.NewLogger().Named("migration.manager"),
	}
}

// Migrate applies the schema. Goose ignores models; AutoMigrate needs them.
func (m *Manager) Migrate(db *gorm.DB, models ...interface{}) error {
	name := m.strategy.GetName()
	log := m.logger.With("strategy", name, "dialect", db.Dialector.Name())
	log.Infow("applying schema", "models", len(models))

	if err := m.strategy.Migrate(db, models...); err != nil {
		log.Errorw("schema migration failed", "error", err)
		return fmt.Errorf("%s migration: %w", name, err)
	}

	log.Infow("schema up to date")
	return nil
}

func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}

// MigrateWithGormAutoMigrate creates every ticket table from the gorm models.
// Tests and local development use it instead of the SQL scripts.
func MigrateWithGormAutoMigrate(db *gorm.DB) error {
	return NewManagerWithStrategy(NewGormAutoMigrateStrategy()).Migrate(db, AutoMigrateModels()...)
}
