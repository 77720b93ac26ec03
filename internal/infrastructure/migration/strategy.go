package migration

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

//go:embed scripts
var embeddedScripts embed.FS

// Strategy defines the interface for different migration strategies
type Strategy interface {
	// Migrate executes the migration strategy
	Migrate(db *gorm.DB, models ...interface{}) error
	// GetName returns the strategy name
	GetName() string
}

// GormAutoMigrateStrategy derives the schema from the persistence models.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy() Strategy {
	return &GormAutoMigrateStrategy{
		logger: logger.NewLogger().With("component", "migration.gorm"),
	}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB, models ...interface{}) error {
	s.logger.Infow("starting gorm auto migration", "models_count", len(models))

	if err := db.AutoMigrate(models...); err != nil {
		s.logger.Errorw("auto migration failed", "error", err)
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	s.logger.Infow("auto migration completed successfully")
	return nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}

// GooseStrategy runs the versioned SQL scripts compiled into the binary.
// Scripts live under scripts/<goose dialect>/.
type GooseStrategy struct {
	scripts fs.FS
	logger  logger.Interface
}

func NewGooseStrategy() *GooseStrategy {
	return NewGooseStrategyWithFS(embeddedScripts)
}

// NewGooseStrategyWithFS reads scripts from fsys instead of the embedded set.
func NewGooseStrategyWithFS(fsys fs.FS) *GooseStrategy {
	return &GooseStrategy{
		scripts: fsys,
		logger:  logger.NewLogger().With("component", "migration.goose"),
	}
}

// prepare points goose at the script directory for db's dialect.
func (s *GooseStrategy) prepare(db *gorm.DB) (string, error) {
	dialect, err := gooseDialect(db)
	if err != nil {
		return "", err
	}
	goose.SetBaseFS(s.scripts)
	goose.SetLogger(&gooseLogger{logger: s.logger})
	if err := goose.SetDialect(dialect); err != nil {
		return "", fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return "scripts/" + dialect, nil
}

func gooseDialect(db *gorm.DB) (string, error) {
	switch db.Dialector.Name() {
	case "mysql":
		return "mysql", nil
	case "sqlite":
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("no migration scripts for dialect %q", db.Dialector.Name())
	}
}

func (s *GooseStrategy) Migrate(db *gorm.DB, models ...interface{}) error {
	dir, err := s.prepare(db)
	if err != nil {
		return err
	}
	s.logger.Infow("starting goose migration", "scripts_path", dir)

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	currentVersion, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		s.logger.Errorw("failed to get current version", "error", err)
		return fmt.Errorf("failed to get current version: %w", err)
	}

	s.logger.Infow("current migration status",
		"version", currentVersion)

	if err := goose.Up(sqlDB, dir); err != nil {
		s.logger.Errorw("migration failed", "error", err)
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	finalVersion, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		s.logger.Errorw("failed to get final version", "error", err)
		return fmt.Errorf("failed to get final version: %w", err)
	}

	s.logger.Infow("migration completed successfully",
		"from_version", currentVersion,
		"to_version", finalVersion)

	return nil
}

func (s *GooseStrategy) GetName() string {
	return "goose"
}

func (s *GooseStrategy) MigrateDown(db *gorm.DB, steps int) error {
	s.logger.Infow("starting down migration", "steps", steps)

	dir, err := s.prepare(db)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	for i := 0; i < steps; i++ {
		if err := goose.Down(sqlDB, dir); err != nil {
			s.logger.Errorw("down migration failed", "error", err)
			return fmt.Errorf("failed to run down migration: %w", err)
		}
	}

	s.logger.Infow("down migration completed successfully")
	return nil
}

func (s *GooseStrategy) GetVersion(db *gorm.DB) (int64, error) {
	if _, err := s.prepare(db); err != nil {
		return 0, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	version, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		return 0, fmt.Errorf("failed to get version: %w", err)
	}

	return version, nil
}

func (s *GooseStrategy) Status(db *gorm.DB) error {
	dir, err := s.prepare(db)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := goose.Status(sqlDB, dir); err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	return nil
}

// Create writes a new timestamped SQL script into dir on disk. Embedded
// scripts are read-only, so dir is a source-tree path such as
// internal/infrastructure/migration/scripts/mysql.
func (s *GooseStrategy) Create(dir, name string) error {
	goose.SetBaseFS(nil)
	if err := goose.Create(nil, dir, name, "sql"); err != nil {
		return fmt.Errorf("failed to create migration: %w", err)
	}

	s.logger.Infow("migration created successfully", "name", name, "dir", dir)
	return nil
}

// gooseLogger routes goose progress output through the process logger.
type gooseLogger struct {
	logger logger.Interface
}

func (l *gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l *gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}
