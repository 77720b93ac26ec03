package database

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/campusdesk/campusdesk/internal/shared/config"
	appLogger "github.com/campusdesk/campusdesk/internal/shared/logger"
)

var (
	db   *gorm.DB
	dbMu sync.RWMutex
)

// Init opens the configured database and keeps it as the process connection.
func Init(cfg *config.DatabaseConfig) error {
	database, err := Open(cfg)
	if err != nil {
		return err
	}

	dbMu.Lock()
	db = database
	dbMu.Unlock()

	appLogger.Info("database connection established",
		"driver", cfg.Driver,
		"database", databaseName(cfg))

	return nil
}

// Open builds a gorm connection for cfg.Driver without registering it.
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	gormLogger := logger.New(
		&filteredLogger{},
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.New(mysql.Config{
			DSN:                       cfg.GetDSN(),
			SkipInitializeWithVersion: true,
		})
	case "sqlite":
		// foreign keys on, and a busy timeout so concurrent writers wait for
		// the database lock instead of failing
		dialector = sqlite.Open(cfg.SQLitePath + "?_foreign_keys=on&_busy_timeout=5000")
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	database, err := gorm.Open(dialector, &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: cfg.Driver == "mysql",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return database, nil
}

func databaseName(cfg *config.DatabaseConfig) string {
	if cfg.Driver == "sqlite" {
		return cfg.SQLitePath
	}
	return cfg.Database
}

// Get returns the database connection
func Get() *gorm.DB {
	dbMu.RLock()
	defer dbMu.RUnlock()
	return db
}

// Close closes the database connection
func Close() error {
	dbMu.RLock()
	currentDB := db
	dbMu.RUnlock()

	if currentDB == nil {
		return nil
	}

	sqlDB, err := currentDB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	appLogger.Info("database connection closed")
	return nil
}

// filteredLogger forwards gorm output to the process logger and drops the
// schema probes the MySQL driver issues on connect.
type filteredLogger struct{}

func (l *filteredLogger) Printf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	lower := strings.ToLower(msg)

	if strings.Contains(lower, "information_schema.schemata") ||
		strings.Contains(lower, "select version()") {
		return
	}

	switch {
	case strings.Contains(msg, "[error]") || strings.Contains(msg, "ERROR"):
		appLogger.Error("database error", "details", msg)
	case strings.Contains(lower, "slow sql"):
		appLogger.Warn("slow query", "details", msg)
	default:
		appLogger.Debug("database query", "details", msg)
	}
}
