package migrate

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/campusdesk/campusdesk/internal/infrastructure/config"
	"github.com/campusdesk/campusdesk/internal/infrastructure/database"
	"github.com/campusdesk/campusdesk/internal/infrastructure/migration"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

const scriptsDir = "./internal/infrastructure/migration/scripts"

var (
	env     string
	name    string
	dialect string
	steps   int
)

// NewCommand groups the goose-backed schema commands. The scripts are
// embedded in the binary, so up/down/status need no files on disk.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the ticket schema",
		Long:  `Apply, roll back and inspect the versioned SQL scripts for the configured database.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied scripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(log logger.Interface, db *gorm.DB) error {
				log.Infow("rolling back", "steps", steps)
				if err := migration.NewGooseStrategy().MigrateDown(db, steps); err != nil {
					return fmt.Errorf("rollback: %w", err)
				}
				return nil
			})
		},
	}
	down.Flags().IntVarP(&steps, "steps", "n", 1, "Number of scripts to roll back")

	create := &cobra.Command{
		Use:   "create",
		Short: "Scaffold a new SQL script",
		Long:  `Write an empty goose script for one dialect. Rebuild afterwards so it is embedded.`,
		RunE:  runCreate,
	}
	create.Flags().StringVarP(&name, "name", "n", "", "Script name (required)")
	create.Flags().StringVarP(&dialect, "dialect", "d", "", "mysql or sqlite3 (defaults to the configured driver)")
	_ = create.MarkFlagRequired("name")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending scripts",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDatabase(func(log logger.Interface, db *gorm.DB) error {
					return migration.NewGooseStrategy().Migrate(db)
				})
			},
		},
		down,
		&cobra.Command{
			Use:   "status",
			Short: "Show applied and pending scripts",
			RunE:  runStatus,
		},
		create,
	)

	return cmd
}

func loadEnv() (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger, false); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger.NewLogger().Named("migrate").With("environment", env), nil
}

// withDatabase opens the configured database for the duration of fn.
func withDatabase(fn func(log logger.Interface, db *gorm.DB) error) error {
	cfg, log, err := loadEnv()
	if err != nil {
		return err
	}
	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if err := fn(log, database.Get()); err != nil {
		log.Errorw("migrate command failed", "error", err)
		return err
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	return withDatabase(func(log logger.Interface, db *gorm.DB) error {
		strategy := migration.NewGooseStrategy()
		version, err := strategy.GetVersion(db)
		if err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "environment: %s\n", env)
		fmt.Fprintf(out, "dialect:     %s\n", db.Dialector.Name())
		fmt.Fprintf(out, "version:     %d\n", version)

		return strategy.Status(db)
	})
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadEnv()
	if err != nil {
		return err
	}

	target := dialect
	if target == "" {
		target = scriptDialect(cfg.Database.Driver)
	}
	if target != "mysql" && target != "sqlite3" {
		return fmt.Errorf("unknown dialect %q: use mysql or sqlite3", target)
	}

	dir, err := filepath.Abs(filepath.Join(scriptsDir, target))
	if err != nil {
		return fmt.Errorf("failed to resolve scripts path: %w", err)
	}

	if err := migration.NewGooseStrategy().Create(dir, name); err != nil {
		return fmt.Errorf("failed to create script: %w", err)
	}

	log.Infow("script created", "name", name, "dialect", target, "dir", dir)
	fmt.Fprintf(cmd.OutOrStdout(), "created %s script %q in %s\n", target, name, dir)
	return nil
}

// scriptDialect maps a database.driver value to its scripts directory.
func scriptDialect(driver string) string {
	if driver == "sqlite" {
		return "sqlite3"
	}
	return driver
}
