package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/campusdesk/campusdesk/internal/infrastructure/config"
	"github.com/campusdesk/campusdesk/internal/infrastructure/database"
	"github.com/campusdesk/campusdesk/internal/infrastructure/migration"
	"github.com/campusdesk/campusdesk/internal/interfaces/cli/roles"
	httpRouter "github.com/campusdesk/campusdesk/internal/interfaces/http"
	"github.com/campusdesk/campusdesk/internal/shared/constants"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

var (
	env                string
	autoMigrate        bool
	skipMigrationCheck bool
	syncRoles          bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the CampusDesk HTTP server with specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run database migrations on startup (always on in production)")
	cmd.Flags().BoolVar(&skipMigrationCheck, "skip-migration-check", false, "Skip migration status check on startup")
	cmd.Flags().BoolVar(&syncRoles, "sync-roles", false, "Sync desk staff roles from permission.policy_file before serving")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = mapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode == gin.DebugMode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	log.Infow("starting server",
		"environment", env,
		"auto_migrate", autoMigrate,
		"database_driver", cfg.Database.Driver)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Errorw("failed to close database", "error", err)
		}
	}()

	if err := handleMigrations(env, log); err != nil {
		return fmt.Errorf("migration handling failed: %w", err)
	}

	if syncRoles {
		if err := roles.Sync(cmd.Context(), database.Get(), cfg.Permission.PolicyFile, log.Named("roles")); err != nil {
			return fmt.Errorf("role sync failed: %w", err)
		}
	}

	container, err := httpRouter.NewContainer(cfg, database.Get(), log)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	if err := container.Start(); err != nil {
		return fmt.Errorf("failed to start background workers: %w", err)
	}

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      container.Engine(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode,
			"read_tracking", container.ReadTracking())

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err, ok := <-serveErr:
		if ok {
			_ = container.Shutdown(context.Background())
			return fmt.Errorf("failed to start server: %w", err)
		}
	}

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}
	if err := container.Shutdown(ctx); err != nil {
		log.Warnw("background workers did not stop cleanly", "error", err)
	}

	log.Infow("server exited gracefully")
	return nil
}

func handleMigrations(environment string, log logger.Interface) error {
	if skipMigrationCheck {
		log.Infow("skipping migration check")
		return nil
	}

	if autoMigrate || environment == constants.EnvProduction {
		manager := migration.NewManager(environment)
		log.Infow("running migrations", "strategy", manager.GetStrategy().GetName())
		if err := manager.Migrate(database.Get(), migration.AutoMigrateModels()...); err != nil {
			return err
		}
		return nil
	}

	log.Infow("checking migration status")

	version, err := migration.NewGooseStrategy().GetVersion(database.Get())
	if err != nil {
		log.Warnw("failed to check migration status", "error", err)
		return nil
	}
	log.Infow("current migration version", "version", version)
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod":
		return gin.ReleaseMode
	case "development", "dev":
		return gin.DebugMode
	case "test", "testing":
		return gin.TestMode
	case "debug":
		return gin.DebugMode
	case "release":
		return gin.ReleaseMode
	default:
		return gin.DebugMode
	}
}
