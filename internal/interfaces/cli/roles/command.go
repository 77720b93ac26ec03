package roles

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/campusdesk/campusdesk/internal/infrastructure/config"
	"github.com/campusdesk/campusdesk/internal/infrastructure/database"
	"github.com/campusdesk/campusdesk/internal/infrastructure/permission"
	"github.com/campusdesk/campusdesk/internal/infrastructure/repository"
	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

var (
	env        string
	policyFile string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Desk staff role management",
		Long:  `Manage which users act as ticket handlers and administrators.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(newSyncCommand())
	return cmd
}

func newSyncCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync roles from the policy file",
		Long: `Grant the roles listed in the policy file and revoke roles from users it
no longer lists. Names and emails in the file are written to the user directory.`,
		RunE: runSync,
	}

	cmd.Flags().StringVarP(&policyFile, "file", "f", "", "Path to the role seed (default: permission.policy_file)")
	return cmd
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger, false); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger().Named("roles")

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	path := policyFile
	if path == "" {
		path = cfg.Permission.PolicyFile
	}
	if err := Sync(cmd.Context(), database.Get(), path, log); err != nil {
		return err
	}

	fmt.Printf("✅ Roles synced from %s\n", path)
	return nil
}

// Sync applies the role seed at path to casbin and records the listed
// users in the directory.
func Sync(ctx context.Context, db *gorm.DB, path string, log logger.Interface) error {
	seed, err := permission.LoadRoleSeed(path)
	if err != nil {
		return err
	}

	enforcer, err := permission.NewEnforcer(db, log)
	if err != nil {
		return fmt.Errorf("failed to initialize permission enforcer: %w", err)
	}
	if err := permission.NewPermissionSync(enforcer, log).SyncToCasbin(seed); err != nil {
		return fmt.Errorf("failed to sync roles: %w", err)
	}

	directory := repository.NewUserDirectoryRepository(db)
	for _, u := range seed.Users {
		if u.Name == "" && u.Email == "" {
			continue
		}
		if err := directory.Upsert(ctx, u.ID, u.Name, u.Email); err != nil {
			return fmt.Errorf("failed to record user %d: %w", u.ID, err)
		}
	}

	log.Infow("role seed applied", "path", path, "users", len(seed.Users))
	return nil
}
