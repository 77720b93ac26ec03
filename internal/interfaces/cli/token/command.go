package token

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campusdesk/campusdesk/internal/infrastructure/auth"
	"github.com/campusdesk/campusdesk/internal/infrastructure/config"
	"github.com/campusdesk/campusdesk/internal/shared/id"
)

var (
	env         string
	userID      uint
	displayName string
	email       string
)

// NewCommand issues access tokens signed with auth.jwt.secret. Identity is
// owned by the campus login service; this exists for local testing and
// service accounts.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for a user",
		Long:  `Sign a bearer token for the given user id with the configured JWT secret.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().UintVarP(&userID, "user", "u", 0, "User id (required)")
	cmd.Flags().StringVar(&displayName, "name", "", "Display name carried in the token")
	cmd.Flags().StringVar(&email, "email", "", "Email carried in the token")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if userID == 0 {
		return fmt.Errorf("user id must be positive")
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	svc := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)
	signed, err := svc.Generate(userID, displayName, email, id.NewRequestID())
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), signed)
	return nil
}
