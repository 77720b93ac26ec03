package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/campusdesk/campusdesk/internal/interfaces/cli/migrate"
	"github.com/campusdesk/campusdesk/internal/interfaces/cli/roles"
	"github.com/campusdesk/campusdesk/internal/interfaces/cli/server"
	"github.com/campusdesk/campusdesk/internal/interfaces/cli/token"
)

//	@title						CampusDesk API
//	@version					1.0
//	@description				Support ticket and doubt resolution workflow for campus users.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

func main() {
	rootCmd := &cobra.Command{
		Use:   "campusdesk",
		Short: "CampusDesk - campus help desk service",
		Long:  `CampusDesk runs the support ticket and doubt resolution workflow, with migration and role administration commands.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		roles.NewCommand(),
		token.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
