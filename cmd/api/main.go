package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/redmonkez12/crm-api/docs" // Swagger docs (generated)
	"github.com/redmonkez12/crm-api/internal/config"
	"github.com/redmonkez12/crm-api/internal/logging"
)

// @title           CRM API
// @version         1.0
// @description     CRM backend: user registration and login, and a categories catalog.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "crm-api",
		Short:         "CRM REST API",
		Long:          "REST API for user accounts and the product category catalog.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd := newServeCmd()
	rootCmd.AddCommand(serveCmd, newMigrateCmd())

	// Running without a subcommand starts the server
	rootCmd.RunE = serveCmd.RunE

	return rootCmd
}

// newLogger honors LOG_LEVEL and LOG_FORMAT, falling back to the
// environment's defaults for the format.
func newLogger(cfg *config.Config) *logging.Logger {
	format := cfg.Log.Format
	if format == "" {
		format = "json"
		if cfg.Server.IsDevelopment() {
			format = "text"
		}
	}
	return logging.New(logging.Options{Level: cfg.Log.Level, Format: format})
}
