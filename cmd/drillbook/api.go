package main

import (
	"github.com/spf13/cobra"

	"github.com/drillbook/drillbook/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running Drillbook server via HTTP.

These commands require a running server (drillbook serve).
Use --server to specify a custom server URL.

Examples:
  drillbook api health                  # Check server health
  drillbook api ingest plan.pdf         # Upload and extract a PDF
  drillbook api sessions list           # List extracted session plans
  drillbook api sessions get <id>       # Get a session plan`,
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Session plan commands",
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8002", "Server URL",
	)

	// Health endpoints at top level of api
	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.ReadyEndpoint{}).Command(getServerURL))

	// Ingest at top level of api
	apiCmd.AddCommand((&endpoints.IngestEndpoint{}).Command(getServerURL))

	// Sessions as subcommand group
	sessionsCmd.AddCommand((&endpoints.ListSessionsEndpoint{}).Command(getServerURL))
	sessionsCmd.AddCommand((&endpoints.GetSessionEndpoint{}).Command(getServerURL))
	sessionsCmd.AddCommand((&endpoints.UpdateSessionEndpoint{}).Command(getServerURL))
	sessionsCmd.AddCommand((&endpoints.ListDrillsEndpoint{}).Command(getServerURL))
	sessionsCmd.AddCommand((&endpoints.GetDrillEndpoint{}).Command(getServerURL))

	apiCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(apiCmd)
}
