package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/drillbook/drillbook/internal/api"
	"github.com/drillbook/drillbook/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "drillbook",
	Short: "Soccer session plan extraction from coaching PDFs",
	Long: `Drillbook turns coaching session plan PDFs into structured data.

The pipeline includes:
  - PDF decomposition into markdown and diagram images
  - Computer vision marker detection on diagrams
  - Multi-pass vision-language model extraction with cross-validation
  - Drill segmentation and tactical enrichment
  - Postgres storage and a visual retrieval index`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.drillbook/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "drillbook home directory (default: ~/.drillbook)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Load .env and set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
