package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/drillbook/drillbook/internal/api"
	"github.com/drillbook/drillbook/internal/config"
	"github.com/drillbook/drillbook/internal/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <pdf>",
	Short: "Extract a session plan from a local PDF",
	Long: `Run the extraction pipeline on a local PDF without a running server.

The PDF is validated, decomposed via the decomposition service, run
through diagram extraction, and the resulting session plan is printed.
When a Postgres DSN is configured the plan is also stored.

Examples:
  drillbook ingest plans/pressing-session.pdf
  drillbook ingest plans/pressing-session.pdf -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()

		services, err := buildServices(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if services.Store != nil {
				services.Store.Close()
			}
		}()

		src, err := os.Open(args[0])
		if err != nil {
			return err
		}
		saved, err := services.Saver.Save(ingest.Request{
			Filename: filepath.Base(args[0]),
			Reader:   src,
			MaxBytes: cfg.Uploads.MaxBytes,
		})
		src.Close()
		if err != nil {
			return err
		}

		result, err := services.Processor.Process(ctx, saved.PDFPath)
		if err != nil {
			services.Saver.Discard(saved)
			return err
		}

		return api.Output(result)
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
