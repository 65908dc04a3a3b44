package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/drillbook/drillbook/internal/config"
	"github.com/drillbook/drillbook/internal/diagram"
	"github.com/drillbook/drillbook/internal/home"
	"github.com/drillbook/drillbook/internal/indexer"
	"github.com/drillbook/drillbook/internal/ingest"
	"github.com/drillbook/drillbook/internal/metrics"
	"github.com/drillbook/drillbook/internal/pipeline"
	"github.com/drillbook/drillbook/internal/segment"
	"github.com/drillbook/drillbook/internal/server"
	"github.com/drillbook/drillbook/internal/store"
	"github.com/drillbook/drillbook/internal/svcctx"
	"github.com/drillbook/drillbook/internal/vlm"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Drillbook server",
	Long: `Start the Drillbook HTTP server.

The server provides:
  - POST /api/ingest                       - Upload and extract a session plan PDF
  - GET  /api/sessions                     - List extracted session plans
  - GET  /api/sessions/{id}                - Get a session plan
  - PUT  /api/sessions/{id}                - Replace and re-enrich a session plan
  - GET  /api/sessions/{id}/drills         - List drills within a plan
  - GET  /api/sessions/{id}/drills/{index} - Get a single drill
  - GET  /health, /ready                   - Health checks

Examples:
  drillbook serve                    # Start on the configured port
  drillbook serve --port 3000        # Start on a custom port
  drillbook serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cm.WatchConfig()
		cfg := cm.Get()

		services, err := buildServices(ctx, cfg, logger)
		if err != nil {
			return err
		}

		host := cfg.Server.Host
		if serveHost != "" {
			host = serveHost
		}
		port := cfg.Server.Port
		if servePort != 0 {
			port = servePort
		}

		srv, err := server.New(server.Config{
			Host:           host,
			Port:           port,
			MaxUploadBytes: cfg.Uploads.MaxBytes,
			Services:       services,
			Logger:         logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

// buildServices wires the extraction pipeline from configuration.
func buildServices(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*svcctx.Services, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}
	if err := h.EnsureExists(); err != nil {
		return nil, err
	}

	var backend vlm.Backend
	switch cfg.VLM.Backend {
	case "openai":
		backend = vlm.NewOpenAIBackend(vlm.OpenAIConfig{
			APIKey:  cfg.ResolvedAPIKey(),
			BaseURL: cfg.VLM.BaseURL,
			Model:   cfg.VLM.Model,
			Timeout: time.Duration(cfg.VLM.TimeoutSeconds) * time.Second,
			RPS:     cfg.VLM.RateLimit,
		})
	case "ollama", "":
		backend = vlm.NewOllamaBackend(vlm.OllamaConfig{
			BaseURL: cfg.VLM.BaseURL,
			Model:   cfg.VLM.Model,
			Timeout: time.Duration(cfg.VLM.TimeoutSeconds) * time.Second,
			RPS:     cfg.VLM.RateLimit,
		})
	default:
		return nil, fmt.Errorf("unknown vlm backend %q", cfg.VLM.Backend)
	}

	recorder := metrics.NewRecorder()
	extractor := diagram.NewExtractor(backend, diagram.Config{
		MaxTokensClassify: cfg.VLM.MaxTokensClassify,
		MaxTokensExtract:  cfg.VLM.MaxTokensExtract,
		CacheSize:         cfg.VLM.CacheSize,
		Recorder:          recorder,
		Logger:            logger,
	})

	services := &svcctx.Services{
		Metrics: recorder,
		Home:    h,
		Logger:  logger,
	}

	if dsn := cfg.ResolvedDSN(); dsn != "" {
		pg, err := store.NewPostgres(ctx, dsn, logger)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		services.Store = pg
	} else {
		logger.Warn("no postgres DSN configured, plans will not be persisted")
	}

	var idx *indexer.Client
	if cfg.Indexer.URL != "" {
		idx = indexer.New(cfg.Indexer.URL,
			time.Duration(cfg.Indexer.TimeoutSeconds)*time.Second, logger)
	}
	services.Indexer = idx

	uploadsDir := cfg.Uploads.Dir
	if uploadsDir == "" {
		uploadsDir = h.UploadsPath()
	}
	services.Saver = ingest.NewSaver(uploadsDir, logger)

	services.Processor = &pipeline.Processor{
		Decomposer: pipeline.NewDecomposeClient(cfg.Decomposer.URL,
			time.Duration(cfg.Decomposer.TimeoutSeconds)*time.Second),
		Extractor: extractor,
		Store:     services.Store,
		Indexer:   idx,
		Segment:   segmentOptions(cfg),
		Logger:    logger,
	}

	return services, nil
}

func segmentOptions(cfg *config.Config) segment.Options {
	opts := segment.DefaultOptions()
	opts.SplitOnRepeatedSetup = cfg.Segmentation.SplitOnRepeatedSetup
	return opts
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")

	rootCmd.AddCommand(serveCmd)
}
