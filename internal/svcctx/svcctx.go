// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/drillbook/drillbook/internal/home"
	"github.com/drillbook/drillbook/internal/indexer"
	"github.com/drillbook/drillbook/internal/ingest"
	"github.com/drillbook/drillbook/internal/metrics"
	"github.com/drillbook/drillbook/internal/pipeline"
	"github.com/drillbook/drillbook/internal/store"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Store     store.Store
	Processor *pipeline.Processor
	Saver     *ingest.Saver
	Indexer   *indexer.Client
	Metrics   *metrics.Recorder
	Home      *home.Dir
	Logger    *slog.Logger
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// StoreFrom extracts the plan store from context.
func StoreFrom(ctx context.Context) store.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Store
	}
	return nil
}

// ProcessorFrom extracts the extraction pipeline from context.
func ProcessorFrom(ctx context.Context) *pipeline.Processor {
	if s := ServicesFrom(ctx); s != nil {
		return s.Processor
	}
	return nil
}

// SaverFrom extracts the upload saver from context.
func SaverFrom(ctx context.Context) *ingest.Saver {
	if s := ServicesFrom(ctx); s != nil {
		return s.Saver
	}
	return nil
}

// IndexerFrom extracts the visual retrieval indexer from context.
func IndexerFrom(ctx context.Context) *indexer.Client {
	if s := ServicesFrom(ctx); s != nil {
		return s.Indexer
	}
	return nil
}

// MetricsFrom extracts the metrics recorder from context.
func MetricsFrom(ctx context.Context) *metrics.Recorder {
	if s := ServicesFrom(ctx); s != nil {
		return s.Metrics
	}
	return nil
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}
