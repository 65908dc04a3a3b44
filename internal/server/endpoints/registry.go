package endpoints

import (
	"github.com/drillbook/drillbook/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	// MaxUploadBytes caps PDF upload size for the ingest endpoint.
	MaxUploadBytes int64
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},

		// Ingest endpoint
		&IngestEndpoint{MaxBytes: cfg.MaxUploadBytes},

		// Session endpoints
		&ListSessionsEndpoint{},
		&GetSessionEndpoint{},
		&UpdateSessionEndpoint{},

		// Drill endpoints
		&ListDrillsEndpoint{},
		&GetDrillEndpoint{},
	}
}
