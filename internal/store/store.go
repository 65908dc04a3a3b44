// Package store persists session plans. The canonical implementation
// writes to PostgreSQL; Memory backs unit tests. Plans are stored as a
// raw JSON document plus denormalized columns for listing and search, so
// a Get returns exactly what Upsert wrote.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/drillbook/drillbook/internal/plan"
)

// ErrNotFound is returned when no plan exists for the requested ID.
var ErrNotFound = errors.New("session plan not found")

// Summary is one row of a plan listing.
type Summary struct {
	ID                  uuid.UUID `json:"id"`
	Title               string    `json:"title"`
	Category            *string   `json:"category,omitempty"`
	Difficulty          *string   `json:"difficulty,omitempty"`
	Author              *string   `json:"author,omitempty"`
	SourceFilename      string    `json:"source_filename"`
	ExtractionTimestamp time.Time `json:"extraction_timestamp"`
	CreatedAt           time.Time `json:"created_at"`
}

// Store abstracts plan persistence. Upsert replaces an existing plan with
// the same ID, including its drill rows.
type Store interface {
	Upsert(ctx context.Context, p *plan.SessionPlan) error
	Get(ctx context.Context, id uuid.UUID) (*plan.SessionPlan, error)
	List(ctx context.Context, limit, offset int) ([]Summary, error)
	Close()
}
