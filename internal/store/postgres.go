package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	retry "github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drillbook/drillbook/internal/plan"
)

const schema = `
CREATE TABLE IF NOT EXISTS session_plans (
	id UUID PRIMARY KEY,
	title TEXT NOT NULL,
	category TEXT,
	difficulty TEXT,
	author TEXT,
	source_filename TEXT NOT NULL,
	source_page_count INT NOT NULL DEFAULT 0,
	extraction_timestamp TIMESTAMPTZ,
	raw_json JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS drill_blocks (
	id UUID PRIMARY KEY,
	session_plan_id UUID NOT NULL REFERENCES session_plans(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	setup_description TEXT,
	player_count TEXT,
	equipment TEXT[],
	area_dimensions TEXT,
	sequence TEXT[],
	rules TEXT[],
	scoring TEXT[],
	coaching_points TEXT[],
	progressions TEXT[],
	image_ref TEXT,
	diagram_description TEXT,
	raw_json JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS tactical_contexts (
	drill_block_id UUID NOT NULL REFERENCES drill_blocks(id) ON DELETE CASCADE,
	methodology TEXT,
	game_element TEXT,
	lanes TEXT[],
	situation_type TEXT
);

CREATE INDEX IF NOT EXISTS session_plans_created_at_idx
	ON session_plans (created_at DESC);
`

// Postgres is the pgx-backed store.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgres connects to the database and ensures the schema exists. It
// waits briefly for the database to come up, which covers compose-style
// startups where the service races the database.
func NewPostgres(ctx context.Context, dsn string, logger *slog.Logger) (*Postgres, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}

	err = retry.Do(
		func() error { return pool.Ping(ctx) },
		retry.Attempts(5),
		retry.Delay(time.Second),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &Postgres{pool: pool, logger: logger}, nil
}

// Close releases the connection pool.
func (s *Postgres) Close() {
	s.pool.Close()
}

// Upsert stores a plan, replacing any previous version and its drill rows.
func (s *Postgres) Upsert(ctx context.Context, p *plan.SessionPlan) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO session_plans (id, title, category, difficulty, author,
			source_filename, source_page_count, extraction_timestamp, raw_json)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			category = EXCLUDED.category,
			difficulty = EXCLUDED.difficulty,
			author = EXCLUDED.author,
			raw_json = EXCLUDED.raw_json,
			updated_at = NOW()`,
		p.ID, p.Metadata.Title, p.Metadata.Category, p.Metadata.Difficulty,
		p.Metadata.Author, p.Source.Filename, p.Source.PageCount,
		p.Source.ExtractionTimestamp, raw)
	if err != nil {
		return fmt.Errorf("upserting plan: %w", err)
	}

	// Drill IDs change on re-extraction, so stale rows are removed rather
	// than upserted around.
	if _, err := tx.Exec(ctx, `DELETE FROM drill_blocks WHERE session_plan_id = $1`, p.ID); err != nil {
		return fmt.Errorf("clearing drill rows: %w", err)
	}

	for i := range p.Drills {
		d := &p.Drills[i]
		drillRaw, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("encoding drill %s: %w", d.ID, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO drill_blocks (id, session_plan_id, name, setup_description,
				player_count, equipment, area_dimensions, sequence, rules, scoring,
				coaching_points, progressions, image_ref, diagram_description, raw_json)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			d.ID, p.ID, d.Name, d.Setup.Description, d.Setup.PlayerCount,
			d.Setup.Equipment, d.Setup.AreaDimensions, d.Sequence, d.Rules,
			d.Scoring, d.CoachingPoints, d.Progressions, d.Diagram.ImageRef,
			d.Diagram.Description, drillRaw)
		if err != nil {
			return fmt.Errorf("inserting drill %s: %w", d.ID, err)
		}

		if tc := d.TacticalContext; tc != nil {
			lanes := make([]string, 0, len(tc.Lanes))
			for _, l := range tc.Lanes {
				lanes = append(lanes, string(l))
			}
			var element, situation *string
			if tc.GameElement != nil {
				e := string(*tc.GameElement)
				element = &e
			}
			if tc.SituationType != nil {
				st := string(*tc.SituationType)
				situation = &st
			}
			_, err = tx.Exec(ctx, `
				INSERT INTO tactical_contexts (drill_block_id, methodology,
					game_element, lanes, situation_type)
				VALUES ($1, $2, $3, $4, $5)`,
				d.ID, tc.Methodology, element, lanes, situation)
			if err != nil {
				return fmt.Errorf("inserting tactical context for %s: %w", d.ID, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing plan: %w", err)
	}
	s.logger.Info("stored session plan", "id", p.ID, "title", p.Metadata.Title, "drills", len(p.Drills))
	return nil
}

// Get fetches a plan by ID from its raw JSON document.
func (s *Postgres) Get(ctx context.Context, id uuid.UUID) (*plan.SessionPlan, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT raw_json FROM session_plans WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching plan: %w", err)
	}
	var p plan.SessionPlan
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decoding plan %s: %w", id, err)
	}
	return &p, nil
}

// List returns plan summaries, newest first.
func (s *Postgres) List(ctx context.Context, limit, offset int) ([]Summary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, category, difficulty, author,
			source_filename, extraction_timestamp, created_at
		FROM session_plans
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Title, &s.Category, &s.Difficulty,
			&s.Author, &s.SourceFilename, &s.ExtractionTimestamp, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
