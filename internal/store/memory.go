package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/drillbook/drillbook/internal/plan"
)

// Memory implements Store in memory for unit tests. Plans round-trip
// through JSON so tests observe the same serialization behavior as the
// Postgres store. Error injection fields exercise failure paths.
type Memory struct {
	mu      sync.RWMutex
	plans   map[uuid.UUID][]byte
	created map[uuid.UUID]time.Time
	order   int
	seq     map[uuid.UUID]int

	// UpsertErr is returned by Upsert when non-nil.
	UpsertErr error
	// GetErr is returned by Get when non-nil.
	GetErr error
	// ListErr is returned by List when non-nil.
	ListErr error
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		plans:   make(map[uuid.UUID][]byte),
		created: make(map[uuid.UUID]time.Time),
		seq:     make(map[uuid.UUID]int),
	}
}

func (m *Memory) Close() {}

func (m *Memory) Upsert(_ context.Context, p *plan.SessionPlan) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.plans[p.ID]; !exists {
		m.created[p.ID] = time.Now().UTC()
		m.order++
		m.seq[p.ID] = m.order
	}
	m.plans[p.ID] = raw
	return nil
}

func (m *Memory) Get(_ context.Context, id uuid.UUID) (*plan.SessionPlan, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.RLock()
	raw, ok := m.plans[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	var p plan.SessionPlan
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (m *Memory) List(_ context.Context, limit, offset int) ([]Summary, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	if limit <= 0 {
		limit = 50
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(m.plans))
	for id := range m.plans {
		ids = append(ids, id)
	}
	// Newest first, matching the Postgres created_at ordering.
	sort.Slice(ids, func(i, j int) bool { return m.seq[ids[i]] > m.seq[ids[j]] })

	summaries := []Summary{}
	for i := offset; i < len(ids) && len(summaries) < limit; i++ {
		var p plan.SessionPlan
		if err := json.Unmarshal(m.plans[ids[i]], &p); err != nil {
			return nil, err
		}
		summaries = append(summaries, Summary{
			ID:                  p.ID,
			Title:               p.Metadata.Title,
			Category:            p.Metadata.Category,
			Difficulty:          p.Metadata.Difficulty,
			Author:              p.Metadata.Author,
			SourceFilename:      p.Source.Filename,
			ExtractionTimestamp: p.Source.ExtractionTimestamp,
			CreatedAt:           m.created[ids[i]],
		})
	}
	return summaries, nil
}
