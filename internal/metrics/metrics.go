// Package metrics provides in-process usage tracking for VLM calls.
// Records are append-only and aggregated per document so operators can see
// what a single PDF cost in tokens and wall time.
package metrics

import (
	"sync"
	"time"
)

// Call is a single recorded VLM invocation.
type Call struct {
	// Attribution
	DocumentID string `json:"document_id,omitempty"`
	Stage      string `json:"stage,omitempty"`    // "classify", "players", "arrows", ...
	ItemKey    string `json:"item_key,omitempty"` // image key, e.g. "diagram_003"

	// Provider info
	Backend string `json:"backend,omitempty"`
	Model   string `json:"model,omitempty"`

	// Tokens and timing
	PromptTokens     int     `json:"prompt_tokens,omitempty"`
	CompletionTokens int     `json:"completion_tokens,omitempty"`
	ExecutionSeconds float64 `json:"execution_seconds,omitempty"`

	// Status
	Success   bool `json:"success"`
	Retried   bool `json:"retried,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Summary aggregates calls for one attribution scope.
type Summary struct {
	Calls            int     `json:"calls"`
	Failures         int     `json:"failures"`
	Retries          int     `json:"retries"`
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	ExecutionSeconds float64 `json:"execution_seconds"`
}

// Recorder collects calls. Safe for concurrent use; extraction passes for
// one image record from multiple goroutines.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends one call, stamping CreatedAt if unset.
func (r *Recorder) Record(c Call) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
}

// Calls returns a copy of all recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// DocumentSummary aggregates all calls attributed to one document.
func (r *Recorder) DocumentSummary(documentID string) Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	var s Summary
	for _, c := range r.calls {
		if c.DocumentID != documentID {
			continue
		}
		s.Calls++
		if !c.Success {
			s.Failures++
		}
		if c.Retried {
			s.Retries++
		}
		s.PromptTokens += c.PromptTokens
		s.CompletionTokens += c.CompletionTokens
		s.ExecutionSeconds += c.ExecutionSeconds
	}
	return s
}
