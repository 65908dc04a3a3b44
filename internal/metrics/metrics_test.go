package metrics

import (
	"sync"
	"testing"
)

func TestRecordStampsCreatedAt(t *testing.T) {
	r := NewRecorder()
	r.Record(Call{DocumentID: "doc", Stage: "classify", Success: true})

	calls := r.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	if calls[0].CreatedAt.IsZero() {
		t.Error("CreatedAt not stamped")
	}
}

func TestDocumentSummaryAggregates(t *testing.T) {
	r := NewRecorder()
	r.Record(Call{DocumentID: "a", Stage: "players", PromptTokens: 100, CompletionTokens: 50, ExecutionSeconds: 1.5, Success: true})
	r.Record(Call{DocumentID: "a", Stage: "arrows", PromptTokens: 80, CompletionTokens: 20, ExecutionSeconds: 0.5, Success: true, Retried: true})
	r.Record(Call{DocumentID: "a", Stage: "equipment", Success: false})
	r.Record(Call{DocumentID: "b", Stage: "players", PromptTokens: 999, Success: true})

	s := r.DocumentSummary("a")
	if s.Calls != 3 {
		t.Errorf("Calls = %d, want 3", s.Calls)
	}
	if s.Failures != 1 {
		t.Errorf("Failures = %d, want 1", s.Failures)
	}
	if s.Retries != 1 {
		t.Errorf("Retries = %d, want 1", s.Retries)
	}
	if s.PromptTokens != 180 || s.CompletionTokens != 70 {
		t.Errorf("tokens = %d/%d", s.PromptTokens, s.CompletionTokens)
	}
	if s.ExecutionSeconds != 2.0 {
		t.Errorf("ExecutionSeconds = %v", s.ExecutionSeconds)
	}

	if other := r.DocumentSummary("missing"); other.Calls != 0 {
		t.Errorf("missing doc summary = %+v", other)
	}
}

func TestRecorderConcurrentUse(t *testing.T) {
	r := NewRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				r.Record(Call{DocumentID: "doc", Success: true})
			}
		}()
	}
	wg.Wait()

	if got := r.DocumentSummary("doc").Calls; got != 400 {
		t.Errorf("calls = %d, want 400", got)
	}
}

func TestCallsReturnsCopy(t *testing.T) {
	r := NewRecorder()
	r.Record(Call{DocumentID: "doc"})

	calls := r.Calls()
	calls[0].DocumentID = "mutated"
	if r.Calls()[0].DocumentID != "doc" {
		t.Error("Calls must return an independent copy")
	}
}
