package diagram

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drillbook/drillbook/internal/metrics"
	"github.com/drillbook/drillbook/internal/vlm"
)

// writeTestImage writes a plain white PNG so marker detection finds
// nothing and the model script fully determines the extraction.
func writeTestImage(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.White)
		}
	}
	path := filepath.Join(t.TempDir(), "diagram_001.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestClassifyParsesReply(t *testing.T) {
	backend := vlm.NewMockBackend(`{"is_diagram": true, "description": "4v2 rondo"}`)
	e := NewExtractor(backend, Config{})

	got, err := e.Classify(context.Background(), "diagram_001", writeTestImage(t))
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsDiagram || got.Description != "4v2 rondo" {
		t.Errorf("classification = %+v", got)
	}
}

func TestClassifyRetriesWithNoThinkPrompt(t *testing.T) {
	backend := vlm.NewMockBackend(
		"<think>hmm, let me reason about this image",
		`{"is_diagram": false, "description": "team photo"}`,
	)
	e := NewExtractor(backend, Config{})

	got, err := e.Classify(context.Background(), "diagram_001", writeTestImage(t))
	if err != nil {
		t.Fatal(err)
	}
	if got.IsDiagram {
		t.Errorf("classification = %+v, want non-diagram", got)
	}

	calls := backend.Calls()
	if len(calls) != 2 {
		t.Fatalf("got %d calls, want 2", len(calls))
	}
	if strings.Contains(calls[0].SystemPrompt, noThinkSuffix) {
		t.Error("first attempt should use the plain system prompt")
	}
	if !strings.Contains(calls[1].SystemPrompt, noThinkSuffix) {
		t.Error("retry should suppress think tags in the system prompt")
	}
}

func TestClassifyKeywordFallback(t *testing.T) {
	// Both attempts return prose with no JSON at all.
	backend := vlm.NewMockBackend("This is a photograph of a stadium crowd.")
	e := NewExtractor(backend, Config{})

	got, err := e.Classify(context.Background(), "diagram_001", writeTestImage(t))
	if err != nil {
		t.Fatal(err)
	}
	if got.IsDiagram {
		t.Error("photograph description should classify as non-diagram")
	}
	if got.Description == "" {
		t.Error("fallback should keep the raw description text")
	}
}

func TestClassifyAllMarksFailuresAsNonDiagrams(t *testing.T) {
	backend := vlm.NewMockBackend().FailWith(context.DeadlineExceeded)
	e := NewExtractor(backend, Config{})

	results := e.ClassifyAll(context.Background(), map[string]string{
		"diagram_001": writeTestImage(t),
	})
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results["diagram_001"].IsDiagram {
		t.Error("failed classification should default to non-diagram")
	}
}

// extractionScript answers every pass with the same object; each pass picks
// out only its own key, so concurrent scheduling does not matter.
const extractionScript = `{
  "players": [{"label": "A1", "x": 30, "y": 40, "color": "red", "role": "att"}],
  "arrows": [{"start_x": 30, "start_y": 40, "end_x": 60, "end_y": 70, "arrow_type": "run"}],
  "equipment": [{"equipment_type": "cone", "x": 10, "y": 10}],
  "goals": [{"x": 50, "y": 100, "goal_type": "full_goal"}],
  "pitch_view": {"view_type": "half_pitch"}
}`

func TestExtractMergesAllPasses(t *testing.T) {
	backend := vlm.NewMockBackend(extractionScript)
	rec := metrics.NewRecorder()
	e := NewExtractor(backend, Config{Recorder: rec})
	e.DocumentID = "doc-1"

	ext, err := e.Extract(context.Background(), "diagram_001", writeTestImage(t),
		Classification{IsDiagram: true, Description: "passing drill"})
	if err != nil {
		t.Fatal(err)
	}

	if ext.Description != "passing drill" {
		t.Errorf("description = %q", ext.Description)
	}
	if len(ext.Players) != 1 || ext.Players[0].Label != "A1" {
		t.Errorf("players = %+v", ext.Players)
	}
	if ext.Players[0].Role == nil || *ext.Players[0].Role != "attacker" {
		t.Errorf("role not standardized: %+v", ext.Players[0].Role)
	}
	if len(ext.Arrows) != 1 || len(ext.Equipment) != 1 || len(ext.Goals) != 1 {
		t.Errorf("arrows=%d equipment=%d goals=%d, want 1 each",
			len(ext.Arrows), len(ext.Equipment), len(ext.Goals))
	}
	if ext.PitchView == nil || ext.PitchView.ViewType != "half_pitch" {
		t.Errorf("pitch view = %+v", ext.PitchView)
	}
	if ext.CV == nil {
		t.Error("extraction should carry detector results until reconciled")
	}
	if ext.Balls == nil || ext.Zones == nil {
		t.Error("balls and zones must be empty lists, not nil")
	}

	sum := rec.DocumentSummary("doc-1")
	if sum.Calls != 4 {
		t.Errorf("recorded %d calls, want 4", sum.Calls)
	}
}

func TestExtractCachesByImageContent(t *testing.T) {
	backend := vlm.NewMockBackend(extractionScript)
	e := NewExtractor(backend, Config{})
	path := writeTestImage(t)
	c := Classification{IsDiagram: true, Description: "drill"}

	first, err := e.Extract(context.Background(), "diagram_001", path, c)
	if err != nil {
		t.Fatal(err)
	}
	callsAfterFirst := len(backend.Calls())

	second, err := e.Extract(context.Background(), "diagram_002", path, c)
	if err != nil {
		t.Fatal(err)
	}
	if len(backend.Calls()) != callsAfterFirst {
		t.Error("second extraction of identical image should not hit the backend")
	}

	// The cached copy must survive the caller reconciling its result.
	Reconcile(second)
	if second.CV != nil {
		t.Fatal("reconcile should consume detector data")
	}
	third, err := e.Extract(context.Background(), "diagram_003", path, c)
	if err != nil {
		t.Fatal(err)
	}
	if third.CV == nil {
		t.Error("cache entry was corrupted by a caller mutation")
	}
	if len(first.Players) != len(third.Players) {
		t.Errorf("cache returned different players: %d vs %d", len(first.Players), len(third.Players))
	}
}

func TestExtractAllSkipsNonDiagrams(t *testing.T) {
	backend := vlm.NewMockBackend(extractionScript)
	e := NewExtractor(backend, Config{})
	path := writeTestImage(t)

	results := e.ExtractAll(context.Background(),
		map[string]string{"cover": path, "diagram_001": path},
		map[string]Classification{
			"cover":       {IsDiagram: false, Description: "book cover"},
			"diagram_001": {IsDiagram: true, Description: "drill"},
		})

	if _, ok := results["cover"]; ok {
		t.Error("non-diagram should be skipped")
	}
	if _, ok := results["diagram_001"]; !ok {
		t.Error("confirmed diagram missing from results")
	}
}
