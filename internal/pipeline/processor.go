package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/drillbook/drillbook/internal/diagram"
	"github.com/drillbook/drillbook/internal/indexer"
	"github.com/drillbook/drillbook/internal/plan"
	"github.com/drillbook/drillbook/internal/segment"
	"github.com/drillbook/drillbook/internal/store"
)

// Processor runs the end-to-end extraction for one PDF. Store and indexer
// are optional; a nil store skips persistence and a nil indexer reports
// every document as not indexed.
type Processor struct {
	Decomposer Decomposer
	Extractor  *diagram.Extractor
	Store      store.Store
	Indexer    *indexer.Client
	Segment    segment.Options
	Logger     *slog.Logger
}

// Result is the outcome of processing one document.
type Result struct {
	Plan    *plan.SessionPlan `json:"session_plan"`
	Indexed bool              `json:"indexed"`
}

// Process runs the pipeline: decompose the PDF, classify every extracted
// image, run structured extraction on confirmed diagrams, reconcile each
// against its detector findings, segment the markdown into drills with
// diagrams assigned in document order, enrich, store, and index. Images
// run sequentially; only the per-image passes fan out.
func (p *Processor) Process(ctx context.Context, pdfPath string) (*Result, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	filename := filepath.Base(pdfPath)
	logger.Info("processing document", "file", filename)

	outputDir := filepath.Join(filepath.Dir(pdfPath), "images")
	doc, err := p.Decomposer.Decompose(ctx, pdfPath, outputDir)
	if err != nil {
		return nil, fmt.Errorf("decomposing %s: %w", filename, err)
	}
	logger.Info("decomposition complete",
		"file", filename, "images", len(doc.Images), "pages", doc.PageCount)

	classifications := p.Extractor.ClassifyAll(ctx, doc.Images)
	extractions := p.Extractor.ExtractAll(ctx, doc.Images, classifications)
	for _, ext := range extractions {
		diagram.Reconcile(ext)
	}

	sessionPlan := segment.BuildPlan(doc.Markdown, doc.Images, classifications,
		extractions, filename, doc.PageCount, p.Segment)
	Enrich(&sessionPlan, logger)

	if p.Store != nil {
		if err := p.Store.Upsert(ctx, &sessionPlan); err != nil {
			return nil, fmt.Errorf("storing plan %s: %w", sessionPlan.ID, err)
		}
	}

	result := &Result{Plan: &sessionPlan}
	if p.Indexer.Enabled() {
		result.Indexed = p.Indexer.Index(ctx, pdfPath, sessionPlan.ID.String(), filename)
	}

	logger.Info("document processed",
		"file", filename,
		"plan_id", sessionPlan.ID,
		"drills", len(sessionPlan.Drills),
		"indexed", result.Indexed)
	return result, nil
}

// Reprocess re-runs enrichment on an edited plan and stores the result,
// backing plan updates through the API.
func (p *Processor) Reprocess(ctx context.Context, sessionPlan *plan.SessionPlan) error {
	sessionPlan.Normalize()
	Enrich(sessionPlan, p.Logger)
	if p.Store == nil {
		return nil
	}
	return p.Store.Upsert(ctx, sessionPlan)
}
