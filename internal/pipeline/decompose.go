// Package pipeline orchestrates the full extraction flow for one PDF:
// decompose, classify and extract diagrams, segment the markdown, enrich
// with tactical context, store, and index.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Document is the decomposition result: markdown text, extracted images in
// document order keyed "diagram_000"-style, and counts.
type Document struct {
	Markdown  string            `json:"markdown"`
	Images    map[string]string `json:"images"`
	PageCount int               `json:"page_count"`
	Tables    []string          `json:"tables"`
}

// Decomposer turns a PDF into a Document. The HTTP implementation calls an
// external layout-analysis service; tests substitute their own.
type Decomposer interface {
	Decompose(ctx context.Context, pdfPath, outputDir string) (*Document, error)
}

// DecomposeClient calls a docling-style decomposition service that shares
// a filesystem with this process: the request carries paths, the service
// writes extracted images to outputDir and returns their locations.
type DecomposeClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewDecomposeClient creates a client for the service at baseURL.
func NewDecomposeClient(baseURL string, timeout time.Duration) *DecomposeClient {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &DecomposeClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type decomposeRequest struct {
	PDFPath   string `json:"pdf_path"`
	OutputDir string `json:"output_dir"`
}

func (c *DecomposeClient) Decompose(ctx context.Context, pdfPath, outputDir string) (*Document, error) {
	body, err := json.Marshal(decomposeRequest{PDFPath: pdfPath, OutputDir: outputDir})
	if err != nil {
		return nil, fmt.Errorf("encoding decompose request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/decompose", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building decompose request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling decomposition service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("decomposition service returned %d", resp.StatusCode)
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding decompose response: %w", err)
	}
	if doc.Images == nil {
		doc.Images = map[string]string{}
	}
	return &doc, nil
}
