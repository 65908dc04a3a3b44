// Package indexer is a best-effort client for the visual-retrieval
// indexing service. Indexing improves search but is never allowed to fail
// an ingestion: every error path logs and reports not-indexed.
package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// DefaultTimeout is long because indexing embeds every page of the PDF.
const DefaultTimeout = 5 * time.Minute

// Client talks to the indexing service. A nil or unconfigured client is
// valid and reports every document as not indexed.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	mu      sync.Mutex
	indexed int
}

// New creates a client for the service at baseURL. An empty baseURL
// disables indexing.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Enabled reports whether a service URL is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// Indexed returns how many documents this process has indexed.
func (c *Client) Indexed() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexed
}

type indexRequest struct {
	PDFPath  string `json:"pdf_path"`
	PlanID   string `json:"plan_id"`
	Filename string `json:"filename"`
}

type indexResponse struct {
	DocID   int    `json:"doc_id"`
	PlanID  string `json:"plan_id"`
	Indexed bool   `json:"indexed"`
}

// Index submits a PDF for visual indexing. The returned bool is the only
// signal; failures are logged, never propagated.
func (c *Client) Index(ctx context.Context, pdfPath, planID, filename string) bool {
	if !c.Enabled() {
		return false
	}

	body, err := json.Marshal(indexRequest{PDFPath: pdfPath, PlanID: planID, Filename: filename})
	if err != nil {
		c.logger.Error("encoding index request", "error", err)
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/index", bytes.NewReader(body))
	if err != nil {
		c.logger.Error("building index request", "error", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("indexing service unreachable", "plan_id", planID, "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("indexing service rejected document",
			"plan_id", planID, "status", resp.StatusCode)
		return false
	}

	var ir indexResponse
	if err := json.NewDecoder(resp.Body).Decode(&ir); err != nil {
		c.logger.Warn("decoding index response", "plan_id", planID, "error", err)
		return false
	}
	if !ir.Indexed {
		c.logger.Warn("indexing service reported failure", "plan_id", planID)
		return false
	}

	c.mu.Lock()
	c.indexed++
	count := c.indexed
	c.mu.Unlock()
	c.logger.Info("indexed document",
		"plan_id", planID, "doc_id", ir.DocID, "total_indexed", count)
	return true
}
