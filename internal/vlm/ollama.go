package vlm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const OllamaName = "ollama"

// OllamaConfig holds configuration for the Ollama backend.
type OllamaConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
	// RPS throttles outgoing calls. Local inference servers handle one
	// request at a time; the default of 0 disables throttling.
	RPS        float64
	HTTPClient *http.Client // optional (tests)
}

// OllamaBackend talks to a local Ollama instance via its native /api/chat
// endpoint, which exposes think-suppression and JSON output constraints.
type OllamaBackend struct {
	baseURL string
	model   string
	client  *http.Client
	limiter *rate.Limiter
}

// NewOllamaBackend creates an Ollama VLM backend.
func NewOllamaBackend(cfg OllamaConfig) *OllamaBackend {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	var limiter *rate.Limiter
	if cfg.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), 1)
	}
	return &OllamaBackend{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		client:  client,
		limiter: limiter,
	}
}

// Name returns the backend identifier.
func (b *OllamaBackend) Name() string { return OllamaName }

type ollamaMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Options  struct {
		Temperature float64 `json:"temperature"`
		NumPredict  int     `json:"num_predict"`
	} `json:"options"`
	Think  bool   `json:"think"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}

type ollamaResponse struct {
	Model   string `json:"model"`
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	EvalCount       int `json:"eval_count"`
	PromptEvalCount int `json:"prompt_eval_count"`
}

// ChatCompletion sends one image + prompts to Ollama and returns the raw
// text content.
func (b *OllamaBackend) ChatCompletion(ctx context.Context, req Request) (*Response, error) {
	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	oreq := ollamaRequest{
		Model: b.model,
		Messages: []ollamaMessage{
			{Role: "system", Content: req.SystemPrompt},
			{
				Role:    "user",
				Content: req.UserPrompt,
				Images:  []string{base64.StdEncoding.EncodeToString(req.Image)},
			},
		},
		// Chain-of-thought blocks burn the token budget before the JSON
		// appears; keep them off at the protocol level too.
		Think:  false,
		Stream: false,
	}
	oreq.Options.Temperature = req.Temperature
	oreq.Options.NumPredict = req.MaxTokens
	if req.JSONMode {
		oreq.Format = "json"
	}

	body, err := json.Marshal(oreq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodPost, b.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read ollama response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status %d: %s",
			resp.StatusCode, truncate(string(respBody), 200))
	}

	var oresp ollamaResponse
	if err := json.Unmarshal(respBody, &oresp); err != nil {
		return nil, fmt.Errorf("failed to decode ollama response: %w", err)
	}

	return &Response{
		Content: oresp.Message.Content,
		Model:   oresp.Model,
		Usage: Usage{
			PromptTokens:     oresp.PromptEvalCount,
			CompletionTokens: oresp.EvalCount,
		},
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
