package vlm

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"golang.org/x/time/rate"
)

const OpenAIName = "openai"

// OpenAIConfig holds configuration for the OpenAI-compatible backend.
// Setting BaseURL points it at any server speaking the chat-completions
// protocol (vLLM, llama.cpp, a hosted gateway).
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	RPS        float64
	HTTPClient *http.Client // optional (tests)
}

// OpenAIBackend implements Backend over the official OpenAI SDK.
type OpenAIBackend struct {
	model   string
	client  openai.Client
	limiter *rate.Limiter
}

// NewOpenAIBackend creates an OpenAI-compatible VLM backend.
func NewOpenAIBackend(cfg OpenAIConfig) *OpenAIBackend {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		// Retry policy lives in the extraction layer, not here.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	var limiter *rate.Limiter
	if cfg.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), 1)
	}

	return &OpenAIBackend{
		model:   cfg.Model,
		client:  openai.NewClient(opts...),
		limiter: limiter,
	}
}

// Name returns the backend identifier.
func (b *OpenAIBackend) Name() string { return OpenAIName }

// ChatCompletion sends one image + prompts through the chat-completions
// API and returns the raw text content.
func (b *OpenAIBackend) ChatCompletion(ctx context.Context, req Request) (*Response, error) {
	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(req.Image)

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(b.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(req.UserPrompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: dataURL,
				}),
			}),
		},
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	params.Temperature = openai.Float(req.Temperature)
	if req.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	completion, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("no choices in chat completion response")
	}

	return &Response{
		Content: completion.Choices[0].Message.Content,
		Model:   completion.Model,
		Usage: Usage{
			PromptTokens:     int(completion.Usage.PromptTokens),
			CompletionTokens: int(completion.Usage.CompletionTokens),
		},
	}, nil
}
