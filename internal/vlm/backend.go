// Package vlm abstracts chat-capable vision-language model backends behind
// a single interface. A backend sends one image plus two prompt strings and
// returns raw text; everything above this layer (retry policy, JSON
// recovery, validation) treats the backend as a fallible black box.
package vlm

import (
	"context"
	"time"
)

// Request is one vision chat-completion call.
type Request struct {
	Image        []byte  // raw encoded image bytes (png/jpeg)
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
	// JSONMode hard-constrains output to JSON syntax where the backend
	// supports it. Use for simple prompts only; complex prompts may come
	// back empty with this on.
	JSONMode bool
}

// Usage carries token accounting when the backend reports it.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Response is the standardized backend response.
type Response struct {
	Content string
	Model   string
	Usage   Usage
}

// Backend is the swappable gateway contract. Implementations make exactly
// one network call per invocation and do not retry internally; retry policy
// lives one layer up.
type Backend interface {
	ChatCompletion(ctx context.Context, req Request) (*Response, error)
	Name() string
}

// DefaultTimeout is generous because local vision models are slow; a
// timeout is handled the same as a parse failure by callers.
const DefaultTimeout = 10 * time.Minute
