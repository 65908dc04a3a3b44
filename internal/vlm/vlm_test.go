package vlm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOllamaChatCompletion(t *testing.T) {
	var got ollamaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q, want /api/chat", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"model":             "qwen2.5vl:32b",
			"message":           map[string]string{"role": "assistant", "content": `{"ok": true}`},
			"eval_count":        42,
			"prompt_eval_count": 100,
		})
	}))
	defer srv.Close()

	b := NewOllamaBackend(OllamaConfig{BaseURL: srv.URL, Model: "qwen2.5vl:32b"})
	resp, err := b.ChatCompletion(context.Background(), Request{
		Image:        []byte{0x89, 0x50, 0x4e, 0x47},
		SystemPrompt: "You analyze diagrams.",
		UserPrompt:   "List the players.",
		MaxTokens:    512,
		Temperature:  0.1,
		JSONMode:     true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if resp.Content != `{"ok": true}` {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.Model != "qwen2.5vl:32b" {
		t.Errorf("model = %q", resp.Model)
	}
	if resp.Usage.PromptTokens != 100 || resp.Usage.CompletionTokens != 42 {
		t.Errorf("usage = %+v", resp.Usage)
	}

	if got.Model != "qwen2.5vl:32b" {
		t.Errorf("request model = %q", got.Model)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(got.Messages))
	}
	if got.Messages[0].Role != "system" || got.Messages[0].Content != "You analyze diagrams." {
		t.Errorf("system message = %+v", got.Messages[0])
	}
	user := got.Messages[1]
	if user.Role != "user" || user.Content != "List the players." {
		t.Errorf("user message = %+v", user)
	}
	if len(user.Images) != 1 {
		t.Fatalf("got %d images, want 1", len(user.Images))
	}
	img, err := base64.StdEncoding.DecodeString(user.Images[0])
	if err != nil || string(img) != "\x89PNG" {
		t.Errorf("image payload = %q, %v", user.Images[0], err)
	}
	if got.Think || got.Stream {
		t.Errorf("think = %v, stream = %v, want both false", got.Think, got.Stream)
	}
	if got.Format != "json" {
		t.Errorf("format = %q, want json", got.Format)
	}
	if got.Options.NumPredict != 512 || got.Options.Temperature != 0.1 {
		t.Errorf("options = %+v", got.Options)
	}
}

func TestOllamaErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	b := NewOllamaBackend(OllamaConfig{BaseURL: srv.URL, Model: "missing"})
	_, err := b.ChatCompletion(context.Background(), Request{UserPrompt: "hi"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error = %v, want status in message", err)
	}
}

func TestOpenAIChatCompletion(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("path = %q, want chat/completions", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": "two teams of four"},
			}},
			"usage": map[string]any{"prompt_tokens": 200, "completion_tokens": 30},
		})
	}))
	defer srv.Close()

	b := NewOpenAIBackend(OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "gpt-4o",
	})
	resp, err := b.ChatCompletion(context.Background(), Request{
		Image:        []byte("img"),
		SystemPrompt: "sys",
		UserPrompt:   "describe",
		MaxTokens:    256,
	})
	if err != nil {
		t.Fatal(err)
	}

	if resp.Content != "two teams of four" {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.Usage.PromptTokens != 200 || resp.Usage.CompletionTokens != 30 {
		t.Errorf("usage = %+v", resp.Usage)
	}

	if gotBody["model"] != "gpt-4o" {
		t.Errorf("request model = %v", gotBody["model"])
	}
	msgs, ok := gotBody["messages"].([]any)
	if !ok || len(msgs) != 2 {
		t.Fatalf("messages = %v", gotBody["messages"])
	}
	// The image travels as a data URL inside the user content parts.
	raw, _ := json.Marshal(msgs[1])
	if !strings.Contains(string(raw), "data:image/png;base64,"+base64.StdEncoding.EncodeToString([]byte("img"))) {
		t.Errorf("user message missing image data URL: %s", raw)
	}
}

func TestBackendNames(t *testing.T) {
	if n := NewOllamaBackend(OllamaConfig{}).Name(); n != OllamaName {
		t.Errorf("ollama name = %q", n)
	}
	if n := NewOpenAIBackend(OpenAIConfig{}).Name(); n != OpenAIName {
		t.Errorf("openai name = %q", n)
	}
	if n := NewMockBackend().Name(); n != "mock" {
		t.Errorf("mock name = %q", n)
	}
}

func TestMockBackendScript(t *testing.T) {
	m := NewMockBackend("first", "second")
	ctx := context.Background()

	for i, want := range []string{"first", "second", "second", "second"} {
		resp, err := m.ChatCompletion(ctx, Request{UserPrompt: "p"})
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if resp.Content != want {
			t.Errorf("call %d content = %q, want %q", i, resp.Content, want)
		}
	}
	if len(m.Calls()) != 4 {
		t.Errorf("calls = %d, want 4", len(m.Calls()))
	}
}

func TestMockBackendFailWith(t *testing.T) {
	boom := errors.New("backend down")
	m := NewMockBackend("ok").FailWith(boom)
	ctx := context.Background()

	if _, err := m.ChatCompletion(ctx, Request{}); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := m.ChatCompletion(ctx, Request{}); !errors.Is(err, boom) {
		t.Errorf("second call err = %v, want scripted failure", err)
	}

	empty := NewMockBackend()
	if _, err := empty.ChatCompletion(ctx, Request{}); err == nil {
		t.Error("empty script must error")
	}
}
