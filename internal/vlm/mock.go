package vlm

import (
	"context"
	"fmt"
	"sync"
)

// MockBackend is a scripted Backend for tests. Responses are returned in
// order; when the script runs out, the last entry repeats. A nil response
// entry produces an error, exercising caller retry paths.
type MockBackend struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     []Request
}

// NewMockBackend creates a mock that replies with the given contents in
// order.
func NewMockBackend(responses ...string) *MockBackend {
	return &MockBackend{
		responses: responses,
		errs:      make([]error, len(responses)),
	}
}

// FailWith appends an error reply to the script.
func (m *MockBackend) FailWith(err error) *MockBackend {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, "")
	m.errs = append(m.errs, err)
	return m
}

// Name returns the backend identifier.
func (m *MockBackend) Name() string { return "mock" }

// Calls returns a copy of all requests seen so far.
func (m *MockBackend) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}

// ChatCompletion replays the next scripted response.
func (m *MockBackend) ChatCompletion(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)

	idx := len(m.calls) - 1
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	if idx < 0 {
		return nil, fmt.Errorf("mock backend has no scripted responses")
	}
	if idx < len(m.errs) && m.errs[idx] != nil {
		return nil, m.errs[idx]
	}
	return &Response{Content: m.responses[idx], Model: "mock"}, nil
}
