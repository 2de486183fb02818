package llm

import (
	"context"
	"sync"
)

// Call records one ChatCompletion invocation
type Call struct {
	System string
	User   string
}

// MockClient implements Client for testing. Safe for concurrent use.
type MockClient struct {
	// Response is returned when Respond is nil
	Response string
	Error    error
	// Respond, when set, computes the reply per call
	Respond func(systemPrompt, userPrompt string) (string, error)

	ProviderName string
	ModelName    string

	mu    sync.Mutex
	calls []Call
}

// ChatCompletion records the prompts and returns the configured reply
func (m *MockClient) ChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{System: systemPrompt, User: userPrompt})
	respond := m.Respond
	m.mu.Unlock()

	if respond != nil {
		return respond(systemPrompt, userPrompt)
	}
	return m.Response, m.Error
}

func (m *MockClient) Provider() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

func (m *MockClient) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

// Calls returns a copy of the recorded invocations
func (m *MockClient) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

var _ Client = (*MockClient)(nil)
