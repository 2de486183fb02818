package llm

import "context"

// Client is a synchronous chat-completion backend
type Client interface {
	// ChatCompletion sends one system and one user message and returns the raw reply text.
	ChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// Provider names the backend, e.g. "openai".
	Provider() string
	// Model is the model identifier requests are sent to.
	Model() string
}

var _ Client = (*OpenAIClient)(nil)
