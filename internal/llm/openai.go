// Package llm talks to chat-completion backends and cleans up their JSON replies.
package llm

import (
	"context"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"

	"github.com/ryo246912/gh-perfeed/internal/config"
)

// DefaultOllamaBaseURL is Ollama's OpenAI compatible endpoint.
const DefaultOllamaBaseURL = "http://localhost:11434/v1"

// OpenAIClient serves any OpenAI compatible chat completions API.
type OpenAIClient struct {
	client      *openai.Client
	provider    string
	model       string
	temperature float32
	maxTokens   int
}

// NewClient builds the client for cfg.Provider.
func NewClient(cfg config.LLMConfig) (*OpenAIClient, error) {
	var clientCfg openai.ClientConfig
	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, errors.New("OPENAI_API_KEY is not set")
		}
		clientCfg = openai.DefaultConfig(cfg.APIKey)
	case config.ProviderOllama:
		// Ollama ignores the key but the header must be present
		clientCfg = openai.DefaultConfig("ollama")
		clientCfg.BaseURL = DefaultOllamaBaseURL
	default:
		return nil, errors.Errorf("unsupported llm provider %q", cfg.Provider)
	}
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(clientCfg),
		provider:    cfg.Provider,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

func (c *OpenAIClient) Provider() string { return c.provider }

func (c *OpenAIClient) Model() string { return c.model }

// ChatCompletion sends the system + user prompts and returns the first choice's content.
func (c *OpenAIClient) ChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", errors.Wrapf(err, "%s chat completion", c.provider)
	}

	if len(resp.Choices) == 0 {
		return "", errors.Errorf("%s returned no choices", c.provider)
	}
	return resp.Choices[0].Message.Content, nil
}
