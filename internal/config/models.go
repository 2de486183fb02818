package config

import "github.com/pkg/errors"

// Config holds application configuration.
type Config struct {
	GitHub  GitHubConfig  `mapstructure:"github"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Prompts PromptsConfig `mapstructure:"prompts"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOpenAI:
		if c.LLM.APIKey == "" {
			return errors.New("llm.api_key is required for the openai provider (set OPENAI_API_KEY)")
		}
	case ProviderOllama:
	default:
		return errors.Errorf("llm.provider %q is not supported", c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model is required")
	}
	if c.GitHub.Host == "" {
		return errors.New("github.host is required")
	}
	return nil
}

// GitHubConfig contains API access settings.
type GitHubConfig struct {
	Token string `mapstructure:"token"`
	Host  string `mapstructure:"host"`
	Owner string `mapstructure:"owner"`
}

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// LLMConfig selects the chat-completion backend.
type LLMConfig struct {
	Provider    string  `mapstructure:"provider"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// PromptsConfig points to an optional prompt template override file.
type PromptsConfig struct {
	File string `mapstructure:"file"`
}

// LoggingConfig contains logger preferences.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}
