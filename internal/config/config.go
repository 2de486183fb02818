// Package config loads application configuration.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// DefaultEnvFile is read when present; real environment variables win over its values.
const DefaultEnvFile = ".env"

const envPrefix = "PERFEED"

var defaultModels = map[string]string{
	ProviderOpenAI: "gpt-4o-mini",
	ProviderOllama: "llama3.1:8b",
}

// NewConfig loads configuration from the environment and envFile using viper with typed defaults and validation.
func NewConfig(envFile string) (*Config, error) {
	v := viper.New()
	if envMap, err := godotenv.Read(envFile); err == nil {
		for k, val := range envMap {
			if _, exists := os.LookupEnv(k); !exists {
				_ = os.Setenv(k, val)
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if cfg.LLM.Model == "" {
		cfg.LLM.Model = defaultModels[cfg.LLM.Provider]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")

	v.SetDefault("github.host", "github.com")
	v.SetDefault("github.token", "")
	v.SetDefault("github.owner", "")

	v.SetDefault("llm.provider", ProviderOpenAI)
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.max_tokens", 2048)

	v.SetDefault("prompts.file", "")
}

func bindEnvs(v *viper.Viper) {
	keys := []string{
		"logging.level",
		"github.host",
		"github.owner",
		"llm.provider",
		"llm.model",
		"llm.base_url",
		"llm.temperature",
		"llm.max_tokens",
		"prompts.file",
	}

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// tokens keep the names other tools already export
	_ = v.BindEnv("github.token", "GITHUB_PERSONAL_ACCESS_TOKEN", "GITHUB_TOKEN", "GH_TOKEN")
	_ = v.BindEnv("llm.api_key", "OPENAI_API_KEY", envPrefix+"_LLM_API_KEY")
}
