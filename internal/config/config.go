// Package config loads the Brain-Chain service configuration.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrMissingCredential is returned by Validate when a required API key is absent
var ErrMissingCredential = errors.New("missing credential")

// Config is the complete service configuration
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	LLM      LLMConfig      `koanf:"llm"`
	Search   SearchConfig   `koanf:"search"`
	Code     CodeConfig     `koanf:"code"`
	Workflow WorkflowConfig `koanf:"workflow"`
	Agents   AgentsConfig   `koanf:"agents"`
	Log      LogConfig      `koanf:"log"`
	Prompts  PromptsConfig  `koanf:"prompts"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// Addr returns the listen address
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LLMConfig selects the model API.
type LLMConfig struct {
	Provider    string  `koanf:"provider" validate:"oneof=openai anthropic cohere gemini"`
	BaseURL     string  `koanf:"base_url"`
	APIKey      Secret  `koanf:"api_key"`
	Model       string  `koanf:"model"`
	Temperature float32 `koanf:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `koanf:"max_tokens" validate:"gt=0"`
	MaxAttempts int     `koanf:"max_attempts" validate:"gte=1"`
}

// SearchConfig selects the researcher's search backend.
type SearchConfig struct {
	Provider   string `koanf:"provider" validate:"oneof=tavily searxng"`
	APIKey     Secret `koanf:"api_key"`
	BaseURL    string `koanf:"base_url"`
	MaxResults int    `koanf:"max_results" validate:"gt=0"`
}

// CodeConfig selects the coder's execution backend.
type CodeConfig struct {
	Provider string `koanf:"provider" validate:"oneof=riza calculator"`
	APIKey   Secret `koanf:"api_key"`
	BaseURL  string `koanf:"base_url"`
}

type WorkflowConfig struct {
	MaxSteps int           `koanf:"max_steps" validate:"gt=0"`
	Timeout  time.Duration `koanf:"timeout" validate:"gt=0"`
}

type AgentsConfig struct {
	MaxToolIterations int `koanf:"max_tool_iterations" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// PromptsConfig points at an optional YAML file overriding the embedded prompts
type PromptsConfig struct {
	File string `koanf:"file"`
}

var validate = validator.New()

// Validate checks value ranges and enumerations, then reports every missing
// API key in a single ErrMissingCredential.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	var missing []string
	if !c.LLM.APIKey.IsSet() {
		missing = append(missing, "llm.api_key ("+llmKeyEnv(c.LLM.Provider)+")")
	}
	if c.Search.Provider == "tavily" && !c.Search.APIKey.IsSet() {
		missing = append(missing, "search.api_key (TAVILY_API_KEY)")
	}
	if c.Code.Provider == "riza" && !c.Code.APIKey.IsSet() {
		missing = append(missing, "code.api_key (RIZA_API_KEY)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredential, strings.Join(missing, ", "))
	}
	return nil
}

func llmKeyEnv(provider string) string {
	switch provider {
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "cohere":
		return "COHERE_API_KEY"
	case "gemini":
		return "GEMINI_API_KEY"
	}
	return "GROQ_API_KEY"
}
