// Package llm talks to hosted chat models.
//
// A Client offers three kinds of turns: free text, structured output decoded
// into a Go value, and one round of tool calling.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bububa/instructor-go"

	"github.com/srijan-op/Brain-Chain/components"
)

var (
	// ErrEmptyResponse is returned when the provider answers without any choice
	ErrEmptyResponse = errors.New("llm: empty response")
	// ErrUnknownProvider is returned by New for an unsupported provider name
	ErrUnknownProvider = errors.New("llm: unknown provider")
)

// Provider names a model API
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderCohere    Provider = "cohere"
	ProviderGemini    Provider = "gemini"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.3-70b-versatile"
)

// Client is the model boundary used by the agent nodes.
// Implementations hold no per-request state and are safe for concurrent use.
type Client interface {
	// Generate returns the free-text completion of messages
	Generate(ctx context.Context, messages []components.Message) (string, error)
	// Structured decodes the completion of messages into out, a pointer to
	// a struct whose JSON schema is sent to the model
	Structured(ctx context.Context, messages []components.Message, out any) error
	// ChatWithTools runs one turn offering tools to the model
	ChatWithTools(ctx context.Context, messages []components.Message, tools []components.ToolDefinition) (*Reply, error)
}

// Reply is the outcome of one tool-calling turn
type Reply struct {
	// Content is the text answer, empty when the model only requested tools
	Content string
	// ToolCalls requested by the model
	ToolCalls []components.ToolCall
	// Response metadata and token usage
	Response components.LLMResponse
}

// HasToolCalls reports whether the model asked for at least one tool call
func (r Reply) HasToolCalls() bool {
	return len(r.ToolCalls) > 0
}

// Config represents general client configuration
type Config struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	// temperature Temperature for response generation, typically ranging from 0 to 1.
	temperature float32
	// maxTokens Maximum number of tokens allowed in the response
	maxTokens int
	// maxAttempts for structured output, 1 means no retry
	maxAttempts int
	usageHook   func(context.Context, *components.LLMResponse)
}

func newConfig(options ...Option) Config {
	cfg := Config{
		maxTokens:   2048,
		maxAttempts: 1,
	}
	for _, opt := range options {
		opt(&cfg)
	}
	if cfg.maxAttempts < 1 {
		cfg.maxAttempts = 1
	}
	return cfg
}

// instructorOptions configures structured output in JSON mode. The first
// attempt is not a retry, maxAttempts 1 sends the request once.
func (c Config) instructorOptions() []instructor.Option {
	return []instructor.Option{
		instructor.WithMode(instructor.ModeJSON),
		instructor.WithMaxRetries(c.maxAttempts - 1),
	}
}

// recoverStructured reports a panic of a structured request as an error.
// The cohere and gemini instructors copy usage metadata from an empty
// response when the underlying request fails.
func recoverStructured(provider Provider, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s structured request failed: %v", provider, r)
	}
}

func (c Config) reportUsage(ctx context.Context, resp *components.LLMResponse) {
	if fn := c.usageHook; fn != nil {
		fn(ctx, resp)
	}
}

// New returns the Client for provider
func New(provider Provider, options ...Option) (Client, error) {
	switch Provider(strings.ToLower(string(provider))) {
	case ProviderOpenAI, "":
		return NewOpenAI(options...), nil
	case ProviderAnthropic:
		return NewAnthropic(options...), nil
	case ProviderCohere:
		return NewCohere(options...), nil
	case ProviderGemini:
		clt, err := NewGemini(context.Background(), options...)
		if err != nil {
			return nil, err
		}
		return clt, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
}
