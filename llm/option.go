package llm

import (
	"context"
	"net/http"

	"github.com/srijan-op/Brain-Chain/components"
)

type Option func(c *Config)

func WithAPIKey(key string) Option {
	return func(c *Config) {
		c.apiKey = key
	}
}

func WithBaseURL(baseURL string) Option {
	return func(c *Config) {
		c.baseURL = baseURL
	}
}

func WithModel(model string) Option {
	return func(c *Config) {
		c.model = model
	}
}

func WithTemperature(temperature float32) Option {
	return func(c *Config) {
		c.temperature = temperature
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(c *Config) {
		c.maxTokens = maxTokens
	}
}

// WithMaxAttempts sets how many times a structured request is sent before
// giving up on an undecodable answer
func WithMaxAttempts(attempts int) Option {
	return func(c *Config) {
		c.maxAttempts = attempts
	}
}

func WithHTTPClient(clt *http.Client) Option {
	return func(c *Config) {
		c.httpClient = clt
	}
}

// WithUsageHook registers a callback receiving the metadata of every model call
func WithUsageHook(fn func(context.Context, *components.LLMResponse)) Option {
	return func(c *Config) {
		c.usageHook = fn
	}
}
