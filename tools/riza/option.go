package riza

import (
	"net/http"

	"github.com/srijan-op/Brain-Chain/tools"
)

type Option func(*Config)

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

func WithHttpClient(clt *http.Client) Option {
	return func(c *Config) {
		c.httpClient = clt
	}
}

// WithToolOptions applies generic tool options such as title and hooks
func WithToolOptions(opts ...tools.Option) Option {
	return func(c *Config) {
		tools.Apply(&c.Config, opts...)
	}
}

// WithLanguage sets the runtime language, python by default
func WithLanguage(lang string) Option {
	return func(c *Config) {
		c.language = lang
	}
}
