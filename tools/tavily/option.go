package tavily

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

func WithMaxResults(n int) Option {
	return func(c *Config) {
		c.maxResults = n
	}
}

// WithSearchDepth sets "basic" or "advanced"
func WithSearchDepth(depth string) Option {
	return func(c *Config) {
		c.searchDepth = depth
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
