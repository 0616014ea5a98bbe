package tools

import "context"

type Option func(c *Config)

func WithTitle(title string) Option {
	return func(c *Config) {
		c.SetTitle(title)
	}
}

func WithDescription(desc string) Option {
	return func(c *Config) {
		c.SetDescription(desc)
	}
}

func WithStartHook(fn func(context.Context, Tool, string)) Option {
	return func(c *Config) {
		c.SetStartHook(fn)
	}
}

func WithEndHook(fn func(context.Context, Tool, string, string)) Option {
	return func(c *Config) {
		c.SetEndHook(fn)
	}
}

func WithErrorHook(fn func(context.Context, Tool, string, error)) Option {
	return func(c *Config) {
		c.SetErrorHook(fn)
	}
}

// Apply runs options against c, for backends that embed Config
func Apply(c *Config, opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
