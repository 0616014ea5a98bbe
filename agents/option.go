package agents

import (
	"context"

	"go.uber.org/zap"

	"github.com/srijan-op/Brain-Chain/components/systemprompt"
	"github.com/srijan-op/Brain-Chain/llm"
)

type Option func(c *Config)

func WithClient(clt llm.Client) Option {
	return func(c *Config) {
		c.client = clt
	}
}

func WithSystemPromptGenerator(g systemprompt.Generator) Option {
	return func(c *Config) {
		c.systemPromptGenerator = g
	}
}

func WithName(name string) Option {
	return func(c *Config) {
		c.name = name
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) {
		c.logger = logger
	}
}

func WithStartHook(fn func(context.Context, Node)) Option {
	return func(c *Config) {
		c.hooks.start = fn
	}
}

func WithEndHook(fn func(context.Context, Node, *Step)) Option {
	return func(c *Config) {
		c.hooks.end = fn
	}
}

func WithErrorHook(fn func(context.Context, Node, error)) Option {
	return func(c *Config) {
		c.hooks.error = fn
	}
}
