package tools

import "context"

// Hooks observe tool calls
type Hooks struct {
	start func(ctx context.Context, tool Tool, arguments string)
	end   func(ctx context.Context, tool Tool, arguments string, result string)
	error func(ctx context.Context, tool Tool, arguments string, err error)
}

// Config class for tools
type Config struct {
	// title the default title of the tool, used as the function name
	title string
	// description the default description of the tool
	description string
	hooks       Hooks
}

func (c *Config) SetTitle(v string) {
	c.title = v
}

func (c Config) Title() string {
	return c.title
}

func (c *Config) SetDescription(v string) {
	c.description = v
}

func (c Config) Description() string {
	return c.description
}

func (c Config) Hooks() Hooks {
	return c.hooks
}

func (c *Config) SetStartHook(fn func(context.Context, Tool, string)) {
	c.hooks.start = fn
}

func (c *Config) SetEndHook(fn func(context.Context, Tool, string, string)) {
	c.hooks.end = fn
}

func (c *Config) SetErrorHook(fn func(context.Context, Tool, string, error)) {
	c.hooks.error = fn
}
