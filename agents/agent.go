package agents

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/srijan-op/Brain-Chain/components"
	"github.com/srijan-op/Brain-Chain/components/systemprompt"
	"github.com/srijan-op/Brain-Chain/llm"
	"github.com/srijan-op/Brain-Chain/schema"
)

// ErrEmptyConversation is returned when a node runs on a conversation without messages
var ErrEmptyConversation = errors.New("empty conversation")

// Step is the outcome of one node execution: the message to append to the
// conversation and the label of the next node
type Step struct {
	Message *components.Message
	Next    schema.Route
}

// Node is a unit of work of the agent graph
type Node interface {
	Name() string
	// Routes lists every label the node may return
	Routes() []schema.Route
	// Run reads the conversation and returns the next step.
	// The conversation is never modified by a node.
	Run(ctx context.Context, memory components.MemoryStore) (*Step, error)
}

// Config represents general agents configuration
type Config struct {
	// client Client for interacting with the language model
	client llm.Client
	//	systemPromptGenerator Component for generating system prompts.
	systemPromptGenerator systemprompt.Generator
	// name is the node name, also the author of its messages
	name   string
	logger *zap.Logger
	hooks  Hooks
}

// Hooks observe node executions
type Hooks struct {
	start func(ctx context.Context, node Node)
	end   func(ctx context.Context, node Node, step *Step)
	error func(ctx context.Context, node Node, err error)
}

func newConfig(name string, options ...Option) Config {
	cfg := Config{name: name}
	for _, opt := range options {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	return cfg
}

func (c *Config) SetClient(clt llm.Client) {
	c.client = clt
}

func (c *Config) SetSystemPromptGenerator(g systemprompt.Generator) {
	c.systemPromptGenerator = g
}

func (c Config) Name() string {
	return c.name
}

func (c *Config) SetName(name string) {
	c.name = name
}

// SystemPrompt returns the system prompt
func (c Config) SystemPrompt() string {
	if c.systemPromptGenerator == nil {
		return ""
	}
	return c.systemPromptGenerator.Generate()
}

// prepend puts the system prompt ahead of messages
func (c Config) prepend(messages []components.Message) []components.Message {
	prompt := c.SystemPrompt()
	if prompt == "" {
		return messages
	}
	ret := make([]components.Message, 0, len(messages)+1)
	ret = append(ret, *components.NewMessage(components.SystemRole, schema.NewString(prompt)))
	return append(ret, messages...)
}

func (c Config) run(ctx context.Context, node Node, do func() (*Step, error)) (*Step, error) {
	if c.client == nil {
		return nil, fmt.Errorf("%s: no llm client", c.name)
	}
	if fn := c.hooks.start; fn != nil {
		fn(ctx, node)
	}
	step, err := do()
	if err != nil {
		err = fmt.Errorf("%s: %w", c.name, err)
		if fn := c.hooks.error; fn != nil {
			fn(ctx, node, err)
		}
		return nil, err
	}
	if fn := c.hooks.end; fn != nil {
		fn(ctx, node, step)
	}
	return step, nil
}

// Agent is a node answering with a structured routing decision.
// The decision is validated before the node returns.
type Agent[O schema.Decision] struct {
	Config
	routes []schema.Route
	// view selects the messages sent to the model
	view func(components.MemoryStore) ([]components.Message, error)
}

var _ Node = (*Agent[schema.SupervisorDecision])(nil)

// NewAgent initializes a decision Agent
func NewAgent[O schema.Decision](name string, routes []schema.Route, view func(components.MemoryStore) ([]components.Message, error), options ...Option) *Agent[O] {
	return &Agent[O]{
		Config: newConfig(name, options...),
		routes: routes,
		view:   view,
	}
}

func (a *Agent[O]) Routes() []schema.Route {
	return a.routes
}

// Decide obtains a validated decision from the language model
func (a *Agent[O]) Decide(ctx context.Context, memory components.MemoryStore) (*O, error) {
	messages, err := a.view(memory)
	if err != nil {
		return nil, err
	}
	out := new(O)
	if err := a.client.Structured(ctx, a.prepend(messages), out); err != nil {
		return nil, err
	}
	if err := (*out).Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// Run implements Node. The appended message carries the decision reason.
func (a *Agent[O]) Run(ctx context.Context, memory components.MemoryStore) (*Step, error) {
	return a.run(ctx, a, func() (*Step, error) {
		decision, err := a.Decide(ctx, memory)
		if err != nil {
			return nil, err
		}
		a.logger.Debug("decision", zap.String("node", a.name), zap.String("next", string((*decision).Route())), zap.String("reason", (*decision).Why()))
		return &Step{
			Message: components.NewAgentMessage(a.name, (*decision).Why()),
			Next:    (*decision).Route(),
		}, nil
	})
}

// TextAgent is a node answering with free text and a fixed next node
type TextAgent struct {
	Config
	next schema.Route
}

var _ Node = (*TextAgent)(nil)

// NewTextAgent initializes a free-text agent routing to next
func NewTextAgent(name string, next schema.Route, options ...Option) *TextAgent {
	return &TextAgent{
		Config: newConfig(name, options...),
		next:   next,
	}
}

func (a *TextAgent) Routes() []schema.Route {
	return []schema.Route{a.next}
}

// Run implements Node
func (a *TextAgent) Run(ctx context.Context, memory components.MemoryStore) (*Step, error) {
	return a.run(ctx, a, func() (*Step, error) {
		text, err := a.client.Generate(ctx, a.prepend(memory.History()))
		if err != nil {
			return nil, err
		}
		return &Step{
			Message: components.NewAgentMessage(a.name, text),
			Next:    a.next,
		}, nil
	})
}
