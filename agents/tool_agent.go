package agents

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/srijan-op/Brain-Chain/components"
	"github.com/srijan-op/Brain-Chain/schema"
	"github.com/srijan-op/Brain-Chain/tools"
)

const (
	DefaultMaxToolIterations = 5
	exhaustedPrompt          = "The tool call budget is exhausted. Answer now using only the information gathered above."
)

// ToolAgent is a node running a bounded reason-act loop over its tools.
// Tool calls and results stay in a private scratchpad; only the final answer
// is returned as the step message.
type ToolAgent struct {
	Config
	tools         map[string]tools.Tool
	definitions   []components.ToolDefinition
	next          schema.Route
	maxIterations int
}

var _ Node = (*ToolAgent)(nil)

// NewToolAgent returns a new ToolAgent instance scoped to toolset
func NewToolAgent(name string, next schema.Route, toolset []tools.Tool, options ...Option) *ToolAgent {
	ret := &ToolAgent{
		Config:        newConfig(name, options...),
		tools:         make(map[string]tools.Tool, len(toolset)),
		definitions:   make([]components.ToolDefinition, 0, len(toolset)),
		next:          next,
		maxIterations: DefaultMaxToolIterations,
	}
	for _, t := range toolset {
		def := t.Definition()
		ret.tools[def.Name] = t
		ret.definitions = append(ret.definitions, def)
	}
	return ret
}

// SetMaxIterations bounds the number of tool-calling turns
func (a *ToolAgent) SetMaxIterations(n int) *ToolAgent {
	if n > 0 {
		a.maxIterations = n
	}
	return a
}

func (a *ToolAgent) Routes() []schema.Route {
	return []schema.Route{a.next}
}

// Run implements Node
func (a *ToolAgent) Run(ctx context.Context, memory components.MemoryStore) (*Step, error) {
	return a.run(ctx, a, func() (*Step, error) {
		text, err := a.Answer(ctx, memory.History())
		if err != nil {
			return nil, err
		}
		return &Step{
			Message: components.NewAgentMessage(a.name, text),
			Next:    a.next,
		}, nil
	})
}

// Answer runs the loop on messages and returns the final text.
// When the model still asks for tools after maxIterations turns, one last
// turn is made without tools to force an answer.
func (a *ToolAgent) Answer(ctx context.Context, messages []components.Message) (string, error) {
	scratch := a.prepend(messages)
	for i := 0; i < a.maxIterations; i++ {
		reply, err := a.client.ChatWithTools(ctx, scratch, a.definitions)
		if err != nil {
			return "", err
		}
		if !reply.HasToolCalls() {
			return reply.Content, nil
		}
		scratch = append(scratch, *components.NewToolCallsMessage(reply.Content, reply.ToolCalls))
		for _, call := range reply.ToolCalls {
			cb, err := a.callTool(ctx, call)
			if err != nil {
				return "", err
			}
			scratch = append(scratch, *components.NewToolCallbackMessage(cb))
		}
	}
	a.logger.Warn("tool iterations exhausted", zap.String("node", a.name), zap.Int("max", a.maxIterations))
	final := flatten(scratch)
	final = append(final, *components.NewMessage(components.UserRole, schema.NewString(exhaustedPrompt)))
	return a.client.Generate(ctx, final)
}

// callTool runs one call. Mistakes of the model (unknown tool, invalid
// arguments) are fed back as error results, backend failures are returned.
func (a *ToolAgent) callTool(ctx context.Context, call components.ToolCall) (components.ToolCallback, error) {
	cb := components.ToolCallback{ID: call.ID, Name: call.Name}
	tool, ok := a.tools[call.Name]
	if !ok {
		cb.Content = fmt.Sprintf("error: unknown tool %q", call.Name)
		cb.IsError = true
		return cb, nil
	}
	a.logger.Debug("tool requested", zap.String("node", a.name), zap.String("tool", call.Name), zap.String("arguments", call.Arguments))
	ret, err := tool.Call(ctx, call.Arguments)
	if err != nil {
		if errors.Is(err, tools.ErrInvalidArguments) {
			cb.Content = "error: " + err.Error()
			cb.IsError = true
			return cb, nil
		}
		return cb, fmt.Errorf("tool %s: %w", call.Name, err)
	}
	cb.Content = ret
	return cb, nil
}

// flatten rewrites tool turns as plain text so the scratchpad can be sent
// without tool definitions
func flatten(messages []components.Message) []components.Message {
	ret := make([]components.Message, 0, len(messages))
	for _, msg := range messages {
		switch {
		case len(msg.ToolCalls()) > 0:
			text := msg.StringifiedContent()
			for _, call := range msg.ToolCalls() {
				if text != "" {
					text += "\n"
				}
				text += fmt.Sprintf("Called tool %s with %s", call.Name, call.Arguments)
			}
			ret = append(ret, *components.NewMessage(components.AssistantRole, schema.NewString(text)))
		case msg.ToolCallback() != nil:
			cb := msg.ToolCallback()
			ret = append(ret, *components.NewMessage(components.UserRole, schema.NewString(fmt.Sprintf("Result of tool %s:\n%s", cb.Name, cb.Content))))
		default:
			ret = append(ret, msg)
		}
	}
	return ret
}
