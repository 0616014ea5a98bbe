package agents

import (
	"github.com/srijan-op/Brain-Chain/components"
	"github.com/srijan-op/Brain-Chain/components/systemprompt"
	"github.com/srijan-op/Brain-Chain/prompts"
	"github.com/srijan-op/Brain-Chain/schema"
	"github.com/srijan-op/Brain-Chain/tools"
)

// Supervisor decisions
var supervisorRoutes = []schema.Route{schema.RouteEnhancer, schema.RouteResearcher, schema.RouteCoder}

// Validator decisions
var validatorRoutes = []schema.Route{schema.RouteSupervisor, schema.RouteFinish}

// NewSupervisor returns the node choosing the next worker from the full conversation
func NewSupervisor(p prompts.Structured, options ...Option) *Agent[schema.SupervisorDecision] {
	options = append([]Option{WithSystemPromptGenerator(p.Generator())}, options...)
	return NewAgent[schema.SupervisorDecision](string(schema.RouteSupervisor), supervisorRoutes, fullConversation, options...)
}

// NewValidator returns the node judging whether the last answer resolves the
// original question
func NewValidator(p prompts.Structured, options ...Option) *Agent[schema.ValidatorDecision] {
	options = append([]Option{WithSystemPromptGenerator(p.Generator())}, options...)
	return NewAgent[schema.ValidatorDecision](string(schema.RouteValidator), validatorRoutes, questionAndAnswer, options...)
}

// NewEnhancer returns the node rewriting the query into a precise request
func NewEnhancer(p prompts.FreeText, options ...Option) *TextAgent {
	options = append([]Option{WithSystemPromptGenerator(p.Generator())}, options...)
	return NewTextAgent(string(schema.RouteEnhancer), schema.RouteSupervisor, options...)
}

// NewResearcher returns the information gathering node, scoped to search
func NewResearcher(p prompts.FreeText, search tools.Tool, options ...Option) *ToolAgent {
	options = append([]Option{WithSystemPromptGenerator(p.Generator(systemprompt.CurrentDate{}))}, options...)
	return NewToolAgent(string(schema.RouteResearcher), schema.RouteValidator, []tools.Tool{search}, options...)
}

// NewCoder returns the calculation and code node, scoped to code execution
func NewCoder(p prompts.FreeText, exec tools.Tool, options ...Option) *ToolAgent {
	options = append([]Option{WithSystemPromptGenerator(p.Generator())}, options...)
	return NewToolAgent(string(schema.RouteCoder), schema.RouteValidator, []tools.Tool{exec}, options...)
}

func fullConversation(memory components.MemoryStore) ([]components.Message, error) {
	history := memory.History()
	if len(history) == 0 {
		return nil, ErrEmptyConversation
	}
	return history, nil
}

// questionAndAnswer replays the first message as the user turn and the last
// one as the assistant turn
func questionAndAnswer(memory components.MemoryStore) ([]components.Message, error) {
	first, ok := memory.First()
	if !ok {
		return nil, ErrEmptyConversation
	}
	last, _ := memory.Last()
	return []components.Message{
		*components.NewMessage(components.UserRole, first.Content()),
		*components.NewMessage(components.AssistantRole, last.Content()),
	}, nil
}
