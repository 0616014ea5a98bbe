package components

import (
	"encoding/json"

	anthropic "github.com/liushuangls/go-anthropic/v2"
	openai "github.com/sashabaranov/go-openai"
)

// ToolDefinition describes a tool offered to the model
type ToolDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// Parameters is the JSON schema of the tool arguments
	Parameters any `json:"parameters"`
}

// ToOpenAI converts the definition to an openai function tool
func (d ToolDefinition) ToOpenAI() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.Parameters,
		},
	}
}

// ToAnthropic converts the definition to an anthropic tool
func (d ToolDefinition) ToAnthropic() anthropic.ToolDefinition {
	return anthropic.ToolDefinition{
		Name:        d.Name,
		Description: d.Description,
		InputSchema: d.Parameters,
	}
}

// ToolCall is a tool invocation requested by the model
type ToolCall struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

func ToolCallsToOpenAI(src []ToolCall, dist *openai.ChatCompletionMessage) {
	list := make([]openai.ToolCall, 0, len(src))
	for _, v := range src {
		list = append(list, openai.ToolCall{
			ID:   v.ID,
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      v.Name,
				Arguments: v.Arguments,
			},
		})
	}
	dist.Role = AssistantRole
	dist.ToolCalls = list
}

func ToolCallsFromOpenAI(src []openai.ToolCall) []ToolCall {
	list := make([]ToolCall, 0, len(src))
	for _, v := range src {
		list = append(list, ToolCall{
			ID:        v.ID,
			Name:      v.Function.Name,
			Arguments: v.Function.Arguments,
		})
	}
	return list
}

func ToolCallsToAnthropic(text string, src []ToolCall, dist *anthropic.Message) {
	list := make([]anthropic.MessageContent, 0, len(src)+1)
	if text != "" {
		list = append(list, anthropic.NewTextMessageContent(text))
	}
	for _, v := range src {
		args := v.Arguments
		if args == "" {
			args = "{}"
		}
		list = append(list, anthropic.NewToolUseMessageContent(v.ID, v.Name, json.RawMessage(args)))
	}
	*dist = anthropic.Message{
		Role:    anthropic.RoleAssistant,
		Content: list,
	}
}

// ToolCallback is the result of a tool call fed back to the model
type ToolCallback struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Content string `json:"content,omitempty"`
	IsError bool   `json:"is_error,omitempty"`
}

func ToolCallbacksToAnthropic(src []ToolCallback, dist *anthropic.Message) {
	list := make([]anthropic.MessageContent, 0, len(src))
	for _, v := range src {
		msg := anthropic.NewToolResultMessageContent(v.ID, v.Content, v.IsError)
		list = append(list, msg)
	}
	dist.Role = anthropic.RoleUser
	dist.Content = list
}
