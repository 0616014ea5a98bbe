package components

import (
	"encoding/json"

	cohere "github.com/cohere-ai/cohere-go/v2"
	gemini "github.com/google/generative-ai-go/genai"
	anthropic "github.com/liushuangls/go-anthropic/v2"
	"github.com/rs/xid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/srijan-op/Brain-Chain/schema"
)

// NewRunID returns a new workflow run ID.
func NewRunID() string {
	return xid.New().String()
}

// MessageRole is the role of the message sender (e.g., 'user', 'system', 'tool')
type MessageRole = string

const (
	SystemRole    MessageRole = "system"
	UserRole      MessageRole = "user"
	AssistantRole MessageRole = "assistant"
	ToolRole      MessageRole = "tool"
)

// UserAuthor is the author of the query that seeds a conversation
const UserAuthor = "user"

// Message represents an entry of a conversation.
//
// Agent-authored messages keep the user role, they are replayed to the model
// as named human turns.
type Message struct {
	content schema.Schema
	// role is the chat role used when the message is sent to the model
	role MessageRole
	// author is the user or the node that produced the message
	author string
	// runID is the workflow run this message belongs to
	runID string
	// toolCalls requested by the model, only set on assistant scratchpad messages
	toolCalls []ToolCall
	// toolCallback is the result of one tool call, only set on tool messages
	toolCallback *ToolCallback
}

// NewMessage returns a new Message
func NewMessage(role MessageRole, content schema.Schema) *Message {
	return &Message{
		role:    role,
		content: content,
	}
}

// NewAgentMessage returns a message authored by a graph node
func NewAgentMessage(author string, content string) *Message {
	return NewMessage(UserRole, schema.NewString(content)).SetAuthor(author)
}

// NewToolCallsMessage returns the assistant turn that requested tool calls
func NewToolCallsMessage(content string, calls []ToolCall) *Message {
	msg := NewMessage(AssistantRole, schema.NewString(content))
	msg.toolCalls = calls
	return msg
}

// NewToolCallbackMessage returns the tool turn answering one tool call
func NewToolCallbackMessage(cb ToolCallback) *Message {
	msg := NewMessage(ToolRole, schema.NewString(cb.Content))
	msg.toolCallback = &cb
	return msg
}

// SetAuthor set message author
func (m *Message) SetAuthor(author string) *Message {
	m.author = author
	return m
}

// SetRunID set message runID
func (m *Message) SetRunID(runID string) *Message {
	m.runID = runID
	return m
}

// Role returns message role
func (m Message) Role() MessageRole {
	return m.role
}

// Author returns message author
func (m Message) Author() string {
	return m.author
}

// Content returns message content
func (m Message) Content() schema.Schema {
	return m.content
}

// StringifiedContent returns the content as sent to the model
func (m Message) StringifiedContent() string {
	return schema.Stringify(m.content)
}

// RunID returns message runID
func (m Message) RunID() string {
	return m.runID
}

// ToolCalls returns the tool calls requested in this message
func (m Message) ToolCalls() []ToolCall {
	return m.toolCalls
}

// ToolCallback returns the tool result carried by this message
func (m Message) ToolCallback() *ToolCallback {
	return m.toolCallback
}

type messageJSON struct {
	Name    string `json:"name,omitempty"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

// MarshalJSON encodes the message in the shape consumed by the UI.
// The user query carries no name.
func (m Message) MarshalJSON() ([]byte, error) {
	v := messageJSON{
		Type:    "human",
		Content: m.StringifiedContent(),
	}
	if m.role == AssistantRole {
		v.Type = "ai"
	}
	if m.author != UserAuthor {
		v.Name = m.author
	}
	return json.Marshal(v)
}

// UnmarshalJSON decodes a message produced by MarshalJSON
func (m *Message) UnmarshalJSON(bs []byte) error {
	var v messageJSON
	if err := json.Unmarshal(bs, &v); err != nil {
		return err
	}
	m.role = UserRole
	if v.Type == "ai" {
		m.role = AssistantRole
	}
	m.author = v.Name
	if m.author == "" {
		m.author = UserAuthor
	}
	m.content = schema.NewString(v.Content)
	return nil
}

// ToOpenAI convert message to openai ChatCompletionMessage
func (m Message) ToOpenAI(dist *openai.ChatCompletionMessage) {
	dist.Role = m.role
	dist.Content = m.StringifiedContent()
	if m.role == UserRole && m.author != "" && m.author != UserAuthor {
		dist.Name = m.author
	}
	if len(m.toolCalls) > 0 {
		ToolCallsToOpenAI(m.toolCalls, dist)
	}
	if cb := m.toolCallback; cb != nil {
		dist.ToolCallID = cb.ID
	}
}

// ToAnthropic convert message to anthropic Message.
// System messages are not convertible and must be lifted into the request.
func (m Message) ToAnthropic(dist *anthropic.Message) {
	if cb := m.toolCallback; cb != nil {
		ToolCallbacksToAnthropic([]ToolCallback{*cb}, dist)
		return
	}
	if len(m.toolCalls) > 0 {
		ToolCallsToAnthropic(m.StringifiedContent(), m.toolCalls, dist)
		return
	}
	dist.Role = anthropic.ChatRole(m.role)
	dist.Content = []anthropic.MessageContent{anthropic.NewTextMessageContent(m.labeled())}
}

// labeled returns the content prefixed by the author for agent turns, for
// providers without a name field on messages
func (m Message) labeled() string {
	text := m.StringifiedContent()
	if m.role == UserRole && m.author != "" && m.author != UserAuthor {
		text = "[" + m.author + "] " + text
	}
	return text
}

// ToCohere convert a text message to cohere Message.
// Tool turns are converted by the client which pairs calls and results.
func (m Message) ToCohere(dist *cohere.Message) {
	msg := &cohere.ChatMessage{Message: m.labeled()}
	switch m.role {
	case SystemRole:
		dist.Role = "SYSTEM"
		dist.System = msg
	case AssistantRole:
		dist.Role = "CHATBOT"
		dist.Chatbot = msg
	default:
		dist.Role = "USER"
		dist.User = msg
	}
}

// ToGemini convert message to gemini Content.
// System messages are not convertible and must be lifted into the model.
func (m Message) ToGemini(dist *gemini.Content) {
	if cb := m.toolCallback; cb != nil {
		dist.Role = "user"
		dist.Parts = []gemini.Part{gemini.FunctionResponse{
			Name:     cb.Name,
			Response: map[string]any{"content": cb.Content, "is_error": cb.IsError},
		}}
		return
	}
	if m.role == AssistantRole {
		dist.Role = "model"
		if text := m.StringifiedContent(); text != "" {
			dist.Parts = append(dist.Parts, gemini.Text(text))
		}
		for _, call := range m.toolCalls {
			args := make(map[string]any)
			_ = json.Unmarshal([]byte(call.Arguments), &args)
			dist.Parts = append(dist.Parts, gemini.FunctionCall{Name: call.Name, Args: args})
		}
		return
	}
	dist.Role = "user"
	dist.Parts = []gemini.Part{gemini.Text(m.labeled())}
}
