package llm

import (
	"context"
	"fmt"
	"strings"

	insanthropic "github.com/bububa/instructor-go/instructors/anthropic"
	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/srijan-op/Brain-Chain/components"
)

const (
	DefaultAnthropicModel = "claude-3-5-sonnet-latest"
	// continuePrompt closes a conversation ending on an assistant turn,
	// which anthropic would otherwise treat as a prefill to continue
	continuePrompt = "Continue based on the conversation above."
)

// Anthropic is a Client for the anthropic messages API
type Anthropic struct {
	Config
	clt *anthropic.Client
}

var _ Client = (*Anthropic)(nil)

// NewAnthropic returns a new anthropic client
func NewAnthropic(options ...Option) *Anthropic {
	ret := &Anthropic{Config: newConfig(options...)}
	if ret.model == "" || ret.model == DefaultModel {
		ret.model = DefaultAnthropicModel
	}
	opts := make([]anthropic.ClientOption, 0, 2)
	if ret.baseURL != "" && ret.baseURL != DefaultBaseURL {
		opts = append(opts, anthropic.WithBaseURL(ret.baseURL))
	}
	if ret.httpClient != nil {
		opts = append(opts, anthropic.WithHTTPClient(ret.httpClient))
	}
	ret.clt = anthropic.NewClient(ret.apiKey, opts...)
	return ret
}

// request converts messages to an anthropic request.
// System messages are lifted into the system prompt, consecutive turns of
// the same role are merged and a trailing assistant turn is closed by a
// short user turn.
func (c *Anthropic) request(messages []components.Message) anthropic.MessagesRequest {
	req := anthropic.MessagesRequest{
		Model:       anthropic.Model(c.model),
		Temperature: &c.temperature,
		MaxTokens:   c.maxTokens,
	}
	var system []string
	for _, msg := range messages {
		if msg.Role() == components.SystemRole {
			system = append(system, msg.StringifiedContent())
			continue
		}
		v := new(anthropic.Message)
		msg.ToAnthropic(v)
		if l := len(req.Messages); l > 0 && req.Messages[l-1].Role == v.Role {
			req.Messages[l-1].Content = append(req.Messages[l-1].Content, v.Content...)
			continue
		}
		req.Messages = append(req.Messages, *v)
	}
	req.System = strings.Join(system, "\n\n")
	if l := len(req.Messages); l == 0 || req.Messages[l-1].Role == anthropic.RoleAssistant {
		req.Messages = append(req.Messages, anthropic.NewUserTextMessage(continuePrompt))
	}
	return req
}

func (c *Anthropic) complete(ctx context.Context, req anthropic.MessagesRequest) (*anthropic.MessagesResponse, error) {
	res, err := c.clt.CreateMessages(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("anthropic messages: %w", err)
	}
	resp := new(components.LLMResponse)
	resp.FromAnthropic(&res)
	c.reportUsage(ctx, resp)
	if len(res.Content) == 0 {
		return nil, ErrEmptyResponse
	}
	return &res, nil
}

// Generate implements Client
func (c *Anthropic) Generate(ctx context.Context, messages []components.Message) (string, error) {
	res, err := c.complete(ctx, c.request(messages))
	if err != nil {
		return "", err
	}
	return responseText(res), nil
}

// Structured implements Client
func (c *Anthropic) Structured(ctx context.Context, messages []components.Message, out any) error {
	var (
		req = c.request(messages)
		res anthropic.MessagesResponse
	)
	err := insanthropic.New(c.clt, c.instructorOptions()...).Chat(ctx, &req, out, &res)
	resp := new(components.LLMResponse)
	resp.FromAnthropic(&res)
	c.reportUsage(ctx, resp)
	if err != nil {
		return fmt.Errorf("anthropic structured messages: %w", err)
	}
	return nil
}

// ChatWithTools implements Client
func (c *Anthropic) ChatWithTools(ctx context.Context, messages []components.Message, tools []components.ToolDefinition) (*Reply, error) {
	req := c.request(messages)
	for _, t := range tools {
		req.Tools = append(req.Tools, t.ToAnthropic())
	}
	res, err := c.complete(ctx, req)
	if err != nil {
		return nil, err
	}
	reply := &Reply{Content: responseText(res)}
	for _, content := range res.Content {
		if content.Type != anthropic.MessagesContentTypeToolUse || content.MessageContentToolUse == nil {
			continue
		}
		reply.ToolCalls = append(reply.ToolCalls, components.ToolCall{
			ID:        content.ID,
			Name:      content.Name,
			Arguments: string(content.Input),
		})
	}
	reply.Response.FromAnthropic(res)
	return reply, nil
}

func responseText(res *anthropic.MessagesResponse) string {
	var parts []string
	for _, content := range res.Content {
		if content.Type == anthropic.MessagesContentTypeText {
			parts = append(parts, content.GetText())
		}
	}
	return strings.Join(parts, "\n")
}
