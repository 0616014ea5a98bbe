package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	inscohere "github.com/bububa/instructor-go/instructors/cohere"
	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"

	"github.com/srijan-op/Brain-Chain/components"
)

const (
	DefaultCohereModel   = "command-r-plus"
	DefaultCohereBaseURL = "https://api.cohere.com"
)

// Cohere is a Client for the cohere chat API
type Cohere struct {
	Config
	clt *cohereclient.Client
}

var _ Client = (*Cohere)(nil)

// NewCohere returns a new cohere client
func NewCohere(options ...Option) *Cohere {
	ret := &Cohere{Config: newConfig(options...)}
	if ret.model == "" || ret.model == DefaultModel {
		ret.model = DefaultCohereModel
	}
	if ret.baseURL == "" || ret.baseURL == DefaultBaseURL {
		ret.baseURL = DefaultCohereBaseURL
	}
	httpClient := ret.httpClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	ret.clt = cohereclient.NewClient(
		cohereclient.WithToken(ret.apiKey),
		cohereclient.WithBaseURL(ret.baseURL),
		cohereclient.WithHTTPClient(httpClient),
	)
	return ret
}

// request converts messages to a cohere chat request.
// System messages become the preamble, the last user turn becomes the
// message and trailing tool results are sent as tool results.
func (c *Cohere) request(messages []components.Message) *cohere.ChatRequest {
	req := &cohere.ChatRequest{
		Model:       ptr(c.model),
		Temperature: ptr(float64(c.temperature)),
		MaxTokens:   ptr(c.maxTokens),
	}
	var (
		system  []string
		results []*cohere.ToolResult
		calls   = make(map[string]*cohere.ToolCall)
	)
	flush := func() {
		if len(results) == 0 {
			return
		}
		req.ChatHistory = append(req.ChatHistory, &cohere.Message{
			Role: "TOOL",
			Tool: &cohere.ToolMessage{ToolResults: results},
		})
		results = nil
	}
	for _, msg := range messages {
		if msg.Role() == components.SystemRole {
			system = append(system, msg.StringifiedContent())
			continue
		}
		if cb := msg.ToolCallback(); cb != nil {
			call, ok := calls[cb.ID]
			if !ok {
				call = &cohere.ToolCall{Name: cb.Name, Parameters: map[string]any{}}
			}
			results = append(results, &cohere.ToolResult{
				Call:    call,
				Outputs: []map[string]any{{"content": cb.Content, "is_error": cb.IsError}},
			})
			continue
		}
		flush()
		if toolCalls := msg.ToolCalls(); len(toolCalls) > 0 {
			chat := &cohere.ChatMessage{Message: msg.StringifiedContent()}
			for _, tc := range toolCalls {
				params := make(map[string]any)
				_ = json.Unmarshal([]byte(tc.Arguments), &params)
				call := &cohere.ToolCall{Name: tc.Name, Parameters: params}
				calls[tc.ID] = call
				chat.ToolCalls = append(chat.ToolCalls, call)
			}
			req.ChatHistory = append(req.ChatHistory, &cohere.Message{Role: "CHATBOT", Chatbot: chat})
			continue
		}
		v := new(cohere.Message)
		msg.ToCohere(v)
		req.ChatHistory = append(req.ChatHistory, v)
	}
	if len(system) > 0 {
		req.Preamble = ptr(strings.Join(system, "\n\n"))
	}
	if len(results) > 0 {
		req.ToolResults = results
		return req
	}
	if l := len(req.ChatHistory); l > 0 && req.ChatHistory[l-1].User != nil {
		req.Message = req.ChatHistory[l-1].User.Message
		req.ChatHistory = req.ChatHistory[:l-1]
		return req
	}
	req.Message = continuePrompt
	return req
}

func (c *Cohere) complete(ctx context.Context, req *cohere.ChatRequest) (*cohere.NonStreamedChatResponse, error) {
	res, err := c.clt.Chat(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("cohere chat: %w", err)
	}
	resp := new(components.LLMResponse)
	resp.FromCohere(res)
	resp.Model = c.model
	c.reportUsage(ctx, resp)
	if res.Text == "" && len(res.ToolCalls) == 0 {
		return nil, ErrEmptyResponse
	}
	return res, nil
}

// Generate implements Client
func (c *Cohere) Generate(ctx context.Context, messages []components.Message) (string, error) {
	res, err := c.complete(ctx, c.request(messages))
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Structured implements Client
func (c *Cohere) Structured(ctx context.Context, messages []components.Message, out any) (err error) {
	defer recoverStructured(ProviderCohere, &err)
	var res cohere.NonStreamedChatResponse
	err = inscohere.New(c.clt, c.instructorOptions()...).Chat(ctx, c.request(messages), out, &res)
	resp := new(components.LLMResponse)
	resp.FromCohere(&res)
	resp.Model = c.model
	c.reportUsage(ctx, resp)
	if err != nil {
		return fmt.Errorf("cohere structured chat: %w", err)
	}
	return nil
}

// ChatWithTools implements Client. Cohere does not identify tool calls, each
// call gets a generated ID.
func (c *Cohere) ChatWithTools(ctx context.Context, messages []components.Message, tools []components.ToolDefinition) (*Reply, error) {
	req := c.request(messages)
	for _, t := range tools {
		req.Tools = append(req.Tools, cohereTool(t))
	}
	res, err := c.complete(ctx, req)
	if err != nil {
		return nil, err
	}
	reply := &Reply{Content: res.Text}
	for _, call := range res.ToolCalls {
		args, err := json.Marshal(call.Parameters)
		if err != nil {
			return nil, fmt.Errorf("cohere tool call %s: %w", call.Name, err)
		}
		reply.ToolCalls = append(reply.ToolCalls, components.ToolCall{
			ID:        callID(),
			Name:      call.Name,
			Arguments: string(args),
		})
	}
	reply.Response.FromCohere(res)
	reply.Response.Model = c.model
	return reply, nil
}
