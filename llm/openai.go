package llm

import (
	"context"
	"fmt"

	insopenai "github.com/bububa/instructor-go/instructors/openai"
	openai "github.com/sashabaranov/go-openai"

	"github.com/srijan-op/Brain-Chain/components"
)

// OpenAI is a Client for OpenAI compatible chat completion APIs, Groq by default
type OpenAI struct {
	Config
	clt *openai.Client
}

var _ Client = (*OpenAI)(nil)

// NewOpenAI returns a new OpenAI compatible client
func NewOpenAI(options ...Option) *OpenAI {
	ret := &OpenAI{Config: newConfig(options...)}
	if ret.baseURL == "" {
		ret.baseURL = DefaultBaseURL
	}
	if ret.model == "" {
		ret.model = DefaultModel
	}
	cfg := openai.DefaultConfig(ret.apiKey)
	cfg.BaseURL = ret.baseURL
	if ret.httpClient != nil {
		cfg.HTTPClient = ret.httpClient
	}
	ret.clt = openai.NewClientWithConfig(cfg)
	return ret
}

func (c *OpenAI) request(messages []components.Message) openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{
		Model:               c.model,
		Temperature:         c.temperature,
		MaxCompletionTokens: c.maxTokens,
		Messages:            make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, msg := range messages {
		v := new(openai.ChatCompletionMessage)
		msg.ToOpenAI(v)
		req.Messages = append(req.Messages, *v)
	}
	return req
}

func (c *OpenAI) complete(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	res, err := c.clt.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	resp := new(components.LLMResponse)
	resp.FromOpenAI(&res)
	c.reportUsage(ctx, resp)
	if len(res.Choices) == 0 {
		return nil, ErrEmptyResponse
	}
	return &res, nil
}

// Generate implements Client
func (c *OpenAI) Generate(ctx context.Context, messages []components.Message) (string, error) {
	res, err := c.complete(ctx, c.request(messages))
	if err != nil {
		return "", err
	}
	return res.Choices[0].Message.Content, nil
}

// Structured implements Client.
// The instructor caches the encoder of the first response type, so one is
// built per call.
func (c *OpenAI) Structured(ctx context.Context, messages []components.Message, out any) error {
	var (
		req = c.request(messages)
		res openai.ChatCompletionResponse
	)
	err := insopenai.New(c.clt, c.instructorOptions()...).Chat(ctx, &req, out, &res)
	resp := new(components.LLMResponse)
	resp.FromOpenAI(&res)
	c.reportUsage(ctx, resp)
	if err != nil {
		return fmt.Errorf("openai structured completion: %w", err)
	}
	return nil
}

// ChatWithTools implements Client
func (c *OpenAI) ChatWithTools(ctx context.Context, messages []components.Message, tools []components.ToolDefinition) (*Reply, error) {
	req := c.request(messages)
	for _, t := range tools {
		req.Tools = append(req.Tools, t.ToOpenAI())
	}
	res, err := c.complete(ctx, req)
	if err != nil {
		return nil, err
	}
	choice := res.Choices[0]
	reply := &Reply{
		Content:   choice.Message.Content,
		ToolCalls: components.ToolCallsFromOpenAI(choice.Message.ToolCalls),
	}
	reply.Response.FromOpenAI(res)
	return reply, nil
}
