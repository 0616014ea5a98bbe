package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	insgemini "github.com/bububa/instructor-go/instructors/gemini"
	gemini "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/srijan-op/Brain-Chain/components"
)

const DefaultGeminiModel = "gemini-1.5-flash"

// Gemini is a Client for the google generative language API
type Gemini struct {
	Config
	clt *gemini.Client
}

var _ Client = (*Gemini)(nil)

// NewGemini returns a new gemini client, Close releases its connections
func NewGemini(ctx context.Context, options ...Option) (*Gemini, error) {
	ret := &Gemini{Config: newConfig(options...)}
	if ret.model == "" || ret.model == DefaultModel {
		ret.model = DefaultGeminiModel
	}
	opts := []option.ClientOption{option.WithAPIKey(ret.apiKey)}
	if ret.baseURL != "" && ret.baseURL != DefaultBaseURL {
		opts = append(opts, option.WithEndpoint(ret.baseURL))
	}
	if ret.httpClient != nil {
		opts = append(opts, option.WithHTTPClient(ret.httpClient))
	}
	clt, err := gemini.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	ret.clt = clt
	return ret, nil
}

// Close closes the underlying client
func (c *Gemini) Close() error {
	return c.clt.Close()
}

// request converts messages to a gemini request.
// System messages are lifted into the system instruction, consecutive turns
// of the same role are merged and the last user turn is the one sent.
func (c *Gemini) request(messages []components.Message) *insgemini.Request {
	req := &insgemini.Request{Model: c.model}
	var (
		system   []string
		contents []*gemini.Content
	)
	for _, msg := range messages {
		if msg.Role() == components.SystemRole {
			system = append(system, msg.StringifiedContent())
			continue
		}
		v := new(gemini.Content)
		msg.ToGemini(v)
		if len(v.Parts) == 0 {
			continue
		}
		if l := len(contents); l > 0 && contents[l-1].Role == v.Role {
			contents[l-1].Parts = append(contents[l-1].Parts, v.Parts...)
			continue
		}
		contents = append(contents, v)
	}
	if len(system) > 0 {
		req.System = &gemini.Content{Parts: []gemini.Part{gemini.Text(strings.Join(system, "\n\n"))}}
	}
	if l := len(contents); l == 0 || contents[l-1].Role == "model" {
		contents = append(contents, &gemini.Content{Role: "user", Parts: []gemini.Part{gemini.Text(continuePrompt)}})
	}
	l := len(contents)
	req.Parts = contents[l-1].Parts
	req.History = contents[:l-1]
	return req
}

func (c *Gemini) complete(ctx context.Context, req *insgemini.Request, tools []components.ToolDefinition) (*gemini.GenerateContentResponse, error) {
	model := c.clt.GenerativeModel(req.Model)
	model.SetTemperature(c.temperature)
	model.SetMaxOutputTokens(int32(c.maxTokens))
	model.SystemInstruction = req.System
	if len(tools) > 0 {
		model.Tools = []*gemini.Tool{geminiTool(tools)}
	}
	var (
		res *gemini.GenerateContentResponse
		err error
	)
	if len(req.History) > 0 {
		cs := model.StartChat()
		cs.History = req.History
		res, err = cs.SendMessage(ctx, req.Parts...)
	} else {
		res, err = model.GenerateContent(ctx, req.Parts...)
	}
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	resp := new(components.LLMResponse)
	resp.FromGemini(c.model, res)
	c.reportUsage(ctx, resp)
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return nil, ErrEmptyResponse
	}
	return res, nil
}

// Generate implements Client
func (c *Gemini) Generate(ctx context.Context, messages []components.Message) (string, error) {
	res, err := c.complete(ctx, c.request(messages), nil)
	if err != nil {
		return "", err
	}
	text, _, err := geminiReply(res)
	return text, err
}

// Structured implements Client
func (c *Gemini) Structured(ctx context.Context, messages []components.Message, out any) (err error) {
	defer recoverStructured(ProviderGemini, &err)
	var res gemini.GenerateContentResponse
	err = insgemini.New(c.clt, c.instructorOptions()...).Chat(ctx, c.request(messages), out, &res)
	resp := new(components.LLMResponse)
	resp.FromGemini(c.model, &res)
	c.reportUsage(ctx, resp)
	if err != nil {
		return fmt.Errorf("gemini structured content: %w", err)
	}
	return nil
}

// ChatWithTools implements Client. Gemini does not identify function calls,
// each call gets a generated ID.
func (c *Gemini) ChatWithTools(ctx context.Context, messages []components.Message, tools []components.ToolDefinition) (*Reply, error) {
	res, err := c.complete(ctx, c.request(messages), tools)
	if err != nil {
		return nil, err
	}
	text, calls, err := geminiReply(res)
	if err != nil {
		return nil, err
	}
	reply := &Reply{Content: text, ToolCalls: calls}
	reply.Response.FromGemini(c.model, res)
	return reply, nil
}

// geminiReply reads the text and function calls of the first candidate
func geminiReply(res *gemini.GenerateContentResponse) (string, []components.ToolCall, error) {
	var (
		texts []string
		calls []components.ToolCall
	)
	for _, part := range res.Candidates[0].Content.Parts {
		switch v := part.(type) {
		case gemini.Text:
			texts = append(texts, string(v))
		case gemini.FunctionCall:
			args, err := json.Marshal(v.Args)
			if err != nil {
				return "", nil, fmt.Errorf("gemini function call %s: %w", v.Name, err)
			}
			calls = append(calls, components.ToolCall{ID: callID(), Name: v.Name, Arguments: string(args)})
		}
	}
	return strings.Join(texts, "\n"), calls, nil
}
