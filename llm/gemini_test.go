package llm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gemini "github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srijan-op/Brain-Chain/components"
	"github.com/srijan-op/Brain-Chain/schema"
)

// fakeGemini answers every generateContent call with body and records raw requests
func fakeGemini(t *testing.T, body string, requests *[]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, ":generateContent"), r.URL.Path)
		bs, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		if requests != nil {
			*requests = append(*requests, string(bs))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func geminiAnswer(part string) string {
	return `{"candidates":[{"content":{"role":"model","parts":[` + part + `]},"finishReason":"STOP","index":0}],` +
		`"usageMetadata":{"promptTokenCount":9,"candidatesTokenCount":2,"totalTokenCount":11}}`
}

func newTestGemini(t *testing.T, baseURL string, options ...Option) *Gemini {
	t.Helper()
	options = append([]Option{WithAPIKey("test-key"), WithBaseURL(baseURL), WithHTTPClient(http.DefaultClient)}, options...)
	clt, err := NewGemini(context.Background(), options...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = clt.Close() })
	return clt
}

func TestGeminiGenerate(t *testing.T) {
	var requests []string
	srv := fakeGemini(t, geminiAnswer(`{"text":"4"}`), &requests)

	var usage []*components.LLMResponse
	clt := newTestGemini(t, srv.URL, WithUsageHook(func(_ context.Context, resp *components.LLMResponse) { usage = append(usage, resp) }))
	text, err := clt.Generate(context.Background(), conversation())
	require.NoError(t, err)
	assert.Equal(t, "4", text)

	require.Len(t, requests, 1)
	assert.Contains(t, requests[0], "be helpful")
	assert.Contains(t, requests[0], "[supervisor] simple arithmetic")

	require.Len(t, usage, 1)
	assert.Equal(t, DefaultGeminiModel, usage[0].Model)
	assert.Equal(t, int64(9), usage[0].Usage.InputTokens)
	assert.Equal(t, int64(2), usage[0].Usage.OutputTokens)
}

func TestGeminiChatWithTools(t *testing.T) {
	var requests []string
	srv := fakeGemini(t, geminiAnswer(`{"functionCall":{"name":"calculator","args":{"expression":"2+2"}}}`), &requests)
	clt := newTestGemini(t, srv.URL)

	reply, err := clt.ChatWithTools(context.Background(), conversation(), []components.ToolDefinition{calculatorDefinition()})
	require.NoError(t, err)
	require.True(t, reply.HasToolCalls())
	assert.Equal(t, "calculator", reply.ToolCalls[0].Name)
	assert.JSONEq(t, `{"expression":"2+2"}`, reply.ToolCalls[0].Arguments)

	require.Len(t, requests, 1)
	assert.Contains(t, requests[0], "calculator")
	assert.Contains(t, requests[0], "evaluates expressions")
}

func TestGeminiStructured(t *testing.T) {
	srv := fakeGemini(t, geminiAnswer(`{"text":"{\"next\":\"FINISH\",\"reason\":\"complete\"}"}`), nil)
	clt := newTestGemini(t, srv.URL)

	var decision schema.ValidatorDecision
	require.NoError(t, clt.Structured(context.Background(), conversation(), &decision))
	assert.Equal(t, schema.RouteFinish, decision.Route())
}

func TestGeminiRequest(t *testing.T) {
	clt := newTestGemini(t, "http://127.0.0.1:1")
	messages := []components.Message{
		*components.NewMessage(components.SystemRole, schema.NewString("rubric")),
		*components.NewMessage(components.UserRole, schema.NewString("What is 2+2?")).SetAuthor(components.UserAuthor),
		*components.NewToolCallsMessage("", []components.ToolCall{{ID: "call_1", Name: "calculator", Arguments: `{"expression":"2+2"}`}}),
		*components.NewToolCallbackMessage(components.ToolCallback{ID: "call_1", Name: "calculator", Content: "4"}),
	}
	req := clt.request(messages)
	require.NotNil(t, req.System)
	assert.Equal(t, gemini.Text("rubric"), req.System.Parts[0])
	require.Len(t, req.History, 2)
	assert.Equal(t, "user", req.History[0].Role)
	assert.Equal(t, "model", req.History[1].Role)
	call, ok := req.History[1].Parts[0].(gemini.FunctionCall)
	require.True(t, ok)
	assert.Equal(t, "2+2", call.Args["expression"])
	require.Len(t, req.Parts, 1)
	result, ok := req.Parts[0].(gemini.FunctionResponse)
	require.True(t, ok)
	assert.Equal(t, "calculator", result.Name)

	req = clt.request(append(messages[:2:2], *components.NewMessage(components.AssistantRole, schema.NewString("4"))))
	assert.Equal(t, []gemini.Part{gemini.Text(continuePrompt)}, req.Parts)
	require.Len(t, req.History, 2)
}

func TestGeminiToolSchema(t *testing.T) {
	tool := geminiTool([]components.ToolDefinition{calculatorDefinition()})
	require.Len(t, tool.FunctionDeclarations, 1)
	params := tool.FunctionDeclarations[0].Parameters
	assert.Equal(t, gemini.TypeObject, params.Type)
	assert.Equal(t, []string{"expression"}, params.Required)
	assert.Equal(t, gemini.TypeString, params.Properties["expression"].Type)
	assert.Equal(t, "the expression", params.Properties["expression"].Description)
}
