package components

import (
	"bytes"
	"encoding/json"
	"sync"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srijan-op/Brain-Chain/schema"
)

func TestMessageMarshaler(t *testing.T) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	dec := json.NewDecoder(&buf)
	msg := NewAgentMessage("coder", "120")
	require.NoError(t, enc.Encode(msg))
	assert.JSONEq(t, `{"name":"coder","type":"human","content":"120"}`, buf.String())

	var decoded Message
	require.NoError(t, dec.Decode(&decoded))
	assert.Equal(t, msg.StringifiedContent(), decoded.StringifiedContent())
	assert.Equal(t, "coder", decoded.Author())
	assert.Equal(t, UserRole, decoded.Role())
}

func TestUserQueryHasNoName(t *testing.T) {
	msg := NewMessage(UserRole, schema.NewString("What is 5 factorial?")).SetAuthor(UserAuthor)
	bs, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"human","content":"What is 5 factorial?"}`, string(bs))
}

func TestMessageToOpenAI(t *testing.T) {
	var dist openai.ChatCompletionMessage
	NewAgentMessage("researcher", "found it").ToOpenAI(&dist)
	assert.Equal(t, openai.ChatMessageRoleUser, dist.Role)
	assert.Equal(t, "researcher", dist.Name)
	assert.Equal(t, "found it", dist.Content)

	calls := []ToolCall{{ID: "call_1", Name: "search", Arguments: `{"query":"go"}`}}
	dist = openai.ChatCompletionMessage{}
	NewToolCallsMessage("", calls).ToOpenAI(&dist)
	assert.Equal(t, openai.ChatMessageRoleAssistant, dist.Role)
	require.Len(t, dist.ToolCalls, 1)
	assert.Equal(t, "search", dist.ToolCalls[0].Function.Name)
	assert.Equal(t, calls, ToolCallsFromOpenAI(dist.ToolCalls))

	dist = openai.ChatCompletionMessage{}
	NewToolCallbackMessage(ToolCallback{ID: "call_1", Name: "search", Content: "result"}).ToOpenAI(&dist)
	assert.Equal(t, openai.ChatMessageRoleTool, dist.Role)
	assert.Equal(t, "call_1", dist.ToolCallID)
	assert.Empty(t, dist.Name)
}

func TestMemoryAppendOnly(t *testing.T) {
	mem := NewMemory("")
	assert.NotEmpty(t, mem.RunID())
	_, ok := mem.First()
	assert.False(t, ok)

	mem.Append(NewMessage(UserRole, schema.NewString("query")).SetAuthor(UserAuthor))
	mem.NewMessage("supervisor", schema.NewString("coder"))
	mem.NewMessage("coder", schema.NewString("120"))

	history := mem.History()
	require.Len(t, history, 3)
	for _, msg := range history {
		assert.Equal(t, mem.RunID(), msg.RunID())
	}

	// mutating the returned copy must not touch the log
	history[0] = *NewAgentMessage("intruder", "changed")
	first, ok := mem.First()
	require.True(t, ok)
	assert.Equal(t, "query", first.StringifiedContent())

	last, ok := mem.Last()
	require.True(t, ok)
	assert.Equal(t, "coder", last.Author())
}

func TestMemoryConcurrentAppend(t *testing.T) {
	mem := NewMemory("run")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mem.NewMessage("coder", schema.NewString("x"))
			_ = mem.History()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, mem.MessageCount())
}

func TestUsageMerge(t *testing.T) {
	u := &LLMUsage{InputTokens: 1, OutputTokens: 2}
	u.Merge(&LLMUsage{InputTokens: 10, OutputTokens: 20})
	u.Merge(nil)
	assert.Equal(t, &LLMUsage{InputTokens: 11, OutputTokens: 22}, u)
}
