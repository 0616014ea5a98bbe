package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/srijan-op/Brain-Chain/agents"
	"github.com/srijan-op/Brain-Chain/components"
	"github.com/srijan-op/Brain-Chain/llm"
	"github.com/srijan-op/Brain-Chain/llm/llmtest"
	"github.com/srijan-op/Brain-Chain/schema"
	"github.com/srijan-op/Brain-Chain/tools"
	"github.com/srijan-op/Brain-Chain/tools/calculator"
)

type staticSearch struct{}

func (staticSearch) Title() string { return "search" }
func (staticSearch) Description() string { return "static search" }
func (staticSearch) Definition() components.ToolDefinition {
	return components.ToolDefinition{Name: "search", Parameters: map[string]any{"type": "object"}}
}
func (staticSearch) Call(context.Context, string) (string, error) {
	return `[{"url":"https://bea.gov","content":"growth was 2.8 percent"}]`, nil
}

func newTeam(t *testing.T, fake *llmtest.Fake, opts ...Option) *Graph {
	t.Helper()
	g, err := NewDefault(Team{
		Client: fake,
		Search: staticSearch{},
		Exec:   tools.Wrap(calculator.New()),
	}, opts...)
	require.NoError(t, err)
	return g
}

type turn struct {
	author  string
	content string
}

func turns(messages []components.Message) []turn {
	ret := make([]turn, 0, len(messages))
	for _, msg := range messages {
		ret = append(ret, turn{author: msg.Author(), content: msg.StringifiedContent()})
	}
	return ret
}

func scenarioA() *llmtest.Fake {
	return llmtest.New().
		Decision("coder", "simple arithmetic").
		Reply(llm.Reply{Content: "4"}).
		Decision("FINISH", "the answer is correct")
}

func TestScenarioArithmetic(t *testing.T) {
	fake := scenarioA()
	res, err := newTeam(t, fake).Run(context.Background(), "What is 2+2?")
	require.NoError(t, err)

	assert.Equal(t, []turn{
		{"user", "What is 2+2?"},
		{"supervisor", "simple arithmetic"},
		{"coder", "4"},
		{"validator", "the answer is correct"},
	}, turns(res.Messages))
	assert.Equal(t, []schema.Route{schema.RouteSupervisor, schema.RouteCoder, schema.RouteValidator}, res.Path)
	assert.Equal(t, 3, res.Steps)
	assert.False(t, res.ForcedFinish)
	assert.Equal(t, "4", res.Answer())
	assert.NotEmpty(t, res.RunID)
	assert.Zero(t, fake.Pending())
}

func TestScenarioVagueQuery(t *testing.T) {
	fake := llmtest.New().
		Decision("enhancer", "the query is vague").
		Text("Explain the theory of relativity in simple terms.").
		Decision("researcher", "needs information").
		Reply(llm.Reply{Content: "Relativity explains space and time."}).
		Decision("FINISH", "complete")
	res, err := newTeam(t, fake).Run(context.Background(), "tell me about relativity")
	require.NoError(t, err)

	authors := make([]string, 0, len(res.Messages))
	for _, msg := range res.Messages {
		authors = append(authors, msg.Author())
	}
	assert.Equal(t, []string{"user", "supervisor", "enhancer", "supervisor", "researcher", "validator"}, authors)
	assert.Equal(t, "Explain the theory of relativity in simple terms.", res.Messages[2].StringifiedContent())
}

func TestScenarioUnknownDecision(t *testing.T) {
	fake := llmtest.New().Decision("unknown", "???")
	res, err := newTeam(t, fake).Run(context.Background(), "What is 2+2?")
	require.ErrorIs(t, err, schema.ErrInvalidDecision)
	assert.Nil(t, res)
	assert.Len(t, fake.Calls(), 1)
}

func TestValidatorLoopsBackToSupervisor(t *testing.T) {
	fake := llmtest.New().
		Decision("researcher", "look it up").
		Reply(llm.Reply{Content: "not sure"}).
		Decision("supervisor", "incomplete").
		Decision("coder", "compute it").
		ToolCall("call_1", "calculator", `{"expression":"2+2"}`).
		Reply(llm.Reply{Content: "4"}).
		Decision("FINISH", "done")
	res, err := newTeam(t, fake).Run(context.Background(), "What is 2+2?")
	require.NoError(t, err)
	assert.Equal(t, []schema.Route{"supervisor", "researcher", "validator", "supervisor", "coder", "validator"}, res.Path)
	assert.Len(t, res.Messages, 7)
}

func TestIdempotentWithFixedFakes(t *testing.T) {
	first, err := newTeam(t, scenarioA()).Run(context.Background(), "What is 2+2?")
	require.NoError(t, err)
	second, err := newTeam(t, scenarioA()).Run(context.Background(), "What is 2+2?")
	require.NoError(t, err)
	assert.Equal(t, turns(first.Messages), turns(second.Messages))
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestStepBoundForcesFinish(t *testing.T) {
	fake := llmtest.New()
	for i := 0; i < 10; i++ {
		fake.Decision("coder", "try again").Reply(llm.Reply{Content: "maybe"}).Decision("supervisor", "not good")
	}
	res, err := newTeam(t, fake, WithMaxSteps(4)).Run(context.Background(), "impossible")
	require.NoError(t, err)
	assert.True(t, res.ForcedFinish)
	assert.Equal(t, 4, res.Steps)
	require.Len(t, res.Messages, 6)
	last := res.Messages[5]
	assert.Equal(t, "validator", last.Author())
	assert.Contains(t, last.StringifiedContent(), "Step limit of 4 reached")
}

// spy records the conversation seen by each execution
type spy struct {
	agents.Node
	seen *[][]components.Message
}

func (s spy) Run(ctx context.Context, memory components.MemoryStore) (*agents.Step, error) {
	*s.seen = append(*s.seen, memory.History())
	return s.Node.Run(ctx, memory)
}

func TestConversationIsAppendOnly(t *testing.T) {
	fake := llmtest.New().
		Decision("enhancer", "vague").
		Text("refined").
		Decision("coder", "math").
		Reply(llm.Reply{Content: "4"}).
		Decision("FINISH", "ok")
	var seen [][]components.Message
	team := newTeam(t, fake)
	g := New().SetEntry(schema.RouteSupervisor)
	for _, name := range team.Nodes() {
		g.AddNode(name, spy{Node: team.nodes[name], seen: &seen})
	}

	res, err := g.Run(context.Background(), "2+2?")
	require.NoError(t, err)
	final := turns(res.Messages)
	require.Len(t, seen, res.Steps)
	for i, history := range seen {
		assert.Len(t, history, i+1, "one message per executed node")
		assert.Equal(t, final[:i+1], turns(history), "prior messages are never changed")
		assert.Equal(t, "2+2?", history[0].StringifiedContent())
		assert.Equal(t, components.UserAuthor, history[0].Author())
	}
}

func TestGraphContract(t *testing.T) {
	enhancer := agents.NewTextAgent("enhancer", schema.RouteSupervisor, agents.WithClient(llmtest.New()))

	err := New().AddNode(schema.RouteEnhancer, enhancer).Compile()
	assert.ErrorIs(t, err, ErrNoEntry)

	err = New().AddNode(schema.RouteEnhancer, enhancer).SetEntry(schema.RouteCoder).Compile()
	assert.ErrorIs(t, err, ErrNoEntry)

	err = New().AddNode(schema.RouteEnhancer, enhancer).SetEntry(schema.RouteEnhancer).Compile()
	assert.ErrorIs(t, err, ErrUnknownNode)

	err = New().AddNode(schema.RouteEnhancer, enhancer).AddNode(schema.RouteEnhancer, enhancer).SetEntry(schema.RouteEnhancer).Compile()
	assert.ErrorIs(t, err, ErrDuplicateNode)

	_, err = newTeam(t, llmtest.New()).Run(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestBlankQueryMakesNoModelCall(t *testing.T) {
	client := llmtest.New()
	_, err := newTeam(t, client).Run(context.Background(), "   \n\t")
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Empty(t, client.Calls())
}

// rogue declares only FINISH but returns an unregistered label
type rogue struct{}

func (rogue) Name() string { return "rogue" }
func (rogue) Routes() []schema.Route { return []schema.Route{End} }
func (rogue) Run(context.Context, components.MemoryStore) (*agents.Step, error) {
	return &agents.Step{Message: components.NewAgentMessage("rogue", "hi"), Next: "ghost"}, nil
}

func TestRuntimeUnknownNode(t *testing.T) {
	g := New().AddNode("rogue", rogue{}).SetEntry("rogue")
	_, err := g.Run(context.Background(), "q")
	assert.ErrorIs(t, err, ErrUnknownNode)
}

// detour declares only FINISH but loops back to itself
type detour struct{}

func (detour) Name() string { return "detour" }
func (detour) Routes() []schema.Route { return []schema.Route{End} }
func (detour) Run(context.Context, components.MemoryStore) (*agents.Step, error) {
	return &agents.Step{Message: components.NewAgentMessage("detour", "again"), Next: "detour"}, nil
}

func TestRuntimeUndeclaredRoute(t *testing.T) {
	var failed []schema.Route
	g := New(
		WithErrorHook(func(_ context.Context, _ string, node schema.Route, _ error) { failed = append(failed, node) }),
	).AddNode("detour", detour{}).SetEntry("detour")
	require.NoError(t, g.Compile())
	_, err := g.Run(context.Background(), "q")
	assert.ErrorIs(t, err, ErrUnknownNode)
	assert.Contains(t, err.Error(), "detour is not a route of detour")
	assert.Equal(t, []schema.Route{"detour"}, failed)
}

// blocking waits for the run context to end
type blocking struct{}

func (blocking) Name() string { return "blocking" }
func (blocking) Routes() []schema.Route { return []schema.Route{End} }
func (blocking) Run(ctx context.Context, _ components.MemoryStore) (*agents.Step, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestRunTimeout(t *testing.T) {
	var failed []schema.Route
	g := New(
		WithTimeout(20*time.Millisecond),
		WithErrorHook(func(_ context.Context, _ string, node schema.Route, _ error) { failed = append(failed, node) }),
	).AddNode("blocking", blocking{}).SetEntry("blocking")
	_, err := g.Run(context.Background(), "q")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []schema.Route{"blocking"}, failed)
}

func TestStepLogAndHook(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var hooked []string
	g := newTeam(t, scenarioA(),
		WithLogger(zap.New(core)),
		WithStepHook(func(_ context.Context, _ string, node schema.Route, _ *components.Message, next schema.Route) {
			hooked = append(hooked, string(node)+"->"+string(next))
		}),
	)
	_, err := g.Run(context.Background(), "What is 2+2?")
	require.NoError(t, err)
	assert.Equal(t, []string{"supervisor->coder", "coder->validator", "validator->FINISH"}, hooked)

	entries := logs.FilterMessage("current node").All()
	require.Len(t, entries, 3)
	assert.Equal(t, "supervisor", entries[0].ContextMap()["node"])
	assert.Equal(t, "coder", entries[0].ContextMap()["goto"])
	assert.Equal(t, 1, logs.FilterMessage("run finished").Len())
}
