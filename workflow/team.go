package workflow

import (
	"errors"

	"github.com/srijan-op/Brain-Chain/agents"
	"github.com/srijan-op/Brain-Chain/llm"
	"github.com/srijan-op/Brain-Chain/prompts"
	"github.com/srijan-op/Brain-Chain/schema"
	"github.com/srijan-op/Brain-Chain/tools"
)

// Team holds the dependencies of the default agent team
type Team struct {
	Client llm.Client
	// Search is the only tool of the researcher
	Search tools.Tool
	// Exec is the only tool of the coder
	Exec tools.Tool
	// Prompts defaults to the embedded prompts
	Prompts *prompts.Set
	// MaxToolIterations bounds the tool loop of researcher and coder
	MaxToolIterations int
	// AgentOptions are applied to every node
	AgentOptions []agents.Option
}

// NewDefault returns the compiled supervisor, enhancer, researcher, coder,
// validator graph
func NewDefault(team Team, opts ...Option) (*Graph, error) {
	if team.Client == nil || team.Search == nil || team.Exec == nil {
		return nil, errors.New("workflow: team requires a client, a search tool and an exec tool")
	}
	set := team.Prompts
	if set == nil {
		set = prompts.Default()
	}
	options := append([]agents.Option{agents.WithClient(team.Client)}, team.AgentOptions...)

	researcher := agents.NewResearcher(set.Researcher, team.Search, options...).SetMaxIterations(team.MaxToolIterations)
	coder := agents.NewCoder(set.Coder, team.Exec, options...).SetMaxIterations(team.MaxToolIterations)

	g := New(opts...).
		AddNode(schema.RouteSupervisor, agents.NewSupervisor(set.Supervisor, options...)).
		AddNode(schema.RouteEnhancer, agents.NewEnhancer(set.Enhancer, options...)).
		AddNode(schema.RouteResearcher, researcher).
		AddNode(schema.RouteCoder, coder).
		AddNode(schema.RouteValidator, agents.NewValidator(set.Validator, options...)).
		SetEntry(schema.RouteSupervisor)
	if err := g.Compile(); err != nil {
		return nil, err
	}
	return g, nil
}
