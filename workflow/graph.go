// Package workflow drives a conversation through a graph of agent nodes.
//
// A run starts at the entry node with the user query as the only message.
// Each node reads the conversation, appends exactly one message and names
// the next node, until FINISH is returned or the step bound is reached.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/srijan-op/Brain-Chain/agents"
	"github.com/srijan-op/Brain-Chain/components"
	"github.com/srijan-op/Brain-Chain/schema"
)

// End is the terminal label
const End = schema.RouteFinish

var (
	// ErrUnknownNode is returned when a transition targets a node that is not registered
	ErrUnknownNode = errors.New("unknown node")
	// ErrNoEntry is returned when the entry node is not set or not registered
	ErrNoEntry = errors.New("no entry node")
	// ErrDuplicateNode is returned when two nodes share a name
	ErrDuplicateNode = errors.New("duplicate node")
	// ErrEmptyQuery is returned when Run is called without a query
	ErrEmptyQuery = errors.New("empty query")
	// ErrNoStep is returned when a node returns no message
	ErrNoStep = errors.New("node returned no step")
)

// Graph is a state machine over node names
type Graph struct {
	Options
	nodes      map[schema.Route]agents.Node
	order      []schema.Route
	entry      schema.Route
	compiled   bool
	compileErr error
}

// New returns an empty Graph
func New(opts ...Option) *Graph {
	ret := &Graph{
		Options: Options{
			maxSteps: DefaultMaxSteps,
			timeout:  DefaultTimeout,
		},
		nodes: make(map[schema.Route]agents.Node),
	}
	for _, opt := range opts {
		opt(&ret.Options)
	}
	if ret.maxSteps <= 0 {
		ret.maxSteps = DefaultMaxSteps
	}
	if ret.logger == nil {
		ret.logger = zap.NewNop()
	}
	return ret
}

// AddNode registers node under name
func (g *Graph) AddNode(name schema.Route, node agents.Node) *Graph {
	if _, ok := g.nodes[name]; ok {
		g.compileErr = errors.Join(g.compileErr, fmt.Errorf("%w: %s", ErrDuplicateNode, name))
		return g
	}
	g.nodes[name] = node
	g.order = append(g.order, name)
	g.compiled = false
	return g
}

// SetEntry sets the node a run starts at
func (g *Graph) SetEntry(name schema.Route) *Graph {
	g.entry = name
	g.compiled = false
	return g
}

// Compile checks the entry node and every declared route
func (g *Graph) Compile() error {
	if g.compileErr != nil {
		return g.compileErr
	}
	if g.entry == "" {
		return ErrNoEntry
	}
	if _, ok := g.nodes[g.entry]; !ok {
		return fmt.Errorf("%w: %s is not registered", ErrNoEntry, g.entry)
	}
	for _, name := range g.order {
		for _, next := range g.nodes[name].Routes() {
			if next == End {
				continue
			}
			if _, ok := g.nodes[next]; !ok {
				return fmt.Errorf("%w: %s routes to %s", ErrUnknownNode, name, next)
			}
		}
	}
	g.compiled = true
	return nil
}

// Nodes returns the registered node names in insertion order
func (g *Graph) Nodes() []schema.Route {
	ret := make([]schema.Route, len(g.order))
	copy(ret, g.order)
	return ret
}

// Run executes the graph for query.
// Run is safe for concurrent use once the graph is compiled.
func (g *Graph) Run(ctx context.Context, query string) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if !g.compiled {
		if err := g.Compile(); err != nil {
			return nil, err
		}
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	memory := components.NewMemory("")
	memory.Append(components.NewMessage(components.UserRole, schema.NewString(query)).SetAuthor(components.UserAuthor))
	ret := &Result{RunID: memory.RunID()}
	logger := g.logger.With(zap.String("run_id", ret.RunID))
	startTime := time.Now()

	current := g.entry
	for current != End {
		if ret.Steps >= g.maxSteps {
			msg := components.NewAgentMessage(string(schema.RouteValidator), fmt.Sprintf("Step limit of %d reached, finishing the workflow.", g.maxSteps))
			memory.Append(msg)
			ret.ForcedFinish = true
			logger.Warn("step limit reached", zap.Int("max_steps", g.maxSteps), zap.String("node", string(current)))
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run %s: %w", ret.RunID, err)
		}
		node, ok := g.nodes[current]
		if !ok {
			return nil, fmt.Errorf("run %s: %w: %s", ret.RunID, ErrUnknownNode, current)
		}
		step, err := node.Run(ctx, memory)
		if err == nil && (step == nil || step.Message == nil) {
			err = fmt.Errorf("%w: %s", ErrNoStep, current)
		}
		if err == nil && !slices.Contains(node.Routes(), step.Next) {
			err = fmt.Errorf("%w: %s is not a route of %s", ErrUnknownNode, step.Next, current)
		}
		if err != nil {
			logger.Error("node failed", zap.String("node", string(current)), zap.Error(err))
			if fn := g.onError; fn != nil {
				fn(ctx, ret.RunID, current, err)
			}
			return nil, fmt.Errorf("run %s: %w", ret.RunID, err)
		}
		memory.Append(step.Message)
		ret.Steps++
		ret.Path = append(ret.Path, current)
		logger.Info("current node", zap.String("node", string(current)), zap.String("goto", string(step.Next)))
		if fn := g.onStep; fn != nil {
			fn(ctx, ret.RunID, current, step.Message, step.Next)
		}
		current = step.Next
	}

	ret.Messages = memory.History()
	logger.Info("run finished",
		zap.Int("steps", ret.Steps),
		zap.Int("messages", len(ret.Messages)),
		zap.Bool("forced_finish", ret.ForcedFinish),
		zap.Duration("duration", time.Since(startTime)),
	)
	return ret, nil
}
