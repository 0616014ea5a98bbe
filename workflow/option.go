package workflow

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/srijan-op/Brain-Chain/components"
	"github.com/srijan-op/Brain-Chain/schema"
)

const (
	DefaultMaxSteps = 25
	DefaultTimeout  = 3 * time.Minute
)

// Options configure a Graph
type Options struct {
	// maxSteps bounds the node executions of one run
	maxSteps int
	// timeout bounds the duration of one run, zero disables it
	timeout time.Duration
	logger  *zap.Logger
	onStep  func(ctx context.Context, runID string, node schema.Route, msg *components.Message, next schema.Route)
	onError func(ctx context.Context, runID string, node schema.Route, err error)
}

type Option func(o *Options)

func WithMaxSteps(n int) Option {
	return func(o *Options) {
		o.maxSteps = n
	}
}

func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.timeout = d
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.logger = logger
	}
}

// WithStepHook registers a callback run after every node execution
func WithStepHook(fn func(ctx context.Context, runID string, node schema.Route, msg *components.Message, next schema.Route)) Option {
	return func(o *Options) {
		o.onStep = fn
	}
}

// WithErrorHook registers a callback run when a node fails
func WithErrorHook(fn func(ctx context.Context, runID string, node schema.Route, err error)) Option {
	return func(o *Options) {
		o.onError = fn
	}
}
