// Package bootstrap assembles the agent team from the loaded configuration.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/srijan-op/Brain-Chain/agents"
	"github.com/srijan-op/Brain-Chain/components"
	"github.com/srijan-op/Brain-Chain/internal/config"
	"github.com/srijan-op/Brain-Chain/llm"
	"github.com/srijan-op/Brain-Chain/prompts"
	"github.com/srijan-op/Brain-Chain/tools"
	"github.com/srijan-op/Brain-Chain/tools/calculator"
	"github.com/srijan-op/Brain-Chain/tools/riza"
	"github.com/srijan-op/Brain-Chain/tools/searxng"
	"github.com/srijan-op/Brain-Chain/tools/tavily"
	"github.com/srijan-op/Brain-Chain/workflow"
)

// Options overrides parts of the assembly, mostly for tests
type Options struct {
	// HTTPClient is shared by the model client and the tool backends
	HTTPClient *http.Client
}

// Graph builds the compiled workflow described by cfg
func Graph(cfg *config.Config, logger *zap.Logger, opts Options) (*workflow.Graph, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	set := prompts.Default()
	if cfg.Prompts.File != "" {
		loaded, err := prompts.Load(cfg.Prompts.File)
		if err != nil {
			return nil, err
		}
		set = loaded
	}
	client, err := NewClient(cfg.LLM, logger, opts.HTTPClient)
	if err != nil {
		return nil, err
	}
	search, err := NewSearch(cfg.Search, logger, opts.HTTPClient)
	if err != nil {
		return nil, err
	}
	exec, err := NewExec(cfg.Code, logger, opts.HTTPClient)
	if err != nil {
		return nil, err
	}
	return workflow.NewDefault(workflow.Team{
		Client:            client,
		Search:            search,
		Exec:              exec,
		Prompts:           set,
		MaxToolIterations: cfg.Agents.MaxToolIterations,
		AgentOptions:      agentOptions(logger),
	},
		workflow.WithMaxSteps(cfg.Workflow.MaxSteps),
		workflow.WithTimeout(cfg.Workflow.Timeout),
		workflow.WithLogger(logger),
	)
}

// NewClient returns the model client for cfg, token usage is logged at debug level
func NewClient(cfg config.LLMConfig, logger *zap.Logger, httpClient *http.Client) (llm.Client, error) {
	opts := []llm.Option{
		llm.WithAPIKey(cfg.APIKey.Value()),
		llm.WithModel(cfg.Model),
		llm.WithTemperature(cfg.Temperature),
		llm.WithMaxTokens(cfg.MaxTokens),
		llm.WithMaxAttempts(cfg.MaxAttempts),
		llm.WithUsageHook(func(_ context.Context, resp *components.LLMResponse) {
			fields := []zap.Field{zap.String("model", resp.Model), zap.String("id", resp.ID)}
			if resp.Usage != nil {
				fields = append(fields, zap.Int64("input_tokens", resp.Usage.InputTokens), zap.Int64("output_tokens", resp.Usage.OutputTokens))
			}
			logger.Debug("llm usage", fields...)
		}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, llm.WithBaseURL(cfg.BaseURL))
	}
	if httpClient != nil {
		opts = append(opts, llm.WithHTTPClient(httpClient))
	}
	return llm.New(llm.Provider(cfg.Provider), opts...)
}

// NewSearch returns the researcher's search tool
func NewSearch(cfg config.SearchConfig, logger *zap.Logger, httpClient *http.Client) (tools.Tool, error) {
	switch cfg.Provider {
	case "tavily":
		opts := []tavily.Option{
			tavily.WithAPIKey(cfg.APIKey.Value()),
			tavily.WithMaxResults(cfg.MaxResults),
			tavily.WithToolOptions(toolHooks(logger)...),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, tavily.WithBaseURL(cfg.BaseURL))
		}
		if httpClient != nil {
			opts = append(opts, tavily.WithHttpClient(httpClient))
		}
		return tools.Wrap(tavily.New(opts...)), nil
	case "searxng":
		opts := []searxng.Option{
			searxng.WithMaxResults(cfg.MaxResults),
			searxng.WithToolOptions(toolHooks(logger)...),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, searxng.WithBaseURL(cfg.BaseURL))
		}
		if httpClient != nil {
			opts = append(opts, searxng.WithHttpClient(httpClient))
		}
		return tools.Wrap(searxng.New(opts...)), nil
	default:
		return nil, fmt.Errorf("unknown search provider %q", cfg.Provider)
	}
}

// NewExec returns the coder's code execution tool
func NewExec(cfg config.CodeConfig, logger *zap.Logger, httpClient *http.Client) (tools.Tool, error) {
	switch cfg.Provider {
	case "riza":
		opts := []riza.Option{
			riza.WithAPIKey(cfg.APIKey.Value()),
			riza.WithToolOptions(toolHooks(logger)...),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, riza.WithBaseURL(cfg.BaseURL))
		}
		if httpClient != nil {
			opts = append(opts, riza.WithHttpClient(httpClient))
		}
		return tools.Wrap(riza.New(opts...)), nil
	case "calculator":
		return tools.Wrap(calculator.New(toolHooks(logger)...)), nil
	default:
		return nil, fmt.Errorf("unknown code provider %q", cfg.Provider)
	}
}

func toolHooks(logger *zap.Logger) []tools.Option {
	return []tools.Option{
		tools.WithStartHook(func(_ context.Context, t tools.Tool, args string) {
			logger.Info("tool call", zap.String("tool", t.Title()), zap.String("arguments", args))
		}),
		tools.WithEndHook(func(_ context.Context, t tools.Tool, _ string, result string) {
			logger.Debug("tool result", zap.String("tool", t.Title()), zap.Int("bytes", len(result)))
		}),
		tools.WithErrorHook(func(_ context.Context, t tools.Tool, _ string, err error) {
			logger.Warn("tool error", zap.String("tool", t.Title()), zap.Error(err))
		}),
	}
}

func agentOptions(logger *zap.Logger) []agents.Option {
	return []agents.Option{
		agents.WithLogger(logger),
		agents.WithStartHook(func(_ context.Context, n agents.Node) {
			logger.Debug("node start", zap.String("node", n.Name()))
		}),
		agents.WithEndHook(func(_ context.Context, n agents.Node, step *agents.Step) {
			logger.Debug("node end", zap.String("node", n.Name()), zap.String("next", string(step.Next)))
		}),
	}
}
