// Package riza runs code in the Riza code interpreter sandbox.
package riza

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/srijan-op/Brain-Chain/tools"
)

const DefaultBaseURL = "https://api.riza.io/v1"

// Input is a program to execute
type Input struct {
	// Code the program to run, results must be printed to stdout
	Code string `json:"code" jsonschema:"title=code,description=The Python code to execute. Print the result to stdout to read it." validate:"required"`
}

func (s Input) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// Output is the outcome of one execution.
// A non-zero exit code is reported to the model rather than returned as an error.
type Output struct {
	ExitCode int    `json:"exit_code"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
}

func (s Output) String() string {
	if s.ExitCode == 0 {
		return s.Stdout
	}
	return fmt.Sprintf("execution failed with exit code %d\nstdout:\n%s\nstderr:\n%s", s.ExitCode, s.Stdout, s.Stderr)
}

type executeRequest struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

type Config struct {
	tools.Config
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
}

// ExecPython is a tool executing code through the Riza API
type ExecPython struct {
	Config
}

var _ tools.Runner[Input, Output] = (*ExecPython)(nil)

func New(opts ...Option) *ExecPython {
	ret := new(ExecPython)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle("riza_exec_python")
	}
	if ret.Description() == "" {
		ret.SetDescription("Execute Python code to solve problems. The Python runtime does not have filesystem access. You can use the requests library to make HTTP requests. Always print output to stdout.")
	}
	if ret.baseURL == "" {
		ret.baseURL = DefaultBaseURL
	}
	ret.baseURL = strings.TrimRight(ret.baseURL, "/")
	if ret.language == "" {
		ret.language = "python"
	}
	if ret.httpClient == nil {
		ret.httpClient = http.DefaultClient
	}
	return ret
}

// Run executes input.Code remotely
func (t *ExecPython) Run(ctx context.Context, input *Input) (*Output, error) {
	body, err := json.Marshal(executeRequest{
		Language: t.language,
		Code:     input.Code,
	})
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/execute", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+t.apiKey)

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: calling riza: %w", tools.ErrToolFailed, err)
	}
	defer httpResp.Body.Close()
	if err := tools.CheckResponse("riza", httpResp); err != nil {
		return nil, err
	}

	out := new(Output)
	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("%w: decoding riza response: %w", tools.ErrToolFailed, err)
	}
	return out, nil
}
