// Package calculator evaluates math expressions locally.
//
// It stands in for the remote code interpreter when no sandbox key is
// configured.
package calculator

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Knetic/govaluate"

	"github.com/srijan-op/Brain-Chain/tools"
)

// Input Tool for performing calculations. Supports basic arithmetic operations
// like addition, subtraction, multiplication, and division, as well as more
// complex operations like exponentiation and trigonometric functions.
type Input struct {
	// Expression Mathematical expression to evaluate. For example, '2 + 2'.
	Expression string `json:"expression" jsonschema:"title=expression,description=Mathematical expression to evaluate. For example '2 + 2' or 'factorial(5)'. Functions: abs sqrt cbrt exp ln log log2 sin cos tan asin acos atan floor ceil round factorial pow min max mod. Constants: pi e phi." validate:"required"`
	// Params represents expressions's parameters
	Params map[string]interface{} `json:"params,omitempty" jsonschema:"title=params,description=Named variables used in the expression."`
}

func NewInput(exp string, params map[string]interface{}) *Input {
	return &Input{
		Expression: exp,
		Params:     params,
	}
}

func (s Input) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// Output Schema for the output of the calculator
type Output struct {
	// Result Result of the calculation
	Result interface{} `json:"result,omitempty"`
}

func NewOutput(result interface{}) *Output {
	return &Output{
		Result: result,
	}
}

func (s Output) String() string {
	switch v := s.Result.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

type Tool struct {
	tools.Config
}

var _ tools.Runner[Input, Output] = (*Tool)(nil)

func New(opts ...tools.Option) *Tool {
	ret := new(Tool)
	tools.Apply(&ret.Config, opts...)
	if ret.Title() == "" {
		ret.SetTitle("calculator")
	}
	if ret.Description() == "" {
		ret.SetDescription("Evaluate a mathematical expression and return the numeric result.")
	}
	return ret
}

// Run evaluates the expression. A malformed or unevaluable expression is
// reported as invalid arguments.
func (t *Tool) Run(ctx context.Context, input *Input) (*Output, error) {
	exp, err := govaluate.NewEvaluableExpressionWithFunctions(input.Expression, functions)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %q: %w", tools.ErrInvalidArguments, input.Expression, err)
	}
	params := make(map[string]interface{}, len(input.Params)+len(constants))
	for k, v := range input.Params {
		params[k] = v
	}
	for k, v := range constants {
		if _, ok := params[k]; ok {
			continue
		}
		params[k] = v
	}
	result, err := exp.Evaluate(params)
	if err != nil {
		return nil, fmt.Errorf("%w: evaluating %q: %w", tools.ErrInvalidArguments, input.Expression, err)
	}
	return NewOutput(result), nil
}
