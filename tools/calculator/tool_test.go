package calculator

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srijan-op/Brain-Chain/tools"
)

func TestCalculator(t *testing.T) {
	ctx := context.Background()
	tool := New()
	for exp, expected := range map[string]string{
		"2+2":                "4",
		"factorial(5)":       "120",
		"pow(2, 10)":         "1024",
		"round(pi * 100)":    "314",
		"x * 3":              "21",
		"sqrt(16) > 3":       "true",
		"max(1, min(5, 10))": "5",
	} {
		ret, err := tool.Run(ctx, NewInput(exp, map[string]interface{}{"x": 7.0}))
		require.NoError(t, err, exp)
		assert.Equal(t, expected, ret.String(), exp)
	}
}

func TestCalculatorErrors(t *testing.T) {
	ctx := context.Background()
	tool := New()

	_, err := tool.Run(ctx, NewInput("2 +", nil))
	assert.ErrorIs(t, err, tools.ErrInvalidArguments)

	_, err = tool.Run(ctx, NewInput("undefined_var + 1", nil))
	assert.ErrorIs(t, err, tools.ErrInvalidArguments)

	_, err = tool.Run(ctx, NewInput("sqrt(1, 2)", nil))
	assert.ErrorIs(t, err, tools.ErrInvalidArguments)
}

func TestCalculatorAsTool(t *testing.T) {
	tool := tools.Wrap(New(tools.WithTitle("execute_code")))
	assert.Equal(t, "execute_code", tool.Definition().Name)

	var started, ended string
	hooked := tools.Wrap(New(
		tools.WithStartHook(func(_ context.Context, _ tools.Tool, args string) { started = args }),
		tools.WithEndHook(func(_ context.Context, _ tools.Tool, _ string, result string) { ended = result }),
	))
	ret, err := hooked.Call(context.Background(), `{"expression":"2+2"}`)
	require.NoError(t, err)
	assert.Equal(t, "4", ret)
	assert.Equal(t, `{"expression":"2+2"}`, started)
	assert.Equal(t, "4", ended)

	_, err = hooked.Call(context.Background(), `not json`)
	assert.ErrorIs(t, err, tools.ErrInvalidArguments)
}

func ExampleTool_Run() {
	ctx := context.Background()
	tool := New()
	ret, _ := tool.Run(ctx, NewInput("2+2", nil))
	fmt.Println(ret.Result)
	// Output:
	// 4
}
