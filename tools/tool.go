package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"

	"github.com/srijan-op/Brain-Chain/components"
	"github.com/srijan-op/Brain-Chain/schema"
)

var (
	// ErrToolFailed wraps failures of a tool backend
	ErrToolFailed = errors.New("tool failed")
	// ErrInvalidArguments is returned when the model sends arguments that do not
	// match the tool input schema
	ErrInvalidArguments = errors.New("invalid tool arguments")
)

var validate = validator.New()

// Tool is a capability offered to the model during a tool-calling turn
type Tool interface {
	Title() string
	Description() string
	// Definition returns the name, description and argument schema sent to the model
	Definition() components.ToolDefinition
	// Call runs the tool with the JSON arguments chosen by the model and
	// returns the text fed back to it
	Call(ctx context.Context, arguments string) (string, error)
}

// Runner is a tool with typed input and output
type Runner[I schema.Schema, O schema.Schema] interface {
	Title() string
	Description() string
	Hooks() Hooks
	Run(context.Context, *I) (*O, error)
}

// Typed adapts a Runner to the Tool interface
type Typed[I schema.Schema, O schema.Schema] struct {
	runner     Runner[I, O]
	parameters *jsonschema.Schema
}

var _ Tool = (*Typed[schema.String, schema.String])(nil)

// Wrap returns the Tool for runner, the argument schema is reflected from I
func Wrap[I schema.Schema, O schema.Schema](runner Runner[I, O]) *Typed[I, O] {
	r := jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	parameters := r.Reflect(new(I))
	parameters.Version = ""
	parameters.ID = ""
	return &Typed[I, O]{
		runner:     runner,
		parameters: parameters,
	}
}

func (t *Typed[I, O]) Title() string {
	return t.runner.Title()
}

func (t *Typed[I, O]) Description() string {
	return t.runner.Description()
}

func (t *Typed[I, O]) Definition() components.ToolDefinition {
	return components.ToolDefinition{
		Name:        t.runner.Title(),
		Description: t.runner.Description(),
		Parameters:  t.parameters,
	}
}

// Call decodes and validates arguments, runs the tool and returns the String
// form of its output
func (t *Typed[I, O]) Call(ctx context.Context, arguments string) (string, error) {
	hooks := t.runner.Hooks()
	if fn := hooks.start; fn != nil {
		fn(ctx, t, arguments)
	}
	ret, err := t.call(ctx, arguments)
	if err != nil {
		if fn := hooks.error; fn != nil {
			fn(ctx, t, arguments, err)
		}
		return "", err
	}
	if fn := hooks.end; fn != nil {
		fn(ctx, t, arguments, ret)
	}
	return ret, nil
}

func (t *Typed[I, O]) call(ctx context.Context, arguments string) (string, error) {
	in := new(I)
	if arguments == "" {
		arguments = "{}"
	}
	if err := json.Unmarshal([]byte(arguments), in); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidArguments, t.Title(), err)
	}
	if err := validate.Struct(in); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidArguments, t.Title(), err)
	}
	out, err := t.runner.Run(ctx, in)
	if err != nil {
		return "", err
	}
	if out == nil {
		return "", nil
	}
	return (*out).String(), nil
}
