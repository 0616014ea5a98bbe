package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Route names a node of the agent graph, or the terminal label
type Route string

const (
	RouteSupervisor Route = "supervisor"
	RouteEnhancer   Route = "enhancer"
	RouteResearcher Route = "researcher"
	RouteCoder      Route = "coder"
	RouteValidator  Route = "validator"
	// RouteFinish ends the workflow
	RouteFinish Route = "FINISH"
)

// ErrInvalidDecision is returned when a structured routing decision does not
// conform to the enum or shape expected from the node that produced it
var ErrInvalidDecision = errors.New("invalid routing decision")

var validate = validator.New()

// Decision is a routing choice returned by the model as structured output.
// It must pass Validate before the workflow acts on it.
type Decision interface {
	Schema
	// Route returns the next node label
	Route() Route
	// Why returns the justification for the choice
	Why() string
	// Validate checks the decision against its enum
	Validate() error
}

// SupervisorDecision specifies the next worker in the pipeline
type SupervisorDecision struct {
	// Next is the worker chosen to act on the conversation
	Next Route `json:"next" jsonschema:"title=next,enum=enhancer,enum=researcher,enum=coder,description=Specifies the next worker in the pipeline: 'enhancer' for enhancing the user prompt if it is unclear or vague; 'researcher' for additional information gathering; 'coder' for solving technical or code-related problems." validate:"required,oneof=enhancer researcher coder"`
	// Reason gives context on why a particular worker was chosen
	Reason string `json:"reason" jsonschema:"title=reason,description=The reason for the decision providing context on why a particular worker was chosen." validate:"required"`
}

var _ Decision = (*SupervisorDecision)(nil)

func (d SupervisorDecision) String() string {
	bs, _ := json.Marshal(d)
	return string(bs)
}

func (d SupervisorDecision) Route() Route {
	return d.Next
}

func (d SupervisorDecision) Why() string {
	return d.Reason
}

func (d SupervisorDecision) Validate() error {
	return validateDecision(d)
}

// ValidatorDecision either finishes the workflow or hands it back to the supervisor
type ValidatorDecision struct {
	// Next is 'supervisor' to continue or 'FINISH' to terminate
	Next Route `json:"next" jsonschema:"title=next,enum=supervisor,enum=FINISH,description=Specifies the next worker in the pipeline: 'supervisor' to continue or 'FINISH' to terminate." validate:"required,oneof=supervisor FINISH"`
	// Reason for the decision
	Reason string `json:"reason" jsonschema:"title=reason,description=The reason for the decision." validate:"required"`
}

var _ Decision = (*ValidatorDecision)(nil)

func (d ValidatorDecision) String() string {
	bs, _ := json.Marshal(d)
	return string(bs)
}

func (d ValidatorDecision) Route() Route {
	return d.Next
}

func (d ValidatorDecision) Why() string {
	return d.Reason
}

func (d ValidatorDecision) Validate() error {
	return validateDecision(d)
}

func validateDecision(d any) error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidDecision, err)
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Tag() == "oneof" {
			problems = append(problems, fmt.Sprintf("%s %q is not one of [%s]", strings.ToLower(fe.Field()), fe.Value(), fe.Param()))
			continue
		}
		problems = append(problems, fmt.Sprintf("%s is %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidDecision, strings.Join(problems, "; "))
}
