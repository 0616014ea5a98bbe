package workflow

import (
	"github.com/srijan-op/Brain-Chain/components"
	"github.com/srijan-op/Brain-Chain/schema"
)

// Result is the outcome of one run
type Result struct {
	RunID string `json:"run_id"`
	// Messages is the full conversation, the user query first
	Messages []components.Message `json:"messages"`
	// Steps is the number of node executions
	Steps int `json:"steps"`
	// Path lists the executed nodes in order
	Path []schema.Route `json:"path"`
	// ForcedFinish is true when the step bound ended the run
	ForcedFinish bool `json:"forced_finish"`
}

// Answer returns the content of the last message written by a worker node
func (r Result) Answer() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		switch schema.Route(r.Messages[i].Author()) {
		case schema.RouteEnhancer, schema.RouteResearcher, schema.RouteCoder:
			return r.Messages[i].StringifiedContent()
		}
	}
	return ""
}
