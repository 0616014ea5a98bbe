package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupervisorDecisionValidate(t *testing.T) {
	for _, next := range []Route{RouteEnhancer, RouteResearcher, RouteCoder} {
		d := SupervisorDecision{Next: next, Reason: "because"}
		assert.NoError(t, d.Validate(), next)
	}

	for _, next := range []Route{RouteSupervisor, RouteValidator, RouteFinish, "unknown", ""} {
		d := SupervisorDecision{Next: next, Reason: "because"}
		err := d.Validate()
		require.Error(t, err, next)
		assert.ErrorIs(t, err, ErrInvalidDecision)
	}
}

func TestValidatorDecisionValidate(t *testing.T) {
	for _, next := range []Route{RouteSupervisor, RouteFinish} {
		d := ValidatorDecision{Next: next, Reason: "ok"}
		assert.NoError(t, d.Validate(), next)
	}

	for _, next := range []Route{RouteEnhancer, RouteCoder, "finish", "END"} {
		d := ValidatorDecision{Next: next, Reason: "ok"}
		assert.ErrorIs(t, d.Validate(), ErrInvalidDecision, next)
	}
}

func TestDecisionMissingReason(t *testing.T) {
	err := SupervisorDecision{Next: RouteCoder}.Validate()
	require.ErrorIs(t, err, ErrInvalidDecision)
	assert.Contains(t, err.Error(), "reason is required")
}

func TestDecisionErrorNamesOffendingValue(t *testing.T) {
	err := SupervisorDecision{Next: "unknown", Reason: "x"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `next "unknown" is not one of [enhancer researcher coder]`)
}

func TestDecisionFromModelJSON(t *testing.T) {
	var d ValidatorDecision
	require.NoError(t, json.Unmarshal([]byte(`{"next":"FINISH","reason":"answer is complete"}`), &d))
	assert.Equal(t, RouteFinish, d.Route())
	assert.Equal(t, "answer is complete", d.Why())
	assert.NoError(t, d.Validate())
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "plain", Stringify(NewString("plain")))
	assert.Equal(t, `{"next":"coder","reason":"math"}`, Stringify(SupervisorDecision{Next: RouteCoder, Reason: "math"}))
	assert.Equal(t, "", Stringify(nil))
}
