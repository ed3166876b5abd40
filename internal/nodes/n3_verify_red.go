package nodes

import (
	"context"

	"github.com/martymcenroe/assemblyzero/graph"
	"github.com/martymcenroe/assemblyzero/internal/collaborators"
	"github.com/martymcenroe/assemblyzero/internal/workflowstate"
)

// VerifyRed is N3: executes the generated tests against the empty
// implementation and requires that all of them fail. A non-nil error or an
// unexpectedly passing suite is an execution error, not a retry-able
// condition — either way it routes to end via error_message.
type VerifyRed struct {
	Runner collaborators.TestRunner
}

// NewVerifyRed returns a VerifyRed backed by the given test runner.
func NewVerifyRed(runner collaborators.TestRunner) *VerifyRed {
	return &VerifyRed{Runner: runner}
}

// Run implements graph.Node[workflowstate.State].
func (n *VerifyRed) Run(ctx context.Context, state workflowstate.State) graph.NodeResult[workflowstate.State] {
	result, err := n.Runner.RunTests(ctx, state.TestFiles)
	if err != nil {
		return errDelta("verify_red: running tests: %v", err)
	}
	if !result.AllRed {
		return errDelta("verify_red: expected all new tests to fail before implementation, but they did not")
	}

	return graph.NodeResult[workflowstate.State]{}
}
