package nodes

import (
	"context"

	"github.com/martymcenroe/assemblyzero/graph"
	"github.com/martymcenroe/assemblyzero/internal/collaborators"
	"github.com/martymcenroe/assemblyzero/internal/workflowstate"
)

// E2EValidation is N6: optional end-to-end validation, only reached when
// N5 hinted this way. Failure shares the same N4↔N5 iteration budget since
// it loops back to the same node.
type E2EValidation struct {
	Runner collaborators.TestRunner
}

// NewE2EValidation returns an E2EValidation backed by the given test
// runner.
func NewE2EValidation(runner collaborators.TestRunner) *E2EValidation {
	return &E2EValidation{Runner: runner}
}

// Run implements graph.Node[workflowstate.State].
func (n *E2EValidation) Run(ctx context.Context, state workflowstate.State) graph.NodeResult[workflowstate.State] {
	result, err := n.Runner.RunTests(ctx, state.TestFiles)
	if err != nil || !result.AllGreen {
		return loopOrFail(state, result.Failures, "e2e_validation")
	}

	return graph.NodeResult[workflowstate.State]{
		Delta: workflowstate.State{NextNode: "N7"},
	}
}
