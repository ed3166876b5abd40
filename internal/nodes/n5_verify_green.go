package nodes

import (
	"context"
	"fmt"

	"github.com/martymcenroe/assemblyzero/graph"
	"github.com/martymcenroe/assemblyzero/internal/collaborators"
	"github.com/martymcenroe/assemblyzero/internal/workflowstate"
)

// VerifyGreen is N5: executes the test suite and requires all new tests to
// pass. Failure loops back to N4 (incrementing iteration_count) up to
// max_iterations, then terminates with an error. Success hints onward to
// N6 when end-to-end validation is configured, or directly to N7 when it
// is not. N5 and N6 are the nodes that set next_node hints; N3 sets none,
// since its routing is strictly error-or-continue.
type VerifyGreen struct {
	Runner collaborators.TestRunner
	HasE2E bool
}

// NewVerifyGreen returns a VerifyGreen backed by the given test runner.
// hasE2E controls whether a passing suite hints onward to N6 or skips
// straight to N7.
func NewVerifyGreen(runner collaborators.TestRunner, hasE2E bool) *VerifyGreen {
	return &VerifyGreen{Runner: runner, HasE2E: hasE2E}
}

// Run implements graph.Node[workflowstate.State].
func (n *VerifyGreen) Run(ctx context.Context, state workflowstate.State) graph.NodeResult[workflowstate.State] {
	result, err := n.Runner.RunTests(ctx, state.TestFiles)
	if err != nil || !result.AllGreen {
		return loopOrFail(state, result.Failures, "verify_green")
	}

	next := "N7"
	if n.HasE2E {
		next = "N6"
	}
	return graph.NodeResult[workflowstate.State]{
		Delta: workflowstate.State{NextNode: next},
	}
}

// loopOrFail is the shared failure-routing logic for N5 and N6: loop back
// to N4 while under the iteration cap, otherwise set error_message so the
// error-wins edge routes to end.
func loopOrFail(state workflowstate.State, failures []string, nodeName string) graph.NodeResult[workflowstate.State] {
	maxIter := effectiveMaxIterations(state)
	if state.IterationCount < maxIter {
		return graph.NodeResult[workflowstate.State]{
			Delta: workflowstate.State{
				IterationCount:   state.IterationCount + 1,
				LastTestFailures: failures,
				NextNode:         "N4",
			},
		}
	}
	return graph.NodeResult[workflowstate.State]{
		Delta: workflowstate.State{
			ErrorMessage:     fmt.Sprintf("%s exceeded max_iterations (%d) without all tests passing", nodeName, maxIter),
			LastTestFailures: failures,
		},
	}
}
