// Package nodes implements the fixed N0…N8 step functions of the issue
// workflow graph. Each node is a graph.Node[workflowstate.State]: it reads
// state, may invoke an external collaborator, and returns a partial update.
// Nodes never set NodeResult.Err — the engine aborts the whole run on a
// non-nil Err, which would defeat graceful end-routing — so every failure
// path here translates into state.ErrorMessage instead.
package nodes

import (
	"context"
	"fmt"
	"os"

	"github.com/martymcenroe/assemblyzero/graph"
	"github.com/martymcenroe/assemblyzero/internal/workflowstate"
)

// defaultMaxIterations is used when a workflow's MaxIterations was never
// set by the driver (state.MaxIterations == 0).
const defaultMaxIterations = 10

func effectiveMaxIterations(state workflowstate.State) int {
	if state.MaxIterations > 0 {
		return state.MaxIterations
	}
	return defaultMaxIterations
}

// errDelta builds a NodeResult that carries a fatal error_message and
// nothing else, the uniform shape every node uses to signal failure
// without raising out of the runtime.
func errDelta(format string, args ...interface{}) graph.NodeResult[workflowstate.State] {
	return graph.NodeResult[workflowstate.State]{
		Delta: workflowstate.State{ErrorMessage: fmt.Sprintf(format, args...)},
	}
}

// defaultReadFile reads an LLD file's contents for collaborators that want
// the raw markdown rather than the parsed requirement list.
func defaultReadFile(path string) (string, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(contents), nil
}

// repoRootResolver is satisfied by *location.Resolver; narrowed here so
// nodes depend only on the single method they use.
type repoRootResolver interface {
	RepoRoot(ctx context.Context) (string, error)
}
