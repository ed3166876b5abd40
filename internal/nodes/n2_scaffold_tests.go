package nodes

import (
	"context"

	"github.com/martymcenroe/assemblyzero/graph"
	"github.com/martymcenroe/assemblyzero/internal/collaborators"
	"github.com/martymcenroe/assemblyzero/internal/workflowstate"
)

// ScaffoldTests is N2: emits executable test stubs that compile but fail.
type ScaffoldTests struct {
	Scaffolder collaborators.TestScaffolder
	ReadFile   func(path string) (string, error)
}

// NewScaffoldTests returns a ScaffoldTests backed by the given scaffolder.
func NewScaffoldTests(scaffolder collaborators.TestScaffolder) *ScaffoldTests {
	return &ScaffoldTests{Scaffolder: scaffolder, ReadFile: defaultReadFile}
}

// Run implements graph.Node[workflowstate.State].
func (n *ScaffoldTests) Run(ctx context.Context, state workflowstate.State) graph.NodeResult[workflowstate.State] {
	contents, err := n.ReadFile(state.LLDPath)
	if err != nil {
		return errDelta("reading LLD %q: %v", state.LLDPath, err)
	}

	files, err := n.Scaffolder.ScaffoldTests(ctx, contents)
	if err != nil {
		return errDelta("test scaffolder: %v", err)
	}

	return graph.NodeResult[workflowstate.State]{
		Delta: workflowstate.State{TestFiles: files},
	}
}
