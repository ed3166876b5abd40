package nodes

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"strings"

	"github.com/martymcenroe/assemblyzero/graph"
	"github.com/martymcenroe/assemblyzero/internal/workflowstate"
)

// ValidateTestsMechanical is N2.5: deterministic checks on the scaffold
// (syntactic validity, no skipped tests, at least one test function per
// file). It never calls a collaborator — the checks are mechanical, hence
// the name.
type ValidateTestsMechanical struct{}

// NewValidateTestsMechanical returns a ValidateTestsMechanical node.
func NewValidateTestsMechanical() *ValidateTestsMechanical {
	return &ValidateTestsMechanical{}
}

// Run implements graph.Node[workflowstate.State].
func (n *ValidateTestsMechanical) Run(ctx context.Context, state workflowstate.State) graph.NodeResult[workflowstate.State] {
	passed := validateScaffold(state.TestFiles)

	return graph.NodeResult[workflowstate.State]{
		Delta: workflowstate.State{
			ValidationAttempts:         state.ValidationAttempts + 1,
			MechanicalValidationPassed: passed,
		},
	}
}

// validateScaffold reports whether every test file parses, declares at
// least one Test function, and contains no t.Skip/t.Skipf call.
func validateScaffold(testFiles []string) bool {
	if len(testFiles) == 0 {
		return false
	}

	fset := token.NewFileSet()
	for _, path := range testFiles {
		src, err := os.ReadFile(path)
		if err != nil {
			return false
		}
		file, err := parser.ParseFile(fset, path, src, 0)
		if err != nil {
			return false
		}

		hasTestFunc := false
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if ok && strings.HasPrefix(fn.Name.Name, "Test") {
				hasTestFunc = true
				break
			}
		}
		if !hasTestFunc {
			return false
		}
		if strings.Contains(string(src), "t.Skip(") || strings.Contains(string(src), "t.Skipf(") {
			return false
		}
	}
	return true
}
