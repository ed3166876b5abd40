package nodes

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/martymcenroe/assemblyzero/graph"
	"github.com/martymcenroe/assemblyzero/internal/lld"
	"github.com/martymcenroe/assemblyzero/internal/workflowstate"
)

// LoadLLD is N0: parses the LLD file and populates repo_root and audit_dir.
// issue_number and lld_path arrive already set in the seed state the driver
// builds before the first Run.
type LoadLLD struct {
	LoadFunc func(path string) (lld.Document, error)
	Resolver repoRootResolver
}

// NewLoadLLD returns a LoadLLD wired to the real LLD loader and the given
// repository-root resolver.
func NewLoadLLD(resolver repoRootResolver) *LoadLLD {
	return &LoadLLD{LoadFunc: lld.Load, Resolver: resolver}
}

// Run implements graph.Node[workflowstate.State].
func (n *LoadLLD) Run(ctx context.Context, state workflowstate.State) graph.NodeResult[workflowstate.State] {
	doc, err := n.LoadFunc(state.LLDPath)
	if err != nil {
		return errDelta("loading LLD %q: %v", state.LLDPath, err)
	}
	if len(doc.Requirements) == 0 {
		return errDelta("LLD %q has no usable \"## 3. Requirements\" section", state.LLDPath)
	}

	root, err := n.Resolver.RepoRoot(ctx)
	if err != nil {
		return errDelta("resolving repository root: %v", err)
	}

	auditDir := filepath.Join(root, ".agentos", "audit", strconv.Itoa(state.IssueNumber))

	return graph.NodeResult[workflowstate.State]{
		Delta: workflowstate.State{
			RepoRoot: root,
			AuditDir: auditDir,
		},
	}
}
