package nodes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/martymcenroe/assemblyzero/graph"
	"github.com/martymcenroe/assemblyzero/internal/completeness"
	"github.com/martymcenroe/assemblyzero/internal/workflowstate"
)

// Finalize is N7: emits summary artifacts to the audit directory. Routing
// onward to N8 (or to end when skip_docs is set) is the router's concern.
type Finalize struct {
	Now func() time.Time
}

// NewFinalize returns a Finalize node using the real clock.
func NewFinalize() *Finalize {
	return &Finalize{Now: time.Now}
}

// Run implements graph.Node[workflowstate.State].
func (n *Finalize) Run(ctx context.Context, state workflowstate.State) graph.NodeResult[workflowstate.State] {
	if state.AuditDir != "" {
		if err := os.MkdirAll(state.AuditDir, 0o755); err == nil {
			idx, err := completeness.NextAuditIndex(state.AuditDir)
			if err == nil {
				name := completeness.AuditFileName(idx, "finalize-summary", "md")
				path := filepath.Join(state.AuditDir, name)
				_ = os.WriteFile(path, []byte(n.render(state)), 0o644)
			}
		}
	}

	return graph.NodeResult[workflowstate.State]{}
}

func (n *Finalize) render(state workflowstate.State) string {
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	return fmt.Sprintf(
		"# Finalize summary: issue #%d\n\n- Generated: %s\n- Verdict: %s\n- Implementation files: %d\n- Test files: %d\n- Iterations: %d\n",
		state.IssueNumber,
		now().UTC().Format(time.RFC3339),
		state.CompletenessVerdict,
		len(state.ImplementationFiles),
		len(state.TestFiles),
		state.IterationCount,
	)
}
