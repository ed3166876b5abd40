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

// Document is N8: records that the documentation step ran. Generating the
// documentation's actual content is out of scope for the core — this node
// only produces the audit marker the runtime is responsible for, skipped
// entirely when skip_docs is set (the router never reaches this node in
// that case).
type Document struct {
	Now func() time.Time
}

// NewDocument returns a Document node using the real clock.
func NewDocument() *Document {
	return &Document{Now: time.Now}
}

// Run implements graph.Node[workflowstate.State].
func (n *Document) Run(ctx context.Context, state workflowstate.State) graph.NodeResult[workflowstate.State] {
	if state.AuditDir != "" {
		if err := os.MkdirAll(state.AuditDir, 0o755); err == nil {
			idx, err := completeness.NextAuditIndex(state.AuditDir)
			if err == nil {
				name := completeness.AuditFileName(idx, "document", "md")
				path := filepath.Join(state.AuditDir, name)
				contents := fmt.Sprintf("# Documentation step: issue #%d\n\n- Generated: %s\n- Completed without producing external documentation content (delegated).\n",
					state.IssueNumber, n.now().UTC().Format(time.RFC3339))
				_ = os.WriteFile(path, []byte(contents), 0o644)
			}
		}
	}

	return graph.NodeResult[workflowstate.State]{}
}

func (n *Document) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}
