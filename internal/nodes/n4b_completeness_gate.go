package nodes

import (
	"context"
	"time"

	"github.com/martymcenroe/assemblyzero/graph"
	"github.com/martymcenroe/assemblyzero/internal/completeness"
	"github.com/martymcenroe/assemblyzero/internal/lld"
	"github.com/martymcenroe/assemblyzero/internal/workflowstate"
)

// completenessIterationCap is the hard loop cap between N4 and N4b: the
// loop is bounded by completeness_iteration_count < 3.
const completenessIterationCap = 3

// CompletenessGate is N4b. It never suspends on a network call: Layer 1 is
// pure AST analysis, and Layer 2 only assembles ReviewMaterials for the
// orchestrator to submit under its own bounded timeout — this node does not
// call a SemanticReviewer.
type CompletenessGate struct {
	Gate *completeness.Gate
	Now  func() time.Time
}

// NewCompletenessGate returns a CompletenessGate using the default gate
// configuration.
func NewCompletenessGate() *CompletenessGate {
	return &CompletenessGate{Gate: completeness.NewGate(), Now: time.Now}
}

// Run implements graph.Node[workflowstate.State].
func (n *CompletenessGate) Run(ctx context.Context, state workflowstate.State) graph.NodeResult[workflowstate.State] {
	allFiles := append(append([]string{}, state.ImplementationFiles...), state.TestFiles...)
	result := n.Gate.AnalyzeFiles(allFiles)

	reportPath := completeness.ReportPath(state.RepoRoot, state.IssueNumber)
	var requirements []workflowstate.LLDRequirement
	if doc, err := lld.Load(state.LLDPath); err == nil {
		requirements = doc.Requirements
	}
	// Report generation never blocks the gate's routing verdict; its error
	// is swallowed.
	_ = completeness.WriteReport(reportPath, state.IssueNumber, result, requirements, allFiles, n.now())

	delta := workflowstate.State{
		CompletenessVerdict:      result.Verdict,
		CompletenessIssues:       result.Issues,
		ImplementationReportPath: reportPath,
	}

	if result.Verdict == workflowstate.VerdictBlock {
		if state.CompletenessIterationCount >= completenessIterationCap {
			delta.ErrorMessage = "completeness gate blocked 3 times; human intervention required"
			return graph.NodeResult[workflowstate.State]{Delta: delta}
		}
		delta.CompletenessIterationCount = state.CompletenessIterationCount + 1
		return graph.NodeResult[workflowstate.State]{Delta: delta}
	}

	if materials, err := completeness.PrepareReviewMaterials(state.LLDPath, state.ImplementationFiles, state.IssueNumber); err == nil {
		delta.ReviewMaterials = &materials
	}

	return graph.NodeResult[workflowstate.State]{Delta: delta}
}

func (n *CompletenessGate) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}
