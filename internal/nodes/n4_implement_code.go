package nodes

import (
	"context"

	"github.com/martymcenroe/assemblyzero/graph"
	"github.com/martymcenroe/assemblyzero/internal/collaborators"
	"github.com/martymcenroe/assemblyzero/internal/workflowstate"
)

// ImplementCode is N4: requests an implementation from a coding
// collaborator, extending implementation_files with whatever it writes.
// Every backward edge in the graph (N2.5 escalation, N4b BLOCK, N5/N6
// failure loops) lands here, so this node assembles "prior failures" from
// whichever signal is present: completeness issues when looping from the
// gate, test failures when looping from verification.
type ImplementCode struct {
	Implementer collaborators.CodeImplementer
	ReadFile    func(path string) (string, error)
}

// NewImplementCode returns an ImplementCode backed by the given implementer.
func NewImplementCode(implementer collaborators.CodeImplementer) *ImplementCode {
	return &ImplementCode{Implementer: implementer, ReadFile: defaultReadFile}
}

// Run implements graph.Node[workflowstate.State].
func (n *ImplementCode) Run(ctx context.Context, state workflowstate.State) graph.NodeResult[workflowstate.State] {
	contents, err := n.ReadFile(state.LLDPath)
	if err != nil {
		return errDelta("reading LLD %q: %v", state.LLDPath, err)
	}

	priorFailures := priorFailures(state)

	files, err := n.Implementer.ImplementCode(ctx, contents, state.TestFiles, priorFailures)
	if err != nil {
		return errDelta("code implementer: %v", err)
	}

	return graph.NodeResult[workflowstate.State]{
		Delta: workflowstate.State{ImplementationFiles: mergeFiles(state.ImplementationFiles, files)},
	}
}

// priorFailures combines the completeness gate's last findings with the
// most recent test-runner failures, whichever apply, so the implementer
// has concrete context for why it is being invoked again.
func priorFailures(state workflowstate.State) []string {
	var failures []string
	if state.CompletenessVerdict == workflowstate.VerdictBlock {
		for _, issue := range state.CompletenessIssues {
			if issue.Severity == workflowstate.SeverityError {
				failures = append(failures, issue.FilePath+": "+issue.Description)
			}
		}
	}
	failures = append(failures, state.LastTestFailures...)
	return failures
}

// mergeFiles appends newly written files to the existing ordered list,
// skipping any path already present, since implementation_files must be
// extended in place of the list-replaces-in-full default.
func mergeFiles(existing, additional []string) []string {
	seen := make(map[string]bool, len(existing))
	merged := make([]string, 0, len(existing)+len(additional))
	for _, f := range existing {
		if !seen[f] {
			seen[f] = true
			merged = append(merged, f)
		}
	}
	for _, f := range additional {
		if !seen[f] {
			seen[f] = true
			merged = append(merged, f)
		}
	}
	return merged
}
