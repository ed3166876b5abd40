// Package collaborators declares the external interfaces the workflow
// nodes consume: reviewing and scaffolding tests, implementing code,
// running the target project's test suite, reviewing semantic
// completeness, and filing issues. The workflow core coordinates these
// collaborators; it never implements their internals.
package collaborators

import (
	"context"

	"github.com/martymcenroe/assemblyzero/internal/workflowstate"
)

// TestPlanReview is the outcome of consulting a TestPlanReviewer.
type TestPlanReview struct {
	Status  workflowstate.TestPlanStatus
	Details string
}

// TestPlanReviewer assesses an LLD's test plan before scaffolding begins.
type TestPlanReviewer interface {
	ReviewTestPlan(ctx context.Context, lldContents string) (TestPlanReview, error)
}

// TestScaffolder emits executable test stubs that compile but fail.
type TestScaffolder interface {
	ScaffoldTests(ctx context.Context, lldContents string) ([]string, error)
}

// TestRunResult is the outcome of executing a set of test files.
type TestRunResult struct {
	AllRed   bool
	AllGreen bool
	Failures []string
}

// TestRunner executes test files and reports pass/fail status.
type TestRunner interface {
	RunTests(ctx context.Context, testFiles []string) (TestRunResult, error)
}

// CodeImplementer requests an implementation from a coding collaborator,
// given the LLD, the scaffolded tests, and failures from any prior attempt.
type CodeImplementer interface {
	ImplementCode(ctx context.Context, lldContents string, testFiles []string, priorFailures []string) ([]string, error)
}

// SemanticFinding is one requirement's verification status from semantic review.
type SemanticFinding struct {
	RequirementID string
	Status        string
	Notes         string
}

// SemanticReview is the outcome of a SemanticReviewer call.
type SemanticReview struct {
	Verdict  workflowstate.Verdict
	Findings []SemanticFinding
}

// SemanticReviewer is invoked by the orchestrator — never by the
// completeness gate itself — with the ReviewMaterials the gate's Layer 2
// assembled, under a bounded timeout.
type SemanticReviewer interface {
	ReviewSemantics(ctx context.Context, materials workflowstate.ReviewMaterials) (SemanticReview, error)
}

// IssueFiler files a drafted issue with an external tracker and returns its
// URL. It is invoked outside the workflow core entirely.
type IssueFiler interface {
	FileIssue(ctx context.Context, draft string) (string, error)
}
