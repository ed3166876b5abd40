package nodes

import (
	"context"

	"github.com/martymcenroe/assemblyzero/graph"
	"github.com/martymcenroe/assemblyzero/internal/collaborators"
	"github.com/martymcenroe/assemblyzero/internal/workflowstate"
)

// ReviewTestPlan is N1: consults a TestPlanReviewer to assess the LLD's
// test plan. Routing on the resulting status (BLOCKED bypassed in
// auto_mode) is the router's concern, not this node's — it only records
// the status.
type ReviewTestPlan struct {
	Reviewer collaborators.TestPlanReviewer
	ReadFile func(path string) (string, error)
}

// NewReviewTestPlan returns a ReviewTestPlan backed by the given reviewer.
func NewReviewTestPlan(reviewer collaborators.TestPlanReviewer) *ReviewTestPlan {
	return &ReviewTestPlan{Reviewer: reviewer, ReadFile: defaultReadFile}
}

// Run implements graph.Node[workflowstate.State].
func (n *ReviewTestPlan) Run(ctx context.Context, state workflowstate.State) graph.NodeResult[workflowstate.State] {
	contents, err := n.ReadFile(state.LLDPath)
	if err != nil {
		return errDelta("reading LLD %q: %v", state.LLDPath, err)
	}

	review, err := n.Reviewer.ReviewTestPlan(ctx, contents)
	if err != nil {
		return errDelta("test plan reviewer: %v", err)
	}

	return graph.NodeResult[workflowstate.State]{
		Delta: workflowstate.State{TestPlanStatus: review.Status},
	}
}
