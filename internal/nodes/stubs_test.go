package nodes

import (
	"context"
	"errors"

	"github.com/martymcenroe/assemblyzero/internal/collaborators"
)

type stubRepoRootResolver struct {
	root string
	err  error
}

func (s stubRepoRootResolver) RepoRoot(ctx context.Context) (string, error) {
	return s.root, s.err
}

type stubTestPlanReviewer struct {
	review collaborators.TestPlanReview
	err    error
}

func (s stubTestPlanReviewer) ReviewTestPlan(ctx context.Context, lldContents string) (collaborators.TestPlanReview, error) {
	return s.review, s.err
}

type stubTestScaffolder struct {
	files []string
	err   error
}

func (s stubTestScaffolder) ScaffoldTests(ctx context.Context, lldContents string) ([]string, error) {
	return s.files, s.err
}

type stubTestRunner struct {
	result collaborators.TestRunResult
	err    error
}

func (s stubTestRunner) RunTests(ctx context.Context, testFiles []string) (collaborators.TestRunResult, error) {
	return s.result, s.err
}

type stubCodeImplementer struct {
	files []string
	err   error
}

func (s stubCodeImplementer) ImplementCode(ctx context.Context, lldContents string, testFiles []string, priorFailures []string) ([]string, error) {
	return s.files, s.err
}

var errStub = errors.New("stub failure")

func readFileStub(contents string) func(string) (string, error) {
	return func(path string) (string, error) {
		return contents, nil
	}
}
