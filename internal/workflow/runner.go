package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/martymcenroe/assemblyzero/graph/emit"
	"github.com/martymcenroe/assemblyzero/internal/checkpointstore"
	"github.com/martymcenroe/assemblyzero/internal/collaborators"
	"github.com/martymcenroe/assemblyzero/internal/location"
	"github.com/martymcenroe/assemblyzero/internal/nodes"
	"github.com/martymcenroe/assemblyzero/internal/workflowstate"
)

// ErrUnresumable is returned by Resume when the checkpoint store has no
// state at all for the given workflow id, matching the driver's exit code 3.
var ErrUnresumable = errors.New("workflow: no checkpoint found for the given workflow id")

// Collaborators bundles every external collaborator a Run or Resume needs
// to construct the node registry. HasE2E mirrors whether the LLD configured
// an end-to-end validation step; when false, N5 hints straight to N7.
type Collaborators struct {
	TestPlanReviewer collaborators.TestPlanReviewer
	TestScaffolder   collaborators.TestScaffolder
	TestRunner       collaborators.TestRunner
	CodeImplementer  collaborators.CodeImplementer
	HasE2E           bool
}

// buildNodes constructs the fixed N0…N8 node registry bound to the given
// collaborators and repository-root resolver.
func buildNodes(resolver *location.Resolver, c Collaborators) Nodes {
	return Nodes{
		LoadLLD:          nodes.NewLoadLLD(resolver),
		ReviewTestPlan:   nodes.NewReviewTestPlan(c.TestPlanReviewer),
		ScaffoldTests:    nodes.NewScaffoldTests(c.TestScaffolder),
		ValidateMechanic: nodes.NewValidateTestsMechanical(),
		VerifyRed:        nodes.NewVerifyRed(c.TestRunner),
		ImplementCode:    nodes.NewImplementCode(c.CodeImplementer),
		CompletenessGate: nodes.NewCompletenessGate(),
		VerifyGreen:      nodes.NewVerifyGreen(c.TestRunner, c.HasE2E),
		E2EValidation:    nodes.NewE2EValidation(c.TestRunner),
		Finalize:         nodes.NewFinalize(),
		Document:         nodes.NewDocument(),
	}
}

// Config is the seed input for a new workflow run, taken directly from the
// driver's `run` command flags.
type Config struct {
	IssueNumber   int
	LLDPath       string
	AutoMode      bool
	ScaffoldOnly  bool
	SkipDocs      bool
	MaxIterations int
}

// Runner owns the checkpoint store and location resolver shared across
// every workflow a process drives, and constructs a fresh graph.Engine per
// run or resume so that engine-level state (start node, registered edges)
// never leaks between workflow ids.
type Runner struct {
	Store    *checkpointstore.Store
	Resolver *location.Resolver
	Emitter  emit.Emitter
}

// NewRunner returns a Runner backed by the checkpoint database at
// checkpointPath (as produced by location.Resolver.ResolveCheckpointPath).
func NewRunner(checkpointPath string, emitter emit.Emitter) (*Runner, error) {
	store, err := checkpointstore.Open(checkpointPath)
	if err != nil {
		return nil, err
	}
	return &Runner{Store: store, Resolver: location.NewResolver(), Emitter: emitter}, nil
}

// Run starts a brand-new workflow for cfg.IssueNumber at N0 and drives it
// to completion or a fatal error, returning the final state and the
// workflow id the caller should pass to Resume if the run did not finish.
func (r *Runner) Run(ctx context.Context, cfg Config, collabs Collaborators) (workflowstate.State, string, error) {
	workflowID := checkpointstore.NewWorkflowID(cfg.IssueNumber)

	seed := workflowstate.State{
		IssueNumber:   cfg.IssueNumber,
		LLDPath:       cfg.LLDPath,
		AutoMode:      cfg.AutoMode,
		ScaffoldOnly:  cfg.ScaffoldOnly,
		SkipDocs:      cfg.SkipDocs,
		MaxIterations: cfg.MaxIterations,
	}

	n := buildNodes(r.Resolver, collabs)
	engine, err := Build(n, r.Store.Backing(), r.Emitter)
	if err != nil {
		return workflowstate.State{}, workflowID, fmt.Errorf("assembling workflow graph: %w", err)
	}

	final, err := engine.Run(ctx, workflowID, seed)
	return final, workflowID, err
}

// Resume reloads workflowID's last committed state, applies the router to
// it to find the entry node — never the last node itself — and continues
// execution from there.
func (r *Runner) Resume(ctx context.Context, workflowID string, collabs Collaborators) (workflowstate.State, error) {
	lastNode, state, _, ok, err := r.Store.GetLatest(ctx, workflowID)
	if err != nil {
		return workflowstate.State{}, fmt.Errorf("loading checkpoint for %s: %w", workflowID, err)
	}
	if !ok {
		return workflowstate.State{}, ErrUnresumable
	}

	entry := NextNodeFromState(lastNode, state)

	n := buildNodes(r.Resolver, collabs)
	engine, err := BuildFrom(n, entry, r.Store.Backing(), r.Emitter)
	if err != nil {
		return workflowstate.State{}, fmt.Errorf("assembling workflow graph: %w", err)
	}

	return engine.Run(ctx, workflowID, state)
}

// List enumerates every workflow id known to the checkpoint store with its
// most recently executed node, for the driver's `list` command.
func (r *Runner) List(ctx context.Context) ([]checkpointstore.Run, error) {
	return r.Store.List(ctx)
}
