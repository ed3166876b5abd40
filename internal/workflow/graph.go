// Package workflow wires the fixed N0…N8 node registry and its routing
// table onto a graph.Engine. It owns no logic of its own: every decision
// here is either a node from internal/nodes or a predicate transcribed
// directly from the routing table.
package workflow

import (
	"context"

	"github.com/martymcenroe/assemblyzero/graph"
	"github.com/martymcenroe/assemblyzero/graph/emit"
	"github.com/martymcenroe/assemblyzero/graph/store"
	"github.com/martymcenroe/assemblyzero/internal/workflowstate"
)

// Node IDs. These are the run-id-independent identities used both as
// graph.Engine node keys and as the checkpoint store's recorded "last
// node", so resume can look one up without a side table.
const (
	NodeLoadLLD          = "N0"
	NodeReviewTestPlan   = "N1"
	NodeScaffoldTests    = "N2"
	NodeValidateMechanic = "N2.5"
	NodeVerifyRed        = "N3"
	NodeImplementCode    = "N4"
	NodeCompletenessGate = "N4b"
	NodeVerifyGreen      = "N5"
	NodeE2EValidation    = "N6"
	NodeFinalize         = "N7"
	NodeDocument         = "N8"

	// NodeEnd is the single terminal sink every routing table entry calls
	// "end". It is a registered node like any other so the engine's
	// edge-evaluation loop never has to special-case a sentinel string.
	NodeEnd = "END"
)

// Nodes collects every step function the graph needs, already bound to
// its collaborators. Callers assemble this from the internal/nodes
// constructors and internal/collaborators adapters.
type Nodes struct {
	LoadLLD          graph.Node[workflowstate.State]
	ReviewTestPlan   graph.Node[workflowstate.State]
	ScaffoldTests    graph.Node[workflowstate.State]
	ValidateMechanic graph.Node[workflowstate.State]
	VerifyRed        graph.Node[workflowstate.State]
	ImplementCode    graph.Node[workflowstate.State]
	CompletenessGate graph.Node[workflowstate.State]
	VerifyGreen      graph.Node[workflowstate.State]
	E2EValidation    graph.Node[workflowstate.State]
	Finalize         graph.Node[workflowstate.State]
	Document         graph.Node[workflowstate.State]
}

// hasErrorMessage is the predicate every node's first outgoing edge uses:
// a non-empty error_message always wins over every other routing decision.
func hasErrorMessage(s workflowstate.State) bool { return s.ErrorMessage != "" }

// Build registers every node and edge from the routing table onto a fresh
// engine, starting at N0. Use BuildFrom to start execution at a different
// node, as the driver does on resume.
func Build(nodes Nodes, backing store.Store[workflowstate.State], emitter emit.Emitter, opts ...interface{}) (*graph.Engine[workflowstate.State], error) {
	return BuildFrom(nodes, NodeLoadLLD, backing, emitter, opts...)
}

// BuildFrom is Build with an explicit entry node. The driver's resume path
// uses this with NextNodeFromState's result as startNode, so the engine's
// very first step is the router's decision rather than a re-run of the
// last completed node.
func BuildFrom(nodes Nodes, startNode string, backing store.Store[workflowstate.State], emitter emit.Emitter, opts ...interface{}) (*graph.Engine[workflowstate.State], error) {
	if emitter == nil {
		emitter = emit.NewNullEmitter()
	}

	e := graph.New[workflowstate.State](workflowstate.ReduceState, backing, emitter, opts...)

	if err := addAll(e, nodes, startNode); err != nil {
		return nil, err
	}
	return e, nil
}

func addAll(e *graph.Engine[workflowstate.State], n Nodes, startNode string) error {
	type entry struct {
		id   string
		node graph.Node[workflowstate.State]
	}
	entries := []entry{
		{NodeLoadLLD, n.LoadLLD},
		{NodeReviewTestPlan, n.ReviewTestPlan},
		{NodeScaffoldTests, n.ScaffoldTests},
		{NodeValidateMechanic, n.ValidateMechanic},
		{NodeVerifyRed, n.VerifyRed},
		{NodeImplementCode, n.ImplementCode},
		{NodeCompletenessGate, n.CompletenessGate},
		{NodeVerifyGreen, n.VerifyGreen},
		{NodeE2EValidation, n.E2EValidation},
		{NodeFinalize, n.Finalize},
		{NodeDocument, n.Document},
		{NodeEnd, endNode()},
	}
	for _, en := range entries {
		if en.node == nil {
			continue
		}
		if err := e.Add(en.id, en.node); err != nil {
			return err
		}
	}
	if startNode == "" {
		startNode = NodeLoadLLD
	}
	if err := e.StartAt(startNode); err != nil {
		return err
	}
	return connectEdges(e)
}

// endNode is the terminal sink: it carries no state change and stops the
// engine's execution loop. Every "→ end" entry in the routing table routes
// here rather than relying on a missing-edge error.
func endNode() graph.Node[workflowstate.State] {
	return graph.NodeFunc[workflowstate.State](func(_ context.Context, _ workflowstate.State) graph.NodeResult[workflowstate.State] {
		return graph.NodeResult[workflowstate.State]{Route: graph.Stop()}
	})
}

// routingEntry is one row of the routing table: an edge from a node, the
// destination it names, and the predicate (nil for unconditional) that
// must hold for the edge to be taken.
type routingEntry struct {
	from, to string
	when     graph.Predicate[workflowstate.State]
}

// routingTable is the full edge table for the workflow graph. Entries are
// ordered per source node: the engine's evaluateEdges takes the first matching edge
// (and Connect preserves insertion order), so the error-wins rule must
// always precede any node-specific condition, and every node's default
// (unconditional) edge must come last. NextNodeFromState walks this same
// slice directly, so the live engine and the resume-time router can never
// silently diverge.
func routingTable() []routingEntry {
	return []routingEntry{
		// N0 → N1 | end
		{NodeLoadLLD, NodeEnd, hasErrorMessage},
		{NodeLoadLLD, NodeReviewTestPlan, nil},

		// N1 → N2 (auto_mode bypasses BLOCKED) | end
		{NodeReviewTestPlan, NodeEnd, hasErrorMessage},
		{NodeReviewTestPlan, NodeEnd, func(s workflowstate.State) bool {
			return !s.AutoMode && s.TestPlanStatus == workflowstate.TestPlanBlocked
		}},
		{NodeReviewTestPlan, NodeScaffoldTests, nil},

		// N2 → N2.5 | end (if scaffold_only)
		{NodeScaffoldTests, NodeEnd, hasErrorMessage},
		{NodeScaffoldTests, NodeEnd, func(s workflowstate.State) bool { return s.ScaffoldOnly }},
		{NodeScaffoldTests, NodeValidateMechanic, nil},

		// N2.5 → N3 | N2 (retry, validation_attempts < 3) | N4 (escalate) | end
		{NodeValidateMechanic, NodeEnd, hasErrorMessage},
		{NodeValidateMechanic, NodeVerifyRed, func(s workflowstate.State) bool {
			return s.MechanicalValidationPassed
		}},
		{NodeValidateMechanic, NodeScaffoldTests, func(s workflowstate.State) bool {
			return !s.MechanicalValidationPassed && s.ValidationAttempts < 3
		}},
		{NodeValidateMechanic, NodeImplementCode, nil}, // escalate: attempts >= 3

		// N3 → N4 | end
		{NodeVerifyRed, NodeEnd, hasErrorMessage},
		{NodeVerifyRed, NodeImplementCode, nil},

		// N4 → N4b
		{NodeImplementCode, NodeEnd, hasErrorMessage},
		{NodeImplementCode, NodeCompletenessGate, nil},

		// N4b → N5 (PASS/WARN) | N4 (BLOCK and iter < 3) | end (BLOCK and iter >= 3)
		// The BLOCK-and-cap-exceeded case is carried as error_message by
		// the node itself, so the error-wins edge above already covers it;
		// any remaining BLOCK verdict here is necessarily under the cap.
		{NodeCompletenessGate, NodeEnd, hasErrorMessage},
		{NodeCompletenessGate, NodeImplementCode, func(s workflowstate.State) bool {
			return s.CompletenessVerdict == workflowstate.VerdictBlock
		}},
		{NodeCompletenessGate, NodeVerifyGreen, nil},

		// N5 → N6 | N7 (skip E2E) | N4 (loop, iter < max) | end
		// The node sets next_node to "N4" on a failing loop still under
		// budget, to "N6" on success when E2E is configured, or to "N7"
		// otherwise, which the default edge below covers.
		{NodeVerifyGreen, NodeEnd, hasErrorMessage},
		{NodeVerifyGreen, NodeImplementCode, func(s workflowstate.State) bool { return s.NextNode == NodeImplementCode }},
		{NodeVerifyGreen, NodeE2EValidation, func(s workflowstate.State) bool { return s.NextNode == NodeE2EValidation }},
		{NodeVerifyGreen, NodeFinalize, nil},

		// N6 → N7 | N4 (loop, iter < max) | end
		{NodeE2EValidation, NodeEnd, hasErrorMessage},
		{NodeE2EValidation, NodeImplementCode, func(s workflowstate.State) bool { return s.NextNode == NodeImplementCode }},
		{NodeE2EValidation, NodeFinalize, nil},

		// N7 → N8 | end (skip_docs)
		{NodeFinalize, NodeEnd, hasErrorMessage},
		{NodeFinalize, NodeEnd, func(s workflowstate.State) bool { return s.SkipDocs }},
		{NodeFinalize, NodeDocument, nil},

		// N8 → end
		{NodeDocument, NodeEnd, nil},
	}
}

// connectEdges registers routingTable's entries onto the engine in order.
func connectEdges(e *graph.Engine[workflowstate.State]) error {
	for _, c := range routingTable() {
		if err := e.Connect(c.from, c.to, c.when); err != nil {
			return err
		}
	}
	return nil
}

// NextNodeFromState applies routingTable to a single state without running
// any node. The driver uses this on resume: execution resumes at the node
// selected by the router applied to that state, not by re-running the
// last node, so the entry point for a resumed Run must be computed the
// same way the engine would compute it mid-run.
func NextNodeFromState(lastNode string, s workflowstate.State) string {
	for _, c := range routingTable() {
		if c.from != lastNode {
			continue
		}
		if c.when == nil || c.when(s) {
			return c.to
		}
	}
	return NodeEnd
}
