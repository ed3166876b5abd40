package graph

import "context"

// NodeFunc adapts a plain function to the Node interface so a workflow
// step can be registered without declaring a named type for it.
//
//	step := NodeFunc[MyState](func(ctx context.Context, s MyState) NodeResult[MyState] {
//		return NodeResult[MyState]{Delta: MyState{Done: true}, Route: Stop()}
//	})
type NodeFunc[S any] func(ctx context.Context, state S) NodeResult[S]

// Run satisfies Node by invoking the wrapped function.
func (f NodeFunc[S]) Run(ctx context.Context, state S) NodeResult[S] {
	return f(ctx, state)
}

// Node is a single step in the workflow graph: given the current state it
// runs to completion and reports back a state delta plus a routing
// decision. Implementations may call out to LLMs, subprocesses, or the
// filesystem, but must not block indefinitely — ctx carries the caller's
// deadline and cancellation.
type Node[S any] interface {
	Run(ctx context.Context, state S) NodeResult[S]
}

// NodeResult is everything a Node hands back to the engine after running:
// the partial state update to merge via the configured reducer, where
// execution should go next, and any error the step hit.
type NodeResult[S any] struct {
	// Delta is merged into the running state by the engine's Reducer.
	Delta S

	// Route overrides the graph's statically registered edges for this
	// step. Leave it zero-valued to let edge predicates decide instead.
	Route Next

	// Err halts the run (subject to any configured retry policy) when
	// non-nil.
	Err error
}

// Next describes where execution goes after a node returns, when the node
// chooses to decide that itself rather than deferring to edge predicates.
// Exactly one of Terminal, To, or Many should be set.
type Next struct {
	// To names a single next node.
	To string

	// Many fans out to several nodes concurrently.
	Many []string

	// Terminal ends the run.
	Terminal bool
}

// Stop builds a Next that ends the run.
func Stop() Next {
	return Next{Terminal: true}
}

// Goto builds a Next that routes straight to nodeID, bypassing edge
// predicates for this step.
func Goto(nodeID string) Next {
	return Next{To: nodeID}
}

// NodeError is the structured form a node's Err should take when it wants
// the engine and its observers to know which node and failure class
// produced it, rather than returning a bare error.
type NodeError struct {
	// NodeID identifies the node that produced the error; the engine
	// fills this in if the node itself leaves it blank.
	NodeID string

	// Code is a short, machine-matchable failure classification.
	Code string

	// Message is the human-readable description.
	Message string

	// Cause, if set, is the underlying error NodeError wraps.
	Cause error
}

func (e *NodeError) Error() string {
	if e.NodeID == "" {
		return e.Message
	}
	return "node " + e.NodeID + ": " + e.Message
}

func (e *NodeError) Unwrap() error {
	return e.Cause
}
