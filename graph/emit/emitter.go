// Package emit carries observability events out of a running workflow to
// whatever backend the caller wired up: stdout logging, an in-memory
// buffer for tests, or a tracing backend.
package emit

import "context"

// Emitter receives events from a running engine. Implementations must be
// safe to call from multiple goroutines (concurrent nodes may emit at
// once) and must not block node execution or panic: a backend outage is
// the emitter's problem, not the workflow's.
type Emitter interface {
	// Emit records a single event. Best-effort: drop or buffer on
	// backend failure rather than propagating it to the caller.
	Emit(event Event)

	// EmitBatch records several events at once, in the order given.
	// Returns an error only for a configuration-level failure, not for
	// individual event delivery problems.
	EmitBatch(ctx context.Context, events []Event) error

	// Flush blocks until every buffered event has been handed to the
	// backend, or ctx is done. Safe to call more than once.
	Flush(ctx context.Context) error
}
