package graph

import "time"

// Option configures an Engine at construction time, e.g.:
//
//	graph.New(reducer, store, emitter, graph.WithMaxConcurrent(8), graph.WithQueueDepth(1024))
//
// Options compose with a plain Options struct passed to New; a
// functional option given after the struct overrides that field.
type Option func(*engineConfig) error

// engineConfig collects Options from a New call before they're applied,
// so options can be validated and combined before the Engine exists.
type engineConfig struct {
	opts Options
}

// WithMaxSteps caps total execution steps across a run, guarding
// against a loop (A -> B -> A) whose exit condition never fires. 0
// (the default) means unlimited. Exceeding it fails Run with an
// EngineError coded MAX_STEPS_EXCEEDED.
func WithMaxSteps(n int) Option {
	return func(cfg *engineConfig) error {
		cfg.opts.MaxSteps = n
		return nil
	}
}

// WithMaxConcurrent caps how many nodes run at once; 0 (the default)
// means sequential execution. Each concurrent node holds its own copy
// of state, so memory scales with this number.
func WithMaxConcurrent(n int) Option {
	return func(cfg *engineConfig) error {
		cfg.opts.MaxConcurrentNodes = n
		return nil
	}
}

// WithQueueDepth sets the frontier queue's capacity (default 1024).
// Once full, new work items block until space frees up — the
// engine's backpressure mechanism.
func WithQueueDepth(n int) Option {
	return func(cfg *engineConfig) error {
		cfg.opts.QueueDepth = n
		return nil
	}
}

// WithBackpressureTimeout bounds how long Run waits for frontier queue
// space before checkpointing and returning ErrBackpressureTimeout
// (default 30s).
func WithBackpressureTimeout(d time.Duration) Option {
	return func(cfg *engineConfig) error {
		cfg.opts.BackpressureTimeout = d
		return nil
	}
}

// WithDefaultNodeTimeout sets the timeout nodes get when they don't
// declare their own NodePolicy.Timeout (default 30s).
func WithDefaultNodeTimeout(d time.Duration) Option {
	return func(cfg *engineConfig) error {
		cfg.opts.DefaultNodeTimeout = d
		return nil
	}
}

// WithRunWallClockBudget bounds a single Run call's total wall-clock
// time (default 10m); 0 disables the budget.
func WithRunWallClockBudget(d time.Duration) Option {
	return func(cfg *engineConfig) error {
		cfg.opts.RunWallClockBudget = d
		return nil
	}
}

// WithReplayMode switches an Engine from recording I/O (false, the
// default) to replaying previously recorded I/O instead of executing
// it live (true). Replay requires a prior recorded run for the same
// RunID.
func WithReplayMode(enabled bool) Option {
	return func(cfg *engineConfig) error {
		cfg.opts.ReplayMode = enabled
		return nil
	}
}

// WithStrictReplay controls whether a replay I/O hash mismatch fails
// the run with ErrReplayMismatch (true, the default) or is tolerated —
// useful while debugging node logic that has since changed.
func WithStrictReplay(enabled bool) Option {
	return func(cfg *engineConfig) error {
		cfg.opts.StrictReplay = enabled
		return nil
	}
}

// ConflictPolicy governs how the engine handles concurrent branches
// writing the same state field. Only ConflictFail is implemented
// today; LastWriterWins and ConflictCRDT are reserved for later CRDT
// support.
type ConflictPolicy int

const (
	// ConflictFail returns an error on any detected concurrent write
	// conflict.
	ConflictFail ConflictPolicy = iota

	// LastWriterWins would resolve conflicts by OrderKey. Not yet
	// implemented; specifying it is rejected.
	LastWriterWins

	// ConflictCRDT would resolve conflicts via CRDT merge semantics.
	// Not yet implemented; specifying it is rejected.
	ConflictCRDT
)

// WithConflictPolicy selects a ConflictPolicy. Only ConflictFail is
// accepted today; anything else returns an UNSUPPORTED_CONFLICT_POLICY
// EngineError.
func WithConflictPolicy(policy ConflictPolicy) Option {
	return func(cfg *engineConfig) error {
		if policy != ConflictFail {
			return &EngineError{
				Message: "only ConflictFail policy is currently supported",
				Code:    "UNSUPPORTED_CONFLICT_POLICY",
			}
		}
		return nil
	}
}

// WithMetrics attaches a PrometheusMetrics sink: inflight node count,
// queue depth, step latency, retries, merge conflicts, and
// backpressure events are all updated as the engine runs.
func WithMetrics(metrics *PrometheusMetrics) Option {
	return func(cfg *engineConfig) error {
		cfg.opts.Metrics = metrics
		return nil
	}
}

// WithCostTracker attaches a CostTracker that prices every LLM call's
// token usage against its static per-model rate table and accumulates
// a running total for the run.
func WithCostTracker(tracker *CostTracker) Option {
	return func(cfg *engineConfig) error {
		cfg.opts.CostTracker = tracker
		return nil
	}
}
