package graph

import "errors"

// ErrMaxStepsExceeded is returned when a run hits its step ceiling
// without reaching a terminal node — a guard against routing cycles
// that never converge.
var ErrMaxStepsExceeded = errors.New("execution exceeded maximum steps limit")

// ErrBackpressure is returned when a downstream sink (an Emitter, a
// checkpoint store) can't keep up and the engine declines to buffer
// further rather than grow memory unbounded.
//
// ErrReplayMismatch, ErrNoProgress, ErrIdempotencyViolation,
// ErrMaxAttemptsExceeded, and ErrBackpressureTimeout live in
// checkpoint.go alongside the replay/retry machinery they describe.
var ErrBackpressure = errors.New("downstream backpressure exceeded threshold")
