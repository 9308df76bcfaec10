// Package pipeline runs items through chains of stages with per-item fault
// isolation.
//
// A Stage consumes a sequence of inputs and pushes zero or more outputs per
// input into a Sink. Func is the standard implementation: it feeds its
// transform one item at a time, records a StageError for every item whose
// transform fails (or panics), and either continues with the next item or,
// when stop-on-error is set, aborts with an error wrapping ErrAborted.
//
// Chain joins two stages so the upstream sink drives the downstream stage
// directly. Execution is depth-first per upstream item: everything the rest of
// the chain does for item i finishes before item i+1 is attempted, so side
// effects from different inputs never interleave. There is no concurrency,
// buffering, or backpressure.
//
// Run is the driver. It collects every terminal emission, never returns an
// error, and on abort hands the accumulated StageErrors to a Reporter so each
// one ends up as a diagnostic artifact. Callers decide success by inspecting
// the stage's Errors.
package pipeline
