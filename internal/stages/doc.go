// Package stages provides reusable pipeline stages: count limiting, predicate
// filtering, counting, pacing, side-effect taps, interactive confirmation and
// file writers.
//
// Every constructor returns a pipeline.Stage[T, T] built on pipeline.New, so
// each stage inherits per-item fault isolation and stop-on-error handling.
// Stages hold per-instance state (counters, open readers) and are meant to be
// built fresh for every run.
package stages
