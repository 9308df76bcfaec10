// Package diagnostics writes one artifact per recorded stage error when a
// pipeline run aborts.
//
// Artifacts for a run are grouped under "<timestamp>_<run id>" and hold the
// failing stage, the error classification, the error text, a panic stack when
// one was captured and the offending inputs as JSON. Writer implements
// pipeline.Reporter over a Sink: a local directory or a MinIO bucket.
package diagnostics
