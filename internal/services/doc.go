// Package services defines shared utilities consumed by pipeline stages and the
// collaborators they call out to.
//
// Key responsibilities:
//   - Context helpers that stamp stage names, storage partitions, and run
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so failures from remote
//     calls, storage, and validation carry a consistent classification into
//     stage errors and diagnostics.
//
// Use these helpers when wiring new stage logic so operational behaviour (error
// wrapping, observability) stays uniform across the pipeline.
package services
