// Package main hosts the reposter CLI entrypoint and command graph.
//
// The Cobra-based command tree assembles pipelines from the internal stage
// packages: importing an archive into the key-value store, finding and
// recording duplicate posts, filtering and forgetting duplicate records, and
// scaffolding configuration. It centralizes configuration resolution, store
// and diagnostics wiring, and structured logging setup so subcommands only
// describe which stages run in which order.
//
// Keep this package lean: add new stages to the internal packages first, then
// surface them through dedicated commands or flags here.
package main
