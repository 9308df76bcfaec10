// Package kvstore is the key-value contract shared by every stage that
// persists state, plus its backends.
//
// Keys are ordered string segments, conventionally (partition, category, id),
// and values are any JSON-serialisable record. Memory backs tests, SQLite is
// the default on-disk store and Valkey serves shared deployments.
//
// A Store is opened once per process and passed to the stage constructors
// that need it. The store imposes no transactional discipline: Get followed
// by Set is a plain read-then-write and concurrent writers to the same key
// race.
package kvstore
