// Package memory provides the in-process backend for the provider seam.
//
// The store keeps all state in concurrent maps. Single-key updates are
// atomic through per-key compute callbacks, which is what the CAS family
// relies on. Operations spanning multiple keys (rename, recursive subkey
// removal) serialize on one mutex since they must observe a consistent
// view of the subkey graph.
//
// Expiration is lazy: expired entries stay in the map until the next read
// or write of the same key observes them.
//
// Default() exposes a process-wide shared instance so that independent
// sessions in the same process see the same data, matching the behavior
// of a shared native client library.
package memory
