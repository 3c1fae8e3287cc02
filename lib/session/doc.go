// Package session ties a provider handle to a Go object with a one-way
// lifecycle. Commands execute against an open session; closing is
// idempotent and intentionally swallows backend errors so that deferred
// cleanup can never mask the error of the operation that preceded it.
package session
