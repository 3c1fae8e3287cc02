// Package cluster is the high-level entry point of the client. It bundles
// the connection configuration (topology path, control port, client
// identifier, rejoin behavior) with one-call operations that each open a
// short-lived session, so callers get correct cleanup without managing
// sessions themselves.
//
// The package also owns process-wide log-level control: a Severity applied
// to a Stack adjusts the named layer loggers and is forwarded to backends
// with native level support.
package cluster
