// Package cmd implements the command-line interface for the dkc distributed
// key-value cluster. It provides a hierarchical command structure with
// operations for running the server and interacting with it as a client.
//
// The package is organized into several subpackages:
//
//   - kv: Commands for key-value operations (get, set, rename, subkeys, etc.)
//   - cas: Commands for compare-and-swap counter cells (init, get, set, inc, dec)
//   - queue: Commands for queues and key queues (push, pop, kpush, kpop)
//   - serve: Commands for starting and configuring the dkc server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See dkc -help for a list of all commands.
package cmd
