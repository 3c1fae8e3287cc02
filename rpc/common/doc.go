// Package common provides core data structures and utilities shared across
// the cluster client and server. It defines the wire protocol, the
// configuration structures, and the logging setup used by the other rpc
// packages.
//
// The package focuses on:
//   - Message protocol definition for client/server communication
//   - Configuration structures for client and server components
//   - Custom logging implementation behind the dragonboat logger facade
//
// Key Components:
//
//   - Message: Core data structure for all RPC communication, with a
//     flexible structure that adapts to the different operation types.
//     Every response carries the backend response code and subcode so the
//     client can always report them.
//
//   - MessageType: Enumeration of all supported operations, from handle
//     lifecycle (open, close) over key-value and subkey operations to the
//     CAS and queue families.
//
//   - ServerConfig / ClientConfig: Configuration for the two endpoints of
//     a connection, including socket tuning, timeouts and retry behavior.
//
//   - Logger: Custom logging implementation that provides consistent line
//     formatting across all layers of the application.
package common
