// Package rpc provides the remote procedure call framework of the cluster.
// It acts as the communication layer between the client library and the
// server, enabling every store operation across network boundaries.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures and utilities used across the RPC
//     system, including the Message protocol, configuration structures,
//     and logging.
//
//   - transport: Network communication abstractions with pluggable
//     implementations (TCP, Unix sockets).
//
//   - serializer: Message serialization with multiple format options
//     (JSON, GOB) for converting between Message objects and byte arrays.
//
//   - server: RPC server components that serve any provider backend,
//     including the adapter translating Messages to provider calls.
//
// The client side of the wire protocol lives in lib/provider/remote,
// which implements the provider interface on top of a client transport.
package rpc
