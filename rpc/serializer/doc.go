// Package serializer provides message serialization for the RPC system.
// It defines a common interface and multiple implementations for
// serializing and deserializing messages between client and server.
//
// The package focuses on:
//   - Providing a consistent interface for different serialization formats
//   - Offering multiple implementations with different characteristics
//
// Key Components:
//
//   - IRPCSerializer: Core interface that all serializer implementations
//     must satisfy.
//
//   - jsonSerializerImpl: Implementation using JSON encoding, human-readable
//     and useful for debugging or interoperability with other systems.
//
//   - gobSerializerImpl: Implementation using Go's built-in gob encoding,
//     a compact binary form with good compatibility with Go's type system.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent
//	use across multiple goroutines without additional synchronization.
package serializer
