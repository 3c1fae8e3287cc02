// Package provider defines the operation surface of the distributed
// key-value cluster as seen by the client core.
//
// The cluster itself (membership, hashing, replication, storage) is a
// black box behind the Provider interface: open a handle, issue typed
// key/value/subkey/queue/CAS operations on it, read back the response
// codes, close the handle. Two implementations ship with this module:
//
//   - provider/memory: an in-process store. Single-node semantics for
//     embedding and testing, and the backend the rpc server serves.
//   - provider/remote: a client for the rpc wire protocol, connecting to
//     a dkc server through a configurable transport and serializer.
//
// The package also holds the response code constants and the Error type
// with its RetCode taxonomy, shared by everything above the provider.
package provider
