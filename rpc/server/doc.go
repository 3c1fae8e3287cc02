// Package server implements the RPC server of the cluster. It serves any
// provider backend behind a pluggable transport and serializer, along
// with the adapter that translates wire messages into provider calls.
//
// The package focuses on:
//   - Server-side handling of every store operation plus handle lifecycle
//   - Adapter pattern to decouple the backend from RPC mechanisms
//   - Per-operation request counters and duration summaries
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for server
//     adapters, with the Handle method that processes incoming requests
//     against a provider.Provider.
//
//   - NewProviderServerAdapter: Factory function creating the adapter for
//     store operations, translating RPC messages to provider method calls
//     and folding the backend response codes into every response.
//
//   - NewRPCServer: Factory function creating a configured server with the
//     specified backend, transport and serializer.
//
// Usage Example:
//
//	config := common.ServerConfig{
//	  Endpoint:      "0.0.0.0:8031",
//	  TimeoutSecond: 5,
//	  LogLevel:      "info",
//	}
//
//	s := server.NewRPCServer(
//	  config,
//	  memory.Default(),
//	  tcp.NewTCPServerTransport(),
//	  serializer.NewJSONSerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// Thread Safety:
//
//	The server implementation is thread-safe and can handle concurrent
//	requests across multiple connections. Each request is processed
//	independently. The Serve method should be called only once.
package server
