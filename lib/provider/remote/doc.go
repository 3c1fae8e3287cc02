/*
Package remote implements the provider interface on top of the rpc wire
protocol. Every operation is serialized into a message, sent through a
client transport and matched against the server's response; the response
codes the server reports travel back in each response and are cached per
handle so ResCode and ResSubcode reflect the most recent call.

The endpoints to connect to come from the client configuration or, when
none are configured, from a YAML topology file resolved at Open time.

Example usage:

	p := remote.NewRPCProvider(
		common.ClientConfig{Endpoints: []string{"localhost:8031"}},
		tcp.NewTCPClientTransport(),
		serializer.NewJSONSerializer(),
	)
	h, err := p.Open(provider.OpenOptions{CUK: "client-1"})
*/
package remote
