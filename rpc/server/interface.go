package server

import (
	"github.com/kvclabs/dkc/lib/provider"
	"github.com/kvclabs/dkc/rpc/common"
)

// IRPCServerAdapter is the interface for all RPC server adapters.
// It is responsible for handling requests and responses.
type IRPCServerAdapter interface {
	// Handle handles a request and returns a response.
	// The handle comes from the frame header (0 for open requests); the
	// message carries the operation fields. If an error occurs, it is
	// set in the response together with the backend response codes.
	Handle(handle uint64, req *common.Message, p provider.Provider) (resp *common.Message)
}
