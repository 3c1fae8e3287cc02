package server

import (
	"fmt"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/kvclabs/dkc/lib/provider"
	"github.com/kvclabs/dkc/rpc/common"
	"github.com/kvclabs/dkc/rpc/serializer"
	"github.com/kvclabs/dkc/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("rpc")

// NewRPCServer creates a new RPC server serving the given provider backend.
// It takes a config, provider, transport and serializer as parameters.
//
// Usage:
//
//	s := server.NewRPCServer(
//		config,
//		memory.Default(),
//		tcp.NewTCPServerTransport(),
//		serializer.NewJSONSerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewRPCServer(
	config common.ServerConfig,
	backend provider.Provider,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) rpcServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	Logger.Infof("Created RPC Server")
	Logger.Infof(config.String())

	return rpcServer{
		config:     config,
		backend:    backend,
		transport:  transport,
		serializer: serializer,
		adapter:    NewProviderServerAdapter(),
	}
}

type rpcServer struct {
	config     common.ServerConfig
	backend    provider.Provider
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	adapter    IRPCServerAdapter
}

func (s *rpcServer) registerTransportHandler() {
	s.transport.RegisterHandler(func(handle uint64, req []byte) []byte {
		var msg common.Message
		var respMsg common.Message

		// Decode the request
		err := s.serializer.Deserialize(req, &msg)

		if err != nil {
			respMsg = *common.NewErrorResponse(fmt.Sprintf("failed to deserialize request: %s", err))
		} else {
			// Count and time each operation by type
			start := time.Now()
			respMsg = *s.adapter.Handle(handle, &msg, s.backend)
			requestCounter(msg.MsgType).Inc()
			requestDuration(msg.MsgType).UpdateDuration(start)
			if respMsg.Err != "" {
				errorCounter(msg.MsgType).Inc()
			}
		}

		// Return result
		val, err := s.serializer.Serialize(respMsg)
		if err != nil {
			val, _ = s.serializer.Serialize(*common.NewErrorResponse(
				fmt.Sprintf("failed to serialize response: %s", err)))
		}
		return val
	})
}

func (s *rpcServer) init() error {
	// Init logger
	common.InitLoggers(s.config)

	if s.backend == nil {
		return fmt.Errorf("server backend must not be nil")
	}

	// Expose Prometheus metrics if configured
	if s.config.MetricsEndpoint != "" {
		go s.serveMetrics()
	}

	// Configure the transport layer
	s.registerTransportHandler()

	Logger.Infof("server setup completed successfully")
	return nil
}

// Serve starts the RPC server.
// This function will also initialize the server and start the transport layer.
func (s *rpcServer) Serve() error {
	if err := s.init(); err != nil {
		return err
	}
	return s.transport.Listen(s.config)
}

// serveMetrics exposes the VictoriaMetrics registry over HTTP.
func (s *rpcServer) serveMetrics() {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		metrics.WritePrometheus(w, true)
	})

	Logger.Infof("Serving metrics on %s/metrics", s.config.MetricsEndpoint)
	if err := http.ListenAndServe(s.config.MetricsEndpoint, mux); err != nil {
		Logger.Errorf("Metrics endpoint failed: %v", err)
	}
}

// --------------------------------------------------------------------------
// Metrics
// --------------------------------------------------------------------------

func requestCounter(t common.MessageType) *metrics.Counter {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`dkc_rpc_requests_total{op=%q}`, t))
}

func errorCounter(t common.MessageType) *metrics.Counter {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`dkc_rpc_errors_total{op=%q}`, t))
}

func requestDuration(t common.MessageType) *metrics.Summary {
	return metrics.GetOrCreateSummary(fmt.Sprintf(`dkc_rpc_request_duration_seconds{op=%q}`, t))
}
