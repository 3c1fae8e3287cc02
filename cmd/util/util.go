package util

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kvclabs/dkc/lib/cluster"
	"github.com/kvclabs/dkc/lib/provider"
	"github.com/kvclabs/dkc/lib/provider/remote"
	"github.com/kvclabs/dkc/lib/session"
	"github.com/kvclabs/dkc/rpc/common"
	"github.com/kvclabs/dkc/rpc/serializer"
	"github.com/kvclabs/dkc/rpc/transport"
	"github.com/kvclabs/dkc/rpc/transport/http"
	"github.com/kvclabs/dkc/rpc/transport/tcp"
	"github.com/kvclabs/dkc/rpc/transport/unix"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupRPCClientFlags adds common RPC connection flags to a command
func SetupRPCClientFlags(cmd *cobra.Command) {
	key := "timeout"
	cmd.PersistentFlags().Int(key, 10, WrapString("The timeout in seconds of the client"))

	key = "transport-endpoints"
	cmd.PersistentFlags().String(key, "", WrapString("The address of the dkc server. Multiple endpoints can be specified as a comma-separated list. When empty the endpoints are resolved from the topology file"))

	key = "transport-conn-per-endpoint"
	cmd.PersistentFlags().Int(key, 1, WrapString("Simultaneous connections per endpoint"))

	key = "transport-retries"
	cmd.PersistentFlags().Int(key, 3, WrapString("How many times to retry the request"))

	key = "transport-write-buffer"
	cmd.PersistentFlags().Int(key, 512, WrapString("The size of the write buffer for the transport (in KB)"))

	key = "transport-read-buffer"
	cmd.PersistentFlags().Int(key, 512, WrapString("The size of the read buffer for the transport (in KB)"))

	key = "transport-tcp-nodelay"
	cmd.PersistentFlags().Bool(key, true, WrapString("Whether to enable TCP_NODELAY for the transport (only for tcp)"))

	key = "transport-tcp-keepalive"
	cmd.PersistentFlags().Int(key, 0, WrapString("The keepalive interval for the transport (in seconds, only for tcp)"))

	key = "transport-tcp-linger"
	cmd.PersistentFlags().Int(key, 0, WrapString("The linger time for the transport (in seconds, only for tcp)"))

	key = "cluster-file"
	cmd.PersistentFlags().String(key, "cluster.yaml", WrapString("Path to the cluster topology file, used when no endpoints are given"))

	key = "cluster-port"
	cmd.PersistentFlags().Uint16(key, cluster.DefaultControlPort, WrapString("Control port of the cluster, used for topology members without an explicit port"))

	key = "cluster-cuk"
	cmd.PersistentFlags().String(key, "", WrapString("Cluster unique key identifying this client. A random key is generated when empty"))

	key = "pass"
	cmd.PersistentFlags().String(key, "", WrapString("Passphrase for protected keys"))

	key = "expire"
	cmd.PersistentFlags().Uint64(key, 0, WrapString("Expiration in seconds for written keys (0 means no expiration)"))
}

// InitClientConfig initializes configuration from environment variables
func InitClientConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("dkc")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetClientConfig reads client configuration from viper
func GetClientConfig() *common.ClientConfig {
	conf := &common.ClientConfig{
		TimeoutSecond:          viper.GetInt("timeout"),
		RetryCount:             viper.GetInt("transport-retries"),
		ConnectionsPerEndpoint: viper.GetInt("transport-conn-per-endpoint"),
		SocketConf: common.SocketConf{
			WriteBufferSize: viper.GetInt("transport-write-buffer") * 1024,
			ReadBufferSize:  viper.GetInt("transport-read-buffer") * 1024,
		},
		TCPConf: common.TCPConf{
			TCPKeepAliveSec: viper.GetInt("transport-tcp-keepalive"),
			TCPLingerSec:    viper.GetInt("transport-tcp-linger"),
			TCPNoDelay:      viper.GetBool("transport-tcp-nodelay"),
		},
	}

	if endpoints := viper.GetString("transport-endpoints"); endpoints != "" {
		conf.Endpoints = strings.Split(endpoints, ",")
	}

	return conf
}

// GetSerializer creates a serializer based on configuration
func GetSerializer() (serializer.IRPCSerializer, error) {
	switch viper.GetString("serializer") {
	case "json":
		return serializer.NewJSONSerializer(), nil
	case "gob":
		return serializer.NewGOBSerializer(), nil
	default:
		return nil, fmt.Errorf("invalid serializer %s", viper.GetString("serializer"))
	}
}

// GetTransport creates transport based on configuration
func GetTransport() (transport.IRPCClientTransport, error) {
	switch viper.GetString("transport") {
	case "http":
		return http.NewHttpClientTransport(), nil
	case "tcp":
		return tcp.NewTCPClientTransport(), nil
	case "unix":
		return unix.NewUnixClientTransport(), nil
	default:
		return nil, fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}
}

// GetPass retrieves the configured passphrase
func GetPass() string {
	return viper.GetString("pass")
}

// GetExpire retrieves the configured expiration in seconds
func GetExpire() uint64 {
	return viper.GetUint64("expire")
}

// OpenSession connects a session to the configured cluster. The caller
// must call Close on the returned session.
func OpenSession() (*session.Session, error) {
	s, err := GetSerializer()
	if err != nil {
		return nil, err
	}
	t, err := GetTransport()
	if err != nil {
		return nil, err
	}

	p := remote.NewRPCProvider(*GetClientConfig(), t, s)

	cfg := cluster.NewConfig(viper.GetString("cluster-file"))
	cfg.Port = viper.GetUint16("cluster-port")
	if cuk := viper.GetString("cluster-cuk"); cuk != "" {
		cfg.CUK = cuk
	}

	return session.Open(p, provider.OpenOptions{
		Path:               cfg.Path,
		Port:               cfg.Port,
		CUK:                cfg.CUK,
		Rejoin:             cfg.Rejoin,
		RetryRejoinForever: cfg.RetryRejoinForever,
		CleanupOnClose:     cfg.CleanupOnClose,
	})
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
