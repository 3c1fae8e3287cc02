package cluster

import (
	"github.com/google/uuid"
	"github.com/kvclabs/dkc/lib/provider"
)

// --------------------------------------------------------------------------
// Configuration
// --------------------------------------------------------------------------

// DefaultControlPort is the control port the cluster listens on unless
// configured otherwise.
const DefaultControlPort uint16 = 8031

// Config describes how the facade connects to a cluster. The zero value
// is not usable, construct one with NewConfig and adjust fields as
// needed.
type Config struct {
	// Path points at the cluster topology file.
	Path string
	// Port is the control port, DefaultControlPort when unset.
	Port uint16
	// CUK identifies this client against the cluster. When empty a
	// random one is generated per facade.
	CUK string

	// Rejoin makes the client rejoin the cluster after a lost
	// connection; RetryRejoinForever keeps retrying without bound.
	Rejoin             bool
	RetryRejoinForever bool
	// CleanupOnClose releases cluster-side resources of this client on
	// close.
	CleanupOnClose bool

	// Severity and Stack preconfigure the log level applied when the
	// facade is created.
	Severity Severity
	Stack    Stack
}

// NewConfig returns a Config with the cluster defaults: control port
// 8031, rejoin with unbounded retries, cleanup on close, and a fresh
// client identifier.
func NewConfig(path string) Config {
	return Config{
		Path:               path,
		Port:               DefaultControlPort,
		CUK:                uuid.NewString(),
		Rejoin:             true,
		RetryRejoinForever: true,
		CleanupOnClose:     true,
		Severity:           SeverityWarning,
		Stack:              StackAll,
	}
}

// validate checks the config before any session is opened.
func (c Config) validate() error {
	if c.Path == "" {
		return provider.NewError(provider.RetCInvalidArgument, "config: topology path must not be empty")
	}
	return nil
}

// openOptions translates the config into the provider's open parameters.
func (c Config) openOptions() provider.OpenOptions {
	port := c.Port
	if port == 0 {
		port = DefaultControlPort
	}
	return provider.OpenOptions{
		Path:               c.Path,
		Port:               port,
		CUK:                c.CUK,
		Rejoin:             c.Rejoin,
		RetryRejoinForever: c.RetryRejoinForever,
		CleanupOnClose:     c.CleanupOnClose,
	}
}
