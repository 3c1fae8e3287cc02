package cluster

import (
	"github.com/kvclabs/dkc/lib/command"
	"github.com/kvclabs/dkc/lib/provider"
	"github.com/kvclabs/dkc/lib/provider/memory"
	"github.com/kvclabs/dkc/lib/session"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("cluster")

// --------------------------------------------------------------------------
// Cluster Facade
// --------------------------------------------------------------------------

// Cluster is the one-call facade over the command family. Every method
// opens a scoped session, executes a single command and closes the
// session on every exit path. Applications that batch many operations
// should hold their own session and use the command package directly.
type Cluster struct {
	cfg      Config
	provider provider.Provider
}

// New creates a facade against the in-process store.
func New(cfg Config) (*Cluster, error) {
	return NewWithProvider(cfg, memory.Default())
}

// NewWithProvider creates a facade against an explicit backend.
func NewWithProvider(cfg Config, p provider.Provider) (*Cluster, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, provider.NewError(provider.RetCInvalidArgument, "provider must not be nil")
	}
	if cfg.CUK == "" {
		cfg = NewConfig(cfg.Path)
	}
	SetLogLevel(cfg.Severity, cfg.Stack, p)
	return &Cluster{cfg: cfg, provider: p}, nil
}

// Config returns the configuration the facade was created with.
func (c *Cluster) Config() Config { return c.cfg }

// scoped opens a session, runs fn and always closes the session again.
func scoped[T any](c *Cluster, fn func(s *session.Session) (command.Result[T], error)) (command.Result[T], error) {
	s, err := session.Open(c.provider, c.cfg.openOptions())
	if err != nil {
		return command.Result[T]{}, err
	}
	defer s.Close()
	return fn(s)
}

// --------------------------------------------------------------------------
// Single-Shot Operations
// --------------------------------------------------------------------------

// Get reads one key. found is false for a clean miss; err covers
// construction, connection and backend failures.
func (c *Cluster) Get(key string) (value string, found bool, err error) {
	cmd, err := command.NewGet(key)
	if err != nil {
		return "", false, err
	}
	res, err := scoped(c, cmd.Execute)
	if err != nil {
		return "", false, err
	}
	return resolve(res)
}

// Set writes one key.
func (c *Cluster) Set(key, value string) error {
	cmd, err := command.NewSet(key, value, false)
	if err != nil {
		return err
	}
	res, err := scoped(c, cmd.Execute)
	if err != nil {
		return err
	}
	_, _, err = resolve(res)
	return err
}

// Remove deletes one key.
func (c *Cluster) Remove(key string) error {
	cmd, err := command.NewRemove(key)
	if err != nil {
		return err
	}
	res, err := scoped(c, cmd.Execute)
	if err != nil {
		return err
	}
	_, _, err = resolve(res)
	return err
}

// GetSubkeys lists the direct subkeys of a key. A key without subkeys
// reports found=false.
func (c *Cluster) GetSubkeys(key string) (subkeys []string, found bool, err error) {
	cmd, err := command.NewGetSubkeys(key)
	if err != nil {
		return nil, false, err
	}
	res, err := scoped(c, cmd.Execute)
	if err != nil {
		return nil, false, err
	}
	return resolve(res)
}

// SetSubkeys replaces the subkey list of a key.
func (c *Cluster) SetSubkeys(key string, subkeys []string) error {
	cmd, err := command.NewSetSubkeys(key, subkeys)
	if err != nil {
		return err
	}
	res, err := scoped(c, cmd.Execute)
	if err != nil {
		return err
	}
	_, _, err = resolve(res)
	return err
}

// ClearSubkeys recursively deletes all subkeys of a key.
func (c *Cluster) ClearSubkeys(key string) error {
	cmd, err := command.NewClearSubkeys(key)
	if err != nil {
		return err
	}
	res, err := scoped(c, cmd.Execute)
	if err != nil {
		return err
	}
	_, _, err = resolve(res)
	return err
}

// resolve turns a Result into the facade's (value, found, error) shape.
// Failed results become an OperationFailed error carrying the response
// codes in the message.
func resolve[T any](res command.Result[T]) (T, bool, error) {
	v, found := res.Value()
	if res.Outcome() == command.OutcomeFailed {
		return v, false, provider.NewError(provider.RetCOperationFailed,
			res.Kind()+" failed: "+res.Subcode().String())
	}
	return v, found, nil
}
