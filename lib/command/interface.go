package command

import (
	"github.com/kvclabs/dkc/lib/provider"
	"github.com/kvclabs/dkc/lib/session"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("command")

// --------------------------------------------------------------------------
// Command Interface
// --------------------------------------------------------------------------

// Command is one executable cluster operation. A command is a validated
// value object: construction checks the arguments, Execute performs the
// I/O against the session's handle and folds the backend response codes
// into the returned Result.
type Command[T any] interface {
	// Kind identifies the operation, e.g. "get" or "cas set".
	Kind() string
	// Execute runs the command. The error return covers only unusable
	// sessions; backend failures come back as a Result with
	// OutcomeFailed so that the response codes are never lost.
	Execute(s *session.Session) (Result[T], error)
}

// --------------------------------------------------------------------------
// Shared Options
// --------------------------------------------------------------------------

// options holds the optional knobs shared across the command family.
type options struct {
	pass             string
	expire           uint64
	checkAttrs       bool
	parentKey        string
	checkParentAttrs bool
}

type Option func(*options)

// WithPass attaches a passphrase for protected entries.
func WithPass(pass string) Option {
	return func(o *options) { o.pass = pass }
}

// WithExpire sets the entry lifetime in seconds. Zero means no expiration.
func WithExpire(seconds uint64) Option {
	return func(o *options) { o.expire = seconds }
}

// WithCheckAttrs makes queue pushes verify the attributes of the queue
// marker before enqueueing.
func WithCheckAttrs() Option {
	return func(o *options) { o.checkAttrs = true }
}

// WithParent links a rename to a parent key whose subkey list is rewritten
// to the new name. checkAttrs additionally verifies the parent's
// protection attributes.
func WithParent(parentKey string, checkAttrs bool) Option {
	return func(o *options) {
		o.parentKey = parentKey
		o.checkParentAttrs = checkAttrs
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// --------------------------------------------------------------------------
// Session Access
// --------------------------------------------------------------------------

// handleOf resolves the provider and handle of an open session. Every
// Execute implementation starts here; a nil or closed session is the one
// condition reported as a plain error instead of a failed Result.
func handleOf(s *session.Session) (provider.Provider, provider.Handle, error) {
	if s == nil {
		return nil, provider.InvalidHandle, provider.NewError(provider.RetCClosedSession, "session must not be nil")
	}
	h, err := s.Handle()
	if err != nil {
		return nil, provider.InvalidHandle, err
	}
	return s.Provider(), h, nil
}
