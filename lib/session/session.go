package session

import (
	"fmt"

	"github.com/kvclabs/dkc/lib/provider"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("session")

// --------------------------------------------------------------------------
// Session Type
// --------------------------------------------------------------------------

// Session owns exactly one provider handle. The lifecycle is one-way:
// a session is created open and a closed session can never be reopened.
type Session struct {
	provider provider.Provider
	handle   provider.Handle
	closed   bool
}

// Open acquires a handle from the provider. It fails with a connection
// error when the provider hands back the invalid handle without an error
// of its own.
func Open(p provider.Provider, opts provider.OpenOptions) (*Session, error) {
	if p == nil {
		return nil, provider.NewError(provider.RetCInvalidArgument, "provider must not be nil")
	}
	h, err := p.Open(opts)
	if err != nil {
		return nil, err
	}
	if h == provider.InvalidHandle {
		return nil, provider.NewError(provider.RetCConnection,
			fmt.Sprintf("connecting to cluster %s failed", opts.Path))
	}
	Logger.Debugf("session opened (handle %d)", h)
	return &Session{provider: p, handle: h}, nil
}

// Handle returns the underlying handle, or an error once the session is
// closed or was never opened.
func (s *Session) Handle() (provider.Handle, error) {
	if s == nil || s.closed || s.handle == provider.InvalidHandle {
		return provider.InvalidHandle, provider.NewError(provider.RetCClosedSession, "session is not open")
	}
	return s.handle, nil
}

// Provider returns the backend this session was opened against.
func (s *Session) Provider() provider.Provider {
	if s == nil {
		return nil
	}
	return s.provider
}

// Close releases the handle. It is idempotent and never surfaces the
// underlying failure, a close error is logged and the session still
// transitions to closed.
func (s *Session) Close() {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	if err := s.provider.Close(s.handle); err != nil {
		Logger.Warningf("closing handle %d: %v", s.handle, err)
		return
	}
	Logger.Debugf("session closed (handle %d)", s.handle)
}
