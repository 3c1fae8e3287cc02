package command

import (
	"github.com/kvclabs/dkc/lib/codec"
	"github.com/kvclabs/dkc/lib/provider"
	"github.com/kvclabs/dkc/lib/session"
)

// --------------------------------------------------------------------------
// CasInit
// --------------------------------------------------------------------------

// CasInit creates a CAS cell of the given width, packing the initial
// value little-endian. Values wider than the cell are truncated by the
// codec.
type CasInit struct {
	key   string
	cell  []byte
	opts  options
	width codec.DataType
}

func NewCasInit(key string, t codec.DataType, value uint64, opts ...Option) (*CasInit, error) {
	if key == "" {
		return nil, provider.NewError(provider.RetCInvalidArgument, "key must not be empty")
	}
	cell, err := codec.Pack(t, value)
	if err != nil {
		return nil, provider.NewError(provider.RetCInvalidArgument, err.Error())
	}
	return &CasInit{key: key, cell: cell, width: t, opts: applyOptions(opts)}, nil
}

func (c *CasInit) Kind() string { return "cas init" }

func (c *CasInit) Execute(s *session.Session) (Result[bool], error) {
	p, h, err := handleOf(s)
	if err != nil {
		return Result[bool]{}, err
	}
	err = p.CasInit(h, c.key, c.cell, c.opts.pass, c.opts.expire)
	return finish(c.Kind(), p, h, outcomeOf(err, true), err == nil), nil
}

// --------------------------------------------------------------------------
// CasGet
// --------------------------------------------------------------------------

// CasGet reads a CAS cell of the given width and unpacks it into an
// unsigned integer.
type CasGet struct {
	key   string
	width codec.DataType
	opts  options
}

func NewCasGet(key string, t codec.DataType, opts ...Option) (*CasGet, error) {
	if key == "" {
		return nil, provider.NewError(provider.RetCInvalidArgument, "key must not be empty")
	}
	if _, err := codec.TypeForWidth(t.Width()); err != nil {
		return nil, provider.NewError(provider.RetCInvalidArgument, err.Error())
	}
	return &CasGet{key: key, width: t, opts: applyOptions(opts)}, nil
}

func (c *CasGet) Kind() string { return "cas get" }

func (c *CasGet) Execute(s *session.Session) (Result[uint64], error) {
	p, h, err := handleOf(s)
	if err != nil {
		return Result[uint64]{}, err
	}
	raw, found, err := p.CasGet(h, c.key, c.width, c.opts.pass)
	outcome := outcomeOf(err, found)
	var v uint64
	if outcome == OutcomeFound {
		if v, err = codec.Unpack(c.width, raw); err != nil {
			outcome = OutcomeFailed
		}
	}
	return finish(c.Kind(), p, h, outcome, v), nil
}

// --------------------------------------------------------------------------
// CasSet
// --------------------------------------------------------------------------

// CasSet swaps a CAS cell from an expected old value to a new one. Both
// are packed at the same width; a cell holding anything other than the
// old value fails the swap.
type CasSet struct {
	key    string
	oldval []byte
	newval []byte
	opts   options
}

func NewCasSet(key string, t codec.DataType, oldval, newval uint64, opts ...Option) (*CasSet, error) {
	if key == "" {
		return nil, provider.NewError(provider.RetCInvalidArgument, "key must not be empty")
	}
	ob, err := codec.Pack(t, oldval)
	if err != nil {
		return nil, provider.NewError(provider.RetCInvalidArgument, err.Error())
	}
	nb, _ := codec.Pack(t, newval)
	return &CasSet{key: key, oldval: ob, newval: nb, opts: applyOptions(opts)}, nil
}

func (c *CasSet) Kind() string { return "cas set" }

func (c *CasSet) Execute(s *session.Session) (Result[bool], error) {
	p, h, err := handleOf(s)
	if err != nil {
		return Result[bool]{}, err
	}
	err = p.CasSet(h, c.key, c.oldval, c.newval, c.opts.pass, c.opts.expire)
	return finish(c.Kind(), p, h, outcomeOf(err, true), err == nil), nil
}

// --------------------------------------------------------------------------
// CasIncDec
// --------------------------------------------------------------------------

// CasIncDec adjusts a CAS cell by one in either direction. The backend
// resolves the cell width from the stored cell.
type CasIncDec struct {
	key       string
	increment bool
	opts      options
}

func NewCasIncrement(key string, opts ...Option) (*CasIncDec, error) {
	return newCasIncDec(key, true, opts)
}

func NewCasDecrement(key string, opts ...Option) (*CasIncDec, error) {
	return newCasIncDec(key, false, opts)
}

func newCasIncDec(key string, increment bool, opts []Option) (*CasIncDec, error) {
	if key == "" {
		return nil, provider.NewError(provider.RetCInvalidArgument, "key must not be empty")
	}
	return &CasIncDec{key: key, increment: increment, opts: applyOptions(opts)}, nil
}

func (c *CasIncDec) Kind() string {
	if c.increment {
		return "cas increment"
	}
	return "cas decrement"
}

func (c *CasIncDec) Execute(s *session.Session) (Result[bool], error) {
	p, h, err := handleOf(s)
	if err != nil {
		return Result[bool]{}, err
	}
	err = p.CasIncDec(h, c.key, c.increment, c.opts.pass, c.opts.expire)
	return finish(c.Kind(), p, h, outcomeOf(err, true), err == nil), nil
}
