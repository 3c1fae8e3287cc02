package command

import (
	"github.com/kvclabs/dkc/lib/provider"
	"github.com/kvclabs/dkc/lib/session"
)

// --------------------------------------------------------------------------
// Get
// --------------------------------------------------------------------------

// Get reads the value of one key.
type Get struct {
	key  string
	opts options
}

func NewGet(key string, opts ...Option) (*Get, error) {
	if key == "" {
		return nil, provider.NewError(provider.RetCInvalidArgument, "key must not be empty")
	}
	return &Get{key: key, opts: applyOptions(opts)}, nil
}

func (c *Get) Kind() string { return "get" }

func (c *Get) Execute(s *session.Session) (Result[string], error) {
	p, h, err := handleOf(s)
	if err != nil {
		return Result[string]{}, err
	}
	v, found, err := p.Get(h, c.key, c.opts.pass)
	return finish(c.Kind(), p, h, outcomeOf(err, found), v), nil
}

// --------------------------------------------------------------------------
// Set
// --------------------------------------------------------------------------

// Set writes one key. clearSubkeys additionally drops the key's subkey
// list in the same call.
type Set struct {
	key          string
	value        string
	clearSubkeys bool
	opts         options
}

func NewSet(key, value string, clearSubkeys bool, opts ...Option) (*Set, error) {
	if key == "" {
		return nil, provider.NewError(provider.RetCInvalidArgument, "key must not be empty")
	}
	return &Set{key: key, value: value, clearSubkeys: clearSubkeys, opts: applyOptions(opts)}, nil
}

func (c *Set) Kind() string { return "set" }

func (c *Set) Execute(s *session.Session) (Result[bool], error) {
	p, h, err := handleOf(s)
	if err != nil {
		return Result[bool]{}, err
	}
	err = p.Set(h, c.key, c.value, c.clearSubkeys, c.opts.pass, c.opts.expire)
	return finish(c.Kind(), p, h, outcomeOf(err, true), err == nil), nil
}

// --------------------------------------------------------------------------
// SetAll
// --------------------------------------------------------------------------

// SetAll writes a key's value and replaces its whole subkey list in one
// call.
type SetAll struct {
	key     string
	value   string
	subkeys []string
	opts    options
}

func NewSetAll(key, value string, subkeys []string, opts ...Option) (*SetAll, error) {
	if key == "" {
		return nil, provider.NewError(provider.RetCInvalidArgument, "key must not be empty")
	}
	for _, sk := range subkeys {
		if sk == "" {
			return nil, provider.NewError(provider.RetCInvalidArgument, "subkeys must not contain empty keys")
		}
	}
	return &SetAll{key: key, value: value, subkeys: subkeys, opts: applyOptions(opts)}, nil
}

func (c *SetAll) Kind() string { return "setall" }

func (c *SetAll) Execute(s *session.Session) (Result[bool], error) {
	p, h, err := handleOf(s)
	if err != nil {
		return Result[bool]{}, err
	}
	err = p.SetAll(h, c.key, c.value, c.subkeys, c.opts.pass, c.opts.expire)
	return finish(c.Kind(), p, h, outcomeOf(err, true), err == nil), nil
}

// --------------------------------------------------------------------------
// Remove
// --------------------------------------------------------------------------

// Remove deletes one key. Subkey entries stay untouched.
type Remove struct {
	key string
}

func NewRemove(key string) (*Remove, error) {
	if key == "" {
		return nil, provider.NewError(provider.RetCInvalidArgument, "key must not be empty")
	}
	return &Remove{key: key}, nil
}

func (c *Remove) Kind() string { return "remove" }

func (c *Remove) Execute(s *session.Session) (Result[bool], error) {
	p, h, err := handleOf(s)
	if err != nil {
		return Result[bool]{}, err
	}
	err = p.Remove(h, c.key)
	return finish(c.Kind(), p, h, outcomeOf(err, true), err == nil), nil
}

// --------------------------------------------------------------------------
// Rename
// --------------------------------------------------------------------------

// Rename moves a key to a new name. With WithParent the parent's subkey
// list is rewritten to point at the new name in the same operation.
type Rename struct {
	key    string
	newKey string
	opts   options
}

func NewRename(key, newKey string, opts ...Option) (*Rename, error) {
	if key == "" || newKey == "" {
		return nil, provider.NewError(provider.RetCInvalidArgument, "key and new key must not be empty")
	}
	return &Rename{key: key, newKey: newKey, opts: applyOptions(opts)}, nil
}

func (c *Rename) Kind() string { return "rename" }

func (c *Rename) Execute(s *session.Session) (Result[bool], error) {
	p, h, err := handleOf(s)
	if err != nil {
		return Result[bool]{}, err
	}
	err = p.Rename(h, c.key, c.newKey, c.opts.parentKey, c.opts.checkParentAttrs, c.opts.pass, c.opts.expire)
	return finish(c.Kind(), p, h, outcomeOf(err, true), err == nil), nil
}
