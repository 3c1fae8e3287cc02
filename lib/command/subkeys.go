package command

import (
	"github.com/kvclabs/dkc/lib/provider"
	"github.com/kvclabs/dkc/lib/session"
)

// --------------------------------------------------------------------------
// GetSubkeys
// --------------------------------------------------------------------------

// GetSubkeys lists the direct subkeys of a key. An existing key with an
// empty list reports OutcomeNotFound, matching the lookup convention of
// the other read commands.
type GetSubkeys struct {
	key string
}

func NewGetSubkeys(key string) (*GetSubkeys, error) {
	if key == "" {
		return nil, provider.NewError(provider.RetCInvalidArgument, "key must not be empty")
	}
	return &GetSubkeys{key: key}, nil
}

func (c *GetSubkeys) Kind() string { return "getsubkeys" }

func (c *GetSubkeys) Execute(s *session.Session) (Result[[]string], error) {
	p, h, err := handleOf(s)
	if err != nil {
		return Result[[]string]{}, err
	}
	sks, found, err := p.GetSubkeys(h, c.key)
	if err == nil && len(sks) == 0 {
		found = false
	}
	return finish(c.Kind(), p, h, outcomeOf(err, found), sks), nil
}

// --------------------------------------------------------------------------
// SetSubkeys
// --------------------------------------------------------------------------

// SetSubkeys replaces the subkey list of a key.
type SetSubkeys struct {
	key     string
	subkeys []string
}

func NewSetSubkeys(key string, subkeys []string) (*SetSubkeys, error) {
	if key == "" {
		return nil, provider.NewError(provider.RetCInvalidArgument, "key must not be empty")
	}
	for _, sk := range subkeys {
		if sk == "" {
			return nil, provider.NewError(provider.RetCInvalidArgument, "subkeys must not contain empty keys")
		}
	}
	return &SetSubkeys{key: key, subkeys: subkeys}, nil
}

func (c *SetSubkeys) Kind() string { return "setsubkeys" }

func (c *SetSubkeys) Execute(s *session.Session) (Result[bool], error) {
	p, h, err := handleOf(s)
	if err != nil {
		return Result[bool]{}, err
	}
	err = p.SetSubkeys(h, c.key, c.subkeys)
	return finish(c.Kind(), p, h, outcomeOf(err, true), err == nil), nil
}

// --------------------------------------------------------------------------
// AddSubkey
// --------------------------------------------------------------------------

// AddSubkey prepends one subkey to a key's list. This is a client-side
// read-modify-write: the current list is fetched and rewritten with the
// new subkey in front, so concurrent adds on the same key can race.
type AddSubkey struct {
	key    string
	subkey string
}

func NewAddSubkey(key, subkey string) (*AddSubkey, error) {
	if key == "" || subkey == "" {
		return nil, provider.NewError(provider.RetCInvalidArgument, "key and subkey must not be empty")
	}
	return &AddSubkey{key: key, subkey: subkey}, nil
}

func (c *AddSubkey) Kind() string { return "addsubkey" }

func (c *AddSubkey) Execute(s *session.Session) (Result[bool], error) {
	p, h, err := handleOf(s)
	if err != nil {
		return Result[bool]{}, err
	}
	current, _, err := p.GetSubkeys(h, c.key)
	if err != nil {
		return finish(c.Kind(), p, h, OutcomeFailed, false), nil
	}
	merged := append([]string{c.subkey}, current...)
	err = p.SetSubkeys(h, c.key, merged)
	return finish(c.Kind(), p, h, outcomeOf(err, true), err == nil), nil
}

// --------------------------------------------------------------------------
// RemoveSubkey
// --------------------------------------------------------------------------

// RemoveSubkey detaches one subkey from its parent and deletes the subkey
// entry. recursive extends the deletion to the subkey's own subtree,
// resolved by the backend.
type RemoveSubkey struct {
	key       string
	subkey    string
	recursive bool
}

func NewRemoveSubkey(key, subkey string, recursive bool) (*RemoveSubkey, error) {
	if key == "" || subkey == "" {
		return nil, provider.NewError(provider.RetCInvalidArgument, "key and subkey must not be empty")
	}
	return &RemoveSubkey{key: key, subkey: subkey, recursive: recursive}, nil
}

func (c *RemoveSubkey) Kind() string { return "removesubkey" }

func (c *RemoveSubkey) Execute(s *session.Session) (Result[bool], error) {
	p, h, err := handleOf(s)
	if err != nil {
		return Result[bool]{}, err
	}
	err = p.RemoveSubkey(h, c.key, c.subkey, c.recursive)
	return finish(c.Kind(), p, h, outcomeOf(err, true), err == nil), nil
}

// --------------------------------------------------------------------------
// ClearSubkeys
// --------------------------------------------------------------------------

// ClearSubkeys deletes all subkeys of a key, recursively, and empties the
// key's subkey list.
type ClearSubkeys struct {
	key string
}

func NewClearSubkeys(key string) (*ClearSubkeys, error) {
	if key == "" {
		return nil, provider.NewError(provider.RetCInvalidArgument, "key must not be empty")
	}
	return &ClearSubkeys{key: key}, nil
}

func (c *ClearSubkeys) Kind() string { return "clearsubkeys" }

func (c *ClearSubkeys) Execute(s *session.Session) (Result[bool], error) {
	p, h, err := handleOf(s)
	if err != nil {
		return Result[bool]{}, err
	}
	err = p.ClearSubkeys(h, c.key)
	return finish(c.Kind(), p, h, outcomeOf(err, true), err == nil), nil
}

// --------------------------------------------------------------------------
// GetAttrs
// --------------------------------------------------------------------------

// GetAttrs reads the attribute map attached to a key.
type GetAttrs struct {
	key string
}

func NewGetAttrs(key string) (*GetAttrs, error) {
	if key == "" {
		return nil, provider.NewError(provider.RetCInvalidArgument, "key must not be empty")
	}
	return &GetAttrs{key: key}, nil
}

func (c *GetAttrs) Kind() string { return "getattrs" }

func (c *GetAttrs) Execute(s *session.Session) (Result[map[string]string], error) {
	p, h, err := handleOf(s)
	if err != nil {
		return Result[map[string]string]{}, err
	}
	attrs, found, err := p.GetAttrs(h, c.key)
	return finish(c.Kind(), p, h, outcomeOf(err, found), attrs), nil
}
