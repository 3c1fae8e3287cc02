package command

import (
	"github.com/kvclabs/dkc/lib/provider"
	"github.com/kvclabs/dkc/lib/session"
)

// --------------------------------------------------------------------------
// QueueAdd
// --------------------------------------------------------------------------

// QueueAdd pushes one value onto the queue named by prefix. fifo selects
// which end later pops take from; pushes always append at the tail.
type QueueAdd struct {
	prefix string
	value  string
	fifo   bool
	opts   options
}

func NewQueueAdd(prefix, value string, fifo bool, opts ...Option) (*QueueAdd, error) {
	if prefix == "" {
		return nil, provider.NewError(provider.RetCInvalidArgument, "queue prefix must not be empty")
	}
	return &QueueAdd{prefix: prefix, value: value, fifo: fifo, opts: applyOptions(opts)}, nil
}

func (c *QueueAdd) Kind() string { return "queue add" }

func (c *QueueAdd) Execute(s *session.Session) (Result[bool], error) {
	p, h, err := handleOf(s)
	if err != nil {
		return Result[bool]{}, err
	}
	err = p.QueuePush(h, c.prefix, c.value, c.fifo, c.opts.checkAttrs, c.opts.pass, c.opts.expire)
	return finish(c.Kind(), p, h, outcomeOf(err, true), err == nil), nil
}

// --------------------------------------------------------------------------
// QueueRemove
// --------------------------------------------------------------------------

// QueueRemove pops up to count values from the queue, one backend call
// per element. Popping stops at the first empty pop; fewer elements than
// requested is not a failure.
type QueueRemove struct {
	prefix string
	count  int
	fifo   bool
	opts   options
}

func NewQueueRemove(prefix string, count int, fifo bool, opts ...Option) (*QueueRemove, error) {
	if prefix == "" {
		return nil, provider.NewError(provider.RetCInvalidArgument, "queue prefix must not be empty")
	}
	if count < 1 {
		return nil, provider.NewError(provider.RetCInvalidArgument, "count must be at least 1")
	}
	return &QueueRemove{prefix: prefix, count: count, fifo: fifo, opts: applyOptions(opts)}, nil
}

func (c *QueueRemove) Kind() string { return "queue remove" }

func (c *QueueRemove) Execute(s *session.Session) (Result[[]string], error) {
	p, h, err := handleOf(s)
	if err != nil {
		return Result[[]string]{}, err
	}
	var values []string
	for i := 0; i < c.count; i++ {
		v, found, err := p.QueuePop(h, c.prefix, c.fifo, c.opts.pass)
		if err != nil {
			return finish(c.Kind(), p, h, OutcomeFailed, values), nil
		}
		if !found {
			break
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return finish[[]string](c.Kind(), p, h, OutcomeNotFound, nil), nil
	}
	return finish(c.Kind(), p, h, OutcomeFound, values), nil
}

// --------------------------------------------------------------------------
// KeyQueueAdd
// --------------------------------------------------------------------------

// KV is one key-value element of a key queue.
type KV struct {
	Key   string
	Value string
}

// KeyQueueAdd pushes a key-value pair onto the key queue named by prefix.
type KeyQueueAdd struct {
	prefix string
	key    string
	value  string
	fifo   bool
	opts   options
}

func NewKeyQueueAdd(prefix, key, value string, fifo bool, opts ...Option) (*KeyQueueAdd, error) {
	if prefix == "" {
		return nil, provider.NewError(provider.RetCInvalidArgument, "queue prefix must not be empty")
	}
	if key == "" {
		return nil, provider.NewError(provider.RetCInvalidArgument, "key must not be empty")
	}
	return &KeyQueueAdd{prefix: prefix, key: key, value: value, fifo: fifo, opts: applyOptions(opts)}, nil
}

func (c *KeyQueueAdd) Kind() string { return "keyqueue add" }

func (c *KeyQueueAdd) Execute(s *session.Session) (Result[bool], error) {
	p, h, err := handleOf(s)
	if err != nil {
		return Result[bool]{}, err
	}
	err = p.KeyQueuePush(h, c.prefix, c.key, c.value, c.fifo, c.opts.checkAttrs, c.opts.pass, c.opts.expire)
	return finish(c.Kind(), p, h, outcomeOf(err, true), err == nil), nil
}

// --------------------------------------------------------------------------
// KeyQueueRemove
// --------------------------------------------------------------------------

// KeyQueueRemove pops up to count key-value pairs from the key queue,
// one backend call per element.
type KeyQueueRemove struct {
	prefix string
	count  int
	fifo   bool
	opts   options
}

func NewKeyQueueRemove(prefix string, count int, fifo bool, opts ...Option) (*KeyQueueRemove, error) {
	if prefix == "" {
		return nil, provider.NewError(provider.RetCInvalidArgument, "queue prefix must not be empty")
	}
	if count < 1 {
		return nil, provider.NewError(provider.RetCInvalidArgument, "count must be at least 1")
	}
	return &KeyQueueRemove{prefix: prefix, count: count, fifo: fifo, opts: applyOptions(opts)}, nil
}

func (c *KeyQueueRemove) Kind() string { return "keyqueue remove" }

func (c *KeyQueueRemove) Execute(s *session.Session) (Result[[]KV], error) {
	p, h, err := handleOf(s)
	if err != nil {
		return Result[[]KV]{}, err
	}
	var pairs []KV
	for i := 0; i < c.count; i++ {
		k, v, found, err := p.KeyQueuePop(h, c.prefix, c.fifo, c.opts.pass)
		if err != nil {
			return finish(c.Kind(), p, h, OutcomeFailed, pairs), nil
		}
		if !found {
			break
		}
		pairs = append(pairs, KV{Key: k, Value: v})
	}
	if len(pairs) == 0 {
		return finish[[]KV](c.Kind(), p, h, OutcomeNotFound, nil), nil
	}
	return finish(c.Kind(), p, h, OutcomeFound, pairs), nil
}
