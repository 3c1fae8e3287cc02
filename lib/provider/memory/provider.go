package memory

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kvclabs/dkc/lib/codec"
	"github.com/kvclabs/dkc/lib/provider"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var Logger = logger.GetLogger("store")

// --------------------------------------------------------------------------
// Entry and Queue Types
// --------------------------------------------------------------------------

// entry is one key with everything the cluster attaches to it. Entries are
// treated as immutable once stored; updates build a new entry inside a
// Compute callback so single-key operations stay atomic.
type entry struct {
	value    []byte
	subkeys  []string
	attrs    map[string]string
	pass     string
	expireAt int64 // unix nanoseconds, 0 = no expiration
}

// expired reports whether the entry's lifetime has passed at time now.
func (e *entry) expired(now int64) bool {
	return e.expireAt != 0 && now >= e.expireAt
}

// clone returns a shallow copy with fresh subkey and attr containers.
func (e *entry) clone() *entry {
	cp := &entry{
		value:    e.value,
		pass:     e.pass,
		expireAt: e.expireAt,
	}
	cp.subkeys = slices.Clone(e.subkeys)
	if e.attrs != nil {
		cp.attrs = make(map[string]string, len(e.attrs))
		for k, v := range e.attrs {
			cp.attrs[k] = v
		}
	}
	return cp
}

// queueItem is one queued element. Value-only queues leave key empty.
type queueItem struct {
	key      string
	value    string
	expireAt int64
}

// handleState tracks the response codes of the most recent call on a handle.
type handleState struct {
	code    atomic.Int64
	subcode atomic.Int64
}

// --------------------------------------------------------------------------
// Provider Implementation
// --------------------------------------------------------------------------

// memoryProvider implements provider.Provider on in-process maps. Single-key
// operations are atomic through xsync Compute; operations that touch more
// than one key (rename, recursive subkey removal) serialize on multiMu.
type memoryProvider struct {
	entries    *xsync.MapOf[string, *entry]
	queues     *xsync.MapOf[string, []queueItem]
	keyQueues  *xsync.MapOf[string, []queueItem]
	handles    *xsync.MapOf[provider.Handle, *handleState]
	nextHandle atomic.Uint64
	multiMu    sync.Mutex
}

// New creates an empty, isolated in-process store.
func New() provider.Provider {
	return &memoryProvider{
		entries:   xsync.NewMapOf[string, *entry](),
		queues:    xsync.NewMapOf[string, []queueItem](),
		keyQueues: xsync.NewMapOf[string, []queueItem](),
		handles:   xsync.NewMapOf[provider.Handle, *handleState](),
	}
}

var (
	defaultOnce     sync.Once
	defaultProvider provider.Provider
)

// Default returns the process-wide shared store. It is initialized exactly
// once, on first use, mirroring the one-time shared library setup of a
// native client stack.
func Default() provider.Provider {
	defaultOnce.Do(func() {
		defaultProvider = New()
	})
	return defaultProvider
}

// --------------------------------------------------------------------------
// Handle Lifecycle
// --------------------------------------------------------------------------

func (p *memoryProvider) Open(opts provider.OpenOptions) (provider.Handle, error) {
	if opts.Path == "" {
		return provider.InvalidHandle, provider.NewError(provider.RetCInvalidArgument, "topology path must not be empty")
	}
	h := provider.Handle(p.nextHandle.Add(1))
	p.handles.Store(h, &handleState{})
	Logger.Debugf("opened handle %d for %s (cuk %q)", h, opts.Path, opts.CUK)
	return h, nil
}

func (p *memoryProvider) Close(h provider.Handle) error {
	if _, ok := p.handles.LoadAndDelete(h); !ok {
		return provider.NewError(provider.RetCClosedSession, fmt.Sprintf("handle %d is not open", h))
	}
	Logger.Debugf("closed handle %d", h)
	return nil
}

// state resolves the handle or fails the call before touching any data.
func (p *memoryProvider) state(h provider.Handle) (*handleState, error) {
	hs, ok := p.handles.Load(h)
	if !ok {
		return nil, provider.NewError(provider.RetCClosedSession, fmt.Sprintf("handle %d is not open", h))
	}
	return hs, nil
}

// done records the response codes for the call and returns the matching
// error value (nil for success and for plain not-found lookups).
func (p *memoryProvider) done(hs *handleState, code provider.ResCode, sub provider.ResSubcode, failed bool, op string) error {
	hs.code.Store(int64(code))
	hs.subcode.Store(int64(sub))
	if failed {
		return provider.NewError(provider.RetCOperationFailed, fmt.Sprintf("%s failed: %s", op, sub))
	}
	return nil
}

func (p *memoryProvider) ResCode(h provider.Handle) provider.ResCode {
	if hs, ok := p.handles.Load(h); ok {
		return provider.ResCode(hs.code.Load())
	}
	return provider.ResError
}

func (p *memoryProvider) ResSubcode(h provider.Handle) provider.ResSubcode {
	if hs, ok := p.handles.Load(h); ok {
		return provider.ResSubcode(hs.subcode.Load())
	}
	return provider.SubNothing
}

// --------------------------------------------------------------------------
// Key/Value Operations
// --------------------------------------------------------------------------

func (p *memoryProvider) Get(h provider.Handle, key, pass string) (string, bool, error) {
	hs, err := p.state(h)
	if err != nil {
		return "", false, err
	}
	e, ok := p.load(key)
	if !ok {
		return "", false, p.done(hs, provider.ResError, provider.SubNotFound, false, "get")
	}
	if e.pass != pass {
		return "", false, p.done(hs, provider.ResError, provider.SubBadPass, true, "get")
	}
	return string(e.value), true, p.done(hs, provider.ResSuccess, provider.SubNothing, false, "get")
}

func (p *memoryProvider) Set(h provider.Handle, key, value string, clearSubkeys bool, pass string, expire uint64) error {
	hs, err := p.state(h)
	if err != nil {
		return err
	}
	p.entries.Compute(key, func(old *entry, loaded bool) (*entry, bool) {
		e := p.fresh(old, loaded)
		e.value = []byte(value)
		if clearSubkeys {
			e.subkeys = nil
		}
		p.protect(e, pass, expire)
		return e, false
	})
	return p.done(hs, provider.ResSuccess, provider.SubNothing, false, "set")
}

func (p *memoryProvider) SetAll(h provider.Handle, key, value string, subkeys []string, pass string, expire uint64) error {
	hs, err := p.state(h)
	if err != nil {
		return err
	}
	p.entries.Compute(key, func(old *entry, loaded bool) (*entry, bool) {
		e := p.fresh(old, loaded)
		e.value = []byte(value)
		e.subkeys = slices.Clone(subkeys)
		p.protect(e, pass, expire)
		return e, false
	})
	return p.done(hs, provider.ResSuccess, provider.SubNothing, false, "setall")
}

func (p *memoryProvider) Remove(h provider.Handle, key string) error {
	hs, err := p.state(h)
	if err != nil {
		return err
	}
	if _, ok := p.entries.LoadAndDelete(key); !ok {
		return p.done(hs, provider.ResError, provider.SubNotFound, true, "remove")
	}
	return p.done(hs, provider.ResSuccess, provider.SubNothing, false, "remove")
}

func (p *memoryProvider) Rename(h provider.Handle, key, newKey, parentKey string, checkParentAttrs bool, pass string, expire uint64) error {
	hs, err := p.state(h)
	if err != nil {
		return err
	}

	p.multiMu.Lock()
	defer p.multiMu.Unlock()

	e, ok := p.load(key)
	if !ok {
		return p.done(hs, provider.ResError, provider.SubNotFound, true, "rename")
	}
	if e.pass != "" && e.pass != pass {
		return p.done(hs, provider.ResError, provider.SubBadPass, true, "rename")
	}
	if parentKey != "" {
		parent, ok := p.load(parentKey)
		if !ok {
			return p.done(hs, provider.ResError, provider.SubNotFound, true, "rename")
		}
		if checkParentAttrs && parent.pass != "" && parent.pass != pass {
			return p.done(hs, provider.ResError, provider.SubBadPass, true, "rename")
		}
		np := parent.clone()
		for i, sk := range np.subkeys {
			if sk == key {
				np.subkeys[i] = newKey
			}
		}
		p.entries.Store(parentKey, np)
	}
	ne := e.clone()
	p.protect(ne, pass, expire)
	p.entries.Store(newKey, ne)
	p.entries.Delete(key)
	return p.done(hs, provider.ResSuccess, provider.SubNothing, false, "rename")
}

// --------------------------------------------------------------------------
// Subkey Operations
// --------------------------------------------------------------------------

func (p *memoryProvider) GetSubkeys(h provider.Handle, key string) ([]string, bool, error) {
	hs, err := p.state(h)
	if err != nil {
		return nil, false, err
	}
	e, ok := p.load(key)
	if !ok {
		return nil, false, p.done(hs, provider.ResError, provider.SubNotFound, false, "getsubkeys")
	}
	return slices.Clone(e.subkeys), true, p.done(hs, provider.ResSuccess, provider.SubNothing, false, "getsubkeys")
}

func (p *memoryProvider) SetSubkeys(h provider.Handle, key string, subkeys []string) error {
	hs, err := p.state(h)
	if err != nil {
		return err
	}
	p.entries.Compute(key, func(old *entry, loaded bool) (*entry, bool) {
		e := p.fresh(old, loaded)
		e.subkeys = slices.Clone(subkeys)
		return e, false
	})
	return p.done(hs, provider.ResSuccess, provider.SubNothing, false, "setsubkeys")
}

func (p *memoryProvider) RemoveSubkey(h provider.Handle, key, subkey string, recursive bool) error {
	hs, err := p.state(h)
	if err != nil {
		return err
	}

	p.multiMu.Lock()
	defer p.multiMu.Unlock()

	e, ok := p.load(key)
	if !ok {
		return p.done(hs, provider.ResError, provider.SubNotFound, true, "removesubkey")
	}
	idx := slices.Index(e.subkeys, subkey)
	if idx < 0 {
		return p.done(hs, provider.ResError, provider.SubNotFound, true, "removesubkey")
	}
	ne := e.clone()
	ne.subkeys = slices.Delete(ne.subkeys, idx, idx+1)
	p.entries.Store(key, ne)
	p.removeEntry(subkey, recursive)
	return p.done(hs, provider.ResSuccess, provider.SubNothing, false, "removesubkey")
}

func (p *memoryProvider) ClearSubkeys(h provider.Handle, key string) error {
	hs, err := p.state(h)
	if err != nil {
		return err
	}

	p.multiMu.Lock()
	defer p.multiMu.Unlock()

	e, ok := p.load(key)
	if !ok {
		return p.done(hs, provider.ResError, provider.SubNotFound, true, "clearsubkeys")
	}
	for _, sk := range e.subkeys {
		p.removeEntry(sk, true)
	}
	ne := e.clone()
	ne.subkeys = nil
	p.entries.Store(key, ne)
	return p.done(hs, provider.ResSuccess, provider.SubNothing, false, "clearsubkeys")
}

func (p *memoryProvider) GetAttrs(h provider.Handle, key string) (map[string]string, bool, error) {
	hs, err := p.state(h)
	if err != nil {
		return nil, false, err
	}
	e, ok := p.load(key)
	if !ok || len(e.attrs) == 0 {
		return nil, false, p.done(hs, provider.ResError, provider.SubNotFound, false, "getattrs")
	}
	attrs := make(map[string]string, len(e.attrs))
	for k, v := range e.attrs {
		attrs[k] = v
	}
	return attrs, true, p.done(hs, provider.ResSuccess, provider.SubNothing, false, "getattrs")
}

// --------------------------------------------------------------------------
// CAS Operations
// --------------------------------------------------------------------------

func (p *memoryProvider) CasInit(h provider.Handle, key string, value []byte, pass string, expire uint64) error {
	hs, err := p.state(h)
	if err != nil {
		return err
	}
	if _, err := codec.TypeForWidth(len(value)); err != nil {
		return p.done(hs, provider.ResError, provider.SubBadWidth, true, "casinit")
	}
	p.entries.Compute(key, func(old *entry, loaded bool) (*entry, bool) {
		e := p.fresh(old, loaded)
		e.value = slices.Clone(value)
		p.protect(e, pass, expire)
		return e, false
	})
	return p.done(hs, provider.ResSuccess, provider.SubNothing, false, "casinit")
}

func (p *memoryProvider) CasGet(h provider.Handle, key string, t codec.DataType, pass string) ([]byte, bool, error) {
	hs, err := p.state(h)
	if err != nil {
		return nil, false, err
	}
	e, ok := p.load(key)
	if !ok {
		return nil, false, p.done(hs, provider.ResError, provider.SubNotFound, false, "casget")
	}
	if e.pass != pass {
		return nil, false, p.done(hs, provider.ResError, provider.SubBadPass, true, "casget")
	}
	if len(e.value) != t.Width() {
		return nil, false, p.done(hs, provider.ResError, provider.SubBadWidth, true, "casget")
	}
	return slices.Clone(e.value), true, p.done(hs, provider.ResSuccess, provider.SubNothing, false, "casget")
}

func (p *memoryProvider) CasSet(h provider.Handle, key string, oldval, newval []byte, pass string, expire uint64) error {
	hs, err := p.state(h)
	if err != nil {
		return err
	}
	if len(oldval) != len(newval) {
		return p.done(hs, provider.ResError, provider.SubBadWidth, true, "casset")
	}

	var sub provider.ResSubcode
	p.entries.Compute(key, func(old *entry, loaded bool) (*entry, bool) {
		now := time.Now().UnixNano()
		if !loaded || old.expired(now) {
			sub = provider.SubNotFound
			return old, !loaded
		}
		if old.pass != pass {
			sub = provider.SubBadPass
			return old, false
		}
		if len(old.value) != len(oldval) {
			sub = provider.SubBadWidth
			return old, false
		}
		if !slices.Equal(old.value, oldval) {
			sub = provider.SubCasMismatch
			return old, false
		}
		e := old.clone()
		e.value = slices.Clone(newval)
		p.protect(e, pass, expire)
		return e, false
	})
	if sub != provider.SubNothing {
		return p.done(hs, provider.ResError, sub, true, "casset")
	}
	return p.done(hs, provider.ResSuccess, provider.SubNothing, false, "casset")
}

func (p *memoryProvider) CasIncDec(h provider.Handle, key string, increment bool, pass string, expire uint64) error {
	hs, err := p.state(h)
	if err != nil {
		return err
	}

	var sub provider.ResSubcode
	p.entries.Compute(key, func(old *entry, loaded bool) (*entry, bool) {
		now := time.Now().UnixNano()
		if !loaded || old.expired(now) {
			sub = provider.SubNotFound
			return old, !loaded
		}
		if old.pass != pass {
			sub = provider.SubBadPass
			return old, false
		}
		t, err := codec.TypeForWidth(len(old.value))
		if err != nil {
			sub = provider.SubBadWidth
			return old, false
		}
		v, _ := codec.Unpack(t, old.value)
		if increment {
			v++
		} else {
			v--
		}
		packed, _ := codec.Pack(t, v)
		e := old.clone()
		e.value = packed
		p.protect(e, pass, expire)
		return e, false
	})
	if sub != provider.SubNothing {
		return p.done(hs, provider.ResError, sub, true, "casincdec")
	}
	return p.done(hs, provider.ResSuccess, provider.SubNothing, false, "casincdec")
}

// --------------------------------------------------------------------------
// Queue Operations
// --------------------------------------------------------------------------

func (p *memoryProvider) QueuePush(h provider.Handle, prefix, value string, fifo, checkAttrs bool, pass string, expire uint64) error {
	hs, err := p.state(h)
	if err != nil {
		return err
	}
	p.push(p.queues, prefix, queueItem{value: value, expireAt: deadline(expire)})
	return p.done(hs, provider.ResSuccess, provider.SubNothing, false, "queuepush")
}

func (p *memoryProvider) QueuePop(h provider.Handle, prefix string, fifo bool, pass string) (string, bool, error) {
	hs, err := p.state(h)
	if err != nil {
		return "", false, err
	}
	item, ok := p.pop(p.queues, prefix, fifo)
	if !ok {
		return "", false, p.done(hs, provider.ResError, provider.SubNotFound, false, "queuepop")
	}
	return item.value, true, p.done(hs, provider.ResSuccess, provider.SubNothing, false, "queuepop")
}

func (p *memoryProvider) KeyQueuePush(h provider.Handle, prefix, key, value string, fifo, checkAttrs bool, pass string, expire uint64) error {
	hs, err := p.state(h)
	if err != nil {
		return err
	}
	p.push(p.keyQueues, prefix, queueItem{key: key, value: value, expireAt: deadline(expire)})
	return p.done(hs, provider.ResSuccess, provider.SubNothing, false, "keyqueuepush")
}

func (p *memoryProvider) KeyQueuePop(h provider.Handle, prefix string, fifo bool, pass string) (string, string, bool, error) {
	hs, err := p.state(h)
	if err != nil {
		return "", "", false, err
	}
	item, ok := p.pop(p.keyQueues, prefix, fifo)
	if !ok {
		return "", "", false, p.done(hs, provider.ResError, provider.SubNotFound, false, "keyqueuepop")
	}
	return item.key, item.value, true, p.done(hs, provider.ResSuccess, provider.SubNothing, false, "keyqueuepop")
}

// --------------------------------------------------------------------------
// Log Level Pass-Through
// --------------------------------------------------------------------------

// SetLogLevel implements provider.LogLevelSetter for the store layer.
func (p *memoryProvider) SetLogLevel(stack string, severity string) {
	if stack != "store" && stack != "all" {
		return
	}
	switch severity {
	case "silent":
		Logger.SetLevel(logger.CRITICAL)
	case "error":
		Logger.SetLevel(logger.ERROR)
	case "warning":
		Logger.SetLevel(logger.WARNING)
	case "info":
		Logger.SetLevel(logger.INFO)
	case "dump":
		Logger.SetLevel(logger.DEBUG)
	}
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// load fetches an entry, treating expired entries as absent.
func (p *memoryProvider) load(key string) (*entry, bool) {
	e, ok := p.entries.Load(key)
	if !ok || e.expired(time.Now().UnixNano()) {
		return nil, false
	}
	return e, ok
}

// fresh returns a mutable copy of old, or an empty entry when the key was
// absent or expired. Must only be called inside a Compute callback.
func (p *memoryProvider) fresh(old *entry, loaded bool) *entry {
	if !loaded || old.expired(time.Now().UnixNano()) {
		return &entry{}
	}
	return old.clone()
}

// protect applies passphrase and expiration to an entry and maintains the
// attribute map the cluster exposes through GetAttrs.
func (p *memoryProvider) protect(e *entry, pass string, expire uint64) {
	if pass != "" {
		e.pass = pass
		if e.attrs == nil {
			e.attrs = make(map[string]string, 2)
		}
		e.attrs["protected"] = "true"
	}
	if expire != 0 {
		e.expireAt = deadline(expire)
		if e.attrs == nil {
			e.attrs = make(map[string]string, 2)
		}
		e.attrs["expire"] = fmt.Sprintf("%d", expire)
	}
}

func (p *memoryProvider) push(m *xsync.MapOf[string, []queueItem], prefix string, item queueItem) {
	m.Compute(prefix, func(items []queueItem, _ bool) ([]queueItem, bool) {
		return append(slices.Clone(items), item), false
	})
}

func (p *memoryProvider) pop(m *xsync.MapOf[string, []queueItem], prefix string, fifo bool) (queueItem, bool) {
	var (
		item  queueItem
		found bool
	)
	m.Compute(prefix, func(items []queueItem, loaded bool) ([]queueItem, bool) {
		now := time.Now().UnixNano()
		live := items[:0:0]
		for _, it := range items {
			if it.expireAt == 0 || now < it.expireAt {
				live = append(live, it)
			}
		}
		if len(live) == 0 {
			return nil, true
		}
		if fifo {
			item, live = live[0], live[1:]
		} else {
			item, live = live[len(live)-1], live[:len(live)-1]
		}
		found = true
		return live, len(live) == 0
	})
	return item, found
}

// removeEntry deletes a key and, when recursive, its whole subkey subtree.
// Caller must hold multiMu.
func (p *memoryProvider) removeEntry(key string, recursive bool) {
	e, ok := p.entries.LoadAndDelete(key)
	if !ok || !recursive {
		return
	}
	for _, sk := range e.subkeys {
		p.removeEntry(sk, true)
	}
}

func deadline(expire uint64) int64 {
	if expire == 0 {
		return 0
	}
	return time.Now().Add(time.Duration(expire) * time.Second).UnixNano()
}
