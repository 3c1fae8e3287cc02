package remote

import (
	"fmt"
	"sync"

	"github.com/kvclabs/dkc/lib/codec"
	"github.com/kvclabs/dkc/lib/provider"
	"github.com/kvclabs/dkc/rpc/common"
	"github.com/kvclabs/dkc/rpc/serializer"
	"github.com/kvclabs/dkc/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var (
	Logger = logger.GetLogger("rpc")
)

// NewRPCProvider creates a provider that forwards every operation to a
// dkc server over the rpc wire protocol. The transport is connected on
// the first Open call; the endpoints come from the client config or, when
// the config lists none, from the topology file named in the open options.
func NewRPCProvider(
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) provider.Provider {
	return &rpcProvider{
		config:     config,
		transport:  transport,
		serializer: serializer,
		codes:      xsync.NewMapOf[provider.Handle, *handleCodes](),
	}
}

// handleCodes caches the response codes of the most recent call on a handle.
type handleCodes struct {
	mu      sync.Mutex
	code    provider.ResCode
	subcode provider.ResSubcode
}

type rpcProvider struct {
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
	codes      *xsync.MapOf[provider.Handle, *handleCodes]

	connectMu sync.Mutex
	connected bool
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

func (p *rpcProvider) Open(opts provider.OpenOptions) (provider.Handle, error) {
	if err := p.connect(opts); err != nil {
		return provider.InvalidHandle, err
	}

	req := common.NewOpenRequest(opts.Path, opts.Port, opts.CUK,
		opts.Rejoin, opts.RetryRejoinForever, opts.CleanupOnClose)
	resp, err := p.invoke(provider.InvalidHandle, req)
	if err != nil {
		return provider.InvalidHandle, err
	}

	h := provider.Handle(resp.Handle)
	if h == provider.InvalidHandle {
		return provider.InvalidHandle, provider.NewError(provider.RetCConnection,
			"server issued no handle")
	}
	p.codes.Store(h, &handleCodes{})
	return h, nil
}

func (p *rpcProvider) Close(h provider.Handle) error {
	_, err := p.invoke(h, common.NewCloseRequest())
	p.codes.Delete(h)
	return err
}

// connect brings the transport up exactly once. Concurrent Open calls
// serialize here.
func (p *rpcProvider) connect(opts provider.OpenOptions) error {
	p.connectMu.Lock()
	defer p.connectMu.Unlock()

	if p.connected {
		return nil
	}

	config := p.config
	if len(config.Endpoints) == 0 {
		topo, err := LoadTopology(opts.Path, opts.Port)
		if err != nil {
			return provider.NewError(provider.RetCInvalidArgument, err.Error())
		}
		config.Endpoints = topo.Endpoints()
		Logger.Infof("resolved %d endpoints from topology %q", len(config.Endpoints), opts.Path)
	}

	if err := p.transport.Connect(config); err != nil {
		return provider.NewError(provider.RetCConnection, err.Error())
	}
	p.connected = true
	return nil
}

// --------------------------------------------------------------------------
// Key Value Operations
// --------------------------------------------------------------------------

func (p *rpcProvider) Get(h provider.Handle, key, pass string) (string, bool, error) {
	req := common.NewRequest(common.MsgTGet)
	req.Key, req.Pass = key, pass
	resp, err := p.invoke(h, req)
	if err != nil {
		return "", false, err
	}
	return resp.Value, resp.Found, nil
}

func (p *rpcProvider) Set(h provider.Handle, key, value string, clearSubkeys bool, pass string, expire uint64) error {
	req := common.NewRequest(common.MsgTSet)
	req.Key, req.Value, req.ClearSubkeys, req.Pass, req.Expire = key, value, clearSubkeys, pass, expire
	_, err := p.invoke(h, req)
	return err
}

func (p *rpcProvider) SetAll(h provider.Handle, key, value string, subkeys []string, pass string, expire uint64) error {
	req := common.NewRequest(common.MsgTSetAll)
	req.Key, req.Value, req.Subkeys, req.Pass, req.Expire = key, value, subkeys, pass, expire
	_, err := p.invoke(h, req)
	return err
}

func (p *rpcProvider) Remove(h provider.Handle, key string) error {
	req := common.NewRequest(common.MsgTRemove)
	req.Key = key
	_, err := p.invoke(h, req)
	return err
}

func (p *rpcProvider) Rename(h provider.Handle, key, newKey, parentKey string, checkParentAttrs bool, pass string, expire uint64) error {
	req := common.NewRequest(common.MsgTRename)
	req.Key, req.NewKey, req.ParentKey = key, newKey, parentKey
	req.CheckAttrs, req.Pass, req.Expire = checkParentAttrs, pass, expire
	_, err := p.invoke(h, req)
	return err
}

// --------------------------------------------------------------------------
// Subkey and Attribute Operations
// --------------------------------------------------------------------------

func (p *rpcProvider) GetSubkeys(h provider.Handle, key string) ([]string, bool, error) {
	req := common.NewRequest(common.MsgTGetSubkeys)
	req.Key = key
	resp, err := p.invoke(h, req)
	if err != nil {
		return nil, false, err
	}
	return resp.Subkeys, resp.Found, nil
}

func (p *rpcProvider) SetSubkeys(h provider.Handle, key string, subkeys []string) error {
	req := common.NewRequest(common.MsgTSetSubkeys)
	req.Key, req.Subkeys = key, subkeys
	_, err := p.invoke(h, req)
	return err
}

func (p *rpcProvider) RemoveSubkey(h provider.Handle, key, subkey string, recursive bool) error {
	req := common.NewRequest(common.MsgTRemoveSubkey)
	req.Key, req.Subkey, req.Recursive = key, subkey, recursive
	_, err := p.invoke(h, req)
	return err
}

func (p *rpcProvider) ClearSubkeys(h provider.Handle, key string) error {
	req := common.NewRequest(common.MsgTClearSubkeys)
	req.Key = key
	_, err := p.invoke(h, req)
	return err
}

func (p *rpcProvider) GetAttrs(h provider.Handle, key string) (map[string]string, bool, error) {
	req := common.NewRequest(common.MsgTGetAttrs)
	req.Key = key
	resp, err := p.invoke(h, req)
	if err != nil {
		return nil, false, err
	}
	return resp.Attrs, resp.Found, nil
}

// --------------------------------------------------------------------------
// CAS Operations
// --------------------------------------------------------------------------

func (p *rpcProvider) CasInit(h provider.Handle, key string, value []byte, pass string, expire uint64) error {
	req := common.NewRequest(common.MsgTCasInit)
	req.Key, req.Cell, req.Pass, req.Expire = key, value, pass, expire
	_, err := p.invoke(h, req)
	return err
}

func (p *rpcProvider) CasGet(h provider.Handle, key string, t codec.DataType, pass string) ([]byte, bool, error) {
	req := common.NewRequest(common.MsgTCasGet)
	req.Key, req.Width, req.Pass = key, t.Width(), pass
	resp, err := p.invoke(h, req)
	if err != nil {
		return nil, false, err
	}
	return resp.Cell, resp.Found, nil
}

func (p *rpcProvider) CasSet(h provider.Handle, key string, oldval, newval []byte, pass string, expire uint64) error {
	req := common.NewRequest(common.MsgTCasSet)
	req.Key, req.OldCell, req.Cell, req.Pass, req.Expire = key, oldval, newval, pass, expire
	_, err := p.invoke(h, req)
	return err
}

func (p *rpcProvider) CasIncDec(h provider.Handle, key string, increment bool, pass string, expire uint64) error {
	req := common.NewRequest(common.MsgTCasIncDec)
	req.Key, req.Increment, req.Pass, req.Expire = key, increment, pass, expire
	_, err := p.invoke(h, req)
	return err
}

// --------------------------------------------------------------------------
// Queue Operations
// --------------------------------------------------------------------------

func (p *rpcProvider) QueuePush(h provider.Handle, prefix, value string, fifo, checkAttrs bool, pass string, expire uint64) error {
	req := common.NewRequest(common.MsgTQueuePush)
	req.Prefix, req.Value, req.Fifo, req.CheckAttrs, req.Pass, req.Expire = prefix, value, fifo, checkAttrs, pass, expire
	_, err := p.invoke(h, req)
	return err
}

func (p *rpcProvider) QueuePop(h provider.Handle, prefix string, fifo bool, pass string) (string, bool, error) {
	req := common.NewRequest(common.MsgTQueuePop)
	req.Prefix, req.Fifo, req.Pass = prefix, fifo, pass
	resp, err := p.invoke(h, req)
	if err != nil {
		return "", false, err
	}
	return resp.Value, resp.Found, nil
}

func (p *rpcProvider) KeyQueuePush(h provider.Handle, prefix, key, value string, fifo, checkAttrs bool, pass string, expire uint64) error {
	req := common.NewRequest(common.MsgTKeyQueuePush)
	req.Prefix, req.Key, req.Value = prefix, key, value
	req.Fifo, req.CheckAttrs, req.Pass, req.Expire = fifo, checkAttrs, pass, expire
	_, err := p.invoke(h, req)
	return err
}

func (p *rpcProvider) KeyQueuePop(h provider.Handle, prefix string, fifo bool, pass string) (string, string, bool, error) {
	req := common.NewRequest(common.MsgTKeyQueuePop)
	req.Prefix, req.Fifo, req.Pass = prefix, fifo, pass
	resp, err := p.invoke(h, req)
	if err != nil {
		return "", "", false, err
	}
	return resp.Key, resp.Value, resp.Found, nil
}

// --------------------------------------------------------------------------
// Response Codes
// --------------------------------------------------------------------------

func (p *rpcProvider) ResCode(h provider.Handle) provider.ResCode {
	if hs, ok := p.codes.Load(h); ok {
		hs.mu.Lock()
		defer hs.mu.Unlock()
		return hs.code
	}
	return provider.ResError
}

func (p *rpcProvider) ResSubcode(h provider.Handle) provider.ResSubcode {
	if hs, ok := p.codes.Load(h); ok {
		hs.mu.Lock()
		defer hs.mu.Unlock()
		return hs.subcode
	}
	return provider.SubInternal
}

// record stores the response codes carried by a server response.
func (p *rpcProvider) record(h provider.Handle, code provider.ResCode, subcode provider.ResSubcode) {
	if hs, ok := p.codes.Load(h); ok {
		hs.mu.Lock()
		hs.code, hs.subcode = code, subcode
		hs.mu.Unlock()
	}
}

// --------------------------------------------------------------------------
// Wire Helpers
// --------------------------------------------------------------------------

// invoke sends one request and validates the response. Transport and
// protocol failures surface as connection errors, rejected operations as
// operation failures with the server's response codes recorded.
func (p *rpcProvider) invoke(h provider.Handle, req *common.Message) (*common.Message, error) {
	reqBytes, err := p.serializer.Serialize(*req)
	if err != nil {
		return nil, provider.NewError(provider.RetCConnection,
			fmt.Sprintf("RPC ProviderClient - Error: %s", err))
	}

	respBytes, err := p.transport.Send(uint64(h), reqBytes)
	if err != nil {
		return nil, provider.NewError(provider.RetCConnection,
			fmt.Sprintf("RPC ProviderClient - Error: %s", err))
	}

	resp := &common.Message{}
	if err := p.serializer.Deserialize(respBytes, resp); err != nil {
		return nil, provider.NewError(provider.RetCConnection,
			fmt.Sprintf("RPC ProviderClient - Error: %s", err))
	}

	if resp.MsgType == common.MsgTError {
		p.record(h, provider.ResError, provider.SubInternal)
		return nil, provider.NewError(provider.RetCOperationFailed,
			fmt.Sprintf("RPC ProviderClient - Error: %s", resp.Err))
	}
	if resp.MsgType != req.MsgType {
		return nil, provider.NewError(provider.RetCConnection,
			fmt.Sprintf("RPC ProviderClient - Unexpected message type: %s, expected %s", resp.MsgType, req.MsgType))
	}

	p.record(h, provider.ResCode(resp.Code), provider.ResSubcode(resp.Subcode))

	if resp.Err != "" {
		return nil, provider.NewError(provider.RetCOperationFailed, resp.Err)
	}
	return resp, nil
}
