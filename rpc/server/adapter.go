package server

import (
	"fmt"

	"github.com/kvclabs/dkc/lib/codec"
	"github.com/kvclabs/dkc/lib/provider"
	"github.com/kvclabs/dkc/rpc/common"
)

// NewProviderServerAdapter creates the adapter translating wire messages
// into provider calls.
func NewProviderServerAdapter() IRPCServerAdapter {
	return &providerAdapterImpl{}
}

type providerAdapterImpl struct{}

func (adapter *providerAdapterImpl) Handle(handle uint64, req *common.Message, p provider.Provider) *common.Message {
	// Check for nil provider
	if p == nil {
		return common.NewErrorResponse("handler: provider is nil")
	}

	// Handle lifecycle messages first, they do not carry response codes
	switch req.MsgType {
	case common.MsgTOpen:
		h, err := p.Open(provider.OpenOptions{
			Path:               req.Path,
			Port:               req.Port,
			CUK:                req.CUK,
			Rejoin:             req.Rejoin,
			RetryRejoinForever: req.RetryRejoinForever,
			CleanupOnClose:     req.CleanupOnClose,
		})
		return common.NewOpenResponse(uint64(h), err)
	case common.MsgTClose:
		err := p.Close(provider.Handle(handle))
		resp := &common.Message{MsgType: common.MsgTClose}
		if err != nil {
			resp.Err = err.Error()
		}
		return resp
	}

	h := provider.Handle(handle)

	// respond builds a response carrying the codes of the handle used
	respond := func(found bool, err error, fill func(*common.Message)) *common.Message {
		resp := common.NewResponse(req.MsgType, int64(p.ResCode(h)), int64(p.ResSubcode(h)), found, err)
		if fill != nil && err == nil {
			fill(resp)
		}
		return resp
	}

	// Handle operation messages
	switch req.MsgType {
	case common.MsgTGet:
		value, found, err := p.Get(h, req.Key, req.Pass)
		return respond(found, err, func(m *common.Message) { m.Value = value })

	case common.MsgTSet:
		err := p.Set(h, req.Key, req.Value, req.ClearSubkeys, req.Pass, req.Expire)
		return respond(err == nil, err, nil)

	case common.MsgTSetAll:
		err := p.SetAll(h, req.Key, req.Value, req.Subkeys, req.Pass, req.Expire)
		return respond(err == nil, err, nil)

	case common.MsgTRemove:
		err := p.Remove(h, req.Key)
		return respond(err == nil, err, nil)

	case common.MsgTRename:
		err := p.Rename(h, req.Key, req.NewKey, req.ParentKey, req.CheckAttrs, req.Pass, req.Expire)
		return respond(err == nil, err, nil)

	case common.MsgTGetSubkeys:
		subkeys, found, err := p.GetSubkeys(h, req.Key)
		return respond(found, err, func(m *common.Message) { m.Subkeys = subkeys })

	case common.MsgTSetSubkeys:
		err := p.SetSubkeys(h, req.Key, req.Subkeys)
		return respond(err == nil, err, nil)

	case common.MsgTRemoveSubkey:
		err := p.RemoveSubkey(h, req.Key, req.Subkey, req.Recursive)
		return respond(err == nil, err, nil)

	case common.MsgTClearSubkeys:
		err := p.ClearSubkeys(h, req.Key)
		return respond(err == nil, err, nil)

	case common.MsgTGetAttrs:
		attrs, found, err := p.GetAttrs(h, req.Key)
		return respond(found, err, func(m *common.Message) { m.Attrs = attrs })

	case common.MsgTCasInit:
		err := p.CasInit(h, req.Key, req.Cell, req.Pass, req.Expire)
		return respond(err == nil, err, nil)

	case common.MsgTCasGet:
		t, err := codec.TypeForWidth(req.Width)
		if err != nil {
			return common.NewErrorResponse(err.Error())
		}
		cell, found, err := p.CasGet(h, req.Key, t, req.Pass)
		return respond(found, err, func(m *common.Message) { m.Cell = cell })

	case common.MsgTCasSet:
		err := p.CasSet(h, req.Key, req.OldCell, req.Cell, req.Pass, req.Expire)
		return respond(err == nil, err, nil)

	case common.MsgTCasIncDec:
		err := p.CasIncDec(h, req.Key, req.Increment, req.Pass, req.Expire)
		return respond(err == nil, err, nil)

	case common.MsgTQueuePush:
		err := p.QueuePush(h, req.Prefix, req.Value, req.Fifo, req.CheckAttrs, req.Pass, req.Expire)
		return respond(err == nil, err, nil)

	case common.MsgTQueuePop:
		value, found, err := p.QueuePop(h, req.Prefix, req.Fifo, req.Pass)
		return respond(found, err, func(m *common.Message) { m.Value = value })

	case common.MsgTKeyQueuePush:
		err := p.KeyQueuePush(h, req.Prefix, req.Key, req.Value, req.Fifo, req.CheckAttrs, req.Pass, req.Expire)
		return respond(err == nil, err, nil)

	case common.MsgTKeyQueuePop:
		key, value, found, err := p.KeyQueuePop(h, req.Prefix, req.Fifo, req.Pass)
		return respond(found, err, func(m *common.Message) {
			m.Key = key
			m.Value = value
		})

	default:
		return common.NewErrorResponse(
			fmt.Sprintf("RPC ProviderAdapter - Unsupported message type: %s", req.MsgType),
		)
	}
}
