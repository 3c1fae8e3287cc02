package server

import (
	"testing"

	"github.com/kvclabs/dkc/lib/provider"
	"github.com/kvclabs/dkc/lib/provider/memory"
	"github.com/kvclabs/dkc/rpc/common"
)

func openHandle(t *testing.T, adapter IRPCServerAdapter, p provider.Provider) uint64 {
	t.Helper()
	resp := adapter.Handle(0, common.NewOpenRequest("test.yaml", 8031, "test-client", true, true, true), p)
	if resp.Err != "" {
		t.Fatalf("open failed: %s", resp.Err)
	}
	if resp.Handle == 0 {
		t.Fatalf("open returned the invalid handle")
	}
	return resp.Handle
}

func TestAdapterLifecycle(t *testing.T) {
	adapter := NewProviderServerAdapter()
	p := memory.New()

	h := openHandle(t, adapter, p)

	resp := adapter.Handle(h, common.NewCloseRequest(), p)
	if resp.Err != "" {
		t.Errorf("close failed: %s", resp.Err)
	}

	// operations on a closed handle must fail
	req := common.NewRequest(common.MsgTGet)
	req.Key = "k"
	resp = adapter.Handle(h, req, p)
	if resp.Err == "" {
		t.Errorf("get on a closed handle should carry an error")
	}
}

func TestAdapterSetGet(t *testing.T) {
	adapter := NewProviderServerAdapter()
	p := memory.New()
	h := openHandle(t, adapter, p)

	set := common.NewRequest(common.MsgTSet)
	set.Key, set.Value = "key", "value"
	if resp := adapter.Handle(h, set, p); resp.Err != "" {
		t.Fatalf("set failed: %s", resp.Err)
	}

	get := common.NewRequest(common.MsgTGet)
	get.Key = "key"
	resp := adapter.Handle(h, get, p)
	if resp.Err != "" || !resp.Found || resp.Value != "value" {
		t.Errorf("get = (%q, %v, %q), want (\"value\", true, \"\")", resp.Value, resp.Found, resp.Err)
	}

	get.Key = "missing"
	resp = adapter.Handle(h, get, p)
	if resp.Err != "" {
		t.Errorf("clean miss should not carry an error, got %s", resp.Err)
	}
	if resp.Found {
		t.Errorf("miss reported found")
	}
	if provider.ResSubcode(resp.Subcode) != provider.SubNotFound {
		t.Errorf("subcode = %d, want not found", resp.Subcode)
	}
}

func TestAdapterCas(t *testing.T) {
	adapter := NewProviderServerAdapter()
	p := memory.New()
	h := openHandle(t, adapter, p)

	init := common.NewRequest(common.MsgTCasInit)
	init.Key = "counter"
	init.Cell = []byte{0x0A, 0x00, 0x00, 0x00}
	if resp := adapter.Handle(h, init, p); resp.Err != "" {
		t.Fatalf("casinit failed: %s", resp.Err)
	}

	swap := common.NewRequest(common.MsgTCasSet)
	swap.Key = "counter"
	swap.OldCell = []byte{0x0A, 0x00, 0x00, 0x00}
	swap.Cell = []byte{0x2A, 0x00, 0x00, 0x00}
	if resp := adapter.Handle(h, swap, p); resp.Err != "" {
		t.Fatalf("casset failed: %s", resp.Err)
	}

	// stale swap must fail with the mismatch subcode
	resp := adapter.Handle(h, swap, p)
	if resp.Err == "" {
		t.Fatalf("stale casset should fail")
	}
	if provider.ResSubcode(resp.Subcode) != provider.SubCasMismatch {
		t.Errorf("subcode = %d, want cas mismatch", resp.Subcode)
	}

	get := common.NewRequest(common.MsgTCasGet)
	get.Key = "counter"
	get.Width = 4
	resp = adapter.Handle(h, get, p)
	if resp.Err != "" || !resp.Found {
		t.Fatalf("casget = (%v, %s)", resp.Found, resp.Err)
	}
	if len(resp.Cell) != 4 || resp.Cell[0] != 0x2A {
		t.Errorf("cell = %v, want 42 little endian", resp.Cell)
	}

	get.Width = 3
	if resp := adapter.Handle(h, get, p); resp.MsgType != common.MsgTError {
		t.Errorf("casget with invalid width should be rejected")
	}
}

func TestAdapterQueues(t *testing.T) {
	adapter := NewProviderServerAdapter()
	p := memory.New()
	h := openHandle(t, adapter, p)

	push := common.NewRequest(common.MsgTKeyQueuePush)
	push.Prefix, push.Key, push.Value, push.Fifo = "kq:", "k1", "v1", true
	if resp := adapter.Handle(h, push, p); resp.Err != "" {
		t.Fatalf("keyqueuepush failed: %s", resp.Err)
	}

	pop := common.NewRequest(common.MsgTKeyQueuePop)
	pop.Prefix, pop.Fifo = "kq:", true
	resp := adapter.Handle(h, pop, p)
	if resp.Err != "" || !resp.Found || resp.Key != "k1" || resp.Value != "v1" {
		t.Errorf("keyqueuepop = (%q, %q, %v, %q)", resp.Key, resp.Value, resp.Found, resp.Err)
	}

	resp = adapter.Handle(h, pop, p)
	if resp.Found {
		t.Errorf("pop on empty queue reported found")
	}
}

func TestAdapterUnknownType(t *testing.T) {
	adapter := NewProviderServerAdapter()
	p := memory.New()
	h := openHandle(t, adapter, p)

	resp := adapter.Handle(h, &common.Message{MsgType: common.MessageType(200)}, p)
	if resp.MsgType != common.MsgTError || resp.Err == "" {
		t.Errorf("unknown message type should produce an error response")
	}

	if resp := adapter.Handle(h, common.NewRequest(common.MsgTGet), nil); resp.Err == "" {
		t.Errorf("nil provider should produce an error response")
	}
}
