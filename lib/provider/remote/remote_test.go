package remote

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kvclabs/dkc/lib/provider"
	"github.com/kvclabs/dkc/lib/provider/memory"
	"github.com/kvclabs/dkc/rpc/common"
	"github.com/kvclabs/dkc/rpc/serializer"
	"github.com/kvclabs/dkc/rpc/server"
)

// loopbackTransport short circuits the wire: requests go straight into a
// server adapter backed by an in-process store. This exercises the full
// message mapping without sockets.
type loopbackTransport struct {
	adapter    server.IRPCServerAdapter
	backend    provider.Provider
	serializer serializer.IRPCSerializer
	connected  bool
}

func newLoopback() *loopbackTransport {
	return &loopbackTransport{
		adapter:    server.NewProviderServerAdapter(),
		backend:    memory.New(),
		serializer: serializer.NewJSONSerializer(),
	}
}

func (t *loopbackTransport) Connect(config common.ClientConfig) error {
	t.connected = true
	return nil
}

func (t *loopbackTransport) Send(handle uint64, req []byte) ([]byte, error) {
	msg := &common.Message{}
	if err := t.serializer.Deserialize(req, msg); err != nil {
		return nil, err
	}
	resp := t.adapter.Handle(handle, msg, t.backend)
	return t.serializer.Serialize(*resp)
}

func (t *loopbackTransport) Close() error { return nil }

func newTestProvider(t *testing.T) (provider.Provider, provider.Handle) {
	t.Helper()
	p := NewRPCProvider(
		common.ClientConfig{Endpoints: []string{"loopback"}},
		newLoopback(),
		serializer.NewJSONSerializer(),
	)
	h, err := p.Open(provider.OpenOptions{CUK: "test-client", Port: 8031})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	return p, h
}

func TestRemoteRoundTrip(t *testing.T) {
	p, h := newTestProvider(t)
	defer p.Close(h)

	if err := p.Set(h, "key", "value", false, "", 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	value, found, err := p.Get(h, "key", "")
	if err != nil || !found || value != "value" {
		t.Errorf("get = (%q, %v, %v), want (\"value\", true, nil)", value, found, err)
	}

	_, found, err = p.Get(h, "missing", "")
	if err != nil {
		t.Fatalf("clean miss should not error: %v", err)
	}
	if found {
		t.Errorf("miss reported found")
	}
	if p.ResSubcode(h) != provider.SubNotFound {
		t.Errorf("subcode = %v, want not found", p.ResSubcode(h))
	}
}

func TestRemoteSubkeysAndAttrs(t *testing.T) {
	p, h := newTestProvider(t)
	defer p.Close(h)

	if err := p.SetAll(h, "parent", "v", []string{"a", "b"}, "", 0); err != nil {
		t.Fatalf("setall failed: %v", err)
	}

	subkeys, found, err := p.GetSubkeys(h, "parent")
	if err != nil || !found {
		t.Fatalf("getsubkeys = (%v, %v)", found, err)
	}
	if len(subkeys) != 2 || subkeys[0] != "a" || subkeys[1] != "b" {
		t.Errorf("subkeys = %v, want [a b]", subkeys)
	}

	if err := p.Set(h, "sealed", "v", false, "secret", 0); err != nil {
		t.Fatalf("protected set failed: %v", err)
	}
	attrs, found, err := p.GetAttrs(h, "sealed")
	if err != nil || !found {
		t.Fatalf("getattrs = (%v, %v)", found, err)
	}
	if _, ok := attrs["protected"]; !ok {
		t.Errorf("attrs = %v, want protected marker", attrs)
	}
}

func TestRemoteFailureCodes(t *testing.T) {
	p, h := newTestProvider(t)
	defer p.Close(h)

	if err := p.Set(h, "sealed", "v", false, "secret", 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	_, _, err := p.Get(h, "sealed", "wrong")
	if err == nil {
		t.Fatalf("get with wrong passphrase should fail")
	}
	var perr *provider.Error
	if !errors.As(err, &perr) || perr.Code != provider.RetCOperationFailed {
		t.Errorf("err = %v, want operation failed", err)
	}
	if p.ResSubcode(h) != provider.SubBadPass {
		t.Errorf("subcode = %v, want bad passphrase", p.ResSubcode(h))
	}
}

func TestRemoteClosedHandle(t *testing.T) {
	p, h := newTestProvider(t)

	if err := p.Close(h); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if _, _, err := p.Get(h, "k", ""); err == nil {
		t.Errorf("get on a closed handle should fail")
	}
}

func TestTopology(t *testing.T) {
	data := []byte(`
name: testcluster
members:
  - host: node1.local
    port: 9000
  - host: node2.local
`)
	topo, err := ParseTopology(data, 8031)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	endpoints := topo.Endpoints()
	want := []string{"node1.local:9000", "node2.local:8031"}
	if len(endpoints) != 2 || endpoints[0] != want[0] || endpoints[1] != want[1] {
		t.Errorf("endpoints = %v, want %v", endpoints, want)
	}

	if _, err := ParseTopology([]byte("name: empty"), 8031); err == nil {
		t.Errorf("topology without members should be rejected")
	}
	if _, err := ParseTopology([]byte("members: [{port: 1}]"), 8031); err == nil {
		t.Errorf("member without host should be rejected")
	}
}

func TestTopologyFileResolution(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cluster.yaml")
	content := []byte("name: c\nmembers:\n  - host: localhost\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	topo, err := LoadTopology(path, 8031)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got := topo.Endpoints()[0]; got != "localhost:8031" {
		t.Errorf("endpoint = %q, want localhost:8031", got)
	}

	p := NewRPCProvider(common.ClientConfig{}, newLoopback(), serializer.NewJSONSerializer())
	h, err := p.Open(provider.OpenOptions{Path: path, Port: 8031, CUK: "c"})
	if err != nil {
		t.Fatalf("open with topology file failed: %v", err)
	}
	defer p.Close(h)

	if _, err := p.Open(provider.OpenOptions{Path: filepath.Join(dir, "nope.yaml")}); err != nil {
		t.Errorf("second open should reuse the established transport, got %v", err)
	}
}
