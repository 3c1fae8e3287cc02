package memory

import (
	"errors"
	"testing"
	"time"

	"github.com/kvclabs/dkc/lib/codec"
	"github.com/kvclabs/dkc/lib/provider"
)

func open(t *testing.T) (provider.Provider, provider.Handle) {
	t.Helper()
	p := New()
	h, err := p.Open(provider.OpenOptions{Path: "test.yaml", Port: 8031})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if h == provider.InvalidHandle {
		t.Fatalf("Open() returned the invalid handle")
	}
	return p, h
}

func TestOpenClose(t *testing.T) {
	p := New()

	if _, err := p.Open(provider.OpenOptions{}); err == nil {
		t.Errorf("Open() with empty path should fail")
	}

	h, err := p.Open(provider.OpenOptions{Path: "test.yaml"})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := p.Close(h); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := p.Close(h); err == nil {
		t.Errorf("Close() on a closed handle should fail")
	}
	if _, _, err := p.Get(h, "k", ""); err == nil {
		t.Errorf("Get() on a closed handle should fail")
	}
}

func TestSetGet(t *testing.T) {
	p, h := open(t)

	if err := p.Set(h, "key", "value", false, "", 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	v, found, err := p.Get(h, "key", "")
	if err != nil || !found || v != "value" {
		t.Errorf("Get() = (%q, %v, %v), want (\"value\", true, nil)", v, found, err)
	}
	if p.ResCode(h) != provider.ResSuccess {
		t.Errorf("ResCode() = %v, want success", p.ResCode(h))
	}

	_, found, err = p.Get(h, "missing", "")
	if err != nil {
		t.Errorf("Get() of a missing key should not error, got %v", err)
	}
	if found {
		t.Errorf("Get() of a missing key reported found")
	}
	if p.ResSubcode(h) != provider.SubNotFound {
		t.Errorf("ResSubcode() = %v, want not found", p.ResSubcode(h))
	}
}

func TestPassphrase(t *testing.T) {
	p, h := open(t)

	if err := p.Set(h, "secret", "v", false, "pw", 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, _, err := p.Get(h, "secret", "wrong"); err == nil {
		t.Errorf("Get() with wrong passphrase should fail")
	}
	if p.ResSubcode(h) != provider.SubBadPass {
		t.Errorf("ResSubcode() = %v, want bad pass", p.ResSubcode(h))
	}
	v, found, err := p.Get(h, "secret", "pw")
	if err != nil || !found || v != "v" {
		t.Errorf("Get() = (%q, %v, %v), want (\"v\", true, nil)", v, found, err)
	}

	attrs, found, err := p.GetAttrs(h, "secret")
	if err != nil || !found {
		t.Fatalf("GetAttrs() = (%v, %v), want attrs", err, found)
	}
	if attrs["protected"] != "true" {
		t.Errorf("GetAttrs()[protected] = %q, want \"true\"", attrs["protected"])
	}
}

func TestExpiration(t *testing.T) {
	p, h := open(t)

	if err := p.Set(h, "ephemeral", "v", false, "", 1); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, found, _ := p.Get(h, "ephemeral", ""); !found {
		t.Fatalf("Get() before expiry reported not found")
	}

	// force the deadline into the past instead of sleeping
	mp := p.(*memoryProvider)
	e, _ := mp.entries.Load("ephemeral")
	ne := e.clone()
	ne.expireAt = time.Now().Add(-time.Second).UnixNano()
	mp.entries.Store("ephemeral", ne)

	if _, found, _ := p.Get(h, "ephemeral", ""); found {
		t.Errorf("Get() after expiry reported found")
	}
}

func TestSubkeys(t *testing.T) {
	p, h := open(t)

	for _, k := range []string{"parent", "a", "b", "c"} {
		if err := p.Set(h, k, "v-"+k, false, "", 0); err != nil {
			t.Fatalf("Set(%q) error = %v", k, err)
		}
	}
	if err := p.SetSubkeys(h, "parent", []string{"a", "b", "c"}); err != nil {
		t.Fatalf("SetSubkeys() error = %v", err)
	}

	sks, found, err := p.GetSubkeys(h, "parent")
	if err != nil || !found {
		t.Fatalf("GetSubkeys() = (%v, %v)", err, found)
	}
	if len(sks) != 3 || sks[0] != "a" || sks[1] != "b" || sks[2] != "c" {
		t.Errorf("GetSubkeys() = %v, want [a b c]", sks)
	}

	if err := p.RemoveSubkey(h, "parent", "b", false); err != nil {
		t.Fatalf("RemoveSubkey() error = %v", err)
	}
	sks, _, _ = p.GetSubkeys(h, "parent")
	if len(sks) != 2 || sks[0] != "a" || sks[1] != "c" {
		t.Errorf("GetSubkeys() after removal = %v, want [a c]", sks)
	}
	if _, found, _ := p.Get(h, "b", ""); found {
		t.Errorf("removed subkey entry still present")
	}

	if err := p.RemoveSubkey(h, "parent", "b", false); err == nil {
		t.Errorf("RemoveSubkey() of an absent subkey should fail")
	}
}

func TestClearSubkeysRecursive(t *testing.T) {
	p, h := open(t)

	if err := p.SetAll(h, "root", "v", []string{"child"}, "", 0); err != nil {
		t.Fatalf("SetAll() error = %v", err)
	}
	if err := p.SetAll(h, "child", "v", []string{"grandchild"}, "", 0); err != nil {
		t.Fatalf("SetAll() error = %v", err)
	}
	if err := p.Set(h, "grandchild", "v", false, "", 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := p.ClearSubkeys(h, "root"); err != nil {
		t.Fatalf("ClearSubkeys() error = %v", err)
	}
	for _, k := range []string{"child", "grandchild"} {
		if _, found, _ := p.Get(h, k, ""); found {
			t.Errorf("key %q survived recursive clear", k)
		}
	}
	sks, _, _ := p.GetSubkeys(h, "root")
	if len(sks) != 0 {
		t.Errorf("GetSubkeys() after clear = %v, want empty", sks)
	}
}

func TestRename(t *testing.T) {
	p, h := open(t)

	if err := p.SetAll(h, "parent", "v", []string{"old"}, "", 0); err != nil {
		t.Fatalf("SetAll() error = %v", err)
	}
	if err := p.Set(h, "old", "payload", false, "", 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := p.Rename(h, "old", "new", "parent", false, "", 0); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if _, found, _ := p.Get(h, "old", ""); found {
		t.Errorf("old key still present after rename")
	}
	v, found, _ := p.Get(h, "new", "")
	if !found || v != "payload" {
		t.Errorf("Get(new) = (%q, %v), want (\"payload\", true)", v, found)
	}
	sks, _, _ := p.GetSubkeys(h, "parent")
	if len(sks) != 1 || sks[0] != "new" {
		t.Errorf("parent subkeys = %v, want [new]", sks)
	}

	if err := p.Rename(h, "missing", "x", "", false, "", 0); err == nil {
		t.Errorf("Rename() of a missing key should fail")
	}
}

func TestCas(t *testing.T) {
	p, h := open(t)

	init := codec.IntToBytes(10)
	if err := p.CasInit(h, "counter", init, "", 0); err != nil {
		t.Fatalf("CasInit() error = %v", err)
	}
	if err := p.CasInit(h, "bad", []byte{1, 2, 3}, "", 0); err == nil {
		t.Errorf("CasInit() with a 3 byte cell should fail")
	}

	raw, found, err := p.CasGet(h, "counter", codec.TypeInt, "")
	if err != nil || !found {
		t.Fatalf("CasGet() = (%v, %v)", err, found)
	}
	if v, _ := codec.BytesToInt(raw); v != 10 {
		t.Errorf("CasGet() = %d, want 10", v)
	}
	if _, _, err := p.CasGet(h, "counter", codec.TypeLong, ""); err == nil {
		t.Errorf("CasGet() with mismatched width should fail")
	}

	oldv := codec.IntToBytes(10)
	newv := codec.IntToBytes(42)
	if err := p.CasSet(h, "counter", oldv, newv, "", 0); err != nil {
		t.Fatalf("CasSet() error = %v", err)
	}
	if err := p.CasSet(h, "counter", oldv, newv, "", 0); err == nil {
		t.Errorf("CasSet() with stale old value should fail")
	}
	if p.ResSubcode(h) != provider.SubCasMismatch {
		t.Errorf("ResSubcode() = %v, want cas mismatch", p.ResSubcode(h))
	}

	if err := p.CasIncDec(h, "counter", true, "", 0); err != nil {
		t.Fatalf("CasIncDec() error = %v", err)
	}
	raw, _, _ = p.CasGet(h, "counter", codec.TypeInt, "")
	if v, _ := codec.BytesToInt(raw); v != 43 {
		t.Errorf("value after increment = %d, want 43", v)
	}
	if err := p.CasIncDec(h, "counter", false, "", 0); err != nil {
		t.Fatalf("CasIncDec() error = %v", err)
	}
	raw, _, _ = p.CasGet(h, "counter", codec.TypeInt, "")
	if v, _ := codec.BytesToInt(raw); v != 42 {
		t.Errorf("value after decrement = %d, want 42", v)
	}
}

func TestQueueOrdering(t *testing.T) {
	p, h := open(t)

	for _, v := range []string{"1", "2", "3"} {
		if err := p.QueuePush(h, "q:", v, true, false, "", 0); err != nil {
			t.Fatalf("QueuePush() error = %v", err)
		}
	}

	t.Run("fifo", func(t *testing.T) {
		v, found, err := p.QueuePop(h, "q:", true, "")
		if err != nil || !found || v != "1" {
			t.Errorf("QueuePop(fifo) = (%q, %v, %v), want (\"1\", true, nil)", v, found, err)
		}
	})

	t.Run("lifo", func(t *testing.T) {
		v, found, err := p.QueuePop(h, "q:", false, "")
		if err != nil || !found || v != "3" {
			t.Errorf("QueuePop(lifo) = (%q, %v, %v), want (\"3\", true, nil)", v, found, err)
		}
	})

	t.Run("drained", func(t *testing.T) {
		if _, found, _ := p.QueuePop(h, "q:", true, ""); !found {
			t.Fatalf("QueuePop() should return the last element")
		}
		if _, found, _ := p.QueuePop(h, "q:", true, ""); found {
			t.Errorf("QueuePop() on an empty queue reported found")
		}
	})
}

func TestKeyQueue(t *testing.T) {
	p, h := open(t)

	if err := p.KeyQueuePush(h, "kq:", "k1", "v1", true, false, "", 0); err != nil {
		t.Fatalf("KeyQueuePush() error = %v", err)
	}
	k, v, found, err := p.KeyQueuePop(h, "kq:", true, "")
	if err != nil || !found || k != "k1" || v != "v1" {
		t.Errorf("KeyQueuePop() = (%q, %q, %v, %v), want (\"k1\", \"v1\", true, nil)", k, v, found, err)
	}
}

func TestErrorCodes(t *testing.T) {
	p, h := open(t)

	err := p.Remove(h, "missing")
	if err == nil {
		t.Fatalf("Remove() of a missing key should fail")
	}
	var pe *provider.Error
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T, want *provider.Error", err)
	}
	if pe.Code != provider.RetCOperationFailed {
		t.Errorf("error code = %v, want operation failed", pe.Code)
	}
	if provider.CodeOf(err) != provider.RetCOperationFailed {
		t.Errorf("CodeOf() = %v, want operation failed", provider.CodeOf(err))
	}
}
