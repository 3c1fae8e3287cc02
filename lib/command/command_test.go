package command

import (
	"testing"

	"github.com/kvclabs/dkc/lib/provider"
	"github.com/kvclabs/dkc/lib/provider/memory"
	"github.com/kvclabs/dkc/lib/session"
)

func newSession(t *testing.T) *session.Session {
	t.Helper()
	s, err := session.Open(memory.New(), provider.OpenOptions{Path: "test.yaml", Port: 8031})
	if err != nil {
		t.Fatalf("session.Open() error = %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func mustSet(t *testing.T, s *session.Session, key, value string) {
	t.Helper()
	cmd, err := NewSet(key, value, false)
	if err != nil {
		t.Fatalf("NewSet(%q) error = %v", key, err)
	}
	res, err := cmd.Execute(s)
	if err != nil || !res.IsSuccess() {
		t.Fatalf("Set(%q) = (%v, %v)", key, res.Outcome(), err)
	}
}

func TestConstructorValidation(t *testing.T) {
	tests := []struct {
		name string
		make func() error
	}{
		{"get empty key", func() error { _, err := NewGet(""); return err }},
		{"set empty key", func() error { _, err := NewSet("", "v", false); return err }},
		{"setall empty subkey", func() error { _, err := NewSetAll("k", "v", []string{"a", ""}); return err }},
		{"remove empty key", func() error { _, err := NewRemove(""); return err }},
		{"rename empty new key", func() error { _, err := NewRename("k", ""); return err }},
		{"addsubkey empty subkey", func() error { _, err := NewAddSubkey("k", ""); return err }},
		{"queue empty prefix", func() error { _, err := NewQueueAdd("", "v", true); return err }},
		{"queue remove zero count", func() error { _, err := NewQueueRemove("q", 0, true); return err }},
		{"keyqueue empty key", func() error { _, err := NewKeyQueueAdd("q", "", "v", true); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.make()
			if err == nil {
				t.Fatalf("constructor accepted invalid arguments")
			}
			if provider.CodeOf(err) != provider.RetCInvalidArgument {
				t.Errorf("error code = %v, want invalid argument", provider.CodeOf(err))
			}
		})
	}
}

func TestExecuteOnClosedSession(t *testing.T) {
	s := newSession(t)
	s.Close()

	cmd, _ := NewGet("key")
	if _, err := cmd.Execute(s); err == nil {
		t.Fatalf("Execute() on a closed session should error")
	}
	if _, err := cmd.Execute(nil); err == nil {
		t.Fatalf("Execute(nil) should error")
	}
}

func TestGetOutcomes(t *testing.T) {
	s := newSession(t)
	mustSet(t, s, "key", "value")

	t.Run("found", func(t *testing.T) {
		cmd, _ := NewGet("key")
		res, err := cmd.Execute(s)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		v, ok := res.Value()
		if !ok || v != "value" {
			t.Errorf("Value() = (%q, %v), want (\"value\", true)", v, ok)
		}
		if res.Code() != provider.ResSuccess {
			t.Errorf("Code() = %v, want success", res.Code())
		}
	})

	t.Run("not found", func(t *testing.T) {
		cmd, _ := NewGet("missing")
		res, err := cmd.Execute(s)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if res.Outcome() != OutcomeNotFound {
			t.Errorf("Outcome() = %v, want not found", res.Outcome())
		}
		if !res.IsSuccess() {
			t.Errorf("IsSuccess() = false for a clean miss")
		}
		if res.Subcode() != provider.SubNotFound {
			t.Errorf("Subcode() = %v, want not found", res.Subcode())
		}
	})

	t.Run("failed", func(t *testing.T) {
		set, _ := NewSet("locked", "v", false, WithPass("pw"))
		if _, err := set.Execute(s); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		cmd, _ := NewGet("locked", WithPass("wrong"))
		res, err := cmd.Execute(s)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if res.Outcome() != OutcomeFailed {
			t.Errorf("Outcome() = %v, want failed", res.Outcome())
		}
		if res.Subcode() != provider.SubBadPass {
			t.Errorf("Subcode() = %v, want bad pass", res.Subcode())
		}
	})
}

func TestRemoveAndRename(t *testing.T) {
	s := newSession(t)
	mustSet(t, s, "old", "payload")

	ren, err := NewRename("old", "new")
	if err != nil {
		t.Fatalf("NewRename() error = %v", err)
	}
	res, err := ren.Execute(s)
	if err != nil || res.Outcome() != OutcomeFound {
		t.Fatalf("Rename() = (%v, %v)", res.Outcome(), err)
	}

	get, _ := NewGet("new")
	gres, _ := get.Execute(s)
	if v, ok := gres.Value(); !ok || v != "payload" {
		t.Errorf("Get(new) = (%q, %v), want (\"payload\", true)", v, ok)
	}

	rm, _ := NewRemove("new")
	rres, err := rm.Execute(s)
	if err != nil || rres.Outcome() != OutcomeFound {
		t.Fatalf("Remove() = (%v, %v)", rres.Outcome(), err)
	}
	rres, _ = rm.Execute(s)
	if rres.Outcome() != OutcomeFailed {
		t.Errorf("second Remove() outcome = %v, want failed", rres.Outcome())
	}
}

func TestSubkeyCommands(t *testing.T) {
	s := newSession(t)

	setall, err := NewSetAll("parent", "v", []string{"b", "c"})
	if err != nil {
		t.Fatalf("NewSetAll() error = %v", err)
	}
	if res, err := setall.Execute(s); err != nil || !res.IsSuccess() {
		t.Fatalf("SetAll() = (%v, %v)", res.Outcome(), err)
	}
	for _, k := range []string{"a", "b", "c"} {
		mustSet(t, s, k, "v-"+k)
	}

	t.Run("add prepends", func(t *testing.T) {
		add, _ := NewAddSubkey("parent", "a")
		if res, err := add.Execute(s); err != nil || !res.IsSuccess() {
			t.Fatalf("AddSubkey() = (%v, %v)", res.Outcome(), err)
		}
		get, _ := NewGetSubkeys("parent")
		res, _ := get.Execute(s)
		sks, ok := res.Value()
		if !ok || len(sks) != 3 || sks[0] != "a" {
			t.Errorf("subkeys = %v, want [a b c]", sks)
		}
	})

	t.Run("remove exactly one", func(t *testing.T) {
		rm, _ := NewRemoveSubkey("parent", "b", false)
		if res, err := rm.Execute(s); err != nil || !res.IsSuccess() {
			t.Fatalf("RemoveSubkey() = (%v, %v)", res.Outcome(), err)
		}
		get, _ := NewGetSubkeys("parent")
		res, _ := get.Execute(s)
		sks, _ := res.Value()
		if len(sks) != 2 || sks[0] != "a" || sks[1] != "c" {
			t.Errorf("subkeys = %v, want [a c]", sks)
		}
	})

	t.Run("clear empties list", func(t *testing.T) {
		clear, _ := NewClearSubkeys("parent")
		if res, err := clear.Execute(s); err != nil || !res.IsSuccess() {
			t.Fatalf("ClearSubkeys() = (%v, %v)", res.Outcome(), err)
		}
		get, _ := NewGetSubkeys("parent")
		res, _ := get.Execute(s)
		if res.Outcome() != OutcomeNotFound {
			t.Errorf("GetSubkeys() after clear = %v, want not found", res.Outcome())
		}
	})
}

func TestGetAttrs(t *testing.T) {
	s := newSession(t)

	set, _ := NewSet("secret", "v", false, WithPass("pw"), WithExpire(120))
	if _, err := set.Execute(s); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	cmd, _ := NewGetAttrs("secret")
	res, err := cmd.Execute(s)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	attrs, ok := res.Value()
	if !ok {
		t.Fatalf("Value() reported no attrs")
	}
	if attrs["protected"] != "true" {
		t.Errorf("attrs[protected] = %q, want \"true\"", attrs["protected"])
	}

	cmd, _ = NewGetAttrs("plain")
	res, _ = cmd.Execute(s)
	if res.Outcome() != OutcomeNotFound {
		t.Errorf("GetAttrs() of a bare key = %v, want not found", res.Outcome())
	}
}
