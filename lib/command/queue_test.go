package command

import (
	"testing"
)

func TestQueueFifoLifo(t *testing.T) {
	s := newSession(t)

	for _, v := range []string{"1", "2", "3"} {
		add, err := NewQueueAdd("q:", v, true)
		if err != nil {
			t.Fatalf("NewQueueAdd() error = %v", err)
		}
		if res, err := add.Execute(s); err != nil || !res.IsSuccess() {
			t.Fatalf("QueueAdd() = (%v, %v)", res.Outcome(), err)
		}
	}

	t.Run("fifo pops head", func(t *testing.T) {
		rm, _ := NewQueueRemove("q:", 1, true)
		res, err := rm.Execute(s)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		vs, ok := res.Value()
		if !ok || len(vs) != 1 || vs[0] != "1" {
			t.Errorf("QueueRemove(fifo) = %v, want [1]", vs)
		}
	})

	t.Run("lifo pops tail", func(t *testing.T) {
		rm, _ := NewQueueRemove("q:", 1, false)
		res, _ := rm.Execute(s)
		vs, ok := res.Value()
		if !ok || len(vs) != 1 || vs[0] != "3" {
			t.Errorf("QueueRemove(lifo) = %v, want [3]", vs)
		}
	})
}

func TestQueueRemoveBulk(t *testing.T) {
	s := newSession(t)

	for _, v := range []string{"a", "b"} {
		add, _ := NewQueueAdd("bulk:", v, true)
		if _, err := add.Execute(s); err != nil {
			t.Fatalf("QueueAdd() error = %v", err)
		}
	}

	// asking for more than the queue holds returns what was there
	rm, _ := NewQueueRemove("bulk:", 5, true)
	res, err := rm.Execute(s)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	vs, ok := res.Value()
	if !ok || len(vs) != 2 || vs[0] != "a" || vs[1] != "b" {
		t.Errorf("QueueRemove(5) = %v, want [a b]", vs)
	}

	res, _ = rm.Execute(s)
	if res.Outcome() != OutcomeNotFound {
		t.Errorf("QueueRemove() on empty queue = %v, want not found", res.Outcome())
	}
}

func TestKeyQueue(t *testing.T) {
	s := newSession(t)

	for _, kv := range []KV{{"k1", "v1"}, {"k2", "v2"}} {
		add, err := NewKeyQueueAdd("kq:", kv.Key, kv.Value, true)
		if err != nil {
			t.Fatalf("NewKeyQueueAdd() error = %v", err)
		}
		if res, err := add.Execute(s); err != nil || !res.IsSuccess() {
			t.Fatalf("KeyQueueAdd() = (%v, %v)", res.Outcome(), err)
		}
	}

	rm, _ := NewKeyQueueRemove("kq:", 2, true)
	res, err := rm.Execute(s)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	pairs, ok := res.Value()
	if !ok || len(pairs) != 2 {
		t.Fatalf("KeyQueueRemove() = %v, want two pairs", pairs)
	}
	if pairs[0] != (KV{"k1", "v1"}) || pairs[1] != (KV{"k2", "v2"}) {
		t.Errorf("pairs = %v, want ordered k1,k2", pairs)
	}

	res, _ = rm.Execute(s)
	if res.Outcome() != OutcomeNotFound {
		t.Errorf("KeyQueueRemove() on empty queue = %v, want not found", res.Outcome())
	}
}
