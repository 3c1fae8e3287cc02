package session

import (
	"testing"

	"github.com/kvclabs/dkc/lib/provider"
	"github.com/kvclabs/dkc/lib/provider/memory"
)

func TestOpenClose(t *testing.T) {
	p := memory.New()

	s, err := Open(p, provider.OpenOptions{Path: "test.yaml", Port: 8031})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	h, err := s.Handle()
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if h == provider.InvalidHandle {
		t.Fatalf("Handle() returned the invalid handle")
	}

	s.Close()
	_, err = s.Handle()
	if err == nil {
		t.Fatalf("Handle() after Close() should fail")
	}
	if provider.CodeOf(err) != provider.RetCClosedSession {
		t.Errorf("Handle() after Close() code = %v, want closed session", provider.CodeOf(err))
	}

	// double close must be a no-op
	s.Close()
}

func TestOpenFailures(t *testing.T) {
	if _, err := Open(nil, provider.OpenOptions{Path: "x"}); err == nil {
		t.Errorf("Open(nil provider) should fail")
	}

	p := memory.New()
	_, err := Open(p, provider.OpenOptions{})
	if err == nil {
		t.Fatalf("Open() with empty path should fail")
	}
	if provider.CodeOf(err) != provider.RetCInvalidArgument {
		t.Errorf("Open() code = %v, want invalid argument", provider.CodeOf(err))
	}
}
