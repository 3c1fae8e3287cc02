package codec

import (
	"bytes"
	"testing"
)

// TestRoundTrip verifies the round-trip law for every width.
func TestRoundTrip(t *testing.T) {
	t.Run("Byte", func(t *testing.T) {
		for _, v := range []uint8{0, 1, 127, 128, 255} {
			got, err := BytesToByte(ByteToBytes(v))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != v {
				t.Errorf("round trip of %d = %d", v, got)
			}
		}
	})

	t.Run("Short", func(t *testing.T) {
		for _, v := range []uint16{0, 1, 255, 256, 0x7FFF, 0x8000, 0xFFFF} {
			got, err := BytesToShort(ShortToBytes(v))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != v {
				t.Errorf("round trip of %d = %d", v, got)
			}
		}
	})

	t.Run("Int", func(t *testing.T) {
		for _, v := range []uint32{0, 1, 0xFF, 0x100, 0xFFFF, 0x10000, 0x7FFFFFFF, 0xFFFFFFFF} {
			got, err := BytesToInt(IntToBytes(v))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != v {
				t.Errorf("round trip of %d = %d", v, got)
			}
		}
	})

	t.Run("Long", func(t *testing.T) {
		for _, v := range []uint64{0, 1, 0xFF, 0x10000, 0xFFFFFFFF, 0x100000000, 0x7FFFFFFFFFFFFFFF, 0xFFFFFFFFFFFFFFFF} {
			got, err := BytesToLong(LongToBytes(v))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != v {
				t.Errorf("round trip of %d = %d", v, got)
			}
		}
	})
}

// TestByteOrder pins the little endian layout with fixed vectors.
func TestByteOrder(t *testing.T) {
	tests := []struct {
		name string
		got  []byte
		want []byte
	}{
		{"Short", ShortToBytes(0x0102), []byte{0x02, 0x01}},
		{"Int", IntToBytes(0x01020304), []byte{0x04, 0x03, 0x02, 0x01}},
		{"Long", LongToBytes(0x0102030405060708), []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !bytes.Equal(tt.got, tt.want) {
				t.Errorf("got % x, want % x", tt.got, tt.want)
			}
		})
	}
}

// TestLengthMismatch verifies that unpacking rejects wrong slice lengths.
func TestLengthMismatch(t *testing.T) {
	if _, err := BytesToInt([]byte{1, 2, 3}); err == nil {
		t.Error("BytesToInt accepted 3 bytes")
	}
	if _, err := BytesToInt([]byte{1, 2, 3, 4, 5}); err == nil {
		t.Error("BytesToInt accepted 5 bytes")
	}
	if _, err := BytesToShort(nil); err == nil {
		t.Error("BytesToShort accepted nil")
	}
	if _, err := BytesToLong(IntToBytes(1)); err == nil {
		t.Error("BytesToLong accepted 4 bytes")
	}
	if _, err := Unpack(TypeInt, []byte{1}); err == nil {
		t.Error("Unpack accepted short slice")
	}
}

// TestPackUnpack verifies the generic helpers against the typed ones.
func TestPackUnpack(t *testing.T) {
	for _, typ := range []DataType{TypeByte, TypeShort, TypeInt, TypeLong} {
		b, err := Pack(typ, 42)
		if err != nil {
			t.Fatalf("Pack(%s) failed: %v", typ, err)
		}
		if len(b) != typ.Width() {
			t.Errorf("Pack(%s) returned %d bytes, want %d", typ, len(b), typ.Width())
		}
		v, err := Unpack(typ, b)
		if err != nil {
			t.Fatalf("Unpack(%s) failed: %v", typ, err)
		}
		if v != 42 {
			t.Errorf("Unpack(Pack(42)) = %d for %s", v, typ)
		}
	}

	// truncation at the cell width is part of the contract
	b, _ := Pack(TypeByte, 0x1FF)
	if b[0] != 0xFF {
		t.Errorf("Pack(TypeByte, 0x1FF) = % x, want ff", b)
	}
}

// TestTypeForWidth verifies width lookup.
func TestTypeForWidth(t *testing.T) {
	for _, w := range []int{1, 2, 4, 8} {
		typ, err := TypeForWidth(w)
		if err != nil {
			t.Fatalf("TypeForWidth(%d) failed: %v", w, err)
		}
		if typ.Width() != w {
			t.Errorf("TypeForWidth(%d).Width() = %d", w, typ.Width())
		}
	}
	if _, err := TypeForWidth(3); err == nil {
		t.Error("TypeForWidth accepted width 3")
	}
}
