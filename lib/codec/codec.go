package codec

import (
	"encoding/binary"
	"fmt"
)

// --------------------------------------------------------------------------
// Data Types
// --------------------------------------------------------------------------

// DataType identifies the width of a CAS cell. The numeric value of each
// constant is the width in bytes.
type DataType int

const (
	TypeByte  DataType = 1 // 8 bit cell
	TypeShort DataType = 2 // 16 bit cell
	TypeInt   DataType = 4 // 32 bit cell
	TypeLong  DataType = 8 // 64 bit cell
)

// Width returns the cell width in bytes.
func (t DataType) Width() int {
	return int(t)
}

func (t DataType) String() string {
	switch t {
	case TypeByte:
		return "byte"
	case TypeShort:
		return "short"
	case TypeInt:
		return "int"
	case TypeLong:
		return "long"
	default:
		return "unknown"
	}
}

// TypeForWidth returns the DataType for a byte width (1, 2, 4 or 8).
func TypeForWidth(width int) (DataType, error) {
	switch width {
	case 1:
		return TypeByte, nil
	case 2:
		return TypeShort, nil
	case 4:
		return TypeInt, nil
	case 8:
		return TypeLong, nil
	default:
		return 0, fmt.Errorf("codec: no data type with width %d", width)
	}
}

// --------------------------------------------------------------------------
// Integer <-> Byte Conversion
// --------------------------------------------------------------------------

// All conversions use little endian byte order (least significant byte
// first). The byte order is part of the wire contract for CAS cells and
// must not depend on the host platform.

// ByteToBytes packs an 8 bit value into a 1 byte slice.
func ByteToBytes(v uint8) []byte {
	return []byte{v}
}

// BytesToByte unpacks a 1 byte slice into an 8 bit value.
func BytesToByte(b []byte) (uint8, error) {
	if len(b) != 1 {
		return 0, fmt.Errorf("codec: expected 1 byte, got %d", len(b))
	}
	return b[0], nil
}

// ShortToBytes packs a 16 bit value into a 2 byte slice.
func ShortToBytes(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

// BytesToShort unpacks a 2 byte slice into a 16 bit value.
func BytesToShort(b []byte) (uint16, error) {
	if len(b) != 2 {
		return 0, fmt.Errorf("codec: expected 2 bytes, got %d", len(b))
	}
	return binary.LittleEndian.Uint16(b), nil
}

// IntToBytes packs a 32 bit value into a 4 byte slice.
func IntToBytes(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

// BytesToInt unpacks a 4 byte slice into a 32 bit value.
func BytesToInt(b []byte) (uint32, error) {
	if len(b) != 4 {
		return 0, fmt.Errorf("codec: expected 4 bytes, got %d", len(b))
	}
	return binary.LittleEndian.Uint32(b), nil
}

// LongToBytes packs a 64 bit value into an 8 byte slice.
func LongToBytes(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

// BytesToLong unpacks an 8 byte slice into a 64 bit value.
func BytesToLong(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("codec: expected 8 bytes, got %d", len(b))
	}
	return binary.LittleEndian.Uint64(b), nil
}

// --------------------------------------------------------------------------
// Cell Helpers
// --------------------------------------------------------------------------

// Pack packs v into a cell of the given type, truncating to the cell width.
func Pack(t DataType, v uint64) ([]byte, error) {
	switch t {
	case TypeByte:
		return ByteToBytes(uint8(v)), nil
	case TypeShort:
		return ShortToBytes(uint16(v)), nil
	case TypeInt:
		return IntToBytes(uint32(v)), nil
	case TypeLong:
		return LongToBytes(v), nil
	default:
		return nil, fmt.Errorf("codec: unknown data type %d", t)
	}
}

// Unpack widens a cell of the given type to a uint64. The slice length must
// match the cell width exactly.
func Unpack(t DataType, b []byte) (uint64, error) {
	if len(b) != t.Width() {
		return 0, fmt.Errorf("codec: expected %d bytes for %s cell, got %d", t.Width(), t, len(b))
	}
	switch t {
	case TypeByte:
		return uint64(b[0]), nil
	case TypeShort:
		return uint64(binary.LittleEndian.Uint16(b)), nil
	case TypeInt:
		return uint64(binary.LittleEndian.Uint32(b)), nil
	case TypeLong:
		return binary.LittleEndian.Uint64(b), nil
	default:
		return 0, fmt.Errorf("codec: unknown data type %d", t)
	}
}
