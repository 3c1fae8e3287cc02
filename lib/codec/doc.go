// Package codec converts fixed-width integers to and from their byte
// representation for CAS cells.
//
// A CAS cell is a counter of 1, 2, 4 or 8 bytes stored under a key. The
// cluster compares and swaps cells by raw bytes, so the byte layout has to
// be exact and identical on every client: all conversions in this package
// are little endian, regardless of the host platform.
//
// The central law of the package is the round-trip property: for every
// value v representable in a width, unpacking the packed bytes yields v
// again. Unpacking a slice whose length does not match the cell width is
// an error, never a silent truncation.
package codec
