// Package checksum provides the CRC-32 primitives behind rolling checksums.
//
// This package implements:
// - CRC-32/ISO-3309 (IEEE, reflected polynomial 0xEDB88320) table construction
// - The single-byte update rule and finalization on open accumulators
// - Rolling correction tables for a fixed window size
// - 128-bit XXH3 fingerprints for content identity
//
// CRC values come in two forms. An open value is the raw accumulator and can be
// extended with more bytes. A closed value is the finalized checksum returned to
// callers. Finish converts between the two.
//
// Reference: Igor Pavlov and Bulat Ziganshin, "Fast CRC table construction and
// rolling CRC hash calculation" (public domain, 2009/2013).
package checksum

import "sync"

// Poly is the reflected CRC-32 polynomial used by ISO 3309, zip and ethernet.
const Poly = 0xEDB88320

// InitCRC seeds every accumulator and is XORed into the result on Finish.
// All-ones gives standard CRC-32 values inside the window.
const InitCRC = 0xFFFFFFFF

// Table is a 256-word table representing the polynomial for efficient processing.
type Table [256]uint32

// Update returns the open CRC crc extended by the byte c.
func Update(crc uint32, tab *Table, c byte) uint32 {
	return tab[byte(crc)^c] ^ (crc >> 8)
}

// Finish applies InitCRC to an open CRC, closing it.
// Finish is its own inverse, so it also reopens a closed CRC.
func Finish(crc uint32) uint32 {
	return crc ^ InitCRC
}

// Value computes the closed CRC-32 of data using tab.
func Value(tab *Table, data []byte) uint32 {
	crc := uint32(InitCRC)
	for _, c := range data {
		crc = Update(crc, tab, c)
	}
	return Finish(crc)
}

// Extend computes the closed CRC of concat(A, data) where initCRC is the closed CRC of A.
func Extend(tab *Table, initCRC uint32, data []byte) uint32 {
	crc := Finish(initCRC)
	for _, c := range data {
		crc = Update(crc, tab, c)
	}
	return Finish(crc)
}

// MakeTable builds the table for Poly bit by bit: eight shift and
// conditional-XOR steps per byte value.
func MakeTable() *Table {
	t := new(Table)
	for i := range t {
		r := uint32(i)
		for range 8 {
			r = (r >> 1) ^ (Poly & -(r & 1))
		}
		t[i] = r
	}
	return t
}

// MakeTableFast builds a table by doubling from a single seed entry.
//
// table[128] is the seed, and the other powers of two are found by shifting it
// against Poly. Every remaining entry is the XOR of the entries for the bits of
// its index. Passing Poly as the seed yields the same table as MakeTable.
func MakeTableFast(seed uint32) *Table {
	t := new(Table)
	r := seed
	t[128] = seed
	for i := 64; i > 0; i >>= 1 {
		r = (r >> 1) ^ (Poly & -(r & 1))
		t[i] = r
	}
	for i := 2; i < 256; i <<= 1 {
		for j := 1; j < i; j++ {
			t[i+j] = t[i] ^ t[j]
		}
	}
	return t
}

// ieeeTable is built on first use and never written again.
var ieeeTable = sync.OnceValue(func() *Table {
	return MakeTableFast(Poly)
})

// IEEETable returns the process-wide base table for Poly.
// The table is shared; callers must not modify it.
func IEEETable() *Table {
	return ieeeTable()
}

// For equal-length messages X and Y, CRC is linear over XOR once the
// all-ones conditioning is factored out:
//
//	CRC_0(X ^ Y) == CRC_0(X) ^ CRC_0(Y)
//
// The open CRC of a window [x, b1..bw-1] extended by a new byte n covers w+1
// bytes. Dropping x means cancelling two things: the contribution of x sitting
// w positions before the end, and the extra byte of conditioning that the
// longer run carried. Both fold into one term per x:
//
//	rolling[x] = CRC_open(x followed by w zero bytes) ^ CRC_open(w zero bytes)
//
// Because the term is affine in x, rolling[0] is not zero.

// MakeRollingTable builds the rolling correction table for window size w.
//
// For any byte x about to leave the window, Update(open, tab, in) ^ rolling[x]
// is the open CRC of the window with x dropped from the front and in appended.
// Construction costs O(256*w). It panics if w < 1.
func MakeRollingTable(tab *Table, w int) *Table {
	if w < 1 {
		panic("checksum: rolling table needs a window of at least one byte")
	}
	// The zero run does not depend on x.
	y := uint32(InitCRC)
	for range w {
		y = Update(y, tab, 0)
	}

	rt := new(Table)
	for c := range rt {
		x := Update(InitCRC, tab, byte(c))
		for range w {
			x = Update(x, tab, 0)
		}
		rt[c] = x ^ y
	}
	return rt
}
