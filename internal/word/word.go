// Package word implements the block encoding used by the heap allocators.
//
// Every block in the heap is bounded by two identical 4-byte words, the
// header and the footer, each packing the block size together with an
// allocation bit (the boundary tag). Sizes are always multiples of 8, so the
// low three bits of a packed word are free; bit 0 carries the allocation
// state. The functions here are pure addressing and encoding helpers: they
// assume the caller already knows the offsets are valid and perform no
// bounds checking of their own.
package word

import "encoding/binary"

const (
	// WordSize is the size of a header, footer, or free-list link word.
	WordSize = 4

	// DoubleWord is the fundamental alignment unit of the heap.
	DoubleWord = 8

	// Alignment is the required alignment of every payload offset.
	Alignment = 8

	// AlignmentMask masks the low bits that must be zero on aligned values.
	AlignmentMask = Alignment - 1

	// Overhead is the per-block bookkeeping cost: header plus footer.
	Overhead = 2 * WordSize

	// MinBlockSize is the smallest legal block: header, footer, and the two
	// link words a block must be able to hold while on the free list.
	MinBlockSize = 16

	allocBit = 0x1
	sizeMask = ^uint32(AlignmentMask)
)

// Align returns n rounded up to the next multiple of the heap alignment.
//
// Example:
//
//	Align(1)  = 8
//	Align(8)  = 8
//	Align(9)  = 16
func Align(n int) int {
	return (n + AlignmentMask) & ^AlignmentMask
}

// Pack combines a block size and an allocation state into one boundary-tag
// word. size must be a multiple of 8.
func Pack(size int, allocated bool) uint32 {
	w := uint32(size)
	if allocated {
		w |= allocBit
	}
	return w
}

// Size extracts the block size from a packed word.
func Size(w uint32) int {
	return int(w & sizeMask)
}

// Allocated reports whether a packed word has the allocation bit set.
func Allocated(w uint32) bool {
	return w&allocBit != 0
}

// PutU32 writes a word to the heap image at the specified offset in
// little-endian format.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// ReadU32 reads a word from the heap image at the specified offset in
// little-endian format.
func ReadU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

// HeaderOff returns the offset of the header word of the block whose payload
// starts at bp.
func HeaderOff(bp int) int {
	return bp - WordSize
}

// Header reads the header word of the block whose payload starts at bp.
func Header(b []byte, bp int) uint32 {
	return ReadU32(b, HeaderOff(bp))
}

// FooterOff returns the offset of the footer word of the block whose payload
// starts at bp, using the size recorded in the header.
func FooterOff(b []byte, bp int) int {
	return bp + Size(Header(b, bp)) - DoubleWord
}

// Footer reads the footer word of the block whose payload starts at bp.
func Footer(b []byte, bp int) uint32 {
	return ReadU32(b, FooterOff(b, bp))
}

// NextOff returns the payload offset of the block physically following bp,
// read from bp's header. Calling this on the last real block yields the
// epilogue's payload position.
func NextOff(b []byte, bp int) int {
	return bp + Size(Header(b, bp))
}

// PrevOff returns the payload offset of the block physically preceding bp,
// read from the predecessor's footer (the word just before bp's header).
func PrevOff(b []byte, bp int) int {
	return bp - Size(ReadU32(b, bp-DoubleWord))
}

// PrevLinkOff returns the offset of the previous-free link slot inside a
// free block's payload.
func PrevLinkOff(bp int) int {
	return bp
}

// NextLinkOff returns the offset of the next-free link slot inside a free
// block's payload.
func NextLinkOff(bp int) int {
	return bp + WordSize
}
