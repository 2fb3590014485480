package alloc

import (
	"fmt"
	"math"

	"github.com/heapkit/heapkit/heap"
	"github.com/heapkit/heapkit/internal/word"
)

// prologueSize is the fixed size of the prologue sentinel block: header and
// footer only, no payload.
const prologueSize = word.DoubleWord

// ExplicitAllocator manages a heap arena with an explicit free list and
// boundary-tag coalescing.
//
//   - free blocks form an unordered LIFO doubly linked list threaded through
//     their own payload words
//   - allocation is first-fit over that list, splitting when the remainder
//     can stand alone as a block
//   - Free and heap extension eagerly coalesce, so no two address-adjacent
//     blocks are ever both free
//   - a permanently allocated prologue block and a size-0 epilogue word
//     bound the heap, removing edge cases from neighbor inspection
type ExplicitAllocator struct {
	arena *heap.Arena
	cfg   Config

	// head is the payload offset of the most recently inserted free block,
	// or 0 when the list is empty.
	head int

	// base is the payload offset of the prologue block.
	base int

	stats Stats
}

// New bootstraps an allocator on an empty arena: it writes the alignment
// padding word, the prologue header/footer, and the initial epilogue header,
// then seeds the heap with one chunk-sized free block. The arena must not
// have been grown before; New must be called exactly once per arena.
func New(arena *heap.Arena, cfg *Config) (*ExplicitAllocator, error) {
	if cfg == nil {
		cfg = &DefaultConfig
	}
	if arena.Size() != 0 {
		return nil, fmt.Errorf("alloc: arena already initialized (%d bytes)", arena.Size())
	}

	a := &ExplicitAllocator{arena: arena, cfg: *cfg}
	if a.cfg.ChunkSize < word.MinBlockSize {
		a.cfg.ChunkSize = word.MinBlockSize
	}
	a.cfg.ChunkSize = word.Align(a.cfg.ChunkSize)

	off, err := arena.Grow(4 * word.WordSize)
	if err != nil {
		return nil, fmt.Errorf("alloc: bootstrap: %w", err)
	}

	data := arena.Bytes()
	word.PutU32(data, off, 0) // alignment padding
	word.PutU32(data, off+1*word.WordSize, word.Pack(prologueSize, true))
	word.PutU32(data, off+2*word.WordSize, word.Pack(prologueSize, true))
	word.PutU32(data, off+3*word.WordSize, word.Pack(0, true)) // epilogue
	a.base = off + 2*word.WordSize

	// Seed one usable free block so the first Alloc does not always extend.
	if _, err := a.extendHeap(a.cfg.ChunkSize / word.WordSize); err != nil {
		return nil, fmt.Errorf("alloc: bootstrap: %w", err)
	}
	return a, nil
}

// Arena returns the arena this allocator manages.
func (a *ExplicitAllocator) Arena() *heap.Arena {
	return a.arena
}

// Stats returns a copy of the operation counters.
func (a *ExplicitAllocator) Stats() Stats {
	return a.stats
}

// firstBlock returns the payload offset of the first user block, directly
// after the prologue.
func (a *ExplicitAllocator) firstBlock() int {
	return a.base + prologueSize
}

// maxPayload is the largest payload request whose adjusted block size still
// fits in a 32-bit boundary-tag word.
const maxPayload = math.MaxUint32&^word.AlignmentMask - word.Overhead

// adjustSize maps a requested payload size to a block size: header/footer
// overhead added, rounded up to the alignment unit, never below the minimum
// block size. The caller must have bounded size (checkSize), or the overhead
// addition can overflow.
func adjustSize(size int) int {
	if size <= word.DoubleWord {
		return word.MinBlockSize
	}
	return word.Align(size + word.Overhead)
}

// checkSize rejects request sizes no block could ever hold, before any size
// arithmetic that could wrap.
func (a *ExplicitAllocator) checkSize(size int) error {
	if size < 0 {
		return ErrInvalidSize
	}
	if int64(size) > maxPayload || size > a.arena.Reserve() {
		return ErrSizeTooLarge
	}
	return nil
}

// findFit returns the first free block large enough for asize, scanning the
// free list from the head. On a miss it extends the heap by
// max(asize, ChunkSize); the block extension yields satisfies the request by
// construction, so the only failure is out-of-memory.
func (a *ExplicitAllocator) findFit(asize int) (int, error) {
	data := a.arena.Bytes()
	for bp := a.head; bp != 0; bp = a.freeNext(data, bp) {
		if word.Size(word.Header(data, bp)) >= asize {
			return bp, nil
		}
	}

	debugLogf("NEED GROW: asize=%d heap=%d", asize, len(data))
	grow := asize
	if grow < a.cfg.ChunkSize {
		grow = a.cfg.ChunkSize
	}
	return a.extendHeap(grow / word.WordSize)
}

// extendHeap grows the arena by the given word count (rounded up to an even
// number, floored at the minimum block size), writes a free block over the
// old epilogue, writes a fresh epilogue at the new heap end, and coalesces
// the new block with a free predecessor if there is one.
func (a *ExplicitAllocator) extendHeap(words int) (int, error) {
	if words%2 != 0 {
		words++
	}
	size := words * word.WordSize
	if size < word.MinBlockSize {
		size = word.MinBlockSize
	}

	off, err := a.arena.Grow(size)
	if err != nil {
		return 0, fmt.Errorf("%w: %w: %w", ErrNoSpace, ErrGrowFail, err)
	}
	a.stats.GrowCalls++
	a.stats.GrowBytes += int64(size)

	// The new block's header lands on the old epilogue word, so its payload
	// starts exactly at the old heap end.
	data := a.arena.Bytes()
	bp := off
	word.PutU32(data, word.HeaderOff(bp), word.Pack(size, false))
	word.PutU32(data, bp+size-word.DoubleWord, word.Pack(size, false))
	word.PutU32(data, bp+size-word.WordSize, word.Pack(0, true)) // new epilogue

	return a.coalesce(bp), nil
}

// place marks asize bytes of the free block bp as allocated, splitting off
// the remainder as a new free block when it is at least a minimum block,
// and consuming the whole block otherwise. Returns the block size actually
// consumed.
func (a *ExplicitAllocator) place(bp, asize int) int {
	data := a.arena.Bytes()
	csize := word.Size(word.Header(data, bp))
	a.removeBlock(bp)

	if csize-asize >= word.MinBlockSize {
		a.stats.SplitCount++
		word.PutU32(data, word.HeaderOff(bp), word.Pack(asize, true))
		word.PutU32(data, bp+asize-word.DoubleWord, word.Pack(asize, true))

		rem := bp + asize
		rsize := csize - asize
		word.PutU32(data, word.HeaderOff(rem), word.Pack(rsize, false))
		word.PutU32(data, rem+rsize-word.DoubleWord, word.Pack(rsize, false))
		a.coalesce(rem)
		return asize
	}

	word.PutU32(data, word.HeaderOff(bp), word.Pack(csize, true))
	word.PutU32(data, bp+csize-word.DoubleWord, word.Pack(csize, true))
	return csize
}

// Alloc allocates a block with at least size payload bytes. Alloc(0) is a
// no-op success returning NilRef.
func (a *ExplicitAllocator) Alloc(size int) (Ref, []byte, error) {
	a.stats.AllocCalls++
	if size == 0 {
		return NilRef, nil, nil
	}
	if err := a.checkSize(size); err != nil {
		return NilRef, nil, err
	}

	asize := adjustSize(size)
	bp, err := a.findFit(asize)
	if err != nil {
		return NilRef, nil, err
	}
	got := a.place(bp, asize)
	a.stats.BytesAllocated += int64(got)

	data := a.arena.Bytes()
	return Ref(bp), data[bp : bp+got-word.Overhead], nil
}

// Free returns a block for reuse: its boundary tags are cleared and the
// block is coalesced with any free neighbors. The reference is checked for
// bounds and alignment, and freeing an already-free block is rejected;
// handing in a stale reference that lands inside a live block is undefined.
func (a *ExplicitAllocator) Free(ref Ref) error {
	a.stats.FreeCalls++
	bp, err := a.checkRef(ref)
	if err != nil {
		return err
	}
	if !word.Allocated(word.Header(a.arena.Bytes(), bp)) {
		return ErrNotAllocated
	}
	a.release(bp)
	return nil
}

// Realloc resizes a block, preserving the first min(old payload size, size)
// bytes. The policy is three-tiered: shrink in place (splitting off a
// remainder when it can stand alone), grow in place by absorbing a free
// successor, and finally allocate-copy-free. On any error the original
// block is left intact and remains valid.
func (a *ExplicitAllocator) Realloc(ref Ref, size int) (Ref, []byte, error) {
	a.stats.ReallocCalls++
	if ref == NilRef {
		return a.Alloc(size)
	}
	if size == 0 {
		if err := a.Free(ref); err != nil {
			return NilRef, nil, err
		}
		return NilRef, nil, nil
	}
	if err := a.checkSize(size); err != nil {
		return NilRef, nil, err
	}

	bp, err := a.checkRef(ref)
	if err != nil {
		return NilRef, nil, err
	}
	data := a.arena.Bytes()
	hdr := word.Header(data, bp)
	if !word.Allocated(hdr) {
		return NilRef, nil, ErrNotAllocated
	}
	csize := word.Size(hdr)
	asize := adjustSize(size)

	// Shrink in place. The tail becomes a free block when it is large
	// enough; otherwise the block keeps its size and nothing changes.
	if asize <= csize {
		if csize-asize >= word.MinBlockSize {
			a.stats.ReallocShrunk++
			a.stats.SplitCount++
			word.PutU32(data, word.HeaderOff(bp), word.Pack(asize, true))
			word.PutU32(data, bp+asize-word.DoubleWord, word.Pack(asize, true))

			rem := bp + asize
			rsize := csize - asize
			word.PutU32(data, word.HeaderOff(rem), word.Pack(rsize, false))
			word.PutU32(data, rem+rsize-word.DoubleWord, word.Pack(rsize, false))
			a.stats.BytesFreed += int64(rsize)
			a.coalesce(rem)
			return ref, data[bp : bp+asize-word.Overhead], nil
		}
		return ref, data[bp : bp+csize-word.Overhead], nil
	}

	// Grow in place by absorbing the successor when it is free and the
	// combined size covers the request. No copy.
	next := word.NextOff(data, bp)
	nhdr := word.Header(data, next)
	if !word.Allocated(nhdr) && csize+word.Size(nhdr) >= asize {
		a.stats.ReallocAbsorbed++
		a.removeBlock(next)
		total := csize + word.Size(nhdr)
		word.PutU32(data, word.HeaderOff(bp), word.Pack(total, true))
		word.PutU32(data, bp+total-word.DoubleWord, word.Pack(total, true))
		a.stats.BytesAllocated += int64(total - csize)
		return ref, data[bp : bp+total-word.Overhead], nil
	}

	// Fall back to a fresh block. The arena never moves, so the old payload
	// slice stays valid across the allocation even if the heap grows.
	oldPayload := data[bp : bp+csize-word.Overhead]
	newRef, newPayload, err := a.Alloc(size)
	if err != nil {
		return NilRef, nil, err
	}
	copy(newPayload, oldPayload)
	a.release(bp)
	a.stats.ReallocMoved++
	return newRef, newPayload, nil
}

// release clears the allocation bits of a validated block and coalesces it.
func (a *ExplicitAllocator) release(bp int) {
	data := a.arena.Bytes()
	size := word.Size(word.Header(data, bp))
	word.PutU32(data, word.HeaderOff(bp), word.Pack(size, false))
	word.PutU32(data, bp+size-word.DoubleWord, word.Pack(size, false))
	a.stats.BytesFreed += int64(size)
	a.coalesce(bp)
}

// checkRef validates a reference's bounds and alignment and returns it as a
// payload offset.
func (a *ExplicitAllocator) checkRef(ref Ref) (int, error) {
	bp := int(ref)
	data := a.arena.Bytes()
	if bp < a.firstBlock() || bp >= len(data) || bp%word.Alignment != 0 {
		return 0, ErrBadRef
	}
	size := word.Size(word.Header(data, bp))
	if size < word.MinBlockSize || bp+size > len(data) {
		return 0, ErrBadRef
	}
	return bp, nil
}

// Compile-time interface check
var _ Allocator = (*ExplicitAllocator)(nil)
