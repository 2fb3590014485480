package alloc

import (
	"fmt"

	"github.com/heapkit/heapkit/heap"
	"github.com/heapkit/heapkit/heap/verify"
	"github.com/heapkit/heapkit/internal/word"
)

// BumpAllocator is the no-reclaim reference variant: every allocation
// extends the heap, Free only flips the allocation bit, and nothing is ever
// reused or coalesced. Freed blocks become dead space forever.
//
// It writes the same block encoding as ExplicitAllocator (boundary tags,
// prologue, epilogue), so the structural checker applies to both, and it is
// useful as a fragmentation-free baseline for append-only workloads.
type BumpAllocator struct {
	arena *heap.Arena
	stats Stats
}

// NewBump bootstraps a bump allocator on an empty arena. Unlike New it does
// not seed a free block; the heap grows exactly by what is allocated.
func NewBump(arena *heap.Arena) (*BumpAllocator, error) {
	if arena.Size() != 0 {
		return nil, fmt.Errorf("alloc: arena already initialized (%d bytes)", arena.Size())
	}

	off, err := arena.Grow(4 * word.WordSize)
	if err != nil {
		return nil, fmt.Errorf("alloc: bootstrap: %w", err)
	}
	data := arena.Bytes()
	word.PutU32(data, off, 0)
	word.PutU32(data, off+1*word.WordSize, word.Pack(prologueSize, true))
	word.PutU32(data, off+2*word.WordSize, word.Pack(prologueSize, true))
	word.PutU32(data, off+3*word.WordSize, word.Pack(0, true))

	return &BumpAllocator{arena: arena}, nil
}

// Alloc extends the heap by the adjusted block size and hands the new block
// out, overwriting the old epilogue and writing a fresh one.
func (b *BumpAllocator) Alloc(size int) (Ref, []byte, error) {
	b.stats.AllocCalls++
	if size == 0 {
		return NilRef, nil, nil
	}
	if size < 0 {
		return NilRef, nil, ErrInvalidSize
	}
	if int64(size) > maxPayload || size > b.arena.Reserve() {
		return NilRef, nil, ErrSizeTooLarge
	}

	asize := adjustSize(size)
	off, err := b.arena.Grow(asize)
	if err != nil {
		return NilRef, nil, fmt.Errorf("%w: %w: %w", ErrNoSpace, ErrGrowFail, err)
	}
	b.stats.GrowCalls++
	b.stats.GrowBytes += int64(asize)
	b.stats.BytesAllocated += int64(asize)

	data := b.arena.Bytes()
	bp := off
	word.PutU32(data, word.HeaderOff(bp), word.Pack(asize, true))
	word.PutU32(data, bp+asize-word.DoubleWord, word.Pack(asize, true))
	word.PutU32(data, bp+asize-word.WordSize, word.Pack(0, true))

	return Ref(bp), data[bp : bp+asize-word.Overhead], nil
}

// Free flips the block's allocation bit and nothing else: no free list, no
// coalescing, no reuse. Freeing an already-free block is a no-op.
func (b *BumpAllocator) Free(ref Ref) error {
	b.stats.FreeCalls++
	bp := int(ref)
	data := b.arena.Bytes()
	if bp < 4*word.WordSize || bp >= len(data) || bp%word.Alignment != 0 {
		return ErrBadRef
	}
	hdr := word.Header(data, bp)
	size := word.Size(hdr)
	if size < word.MinBlockSize || bp+size > len(data) {
		return ErrBadRef
	}
	if !word.Allocated(hdr) {
		return nil
	}
	word.PutU32(data, word.HeaderOff(bp), word.Pack(size, false))
	word.PutU32(data, bp+size-word.DoubleWord, word.Pack(size, false))
	b.stats.BytesFreed += int64(size)
	return nil
}

// Realloc is the naive policy: allocate fresh, copy, free the old block.
func (b *BumpAllocator) Realloc(ref Ref, size int) (Ref, []byte, error) {
	b.stats.ReallocCalls++
	if ref == NilRef {
		return b.Alloc(size)
	}
	if size < 0 {
		return NilRef, nil, ErrInvalidSize
	}
	if size == 0 {
		if err := b.Free(ref); err != nil {
			return NilRef, nil, err
		}
		return NilRef, nil, nil
	}

	data := b.arena.Bytes()
	bp := int(ref)
	if bp < 4*word.WordSize || bp >= len(data) || bp%word.Alignment != 0 {
		return NilRef, nil, ErrBadRef
	}
	hdr := word.Header(data, bp)
	csize := word.Size(hdr)
	if csize < word.MinBlockSize || bp+csize > len(data) {
		return NilRef, nil, ErrBadRef
	}
	if !word.Allocated(hdr) {
		return NilRef, nil, ErrNotAllocated
	}

	oldPayload := data[bp : bp+csize-word.Overhead]
	newRef, newPayload, err := b.Alloc(size)
	if err != nil {
		return NilRef, nil, err
	}
	copy(newPayload, oldPayload)
	if err := b.Free(ref); err != nil {
		return NilRef, nil, err
	}
	b.stats.ReallocMoved++
	return newRef, newPayload, nil
}

// Check validates the heap structure. The bump variant keeps no free list,
// so extended mode adds nothing over the structural walk.
func (b *BumpAllocator) Check(extended bool) error {
	return verify.HeapImage(b.arena.Bytes())
}

// Stats returns a copy of the operation counters.
func (b *BumpAllocator) Stats() Stats {
	return b.stats
}

// Compile-time interface check
var _ Allocator = (*BumpAllocator)(nil)
