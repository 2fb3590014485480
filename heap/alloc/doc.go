// Package alloc provides dynamic block allocation over a heap arena.
//
// # Overview
//
// The package manages a single growable heap image (heap.Arena) with no help
// from Go's own allocator: every block is described by a 4-byte header and an
// identical 4-byte footer (boundary tags) packing the block size with an
// allocation bit, and free blocks are threaded onto an intrusive doubly
// linked list stored inside their own payload bytes.
//
// # Implementations
//
// ExplicitAllocator: the production allocator
//
//   - explicit LIFO free list, first-fit search
//   - block splitting with a 16-byte minimum block size
//   - eager boundary-tag coalescing (no two adjacent blocks are ever free)
//   - in-place-aware Realloc (shrink-split, successor absorption, copy)
//
// BumpAllocator: a no-reclaim reference variant
//
//   - O(1) bump-pointer allocation, Free only flips the allocation bit
//   - blocks become dead space forever; useful as a baseline and for
//     append-only workloads
//
// # Usage Example
//
//	arena, err := heap.NewArena(nil)
//	if err != nil {
//	    return err
//	}
//	defer arena.Close()
//
//	a, err := alloc.New(arena, nil)
//	if err != nil {
//	    return err
//	}
//
//	ref, buf, err := a.Alloc(256)
//	if err != nil {
//	    return err
//	}
//	copy(buf, payload)
//
//	// Later, return the block for reuse
//	err = a.Free(ref)
//
// # Block References
//
// References (Ref) are uint32 offsets of a block's payload inside the arena.
// NilRef (0) is never a valid payload offset: the heap begins with a padding
// word and a permanently allocated prologue block, so the first payload sits
// at offset 16. Alloc(0) succeeds and returns NilRef with no allocation.
//
// # Alignment
//
// Every payload offset is 8-byte aligned and every block size is a multiple
// of 8. Requested sizes are rounded up to cover the header/footer overhead.
//
// # Error Model
//
// Out-of-memory (the arena reservation is exhausted) surfaces as ErrNoSpace
// and leaves the heap in its last consistent state. Free and Realloc check
// reference bounds and alignment (ErrBadRef) and reject blocks that are not
// currently allocated (ErrNotAllocated); passing a stale reference into a
// live block's interior is still undefined behavior, exactly like handing a
// garbage pointer to free(3).
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Callers must serialize all
// Alloc/Free/Realloc/Check calls externally.
package alloc
