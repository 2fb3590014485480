package alloc

import "github.com/heapkit/heapkit/internal/word"

// coalesce merges the free block at bp with its physically adjacent
// neighbors, inserts the surviving block into the free list, and returns its
// payload offset. bp's header and footer must already mark it free.
//
// Neighbors are removed from the free list before the merged size is
// written: removal navigates by the pre-merge link words, and the successor
// address in particular is only computable while the old sizes are intact.
// After coalesce returns, both neighbors of the returned block are allocated
// (the prologue and epilogue sentinels cover the heap boundaries).
func (a *ExplicitAllocator) coalesce(bp int) int {
	data := a.arena.Bytes()

	prev := word.PrevOff(data, bp)
	next := word.NextOff(data, bp)

	// A predecessor computing back to bp itself means the footer word before
	// the header was not a real block; treat it as allocated.
	prevAlloc := prev == bp || word.Allocated(word.Header(data, prev))
	nextAlloc := word.Allocated(word.Header(data, next))
	size := word.Size(word.Header(data, bp))

	switch {
	case prevAlloc && nextAlloc:
		// Nothing to merge.

	case prevAlloc && !nextAlloc:
		a.stats.CoalesceForward++
		a.removeBlock(next)
		size += word.Size(word.Header(data, next))
		word.PutU32(data, word.HeaderOff(bp), word.Pack(size, false))
		word.PutU32(data, bp+size-word.DoubleWord, word.Pack(size, false))

	case !prevAlloc && nextAlloc:
		a.stats.CoalesceBackward++
		a.removeBlock(prev)
		size += word.Size(word.Header(data, prev))
		bp = prev
		word.PutU32(data, word.HeaderOff(bp), word.Pack(size, false))
		word.PutU32(data, bp+size-word.DoubleWord, word.Pack(size, false))

	default:
		a.stats.CoalesceBoth++
		a.removeBlock(prev)
		a.removeBlock(next)
		size += word.Size(word.Header(data, prev)) + word.Size(word.Header(data, next))
		bp = prev
		word.PutU32(data, word.HeaderOff(bp), word.Pack(size, false))
		word.PutU32(data, bp+size-word.DoubleWord, word.Pack(size, false))
	}

	a.addBlock(bp)
	return bp
}
