package alloc

import (
	"fmt"

	"github.com/heapkit/heapkit/heap/verify"
	"github.com/heapkit/heapkit/internal/word"
)

// Check walks the heap and validates its structure: alignment, boundary-tag
// equality, the prologue, and the epilogue. Extended mode additionally
// cross-checks that the free list's membership equals exactly the set of
// free blocks, that no block appears on the list twice, and that no two
// address-adjacent blocks are both free.
//
// Check is diagnostics only; the allocation paths never call it.
func (a *ExplicitAllocator) Check(extended bool) error {
	data := a.arena.Bytes()
	blocks, err := verify.Blocks(data)
	if err != nil {
		return err
	}
	if !extended {
		return nil
	}

	inList := make(map[int]bool)
	visits := 0
	for bp := a.head; bp != 0; bp = a.freeNext(data, bp) {
		visits++
		if visits > len(blocks) {
			return fmt.Errorf("alloc: free list longer than the heap has blocks (cycle?)")
		}
		if inList[bp] {
			return fmt.Errorf("alloc: block %d appears on the free list twice", bp)
		}
		if word.Allocated(word.Header(data, bp)) {
			return fmt.Errorf("alloc: allocated block %d on the free list", bp)
		}
		inList[bp] = true
	}

	prevFree := false
	freeBlocks := 0
	for _, b := range blocks {
		if !b.Allocated {
			freeBlocks++
			if !inList[b.Offset] {
				return fmt.Errorf("alloc: free block %d missing from the free list", b.Offset)
			}
			if prevFree {
				return fmt.Errorf("alloc: adjacent free blocks, second at %d", b.Offset)
			}
		}
		prevFree = !b.Allocated
	}
	if freeBlocks != len(inList) {
		return fmt.Errorf("alloc: free list has %d members, heap has %d free blocks",
			len(inList), freeBlocks)
	}
	return nil
}
