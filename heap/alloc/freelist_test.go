package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFreeListLIFOOrder pins down the insertion discipline: freed blocks go
// to the head, so the list runs in reverse free order.
func TestFreeListLIFOOrder(t *testing.T) {
	a := newTestAllocator(t, nil)

	// Four same-class blocks at 16, 128, 240, 352; the seed remainder at 464
	// is the only free block afterwards.
	var refs []Ref
	for i := 0; i < 4; i++ {
		ref, _, err := a.Alloc(100)
		require.NoError(t, err)
		refs = append(refs, ref)
	}
	require.Equal(t, []Ref{16, 128, 240, 352}, refs)
	require.Equal(t, []int{464}, freeListOffsets(a))

	// Neither free touches a free neighbor, so both insert at the head.
	require.NoError(t, a.Free(refs[0]))
	assert.Equal(t, []int{16, 464}, freeListOffsets(a))

	require.NoError(t, a.Free(refs[2]))
	assert.Equal(t, []int{240, 16, 464}, freeListOffsets(a))

	require.NoError(t, a.Check(true))
}

// TestFirstFitScansFromHead allocates into a list with several candidates and
// expects the most recently freed fitting block to win.
func TestFirstFitScansFromHead(t *testing.T) {
	a := newTestAllocator(t, nil)

	var refs []Ref
	for i := 0; i < 4; i++ {
		ref, _, err := a.Alloc(100)
		require.NoError(t, err)
		refs = append(refs, ref)
	}
	require.NoError(t, a.Free(refs[0]))
	require.NoError(t, a.Free(refs[2]))
	// head -> 240 -> 16 -> 464

	ref, _, err := a.Alloc(100)
	require.NoError(t, err)
	assert.Equal(t, refs[2], ref, "first fit starts at the list head")
	assert.Equal(t, []int{16, 464}, freeListOffsets(a))
	require.NoError(t, a.Check(true))
}

// TestUnlinkMiddleBlock removes a block from the middle of the list via a
// coalescing free and checks the remaining links survive.
func TestUnlinkMiddleBlock(t *testing.T) {
	a := newTestAllocator(t, nil)

	var refs []Ref
	for i := 0; i < 4; i++ {
		ref, _, err := a.Alloc(100)
		require.NoError(t, err)
		refs = append(refs, ref)
	}
	require.NoError(t, a.Free(refs[0]))
	require.NoError(t, a.Free(refs[2]))
	// head -> 240 -> 16 -> 464

	// Freeing block 1 merges with both neighbors: the head (240) and the
	// mid-list entry (16) are unlinked and the merged block reinserts at the
	// head.
	require.NoError(t, a.Free(refs[1]))
	assert.Equal(t, []int{16, 464}, freeListOffsets(a))
	assert.Equal(t, 3*adjustSize(100), blockSize(a, refs[0]))
	assert.Equal(t, 1, a.Stats().CoalesceBoth)
	require.NoError(t, a.Check(true))
}

// TestFreeListDrainsToEmpty frees everything and expects one spanning block.
func TestFreeListDrainsToEmpty(t *testing.T) {
	a := newTestAllocator(t, nil)

	var refs []Ref
	for i := 0; i < 8; i++ {
		ref, _, err := a.Alloc(300)
		require.NoError(t, err)
		refs = append(refs, ref)
	}
	for _, ref := range refs {
		require.NoError(t, a.Free(ref))
	}

	free := freeListOffsets(a)
	require.Len(t, free, 1, "full drain must collapse to a single free block")
	assert.Equal(t, a.firstBlock(), free[0])
	require.NoError(t, a.Check(true))
}
