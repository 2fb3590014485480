package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heapkit/heapkit/heap"
	"github.com/heapkit/heapkit/heap/verify"
	"github.com/heapkit/heapkit/internal/word"
)

const testReserve = 1 << 20

// newTestAllocator builds an ExplicitAllocator on a fresh arena with the
// default test reserve.
func newTestAllocator(t testing.TB, cfg *Config) *ExplicitAllocator {
	t.Helper()
	return newTestAllocatorReserve(t, testReserve, cfg)
}

func newTestAllocatorReserve(t testing.TB, reserve int, cfg *Config) *ExplicitAllocator {
	t.Helper()
	arena, err := heap.NewArena(&heap.Options{Reserve: reserve})
	require.NoError(t, err)
	t.Cleanup(func() { _ = arena.Close() })

	a, err := New(arena, cfg)
	require.NoError(t, err)
	return a
}

func newTestBump(t testing.TB, reserve int) *BumpAllocator {
	t.Helper()
	arena, err := heap.NewArena(&heap.Options{Reserve: reserve})
	require.NoError(t, err)
	t.Cleanup(func() { _ = arena.Close() })

	b, err := NewBump(arena)
	require.NoError(t, err)
	return b
}

// heapBlocks decodes the heap in address order, failing the test on any
// structural violation.
func heapBlocks(t testing.TB, arena *heap.Arena) []verify.Block {
	t.Helper()
	blocks, err := verify.Blocks(arena.Bytes())
	require.NoError(t, err)
	return blocks
}

// freeBlocks filters heapBlocks down to the free ones.
func freeBlocks(t testing.TB, arena *heap.Arena) []verify.Block {
	t.Helper()
	var out []verify.Block
	for _, b := range heapBlocks(t, arena) {
		if !b.Allocated {
			out = append(out, b)
		}
	}
	return out
}

// freeListOffsets walks the free list from the head and returns the payload
// offsets in list order.
func freeListOffsets(a *ExplicitAllocator) []int {
	data := a.arena.Bytes()
	var out []int
	for bp := a.head; bp != 0; bp = a.freeNext(data, bp) {
		out = append(out, bp)
	}
	return out
}

func blockSize(a *ExplicitAllocator, ref Ref) int {
	return word.Size(word.Header(a.arena.Bytes(), int(ref)))
}

func blockAllocated(a *ExplicitAllocator, ref Ref) bool {
	return word.Allocated(word.Header(a.arena.Bytes(), int(ref)))
}
