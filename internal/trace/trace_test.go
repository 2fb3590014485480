package trace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heapkit/heapkit/heap"
	"github.com/heapkit/heapkit/heap/alloc"
)

const sampleTrace = `# short driver trace
20000
3
6
1

a 0 512
a 1 128
f 0
r 1 2048
a 2 64
f 1
`

func TestParse(t *testing.T) {
	ops, err := Parse(strings.NewReader(sampleTrace))
	require.NoError(t, err)

	want := []Op{
		{Kind: KindAlloc, Index: 0, Size: 512},
		{Kind: KindAlloc, Index: 1, Size: 128},
		{Kind: KindFree, Index: 0},
		{Kind: KindRealloc, Index: 1, Size: 2048},
		{Kind: KindAlloc, Index: 2, Size: 64},
		{Kind: KindFree, Index: 1},
	}
	assert.Equal(t, want, ops)
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"unknown op":       "x 0 12\n",
		"alloc no size":    "a 0\n",
		"alloc bad id":     "a zero 12\n",
		"alloc bad size":   "a 0 big\n",
		"free no id":       "f\n",
		"free bad id":      "f zero\n",
		"multichar op":     "alloc 0 12\n",
		"realloc no size":  "r 1\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 1")
		})
	}
}

func TestParseEmpty(t *testing.T) {
	ops, err := Parse(strings.NewReader("# nothing but comments\n\n42\n"))
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestRunAgainstAllocator(t *testing.T) {
	arena, err := heap.NewArena(nil)
	require.NoError(t, err)
	defer arena.Close()
	a, err := alloc.New(arena, nil)
	require.NoError(t, err)

	ops, err := Parse(strings.NewReader(sampleTrace))
	require.NoError(t, err)

	require.NoError(t, Run(a, ops))
	require.NoError(t, a.Check(true))

	stats := a.Stats()
	assert.Equal(t, 3, stats.AllocCalls)
	assert.Equal(t, 2, stats.FreeCalls)
	assert.Equal(t, 1, stats.ReallocCalls)
}

// TestRunFreeAfterZeroSizeOps replays traces where an id ends up bound to
// NilRef (zero-size alloc, zero-size realloc). A later free of that id must
// be a no-op, not an error.
func TestRunFreeAfterZeroSizeOps(t *testing.T) {
	arena, err := heap.NewArena(nil)
	require.NoError(t, err)
	defer arena.Close()
	a, err := alloc.New(arena, nil)
	require.NoError(t, err)

	ops, err := Parse(strings.NewReader(`
a 0 64
r 0 0
f 0
a 1 0
f 1
`))
	require.NoError(t, err)

	require.NoError(t, Run(a, ops))
	require.NoError(t, a.Check(true))
	assert.Equal(t, 1, a.Stats().FreeCalls, "only the realloc-to-zero path frees")
}

func TestRunRejectsUnboundIDs(t *testing.T) {
	arena, err := heap.NewArena(nil)
	require.NoError(t, err)
	defer arena.Close()
	a, err := alloc.New(arena, nil)
	require.NoError(t, err)

	err = Run(a, []Op{{Kind: KindFree, Index: 7}})
	assert.ErrorContains(t, err, "unbound id 7")

	err = Run(a, []Op{{Kind: KindRealloc, Index: 7, Size: 10}})
	assert.ErrorContains(t, err, "unbound id 7")
}
