package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heapkit/heapkit/internal/membrk"
)

func TestNewArenaDefaults(t *testing.T) {
	a, err := NewArena(nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Zero(t, a.Size())
	assert.Equal(t, membrk.DefaultReserve, a.Reserve())
}

func TestGrowOffsets(t *testing.T) {
	a, err := NewArena(&Options{Reserve: 1 << 16})
	require.NoError(t, err)
	defer a.Close()

	off, err := a.Grow(16)
	require.NoError(t, err)
	assert.Equal(t, 0, off)

	off, err = a.Grow(4096)
	require.NoError(t, err)
	assert.Equal(t, 16, off)
	assert.Equal(t, 16+4096, a.Size())
	assert.Len(t, a.Bytes(), 16+4096)
}

func TestGrowPastReserve(t *testing.T) {
	a, err := NewArena(&Options{Reserve: 4096})
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Grow(a.Reserve())
	require.NoError(t, err)

	_, err = a.Grow(1)
	require.ErrorIs(t, err, membrk.ErrExhausted)
	assert.Equal(t, a.Reserve(), a.Size(), "failed Grow must leave the arena unchanged")
}

func TestBytesStableAcrossGrow(t *testing.T) {
	a, err := NewArena(&Options{Reserve: 1 << 20})
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Grow(64)
	require.NoError(t, err)
	a.Bytes()[0] = 0xAB
	base := &a.Bytes()[0]

	for i := 0; i < 50; i++ {
		_, err = a.Grow(4096)
		require.NoError(t, err)
	}
	assert.True(t, base == &a.Bytes()[0], "arena moved across Grow")
	assert.Equal(t, byte(0xAB), a.Bytes()[0])
}
