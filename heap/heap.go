// Package heap owns the byte region managed by the allocators in heap/alloc.
//
// An Arena is a single contiguous heap image backed by internal/membrk: it
// only ever grows, and its base address never changes, so offsets handed out
// by an allocator stay valid for the lifetime of the arena. The arena itself
// is just bytes; the block structure (prologue, user blocks, epilogue) is
// written and interpreted by the allocator that owns it.
package heap

import (
	"fmt"

	"github.com/heapkit/heapkit/internal/membrk"
)

// Options configures a new arena.
type Options struct {
	// Reserve is the maximum size the heap may grow to, in bytes.
	Reserve int
}

// DefaultOptions is used when the caller passes nil Options.
var DefaultOptions = Options{
	Reserve: membrk.DefaultReserve,
}

// Arena is a growable, non-moving heap region.
type Arena struct {
	store *membrk.Store
}

// NewArena reserves a heap region. The arena starts empty; the first Grow
// call is expected to come from allocator bootstrap.
func NewArena(opts *Options) (*Arena, error) {
	if opts == nil {
		opts = &DefaultOptions
	}
	store, err := membrk.New(opts.Reserve)
	if err != nil {
		return nil, fmt.Errorf("heap: %w", err)
	}
	return &Arena{store: store}, nil
}

// Grow appends n bytes to the heap and returns the offset where the new
// bytes begin. The error is membrk.ErrExhausted when the reservation cannot
// satisfy the request; the heap is unchanged in that case.
func (a *Arena) Grow(n int) (int, error) {
	return a.store.Grow(n)
}

// Bytes returns the current heap image. The slice header changes across Grow
// calls but the underlying memory never moves.
func (a *Arena) Bytes() []byte {
	return a.store.Bytes()
}

// Size returns the current heap size in bytes (the heap end offset).
func (a *Arena) Size() int {
	return a.store.Size()
}

// Reserve returns the maximum size this arena can grow to.
func (a *Arena) Reserve() int {
	return a.store.Reserve()
}

// Close releases the backing region. No allocator operation may follow.
func (a *Arena) Close() error {
	return a.store.Close()
}
