package alloc

// Ref is a block reference: the uint32 offset of the block's payload inside
// the arena.
type Ref = uint32

// NilRef is the zero reference. No payload can live at offset 0 (the heap
// prefix occupies the low words), so NilRef always means "no block".
const NilRef Ref = 0

// Config tunes an allocator instance.
type Config struct {
	// ChunkSize is the default heap extension step in bytes. Extensions
	// always grow by at least the adjusted request size.
	ChunkSize int
}

// DefaultConfig is used when the caller passes nil Config.
var DefaultConfig = Config{
	ChunkSize: 1 << 12, // 4KB
}

// Allocator is the operation surface shared by the allocator variants.
//
// Implementations:
//   - ExplicitAllocator: explicit free list with boundary-tag coalescing
//   - BumpAllocator: append-only bump pointer, no reclamation
type Allocator interface {
	// Alloc allocates a block with at least size payload bytes. It returns
	// the block reference and a slice aliasing the payload. Alloc(0) returns
	// (NilRef, nil, nil) without allocating.
	Alloc(size int) (Ref, []byte, error)

	// Free returns a block for reuse. The no-reclaim variant only marks the
	// block dead.
	Free(ref Ref) error

	// Realloc resizes a block, in place when possible, preserving the first
	// min(old payload size, size) bytes. On error the original block is left
	// intact. Realloc(NilRef, n) allocates; Realloc(ref, 0) frees.
	Realloc(ref Ref, size int) (Ref, []byte, error)

	// Check walks the heap and validates its structure. Extended mode also
	// cross-checks free-list membership where the variant maintains one.
	// Diagnostics only; never called from allocation paths.
	Check(extended bool) error

	// Stats returns operation counters for instrumentation and tests.
	Stats() Stats
}
