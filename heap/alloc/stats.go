package alloc

// Stats holds internal allocator counters.
type Stats struct {
	AllocCalls   int // Total Alloc() calls
	FreeCalls    int // Total Free() calls
	ReallocCalls int // Total Realloc() calls

	GrowCalls int   // Number of heap extensions
	GrowBytes int64 // Total bytes added by extensions

	BytesAllocated int64 // Total block bytes handed out (including overhead)
	BytesFreed     int64 // Total block bytes returned

	SplitCount       int // Blocks split during placement or shrink
	CoalesceForward  int // Merges with a free successor only
	CoalesceBackward int // Merges with a free predecessor only
	CoalesceBoth     int // Three-way merges

	ReallocShrunk   int // Realloc satisfied by shrinking in place
	ReallocAbsorbed int // Realloc satisfied by absorbing the successor
	ReallocMoved    int // Realloc fell back to allocate-copy-free
}
