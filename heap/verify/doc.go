// Package verify provides structural validation for heap images.
//
// The checks walk the heap in address order from the prologue block to the
// epilogue word and validate the boundary-tag invariants: 8-byte alignment
// of every payload offset, header/footer equality, legal block sizes, the
// fixed-size allocated prologue, and a size-0 allocated epilogue sitting
// exactly at the heap end. Free-list cross-checks live with the allocator
// that owns the list (see ExplicitAllocator.Check).
//
// Validation is independent of the allocation paths and costs O(n) in the
// number of blocks; it is meant for tests and diagnostics, never for the hot
// path.
//
// All failures are reported as *ValidationError carrying the offending heap
// offset:
//
//	if err := verify.HeapImage(arena.Bytes()); err != nil {
//	    var verr *verify.ValidationError
//	    if errors.As(err, &verr) {
//	        fmt.Printf("%s at %d: %s\n", verr.Type, verr.Offset, verr.Message)
//	    }
//	}
package verify
