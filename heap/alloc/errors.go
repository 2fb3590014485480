package alloc

import "errors"

var (
	// ErrNoSpace indicates the arena reservation could not supply the bytes
	// needed to satisfy an allocation.
	ErrNoSpace = errors.New("alloc: out of heap space")

	// ErrBadRef indicates an invalid, misaligned, or out-of-bounds block
	// reference.
	ErrBadRef = errors.New("alloc: bad block reference")

	// ErrNotAllocated indicates an attempt to free or resize a block that is
	// not currently allocated.
	ErrNotAllocated = errors.New("alloc: block is not allocated")

	// ErrInvalidSize indicates a negative requested size.
	ErrInvalidSize = errors.New("alloc: invalid size")

	// ErrSizeTooLarge indicates a request that can never be satisfied: larger
	// than the arena reservation or not encodable in a boundary-tag word.
	ErrSizeTooLarge = errors.New("alloc: size too large")

	// ErrGrowFail indicates the arena could not be extended. It is always
	// wrapped together with ErrNoSpace.
	ErrGrowFail = errors.New("alloc: heap extension failed")
)
