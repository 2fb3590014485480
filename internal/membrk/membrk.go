// Package membrk provides the backing store for the heap: a contiguous byte
// region that grows monotonically and never moves or shrinks while the
// allocator is alive.
//
// On unix the region is an anonymous mapping: the full reservation is mapped
// PROT_NONE up front and pages are committed on demand, so growing never
// relocates the base address. Other platforms fall back to a fixed-capacity
// byte slice. Both implementations share the same Store API; only Grow may
// fail, and only because the reservation is exhausted.
package membrk

import "errors"

// DefaultReserve is the reservation used when the caller does not pick one.
const DefaultReserve = 1 << 26 // 64MB

var (
	// ErrExhausted is returned by Grow when the request does not fit in the
	// remaining reservation.
	ErrExhausted = errors.New("membrk: reservation exhausted")

	// ErrBadSize is returned for non-positive reservation or growth sizes.
	ErrBadSize = errors.New("membrk: size must be positive")
)
