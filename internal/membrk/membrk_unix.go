//go:build unix

package membrk

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Store is a monotonically growing memory region backed by an anonymous
// mapping. The whole reservation is mapped PROT_NONE at creation; Grow
// commits pages with mprotect as the visible length advances. The base
// address is fixed for the lifetime of the Store.
type Store struct {
	mem       []byte // full reservation
	length    int    // bytes visible through Bytes()
	committed int    // bytes with read/write protection (page multiple)
	pageSize  int
}

// New reserves a region of the given maximum size. No pages are committed
// until the first Grow.
func New(reserve int) (*Store, error) {
	if reserve <= 0 {
		return nil, ErrBadSize
	}
	pageSize := unix.Getpagesize()
	reserve = alignUp(reserve, pageSize)

	mem, err := unix.Mmap(-1, 0, reserve, unix.PROT_NONE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("membrk: reserve %d bytes: %w", reserve, err)
	}
	return &Store{mem: mem, pageSize: pageSize}, nil
}

// Grow extends the region by n bytes and returns the offset where the new
// bytes begin. Fails with ErrExhausted when the reservation cannot satisfy
// the request; the region is left unchanged in that case.
func (s *Store) Grow(n int) (int, error) {
	if n <= 0 {
		return 0, ErrBadSize
	}
	if s.length+n > len(s.mem) {
		return 0, ErrExhausted
	}
	old := s.length
	newLen := old + n

	// Commit whole pages covering the new length.
	if newLen > s.committed {
		commit := alignUp(newLen, s.pageSize)
		if commit > len(s.mem) {
			commit = len(s.mem)
		}
		if err := unix.Mprotect(s.mem[s.committed:commit], unix.PROT_READ|unix.PROT_WRITE); err != nil {
			return 0, fmt.Errorf("membrk: commit %d bytes: %w", commit-s.committed, err)
		}
		s.committed = commit
	}
	s.length = newLen
	return old, nil
}

// Bytes returns the visible region. The slice header changes across Grow
// calls but the underlying base address never does.
func (s *Store) Bytes() []byte {
	return s.mem[:s.length]
}

// Size returns the current visible length in bytes.
func (s *Store) Size() int {
	return s.length
}

// Reserve returns the maximum size the region can grow to.
func (s *Store) Reserve() int {
	return len(s.mem)
}

// Close unmaps the reservation. The Store must not be used afterwards.
func (s *Store) Close() error {
	if s.mem == nil {
		return nil
	}
	err := unix.Munmap(s.mem)
	s.mem = nil
	s.length = 0
	s.committed = 0
	return err
}

func alignUp(n, unit int) int {
	return (n + unit - 1) / unit * unit
}
