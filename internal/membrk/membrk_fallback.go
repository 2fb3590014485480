//go:build !unix

package membrk

// Store is a monotonically growing memory region backed by a fixed-capacity
// byte slice. The capacity is allocated once at creation so the region never
// relocates as it grows.
type Store struct {
	mem    []byte
	length int
}

// New allocates a region of the given maximum size.
func New(reserve int) (*Store, error) {
	if reserve <= 0 {
		return nil, ErrBadSize
	}
	return &Store{mem: make([]byte, reserve)}, nil
}

// Grow extends the region by n bytes and returns the offset where the new
// bytes begin.
func (s *Store) Grow(n int) (int, error) {
	if n <= 0 {
		return 0, ErrBadSize
	}
	if s.length+n > len(s.mem) {
		return 0, ErrExhausted
	}
	old := s.length
	s.length += n
	return old, nil
}

// Bytes returns the visible region.
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

// Close releases the region. The Store must not be used afterwards.
func (s *Store) Close() error {
	s.mem = nil
	s.length = 0
	return nil
}
