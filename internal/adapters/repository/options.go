package repository

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithCapacity bounds the number of kept records. The oldest record is
// evicted first.
func WithCapacity(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.capacity = n
		}
	}
}
