package repository

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithMaxRecords bounds the number of calibration records kept in memory.
// The oldest record is evicted first once the bound is reached.
func WithMaxRecords(maxRecords int) Option {
	return func(s *MemStore) {
		if maxRecords > 0 {
			s.maxRecords = maxRecords
		}
	}
}
