package rounds

// Option applies a configuration option to the tracker.
type Option func(*memoryTracker)

// WithMaxSize sets how many round IDs are remembered.
// If maxSize > 0 the oldest claim is evicted once full.
// If maxSize <= 0 the tracker is unbounded.
func WithMaxSize(maxSize int) Option {
	return func(t *memoryTracker) {
		t.maxSize = maxSize
	}
}
