package queue

// Option applies a configuration option to the InMemoryQueue.
type Option func(*settings)

type settings struct {
	capacity int
	name     string
}

// WithCapacity sets the maximum number of pending items.
func WithCapacity(capacity int) Option {
	return func(s *settings) {
		if capacity > 0 {
			s.capacity = capacity
		}
	}
}

// WithName labels the queue in metrics.
func WithName(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.name = name
		}
	}
}
