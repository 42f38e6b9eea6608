package sampler

import "math/rand/v2"

// Option applies a configuration option to the Sampler.
type Option func(*Sampler)

// WithSeed makes the draw sequence reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Sampler) {
		s.rng = rand.New(rand.NewPCG(seed, seed^pcgStream))
	}
}

// WithDraw replaces the random source with fn. fn must return values in [0,1).
func WithDraw(fn func() float64) Option {
	return func(s *Sampler) {
		if fn != nil {
			s.draw = fn
		}
	}
}
