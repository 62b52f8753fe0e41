// internal/manufacturing/sampling/sampling.go
package sampling

import (
	"math/rand/v2"
)

// Sampler draws bounded random values from a single source.
// A Sampler is not safe for concurrent use; give each call its own.
type Sampler struct {
	rng *rand.Rand
}

// Factory returns a fresh Sampler for one unit of work.
type Factory func() *Sampler

func New(src rand.Source) *Sampler {
	return &Sampler{rng: rand.New(src)}
}

func NewSeeded(seed uint64) *Sampler {
	return New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRandom seeds from the runtime's global generator; results are not reproducible.
func NewRandom() *Sampler {
	return New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// RandomFactory is the production Factory.
func RandomFactory() Factory {
	return NewRandom
}

// SeededFactory hands out samplers that all replay the same sequence.
func SeededFactory(seed uint64) Factory {
	return func() *Sampler { return NewSeeded(seed) }
}

// Int returns a value in [min, max].
func (s *Sampler) Int(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.rng.IntN(max-min+1)
}

// Float returns a value in [min, max).
func (s *Sampler) Float(min, max float64) float64 {
	return min + s.rng.Float64()*(max-min)
}

// Chance reports true with probability p.
func (s *Sampler) Chance(p float64) bool {
	return s.rng.Float64() < p
}

// Item picks one element. It panics on an empty collection, like indexing would.
func Item[T any](s *Sampler, items []T) T {
	return items[s.Int(0, len(items)-1)]
}

// Items returns min(count, len(items)) distinct elements in random order.
// The input slice is left untouched.
func Items[T any](s *Sampler, items []T, count int) []T {
	if count <= 0 {
		return []T{}
	}
	shuffled := make([]T, len(items))
	copy(shuffled, items)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count]
}
