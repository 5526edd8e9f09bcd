package evaluate

import (
	"math/rand/v2"
	"sync"
)

// Source supplies uniform draws in [0, 1).
type Source interface {
	Float64() float64
}

// LockedSource is a Source safe for concurrent use.
type LockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource returns a LockedSource seeded with seed. A zero seed picks a
// random one.
func NewSource(seed uint64) *LockedSource {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &LockedSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *LockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// FixedSource always returns the same draw.
type FixedSource float64

func (f FixedSource) Float64() float64 {
	return float64(f)
}
