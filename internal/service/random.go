package service

import (
	"math/rand/v2"
	"sync"
)

// RandomSource yields integers in [0, n). Implementations must be safe for concurrent use.
type RandomSource interface {
	IntN(n int) int
}

type lockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomSource returns a concurrency-safe source seeded from the runtime's entropy.
func NewRandomSource() RandomSource {
	return NewSeededSource(rand.Uint64(), rand.Uint64())
}

// NewSeededSource returns a deterministic concurrency-safe source.
func NewSeededSource(seed1, seed2 uint64) RandomSource {
	return &lockedSource{rnd: rand.New(rand.NewPCG(seed1, seed2))}
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.IntN(n)
}

// between returns a value in [lo, hi).
func between(src RandomSource, lo, hi int) int {
	return lo + src.IntN(hi-lo)
}
