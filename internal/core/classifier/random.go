package classifier

import (
	"math/rand/v2"
	"sync"

	"github.com/samirrijal/butterflyguide/internal/core/ports"
)

// NewSource returns a RandomSource backed by the runtime-seeded global generator.
func NewSource() ports.RandomSource { return globalSource{} }

type globalSource struct{}

func (globalSource) Pick(n int) int { return rand.IntN(n) }

// NewSeededSource returns a reproducible RandomSource. It may be shared across goroutines.
func NewSeededSource(seed uint64) ports.RandomSource {
	return &seededSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

type seededSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *seededSource) Pick(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

// SourceFromSeed picks NewSeededSource for a non-zero seed and NewSource otherwise.
func SourceFromSeed(seed uint64) ports.RandomSource {
	if seed == 0 {
		return NewSource()
	}
	return NewSeededSource(seed)
}
