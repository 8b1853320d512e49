package shuffle

import (
	"math/rand"
	"sync"
	"time"
)

// Source draws random permutations from a private generator so that
// role assignment stays reproducible under a fixed seed. math/rand
// sources are not goroutine-safe, hence the mutex.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New builds a Source from the given seed. Seed 0 means "seed from
// the clock" and is the production default.
func New(seed int64) *Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Source{
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (s *Source) Perm(n int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rng.Perm(n)
}
