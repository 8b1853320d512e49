package shuffle_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawfidkshuvo/king-police-backend/internal/service/shuffle"
)

func TestSource_PermIsValid(t *testing.T) {
	src := shuffle.New(1)

	for i := 0; i < 100; i++ {
		perm := src.Perm(4)
		require.Len(t, perm, 4)

		seen := make(map[int]bool, 4)
		for _, v := range perm {
			assert.GreaterOrEqual(t, v, 0)
			assert.Less(t, v, 4)
			assert.False(t, seen[v])
			seen[v] = true
		}
	}
}

func TestSource_FixedSeedIsDeterministic(t *testing.T) {
	a := shuffle.New(42)
	b := shuffle.New(42)

	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Perm(4), b.Perm(4))
	}
}

// All 24 permutations of 4 elements must show up with frequency close
// to 1/24. With 24000 draws the expectation is 1000 per permutation;
// the bounds below sit well past five standard deviations.
func TestSource_PermIsUniform(t *testing.T) {
	src := shuffle.New(7)

	const draws = 24000
	counts := make(map[string]int, 24)
	for i := 0; i < draws; i++ {
		counts[fmt.Sprint(src.Perm(4))]++
	}

	require.Len(t, counts, 24)
	for perm, count := range counts {
		assert.Greater(t, count, 800, perm)
		assert.Less(t, count, 1200, perm)
	}
}

func TestSource_ConcurrentUse(t *testing.T) {
	src := shuffle.New(0)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Len(t, src.Perm(4), 4)
			}
		}()
	}
	wg.Wait()
}
