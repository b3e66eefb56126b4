// Package sampler draws indices from a chronologically ordered list with a
// bias toward its end, so newer problems come up more often.
package sampler

import (
	"math/rand"
	"sync"
	"time"
)

const (
	// SkewSingle is used when a single problem is drawn for a challenge.
	SkewSingle = 5
	// SkewGroup is used for plain recommendations.
	SkewGroup = 3
	// SkewDistinct is used when several distinct problems are drawn at once.
	SkewDistinct = 2
)

type Sampler struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a sampler seeded from the clock.
func New() *Sampler {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource is used by tests to get reproducible draws.
func NewWithSource(src rand.Source) *Sampler {
	return &Sampler{rnd: rand.New(src)}
}

// Pick returns max of k uniform draws over [0, n). n must be positive.
func (s *Sampler) Pick(n, k int) int {
	if n <= 0 {
		panic("sampler: Pick called with an empty range")
	}
	if k < 1 {
		k = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	choice := 0
	for range k {
		choice = max(choice, s.rnd.Intn(n))
	}
	return choice
}

// PickDistinct returns count distinct indices in [0, n), sorted ascending.
// Each round draws over the indices still free and then shifts the draw past
// every index already taken, so no retries are needed.
func (s *Sampler) PickDistinct(n, count, k int) []int {
	if count > n {
		panic("sampler: PickDistinct asked for more indices than available")
	}

	chosen := make([]int, 0, count)
	for i := range count {
		idx := s.Pick(n-i, k)
		for _, c := range chosen {
			if idx >= c {
				idx++
			}
		}
		chosen = insertSorted(chosen, idx)
	}
	return chosen
}

func insertSorted(xs []int, v int) []int {
	pos := len(xs)
	for i, x := range xs {
		if v < x {
			pos = i
			break
		}
	}
	xs = append(xs, 0)
	copy(xs[pos+1:], xs[pos:])
	xs[pos] = v
	return xs
}
