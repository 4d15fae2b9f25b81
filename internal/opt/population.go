package opt

import (
	"fmt"
	"math/rand"
	"time"
)

// Candidate is one full ordering of the catalog, evaluated as a single route.
type Candidate []Load

// Clone returns a copy that shares no storage with c.
func (c Candidate) Clone() Candidate { return append(Candidate(nil), c...) }

// IDs returns the load ids in order.
func (c Candidate) IDs() []int {
	out := make([]int, len(c))
	for i, l := range c {
		out[i] = l.ID
	}
	return out
}

// Population is the fixed-size set of candidates of one generation.
type Population []Candidate

// NewRand returns a generator seeded with seed, or with the clock when seed is 0.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// NewPopulation builds size independent uniformly random permutations of the catalog.
func NewPopulation(c *Catalog, size int, rng *rand.Rand) (Population, error) {
	if c == nil || c.Len() == 0 {
		return nil, fmt.Errorf("new population: empty catalog: %w", ErrInvalidInput)
	}
	if size < 2 {
		return nil, fmt.Errorf("new population: size must be >= 2 (got %d): %w", size, ErrInvalidConfiguration)
	}
	if rng == nil {
		return nil, fmt.Errorf("new population: nil random source: %w", ErrInvalidConfiguration)
	}
	pop := make(Population, size)
	for i := range pop {
		cand := Candidate(c.Loads())
		rng.Shuffle(len(cand), func(a, b int) { cand[a], cand[b] = cand[b], cand[a] })
		pop[i] = cand
	}
	return pop, nil
}
