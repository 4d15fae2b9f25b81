package opt

import (
	"fmt"
	"math/rand"
	"sort"
)

// Selection is one generation's ranking.
type Selection struct {
	Ranked Population // ascending by fitness
	Scores []float64  // fitness of Ranked[i]
	Elites Population // Ranked[:eliteCount]
	Pool   Population // breeding stock, Ranked[:min(poolSize, len)]
}

// Select ranks pop by ascending score, ties kept in population order, and
// splits off the elites and the breeding pool.
func Select(pop Population, scores []float64, eliteCount, poolSize int) (Selection, error) {
	if len(pop) != len(scores) {
		return Selection{}, fmt.Errorf("select: %d candidates but %d scores: %w", len(pop), len(scores), ErrInvalidInput)
	}
	if eliteCount < 0 || eliteCount > len(pop) {
		return Selection{}, fmt.Errorf("select: eliteCount %d outside [0,%d]: %w", eliteCount, len(pop), ErrInvalidConfiguration)
	}
	n := min(poolSize, len(pop))
	if n < 2 {
		return Selection{}, fmt.Errorf("select: breeding pool of %d needs at least 2 candidates: %w", n, ErrInvalidConfiguration)
	}
	idx := make([]int, len(pop))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] < scores[idx[b]] })

	sel := Selection{Ranked: make(Population, len(pop)), Scores: make([]float64, len(pop))}
	for r, i := range idx {
		sel.Ranked[r] = pop[i]
		sel.Scores[r] = scores[i]
	}
	sel.Elites = sel.Ranked[:eliteCount]
	sel.Pool = sel.Ranked[:n]
	return sel, nil
}

// PickParents samples two distinct members of the pool uniformly.
func PickParents(pool Population, rng *rand.Rand) (Candidate, Candidate, error) {
	if len(pool) < 2 {
		return nil, nil, fmt.Errorf("pick parents: pool of %d: %w", len(pool), ErrInvalidConfiguration)
	}
	if rng == nil {
		return nil, nil, fmt.Errorf("pick parents: nil random source: %w", ErrInvalidConfiguration)
	}
	i, j := distinctPair(len(pool), rng)
	return pool[i], pool[j], nil
}

// distinctPair draws two different indices in [0,n), in draw order.
func distinctPair(n int, rng *rand.Rand) (int, int) {
	i := rng.Intn(n)
	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}
	return i, j
}
