package opt

import (
	"fmt"
	"math/rand"
)

// Crossover combines two parents into two children. Two distinct cut points
// i < j are drawn from [0, len); child A starts with a[i:j] and continues with
// the rest of b in b's order, child B is built the same way with roles swapped.
func Crossover(a, b Candidate, rng *rand.Rand) (Candidate, Candidate, error) {
	if len(a) < 2 || len(a) != len(b) {
		return nil, nil, fmt.Errorf("crossover: parents of length %d and %d: %w", len(a), len(b), ErrInvalidInput)
	}
	if rng == nil {
		return nil, nil, fmt.Errorf("crossover: nil random source: %w", ErrInvalidConfiguration)
	}
	i, j := distinctPair(len(a), rng)
	if i > j {
		i, j = j, i
	}
	return orderCrossover(a, b, i, j), orderCrossover(b, a, i, j), nil
}

func orderCrossover(keep, fill Candidate, i, j int) Candidate {
	child := make(Candidate, 0, len(keep))
	child = append(child, keep[i:j]...)
	placed := make(map[int]struct{}, j-i)
	for _, l := range child {
		placed[l.ID] = struct{}{}
	}
	for _, l := range fill {
		if _, ok := placed[l.ID]; !ok {
			child = append(child, l)
		}
	}
	return child
}
