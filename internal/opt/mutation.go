package opt

import (
	"fmt"
	"math/rand"
)

// Mutate visits every position and, with probability rate, swaps it with a
// uniformly drawn position. The drawn position may be the same one.
func Mutate(c Candidate, rate float64, rng *rand.Rand) error {
	if err := checkRate(rate); err != nil {
		return fmt.Errorf("mutate: %w", err)
	}
	if rng == nil {
		return fmt.Errorf("mutate: nil random source: %w", ErrInvalidConfiguration)
	}
	for i := range c {
		if rng.Float64() < rate {
			j := rng.Intn(len(c))
			c[i], c[j] = c[j], c[i]
		}
	}
	return nil
}
