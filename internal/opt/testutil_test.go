package opt

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// lineCatalog is three loads on the x axis whose unique optimal order is 1,2,3.
func lineCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog([]Load{
		{ID: 1, Pickup: Point{0, 0}, Dropoff: Point{10, 0}},
		{ID: 2, Pickup: Point{10, 0}, Dropoff: Point{20, 0}},
		{ID: 3, Pickup: Point{20, 0}, Dropoff: Point{0, 0}},
	})
	require.NoError(t, err)
	return c
}

// randomCatalog builds n loads with coordinates in [-100,100).
func randomCatalog(t *testing.T, n int, seed int64) *Catalog {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	loads := make([]Load, n)
	for i := range loads {
		loads[i] = Load{
			ID:      100 + i*7,
			Pickup:  Point{rng.Float64()*200 - 100, rng.Float64()*200 - 100},
			Dropoff: Point{rng.Float64()*200 - 100, rng.Float64()*200 - 100},
		}
	}
	c, err := NewCatalog(loads)
	require.NoError(t, err)
	return c
}

// permutations returns every ordering of loads.
func permutations(loads []Load) [][]Load {
	if len(loads) <= 1 {
		return [][]Load{append([]Load(nil), loads...)}
	}
	var out [][]Load
	for i := range loads {
		rest := make([]Load, 0, len(loads)-1)
		rest = append(rest, loads[:i]...)
		rest = append(rest, loads[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]Load{loads[i]}, p...))
		}
	}
	return out
}
