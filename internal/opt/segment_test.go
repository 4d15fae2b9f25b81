package opt

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentRespectsBudget(t *testing.T) {
	c := randomCatalog(t, 40, 13)
	pop, err := NewPopulation(c, 2, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	const budget = 400.0
	routes, err := Segment(pop[0], Point{}, budget)
	require.NoError(t, err)

	var flat Candidate
	for _, r := range routes {
		require.NotEmpty(t, r.Loads)
		assert.Equal(t, RouteCost(r.Loads, Point{}), r.Cost)
		if r.Cost > budget {
			assert.True(t, r.Overflow(budget), "multi-load route over budget: %v", r.IDs())
		}
		flat = append(flat, r.Loads...)
	}
	// concatenated routes reproduce the input order
	assert.Equal(t, pop[0].IDs(), flat.IDs())
}

func TestSegmentSingletonOverflow(t *testing.T) {
	far := Candidate{
		{ID: 1, Pickup: Point{1, 0}, Dropoff: Point{2, 0}},
		{ID: 2, Pickup: Point{500, 0}, Dropoff: Point{600, 0}},
		{ID: 3, Pickup: Point{2, 0}, Dropoff: Point{1, 0}},
	}
	routes, err := Segment(far, Point{}, 50)
	require.NoError(t, err)
	require.Len(t, routes, 3)
	assert.Equal(t, [][]int{{1}, {2}, {3}}, Solution{Routes: routes}.RouteIDs())
	assert.True(t, routes[1].Overflow(50))
	assert.False(t, routes[0].Overflow(50))
	assert.Equal(t, 1, Solution{Routes: routes}.OverflowCount(50))
}

func TestSegmentMergesWithinBudget(t *testing.T) {
	cand := Candidate{
		{ID: 1, Pickup: Point{1, 0}, Dropoff: Point{2, 0}},
		{ID: 2, Pickup: Point{2, 0}, Dropoff: Point{3, 0}},
	}
	routes, err := Segment(cand, Point{}, 720)
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, []int{1, 2}, routes[0].IDs())
	assert.InDelta(t, 6.0, routes[0].Cost, 1e-12)
}

func TestSegmentEmptyAndInvalid(t *testing.T) {
	routes, err := Segment(nil, Point{}, 10)
	require.NoError(t, err)
	assert.Empty(t, routes)

	for _, max := range []float64{0, -1, math.NaN()} {
		_, err := Segment(Candidate{{ID: 1}}, Point{}, max)
		require.ErrorIs(t, err, ErrInvalidConfiguration)
	}
}

func TestSegmentRoutesDoNotAliasInput(t *testing.T) {
	cand := Candidate{{ID: 1}, {ID: 2}}
	routes, err := Segment(cand, Point{}, 10)
	require.NoError(t, err)
	routes[0].Loads[0].ID = 99
	assert.Equal(t, 1, cand[0].ID)
}
