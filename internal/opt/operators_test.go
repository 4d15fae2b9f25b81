package opt

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPopulationPermutations(t *testing.T) {
	c := randomCatalog(t, 12, 1)
	pop, err := NewPopulation(c, 30, rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	require.Len(t, pop, 30)
	for _, cand := range pop {
		require.True(t, IsPermutationOf(cand, c))
	}
	// candidates must not alias each other
	pop[0][0].ID = -1
	assert.NotEqual(t, -1, pop[1][0].ID)
}

func TestNewPopulationErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := NewPopulation(nil, 10, rng)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = NewPopulation(lineCatalog(t), 1, rng)
	require.ErrorIs(t, err, ErrInvalidConfiguration)
	_, err = NewPopulation(lineCatalog(t), 10, nil)
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestEvaluatorParallelMatchesSequential(t *testing.T) {
	c := randomCatalog(t, 25, 3)
	pop, err := NewPopulation(c, 64, rand.New(rand.NewSource(4)))
	require.NoError(t, err)
	seq := NewEvaluator(Point{}, 1).Score(pop)
	par := NewEvaluator(Point{}, 8).Score(pop)
	auto := NewEvaluator(Point{}, 0).Score(pop)
	assert.Equal(t, seq, par)
	assert.Equal(t, seq, auto)
	for i, cand := range pop {
		assert.Equal(t, RouteCost(cand, Point{}), seq[i])
	}
}

func TestSelectStableRanking(t *testing.T) {
	a := Candidate{{ID: 1}}
	b := Candidate{{ID: 2}}
	c := Candidate{{ID: 3}}
	d := Candidate{{ID: 4}}
	sel, err := Select(Population{a, b, c, d}, []float64{5, 1, 5, 0}, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 5, 5}, sel.Scores)
	assert.Equal(t, Population{d, b, a, c}, sel.Ranked)
	assert.Equal(t, Population{d, b}, sel.Elites)
	assert.Equal(t, Population{d, b, a}, sel.Pool)
}

func TestSelectPoolClampedToPopulation(t *testing.T) {
	pop := Population{{{ID: 1}}, {{ID: 2}}, {{ID: 3}}}
	sel, err := Select(pop, []float64{3, 2, 1}, 0, 10)
	require.NoError(t, err)
	assert.Len(t, sel.Pool, 3)
	assert.Empty(t, sel.Elites)
}

func TestSelectErrors(t *testing.T) {
	pop := Population{{{ID: 1}}, {{ID: 2}}}
	_, err := Select(pop, []float64{1}, 0, 2)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = Select(pop, []float64{1, 2}, 3, 2)
	require.ErrorIs(t, err, ErrInvalidConfiguration)
	_, err = Select(pop, []float64{1, 2}, 0, 1)
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestPickParentsDistinct(t *testing.T) {
	pool := Population{{{ID: 1}}, {{ID: 2}}}
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 100; i++ {
		a, b, err := PickParents(pool, rng)
		require.NoError(t, err)
		assert.NotEqual(t, a[0].ID, b[0].ID)
	}
	_, _, err := PickParents(pool[:1], rng)
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestOrderCrossoverPlacesSegmentFirst(t *testing.T) {
	c := randomCatalog(t, 8, 5)
	a := Candidate(c.Loads())
	b := a.Clone()
	for l, r := 0, len(b)-1; l < r; l, r = l+1, r-1 {
		b[l], b[r] = b[r], b[l]
	}
	child := orderCrossover(a, b, 2, 5)
	require.True(t, IsPermutationOf(child, c))
	assert.Equal(t, a[2:5].IDs(), child[:3].IDs())

	// the tail keeps b's relative order
	rest := Candidate{}
	for _, l := range b {
		if l.ID != a[2].ID && l.ID != a[3].ID && l.ID != a[4].ID {
			rest = append(rest, l)
		}
	}
	assert.Equal(t, rest.IDs(), child[3:].IDs())
}

func TestCrossoverChildrenArePermutations(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for _, n := range []int{2, 3, 10, 31} {
		c := randomCatalog(t, n, int64(n))
		pop, err := NewPopulation(c, 2, rng)
		require.NoError(t, err)
		for k := 0; k < 50; k++ {
			x, y, err := Crossover(pop[0], pop[1], rng)
			require.NoError(t, err)
			require.True(t, IsPermutationOf(x, c))
			require.True(t, IsPermutationOf(y, c))
		}
	}
}

func TestCrossoverDoesNotTouchParents(t *testing.T) {
	c := randomCatalog(t, 10, 6)
	pop, err := NewPopulation(c, 2, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	a, b := pop[0].Clone(), pop[1].Clone()
	x, _, err := Crossover(pop[0], pop[1], rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	x[0].ID = -5
	assert.Equal(t, a, pop[0])
	assert.Equal(t, b, pop[1])
}

func TestCrossoverErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, _, err := Crossover(Candidate{{ID: 1}}, Candidate{{ID: 1}}, rng)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, _, err = Crossover(Candidate{{ID: 1}, {ID: 2}}, Candidate{{ID: 1}, {ID: 2}, {ID: 3}}, rng)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestMutateZeroRateIsIdentity(t *testing.T) {
	c := randomCatalog(t, 20, 8)
	cand := Candidate(c.Loads())
	before := cand.Clone()
	require.NoError(t, Mutate(cand, 0, rand.New(rand.NewSource(1))))
	assert.Equal(t, before, cand)
}

func TestMutateKeepsPermutation(t *testing.T) {
	c := randomCatalog(t, 20, 8)
	cand := Candidate(c.Loads())
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 20; i++ {
		require.NoError(t, Mutate(cand, 1, rng))
		require.True(t, IsPermutationOf(cand, c))
	}
}

func TestMutateRejectsRateOutOfRange(t *testing.T) {
	cand := Candidate{{ID: 1}, {ID: 2}}
	before := cand.Clone()
	for _, rate := range []float64{-0.1, 1.5} {
		err := Mutate(cand, rate, rand.New(rand.NewSource(1)))
		require.ErrorIs(t, err, ErrInvalidConfiguration)
	}
	assert.Equal(t, before, cand)
}

func TestImproveOrder2OptNeverWorse(t *testing.T) {
	c := randomCatalog(t, 15, 21)
	pop, err := NewPopulation(c, 5, rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	for _, cand := range pop {
		out := ImproveOrder2Opt(cand, Point{}, 10)
		require.True(t, IsPermutationOf(out, c))
		assert.LessOrEqual(t, RouteCost(out, Point{}), RouteCost(cand, Point{}))
	}
}

func TestOperatorsRejectNilRandomSource(t *testing.T) {
	pair := Candidate{{ID: 1}, {ID: 2}}

	_, _, err := Crossover(pair, pair.Clone(), nil)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, _, err = PickParents(Population{pair, pair.Clone()}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	before := pair.Clone()
	assert.ErrorIs(t, Mutate(pair, 0.5, nil), ErrInvalidConfiguration)
	assert.Equal(t, before, pair)
}
