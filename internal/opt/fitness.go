package opt

import (
	"runtime"

	"github.com/sourcegraph/conc/pool"
)

// Evaluator scores candidates against a fixed depot. Lower is better.
type Evaluator struct {
	Depot   Point
	Workers int
}

// NewEvaluator returns an Evaluator; workers 0 means GOMAXPROCS.
func NewEvaluator(depot Point, workers int) *Evaluator {
	return &Evaluator{Depot: depot, Workers: workers}
}

// Fitness is the cost of running c as one continuous route from the depot.
func (e *Evaluator) Fitness(c Candidate) float64 { return RouteCost(c, e.Depot) }

// Score returns one fitness per candidate in population order. Candidates are
// scored concurrently on a bounded pool and joined before returning, so the
// result is identical to a sequential pass.
func (e *Evaluator) Score(pop Population) []float64 {
	scores := make([]float64, len(pop))
	workers := e.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers <= 1 || len(pop) < 2 {
		for i, c := range pop {
			scores[i] = e.Fitness(c)
		}
		return scores
	}
	p := pool.New().WithMaxGoroutines(workers)
	for i, c := range pop {
		p.Go(func() {
			scores[i] = e.Fitness(c)
		})
	}
	p.Wait()
	return scores
}
