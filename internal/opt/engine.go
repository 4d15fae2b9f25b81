package opt

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// GenerationStats summarizes the scored population after one generation.
type GenerationStats struct {
	Generation int
	Best       float64
	Mean       float64
	Worst      float64
}

// Observer receives stats after each generation. It runs on the search
// goroutine, so it must not block for long.
type Observer func(GenerationStats)

type Snapshot struct {
	Generation int     `json:"generation"`
	Best       float64 `json:"best"`
	Mean       float64 `json:"mean"`
}

type Metrics struct {
	Generations  int
	Evaluations  int
	Improvements int
	InitialCost  float64
	BestCost     float64
	Duration     time.Duration
	Snapshots    []Snapshot
}

// Engine runs the genetic search. It is not safe for concurrent use because it
// owns its random source.
type Engine struct {
	cfg      Config
	rng      *rand.Rand
	eval     *Evaluator
	observer Observer
}

// New validates cfg and returns an Engine drawing all randomness from rng.
func New(cfg Config, rng *rand.Rand) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}
	if rng == nil {
		return nil, fmt.Errorf("new engine: nil random source: %w", ErrInvalidConfiguration)
	}
	return &Engine{cfg: cfg, rng: rng, eval: NewEvaluator(cfg.Depot, cfg.Workers)}, nil
}

// Observe registers fn to be called after every generation.
func (e *Engine) Observe(fn Observer) *Engine {
	e.observer = fn
	return e
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// Run evolves a population over the catalog for the configured number of
// generations and returns the lowest-cost candidate of the final population.
// ctx is checked between generations; on cancellation the best candidate of the
// current population is returned together with ctx.Err().
func (e *Engine) Run(ctx context.Context, c *Catalog) (Candidate, Metrics, error) {
	start := time.Now()
	if c == nil {
		return nil, Metrics{}, fmt.Errorf("run: nil catalog: %w", ErrInvalidInput)
	}
	if err := c.checkGeometry(e.cfg.Depot); err != nil {
		return nil, Metrics{}, fmt.Errorf("run: %w", err)
	}
	pop, err := NewPopulation(c, e.cfg.PopulationSize, e.rng)
	if err != nil {
		return nil, Metrics{}, fmt.Errorf("run: %w", err)
	}
	scores := e.eval.Score(pop)
	m := Metrics{Evaluations: len(pop)}
	bestIdx := argmin(scores)
	m.InitialCost = scores[bestIdx]
	m.BestCost = scores[bestIdx]

	// A single load has exactly one ordering; crossover needs two positions.
	generations := e.cfg.Generations
	if c.Len() < 2 {
		generations = 0
	}
	for gen := 1; gen <= generations; gen++ {
		if err := ctx.Err(); err != nil {
			m.Duration = time.Since(start)
			return pop[bestIdx].Clone(), m, err
		}
		next, err := e.breed(ctx, pop, scores)
		if err != nil && ctx.Err() != nil {
			m.Duration = time.Since(start)
			return pop[bestIdx].Clone(), m, ctx.Err()
		}
		if err != nil {
			return nil, m, fmt.Errorf("run: generation %d: %w", gen, err)
		}
		pop = next
		scores = e.eval.Score(pop)
		m.Evaluations += len(pop)
		m.Generations = gen

		bestIdx = argmin(scores)
		if scores[bestIdx] < m.BestCost {
			m.Improvements++
		}
		m.BestCost = scores[bestIdx]
		stats := summarize(gen, scores)
		if e.cfg.SnapshotEvery > 0 && (gen%e.cfg.SnapshotEvery == 0 || gen == generations) {
			m.Snapshots = append(m.Snapshots, Snapshot{Generation: gen, Best: stats.Best, Mean: stats.Mean})
		}
		if e.observer != nil {
			e.observer(stats)
		}
	}
	m.Duration = time.Since(start)
	return pop[bestIdx].Clone(), m, nil
}

// breed builds the next generation: elites copied unchanged, then mutated
// crossover children until the population is full. When only one slot remains
// the second child of the last pair is dropped. ctx is checked per pair so a
// large population cannot outlive its deadline by a whole generation.
func (e *Engine) breed(ctx context.Context, pop Population, scores []float64) (Population, error) {
	sel, err := Select(pop, scores, e.cfg.EliteCount, e.cfg.TournamentPoolSize)
	if err != nil {
		return nil, err
	}
	size := len(pop)
	next := make(Population, 0, size)
	for _, c := range sel.Elites {
		next = append(next, c.Clone())
	}
	for len(next) < size {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a, b, err := PickParents(sel.Pool, e.rng)
		if err != nil {
			return nil, err
		}
		c1, c2, err := Crossover(a, b, e.rng)
		if err != nil {
			return nil, err
		}
		if err := Mutate(c1, e.cfg.MutationRate, e.rng); err != nil {
			return nil, err
		}
		if err := Mutate(c2, e.cfg.MutationRate, e.rng); err != nil {
			return nil, err
		}
		next = append(next, c1)
		if len(next) < size {
			next = append(next, c2)
		}
	}
	return next, nil
}

// Solve runs the search, optionally polishes the winner with 2-opt, and splits
// it into routes.
func (e *Engine) Solve(ctx context.Context, c *Catalog) (Solution, Metrics, error) {
	best, m, err := e.Run(ctx, c)
	if err != nil {
		return Solution{}, m, err
	}
	if e.cfg.PolishIterations > 0 {
		polished := ImproveOrder2Opt(best, e.cfg.Depot, e.cfg.PolishIterations)
		if cost := RouteCost(polished, e.cfg.Depot); cost < m.BestCost {
			best = polished
			m.BestCost = cost
		}
	}
	routes, err := Segment(best, e.cfg.Depot, e.cfg.MaxRouteTime)
	if err != nil {
		return Solution{}, m, err
	}
	return Solution{Routes: routes, Order: best, Cost: RouteCost(best, e.cfg.Depot)}, m, nil
}

// Solve is a one-shot helper: build the catalog, seed the generator from
// cfg.Seed and run the engine.
func Solve(ctx context.Context, loads []Load, cfg Config) (Solution, Metrics, error) {
	c, err := NewCatalog(loads)
	if err != nil {
		return Solution{}, Metrics{}, err
	}
	eng, err := New(cfg, NewRand(cfg.Seed))
	if err != nil {
		return Solution{}, Metrics{}, err
	}
	return eng.Solve(ctx, c)
}

func argmin(scores []float64) int {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] < scores[best] {
			best = i
		}
	}
	return best
}

func summarize(gen int, scores []float64) GenerationStats {
	st := GenerationStats{Generation: gen, Best: math.Inf(1), Worst: math.Inf(-1)}
	sum := 0.0
	for _, s := range scores {
		st.Best = math.Min(st.Best, s)
		st.Worst = math.Max(st.Worst, s)
		sum += s
	}
	if len(scores) > 0 {
		st.Mean = sum / float64(len(scores))
	}
	return st
}
