package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loadplan/internal/opt"
)

func lookupMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := opt.DefaultConfig()
	err := ApplyEnv(&cfg, lookupMap(map[string]string{
		"VRP_POPULATION_SIZE": "80",
		"VRP_GENERATIONS":     " 250 ",
		"VRP_MUTATION_RATE":   "0.05",
		"VRP_MAX_ROUTE_TIME":  "600",
		"VRP_DEPOT":           "(10,-5)",
		"VRP_SEED":            "123",
		"VRP_WORKERS":         "",
	}))
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.PopulationSize)
	assert.Equal(t, 250, cfg.Generations)
	assert.Equal(t, 0.05, cfg.MutationRate)
	assert.Equal(t, 600.0, cfg.MaxRouteTime)
	assert.Equal(t, opt.Point{X: 10, Y: -5}, cfg.Depot)
	assert.Equal(t, int64(123), cfg.Seed)
	assert.Equal(t, 0, cfg.Workers)
	assert.Equal(t, 2, cfg.EliteCount)
}

func TestApplyEnvBadValue(t *testing.T) {
	for k, v := range map[string]string{
		"VRP_GENERATIONS":   "many",
		"VRP_MUTATION_RATE": "x",
		"VRP_DEPOT":         "origin",
		"VRP_SEED":          "1.5",
	} {
		cfg := opt.DefaultConfig()
		err := ApplyEnv(&cfg, lookupMap(map[string]string{k: v}))
		require.ErrorIs(t, err, opt.ErrInvalidConfiguration, k)
	}
}

func TestSolverFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vrp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("solver:\n  generations: 20\n  mutationRate: 0.2\n  depot: {x: 1, y: 2}\n"), 0o600))
	t.Setenv("VRP_GENERATIONS", "30")

	cfg, err := Solver(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Generations)
	assert.Equal(t, 0.2, cfg.MutationRate)
	assert.Equal(t, opt.Point{X: 1, Y: 2}, cfg.Depot)
	// untouched fields keep their defaults
	assert.Equal(t, 50, cfg.PopulationSize)
	assert.Equal(t, 720.0, cfg.MaxRouteTime)
}

func TestSolverRejectsInvalid(t *testing.T) {
	t.Setenv("VRP_CONFIG", "")
	t.Setenv("VRP_MUTATION_RATE", "1.5")
	_, err := Solver("")
	require.ErrorIs(t, err, opt.ErrInvalidConfiguration)
}

func TestServerFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RATE_RPS", "2.5")
	t.Setenv("RATE_BURST", "oops")
	t.Setenv("SOLVE_TIMEOUT", "5s")
	t.Setenv("MAX_POPULATION", "100")
	t.Setenv("MAX_GENERATIONS", "")
	s := ServerFromEnv()
	assert.Equal(t, "9090", s.Port)
	assert.Equal(t, 2.5, s.RateRPS)
	assert.Equal(t, 10, s.RateBurst)
	assert.Equal(t, 5*time.Second, s.SolveTimeout)
	assert.Equal(t, 100, s.MaxPopulation)
	assert.Equal(t, 20000, s.MaxGenerations)
}
