package opt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cases := []struct {
		name string
		edit func(*Config)
		want error
	}{
		{"population 1", func(c *Config) { c.PopulationSize = 1 }, ErrInvalidConfiguration},
		{"negative generations", func(c *Config) { c.Generations = -1 }, ErrInvalidConfiguration},
		{"mutation rate above 1", func(c *Config) { c.MutationRate = 1.5 }, ErrInvalidConfiguration},
		{"negative mutation rate", func(c *Config) { c.MutationRate = -0.01 }, ErrInvalidConfiguration},
		{"NaN mutation rate", func(c *Config) { c.MutationRate = math.NaN() }, ErrInvalidConfiguration},
		{"negative elites", func(c *Config) { c.EliteCount = -1 }, ErrInvalidConfiguration},
		{"elites above population", func(c *Config) { c.EliteCount = c.PopulationSize + 1 }, ErrInvalidConfiguration},
		{"tournament pool 1", func(c *Config) { c.TournamentPoolSize = 1 }, ErrInvalidConfiguration},
		{"zero route time", func(c *Config) { c.MaxRouteTime = 0 }, ErrInvalidConfiguration},
		{"negative route time", func(c *Config) { c.MaxRouteTime = -5 }, ErrInvalidConfiguration},
		{"NaN route time", func(c *Config) { c.MaxRouteTime = math.NaN() }, ErrInvalidConfiguration},
		{"infinite depot", func(c *Config) { c.Depot = Point{math.Inf(1), 0} }, ErrArithmeticDegenerate},
		{"NaN depot", func(c *Config) { c.Depot = Point{0, math.NaN()} }, ErrArithmeticDegenerate},
		{"negative workers", func(c *Config) { c.Workers = -1 }, ErrInvalidConfiguration},
		{"negative polish", func(c *Config) { c.PolishIterations = -1 }, ErrInvalidConfiguration},
		{"negative snapshot interval", func(c *Config) { c.SnapshotEvery = -1 }, ErrInvalidConfiguration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.edit(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tc.want)
		})
	}
}

func TestConfigValidateBoundaries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PopulationSize = 2
	cfg.TournamentPoolSize = 2
	cfg.EliteCount = 2
	cfg.Generations = 0
	cfg.MutationRate = 1
	cfg.Workers = 0
	require.NoError(t, cfg.Validate())
	cfg.MutationRate = 0
	require.NoError(t, cfg.Validate())
}
