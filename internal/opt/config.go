package opt

import (
	"fmt"
	"math"
)

// Config holds the search parameters. Zero values are not defaults; start from
// DefaultConfig and override fields.
type Config struct {
	PopulationSize     int     `json:"populationSize" yaml:"populationSize"`
	Generations        int     `json:"generations" yaml:"generations"`
	MutationRate       float64 `json:"mutationRate" yaml:"mutationRate"`
	EliteCount         int     `json:"eliteCount" yaml:"eliteCount"`
	TournamentPoolSize int     `json:"tournamentPoolSize" yaml:"tournamentPoolSize"`
	MaxRouteTime       float64 `json:"maxRouteTime" yaml:"maxRouteTime"`
	Depot              Point   `json:"depot" yaml:"depot"`
	// Seed 0 means time-seeded.
	Seed int64 `json:"seed" yaml:"seed"`
	// Workers bounds concurrent fitness evaluation; 0 uses GOMAXPROCS, 1 is sequential.
	Workers int `json:"workers" yaml:"workers"`
	// PolishIterations enables a 2-opt pass over the final best order.
	PolishIterations int `json:"polishIterations" yaml:"polishIterations"`
	// SnapshotEvery records best/mean cost every N generations; 0 disables.
	SnapshotEvery int `json:"snapshotEvery" yaml:"snapshotEvery"`
}

// DefaultConfig returns the stock search parameters.
func DefaultConfig() Config {
	return Config{
		PopulationSize:     50,
		Generations:        100,
		MutationRate:       0.01,
		EliteCount:         2,
		TournamentPoolSize: 10,
		MaxRouteTime:       720,
		Depot:              Point{X: 0, Y: 0},
		SnapshotEvery:      10,
	}
}

// Validate checks every field range.
func (c Config) Validate() error {
	if c.PopulationSize < 2 {
		return fmt.Errorf("populationSize must be >= 2 (got %d): %w", c.PopulationSize, ErrInvalidConfiguration)
	}
	if c.Generations < 0 {
		return fmt.Errorf("generations must be >= 0 (got %d): %w", c.Generations, ErrInvalidConfiguration)
	}
	if err := checkRate(c.MutationRate); err != nil {
		return err
	}
	if c.EliteCount < 0 || c.EliteCount > c.PopulationSize {
		return fmt.Errorf("eliteCount must be in [0, populationSize] (got %d): %w", c.EliteCount, ErrInvalidConfiguration)
	}
	if c.TournamentPoolSize < 2 {
		return fmt.Errorf("tournamentPoolSize must be >= 2 (got %d): %w", c.TournamentPoolSize, ErrInvalidConfiguration)
	}
	if math.IsNaN(c.MaxRouteTime) || c.MaxRouteTime <= 0 {
		return fmt.Errorf("maxRouteTime must be > 0 (got %v): %w", c.MaxRouteTime, ErrInvalidConfiguration)
	}
	if !c.Depot.finite() {
		return fmt.Errorf("depot (%v,%v) is not finite: %w", c.Depot.X, c.Depot.Y, ErrArithmeticDegenerate)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0 (got %d): %w", c.Workers, ErrInvalidConfiguration)
	}
	if c.PolishIterations < 0 {
		return fmt.Errorf("polishIterations must be >= 0 (got %d): %w", c.PolishIterations, ErrInvalidConfiguration)
	}
	if c.SnapshotEvery < 0 {
		return fmt.Errorf("snapshotEvery must be >= 0 (got %d): %w", c.SnapshotEvery, ErrInvalidConfiguration)
	}
	return nil
}

func checkRate(rate float64) error {
	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		return fmt.Errorf("mutationRate must be in [0,1] (got %v): %w", rate, ErrInvalidConfiguration)
	}
	return nil
}
