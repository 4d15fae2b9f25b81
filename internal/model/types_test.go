package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"loadplan/internal/opt"
)

func TestNewPlan(t *testing.T) {
	cfg := opt.DefaultConfig()
	cfg.MaxRouteTime = 10
	near := opt.Load{ID: 1, Pickup: opt.Point{X: 1}, Dropoff: opt.Point{X: 2}}
	far := opt.Load{ID: 2, Pickup: opt.Point{X: 50}, Dropoff: opt.Point{X: 60}}
	sol := opt.Solution{
		Routes: []opt.Route{
			{Loads: []opt.Load{near}, Cost: opt.RouteCost([]opt.Load{near}, cfg.Depot)},
			{Loads: []opt.Load{far}, Cost: opt.RouteCost([]opt.Load{far}, cfg.Depot)},
		},
		Order: opt.Candidate{near, far},
		Cost:  opt.RouteCost([]opt.Load{near, far}, cfg.Depot),
	}
	m := opt.Metrics{Generations: 3, Evaluations: 200, BestCost: sol.Cost, Duration: 1500 * time.Millisecond}

	p := NewPlan("p1", "t1", "2026-10-19", cfg, sol, m)
	assert.Equal(t, PlanCompleted, p.Status)
	assert.Equal(t, []PlanRoute{
		{Seq: 1, LoadIDs: []int{1}, Cost: 4},
		{Seq: 2, LoadIDs: []int{2}, Cost: 120, Overflow: true},
	}, p.Routes)
	assert.Equal(t, 124.0, p.TotalCost)
	assert.Equal(t, int64(1500), p.Metrics.DurationMs)
	assert.Equal(t, 1, p.Metrics.OverflowCount)
}
