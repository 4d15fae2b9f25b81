//go:build postgres_integration

package store

import (
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loadplan/internal/model"
	"loadplan/internal/opt"
)

func TestPostgresRoundTrip(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}
	p, err := NewPostgres(dsn)
	require.NoError(t, err)
	defer p.Close()
	ctx := t.Context()
	require.NoError(t, p.Migrate(ctx))

	tenant := "t_" + uuid.NewString()
	created, skipped, err := p.CreateLoads(ctx, tenant, []opt.Load{{ID: 2}, {ID: 1, Pickup: opt.Point{X: 1, Y: 2}}})
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, 0, skipped)
	_, skipped, err = p.CreateLoads(ctx, tenant, []opt.Load{{ID: 1}})
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)

	loads, err := p.AllLoads(ctx, tenant)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, opt.Candidate(loads).IDs())

	wide := "t_" + uuid.NewString()
	_, _, err = p.CreateLoads(ctx, wide, []opt.Load{{ID: 1 << 40}})
	require.NoError(t, err)
	wideLoads, err := p.AllLoads(ctx, wide)
	require.NoError(t, err)
	assert.Equal(t, []int{1 << 40}, opt.Candidate(wideLoads).IDs())

	sol, m, err := opt.Solve(ctx, loads, opt.Config{PopulationSize: 4, Generations: 2, EliteCount: 1, TournamentPoolSize: 2, MaxRouteTime: 720, Seed: 1})
	require.NoError(t, err)
	plan := model.NewPlan(uuid.NewString(), tenant, "2026-10-19", opt.DefaultConfig(), sol, m)
	require.NoError(t, p.SavePlan(ctx, plan))
	got, err := p.GetPlan(ctx, tenant, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.Routes, got.Routes)

	list, _, err := p.ListPlans(ctx, tenant, "2026-10-19", "", 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = p.GetSolverConfig(ctx, tenant)
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, p.SaveSolverConfig(ctx, tenant, opt.DefaultConfig()))
	cfg, err := p.GetSolverConfig(ctx, tenant)
	require.NoError(t, err)
	assert.Equal(t, opt.DefaultConfig(), cfg)
}
