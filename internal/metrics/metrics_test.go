package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDefaultIsIdempotent(t *testing.T) {
	RegisterDefault()
	RegisterDefault()

	SolveRuns.WithLabelValues("ok").Inc()

	families, err := Registry.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["loadplan_solve_runs_total"])
	assert.True(t, names["loadplan_solve_duration_seconds"])
	assert.True(t, names["go_goroutines"])
}
