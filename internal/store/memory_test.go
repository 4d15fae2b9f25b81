package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loadplan/internal/model"
	"loadplan/internal/opt"
)

func TestMemoryLoadsDedupAndPaging(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	created, skipped, err := m.CreateLoads(ctx, "t1", []opt.Load{{ID: 3}, {ID: 1}, {ID: 2}})
	require.NoError(t, err)
	assert.Equal(t, 3, created)
	assert.Equal(t, 0, skipped)

	created, skipped, err = m.CreateLoads(ctx, "t1", []opt.Load{{ID: 2}, {ID: 4}})
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, skipped)

	page, next, err := m.ListLoads(ctx, "t1", "", 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, opt.Candidate(page).IDs())
	assert.Equal(t, "3", next)
	page, next, err = m.ListLoads(ctx, "t1", next, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, opt.Candidate(page).IDs())
	assert.Empty(t, next)

	other, err := m.AllLoads(ctx, "t2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMemoryPlans(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	for i, date := range []string{"2026-10-19", "2026-10-20", "2026-10-19"} {
		require.NoError(t, m.SavePlan(ctx, model.Plan{ID: string(rune('a' + i)), TenantID: "t1", PlanDate: date}))
	}
	_, err := m.GetPlan(ctx, "t2", "a")
	require.ErrorIs(t, err, ErrNotFound)
	p, err := m.GetPlan(ctx, "t1", "b")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-20", p.PlanDate)

	list, next, err := m.ListPlans(ctx, "t1", "2026-10-19", "", 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "a", next)
	list, next, err = m.ListPlans(ctx, "t1", "2026-10-19", next, 1)
	require.NoError(t, err)
	assert.Equal(t, "c", list[0].ID)
	assert.Empty(t, next)
}

func TestMemorySolverConfig(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	_, err := m.GetSolverConfig(ctx, "t1")
	require.ErrorIs(t, err, ErrNotFound)
	cfg := opt.DefaultConfig()
	cfg.Generations = 7
	require.NoError(t, m.SaveSolverConfig(ctx, "t1", cfg))
	got, err := m.GetSolverConfig(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestMemorySubscriptions(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	s, err := m.CreateSubscription(ctx, model.SubscriptionRequest{TenantID: "t1", URL: "http://x", Events: []string{"plan.completed"}})
	require.NoError(t, err)
	subs, err := m.GetSubscriptionsForEvent(ctx, "t1", "plan.completed")
	require.NoError(t, err)
	assert.Len(t, subs, 1)
	subs, err = m.GetSubscriptionsForEvent(ctx, "t1", "plan.generation")
	require.NoError(t, err)
	assert.Empty(t, subs)

	require.NoError(t, m.DeleteSubscription(ctx, "t1", s.ID))
	require.ErrorIs(t, m.DeleteSubscription(ctx, "t1", s.ID), ErrNotFound)
}

func TestMemoryWebhookLifecycle(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	payload := []byte(`{"id":"evt_1"}`)
	id, err := m.EnqueueWebhook(ctx, "t1", "s1", "plan.completed", "http://x", "sec", payload)
	require.NoError(t, err)
	again, err := m.EnqueueWebhook(ctx, "t1", "s1", "plan.completed", "http://x", "sec", payload)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	due, err := m.FetchDueWebhookDeliveries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)

	later := time.Now().Add(time.Hour)
	require.NoError(t, m.MarkWebhookDelivery(ctx, id, false, &later, "boom", 500, 3))
	due, err = m.FetchDueWebhookDeliveries(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, due)

	require.NoError(t, m.RetryWebhookDelivery(ctx, "t1", id))
	due, err = m.FetchDueWebhookDeliveries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, 1, due[0].Attempts)

	require.NoError(t, m.FailWebhookDelivery(ctx, id, "gone", 410, 2))
	list, err := m.ListWebhookDeliveries(ctx, "t1", DeliveryFailed, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].Attempts)
	assert.Equal(t, "gone", list[0].LastError)
	assert.Nil(t, list[0].NextAttemptAt)
}
