package api

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedisBroker(t *testing.T, mr *miniredis.Miniredis) *RedisBroker {
	t.Helper()
	b, err := newRedisBroker(&redis.Options{Addr: mr.Addr(), Protocol: 2})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestRedisBrokerAcrossReplicas(t *testing.T) {
	mr := miniredis.RunT(t)
	solver := newMiniRedisBroker(t, mr)
	streamer := newMiniRedisBroker(t, mr)

	ch := streamer.Subscribe("p1")
	solver.Publish("p1", Event{Type: EventPlanGeneration, Data: map[string]any{"generation": 3}})
	solver.Publish("other", Event{Type: EventPlanGeneration})

	select {
	case evt := <-ch:
		assert.Equal(t, EventPlanGeneration, evt.Type)
		assert.EqualValues(t, 3, evt.Data["generation"])
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
	}
	select {
	case evt := <-ch:
		t.Fatalf("unexpected event %+v", evt)
	case <-time.After(50 * time.Millisecond):
	}

	streamer.Unsubscribe("p1", ch)
	_, ok := <-ch
	assert.False(t, ok)
	assert.NotPanics(t, func() { streamer.Unsubscribe("p1", ch) })
}

func TestNewRedisBrokerBadURL(t *testing.T) {
	_, err := NewRedisBroker("not-a-url")
	assert.Error(t, err)
}
