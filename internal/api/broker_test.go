package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerPublishSubscribe(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("p1")

	b.Publish("p1", Event{Type: "test.event", Data: map[string]any{"x": 1}})

	select {
	case got := <-ch:
		assert.Equal(t, "test.event", got.Type)
		assert.Equal(t, 1, got.Data["x"])
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for event")
	}

	b.Unsubscribe("p1", ch)
	_, ok := <-ch
	assert.False(t, ok, "channel should be closed after unsubscribe")
	// second unsubscribe is a no-op
	assert.NotPanics(t, func() { b.Unsubscribe("p1", ch) })
}

func TestBrokerIsolatesPlans(t *testing.T) {
	b := NewBroker()
	a := b.Subscribe("a")
	other := b.Subscribe("b")
	defer b.Unsubscribe("a", a)
	defer b.Unsubscribe("b", other)

	b.Publish("a", Event{Type: EventPlanGeneration})
	require.Len(t, a, 1)
	assert.Len(t, other, 0)
}

func TestBrokerDropsWhenFull(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("p")
	defer b.Unsubscribe("p", ch)
	for i := 0; i < cap(ch)+5; i++ {
		b.Publish("p", Event{Type: EventPlanGeneration, Data: map[string]any{"generation": i}})
	}
	assert.Len(t, ch, cap(ch))
}
