package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishToUserStreams(t *testing.T) {
	h := NewHub()

	a1, cleanA1 := h.Subscribe("alice")
	a2, cleanA2 := h.Subscribe("alice")
	b, cleanB := h.Subscribe("bob")
	defer cleanB()

	assert.Equal(t, 2, h.SubscriberCount("alice"))
	assert.Equal(t, 3, h.TotalSubscribers())

	n := h.Publish("alice", Event{UserID: "alice", Event: "attendance.clock_in", Data: "x"})
	assert.Equal(t, 2, n)

	ev := <-a1
	assert.Equal(t, "attendance.clock_in", ev.Event)
	ev = <-a2
	assert.Equal(t, "x", ev.Data)
	assert.Len(t, b, 0)

	cleanA1()
	cleanA1()
	cleanA2()
	assert.Equal(t, 0, h.SubscriberCount("alice"))

	_, open := <-a1
	assert.False(t, open)
}

func TestHub_FullSubscriberDropsInsteadOfBlocking(t *testing.T) {
	h := NewHubWithBuffer(1)
	ch, cleanup := h.Subscribe("alice")
	defer cleanup()

	require.Equal(t, 1, h.Publish("alice", Event{Event: "first"}))
	assert.Equal(t, 0, h.Publish("alice", Event{Event: "second"}))
	assert.Equal(t, int64(1), h.Dropped())

	ev := <-ch
	assert.Equal(t, "first", ev.Event)
}

func TestHub_PublishWithoutSubscribers(t *testing.T) {
	h := NewHub()
	assert.Equal(t, 0, h.Publish("nobody", Event{Event: "x"}))
	assert.Equal(t, int64(0), h.Dropped())
}
