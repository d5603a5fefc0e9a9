package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_Publish_dispatches_to_subscribers(t *testing.T) {
	bus := NewBus()

	var received []Notification
	bus.Subscribe(func(n Notification) {
		received = append(received, n)
	})

	bus.Errorf("test error: %d", 42)
	bus.Infof("info msg")
	bus.Warnf("warn msg")

	require.Len(t, received, 3)
	assert.Equal(t, LevelError, received[0].Level)
	assert.Equal(t, "test error: 42", received[0].Message)
	assert.Equal(t, LevelInfo, received[1].Level)
	assert.Equal(t, LevelWarning, received[2].Level)
}

func TestBus_Publish_assigns_unique_ids(t *testing.T) {
	bus := NewBus()

	id1 := bus.Publish(Notification{Level: LevelInfo, Message: "a"})
	id2 := bus.Publish(Notification{Level: LevelInfo, Message: "b"})

	assert.NotZero(t, id1)
	assert.NotEqual(t, id1, id2)
}

func TestBus_Loading_fail_replaces_with_same_id(t *testing.T) {
	bus := NewBus()

	var received []Notification
	bus.Subscribe(func(n Notification) {
		received = append(received, n)
	})

	p := bus.Loading("Loading...")
	p.Fail("boom")

	require.Len(t, received, 2)
	assert.Equal(t, LevelLoading, received[0].Level)
	assert.Equal(t, LevelError, received[1].Level)
	assert.Equal(t, "boom", received[1].Message)
	assert.Equal(t, received[0].ID, received[1].ID)
}

func TestBus_Loading_settles_at_most_once(t *testing.T) {
	bus := NewBus()

	var received []Notification
	bus.Subscribe(func(n Notification) {
		received = append(received, n)
	})

	p := bus.Loading("Loading...")
	p.Dismiss()
	p.Fail("too late")
	p.Resolve("also too late")

	// One loading event plus exactly one settlement.
	require.Len(t, received, 2)
	assert.Equal(t, LevelDismiss, received[1].Level)
}
