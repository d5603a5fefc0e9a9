package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dermalab/derma/internal/core/notify"
)

func TestToastReplacesCurrent(t *testing.T) {
	now := time.Now()
	tc := NewToastController(5 * time.Second)

	tc.Handle(notify.Notification{ID: 1, Level: notify.LevelError, Message: "first"}, now)
	tc.Handle(notify.Notification{ID: 2, Level: notify.LevelInfo, Message: "second"}, now)

	assert.True(t, tc.Active())
	assert.Contains(t, tc.View(), "second")
	assert.NotContains(t, tc.View(), "first")
}

func TestToastExpiresAfterTTL(t *testing.T) {
	now := time.Now()
	tc := NewToastController(5 * time.Second)

	tc.Handle(notify.Notification{ID: 1, Level: notify.LevelError, Message: "oops"}, now)

	tc.Expire(now.Add(4 * time.Second))
	assert.True(t, tc.Active())

	tc.Expire(now.Add(6 * time.Second))
	assert.False(t, tc.Active())
}

func TestLoadingToastNeverExpires(t *testing.T) {
	now := time.Now()
	tc := NewToastController(5 * time.Second)

	tc.Handle(notify.Notification{ID: 1, Level: notify.LevelLoading, Message: "Loading..."}, now)

	tc.Expire(now.Add(time.Hour))
	assert.True(t, tc.Active())
}

func TestDismissClearsOnlyMatchingID(t *testing.T) {
	now := time.Now()
	tc := NewToastController(5 * time.Second)

	tc.Handle(notify.Notification{ID: 1, Level: notify.LevelLoading, Message: "Loading..."}, now)
	tc.Handle(notify.Notification{ID: 99, Level: notify.LevelDismiss}, now)
	assert.True(t, tc.Active(), "dismiss for an unknown id is a no-op")

	tc.Handle(notify.Notification{ID: 1, Level: notify.LevelDismiss}, now)
	assert.False(t, tc.Active())
}

func TestLoadingMorphsIntoErrorWithSameID(t *testing.T) {
	now := time.Now()
	tc := NewToastController(5 * time.Second)

	tc.Handle(notify.Notification{ID: 7, Level: notify.LevelLoading, Message: "Loading..."}, now)
	tc.Handle(notify.Notification{ID: 7, Level: notify.LevelError, Message: "An unexpected error occurred."}, now)

	assert.Contains(t, tc.View(), "An unexpected error occurred.")

	// The replacement is a regular toast and expires normally.
	tc.Expire(now.Add(6 * time.Second))
	assert.False(t, tc.Active())
}
