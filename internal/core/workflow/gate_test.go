package workflow

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuestGate_warns_exactly_once(t *testing.T) {
	gate := NewGuestGate()

	assert.True(t, gate.ShouldShowWarning())
	for i := 0; i < 10; i++ {
		assert.False(t, gate.ShouldShowWarning())
	}
}

func TestGuestGate_exactly_once_under_concurrency(t *testing.T) {
	gate := NewGuestGate()

	var trues atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if gate.ShouldShowWarning() {
				trues.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), trues.Load())
}
