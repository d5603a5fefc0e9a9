package workflow

import "sync"

// GuestGate guarantees the guest-mode informational warning is shown at
// most once per process lifetime, surviving any number of view remounts.
// It is created once at startup and passed by reference to consumers
// rather than living as a bare package variable.
type GuestGate struct {
	mu    sync.Mutex
	shown bool
}

// NewGuestGate returns a gate in the "not yet shown" state.
func NewGuestGate() *GuestGate {
	return &GuestGate{}
}

// ShouldShowWarning returns true on the first call and false forever
// after. The flip is irreversible.
func (g *GuestGate) ShouldShowWarning() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.shown {
		return false
	}
	g.shown = true
	return true
}
