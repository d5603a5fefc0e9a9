package notify

import (
	"fmt"
	"sync"
	"time"
)

// Subscriber is a callback invoked when a notification is published.
type Subscriber func(Notification)

// Bus is a synchronous in-process notification bus. Subscribers are invoked
// inline on the publishing goroutine; they must hand off to their own event
// loop if they need one (the TUI forwards into the Bubble Tea program).
type Bus struct {
	mu          sync.Mutex
	nextID      int64
	subscribers []Subscriber
}

// NewBus creates an empty notification bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a callback that will be invoked on every Publish.
func (b *Bus) Subscribe(fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// Publish dispatches a notification to all subscribers, assigning an ID if
// the notification doesn't already carry one. The assigned ID is returned.
func (b *Bus) Publish(n Notification) int64 {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	b.mu.Lock()
	if n.ID == 0 {
		b.nextID++
		n.ID = b.nextID
	}
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.Unlock()

	for _, fn := range subs {
		fn(n)
	}

	return n.ID
}

// Errorf publishes an error-level notification.
func (b *Bus) Errorf(format string, args ...any) {
	b.Publish(Notification{
		Level:   LevelError,
		Message: fmt.Sprintf(format, args...),
	})
}

// Warnf publishes a warning-level notification.
func (b *Bus) Warnf(format string, args ...any) {
	b.Publish(Notification{
		Level:   LevelWarning,
		Message: fmt.Sprintf(format, args...),
	})
}

// Infof publishes an info-level notification.
func (b *Bus) Infof(format string, args ...any) {
	b.Publish(Notification{
		Level:   LevelInfo,
		Message: fmt.Sprintf(format, args...),
	})
}

// Pending pairs one loading notification with exactly one settlement.
// All settlement methods are no-ops after the first one.
type Pending struct {
	bus     *Bus
	id      int64
	mu      sync.Mutex
	settled bool
}

// Loading publishes a loading notification and returns its settlement handle.
func (b *Bus) Loading(message string) *Pending {
	id := b.Publish(Notification{
		Level:   LevelLoading,
		Message: message,
	})
	return &Pending{bus: b, id: id}
}

func (p *Pending) settle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.settled {
		return false
	}
	p.settled = true
	return true
}

// Dismiss clears the loading notification without a replacement.
func (p *Pending) Dismiss() {
	if !p.settle() {
		return
	}
	p.bus.Publish(Notification{ID: p.id, Level: LevelDismiss})
}

// Resolve replaces the loading notification with an info-level message.
func (p *Pending) Resolve(message string) {
	if !p.settle() {
		return
	}
	p.bus.Publish(Notification{ID: p.id, Level: LevelInfo, Message: message})
}

// Fail replaces the loading notification with an error-level message.
func (p *Pending) Fail(message string) {
	if !p.settle() {
		return
	}
	p.bus.Publish(Notification{ID: p.id, Level: LevelError, Message: message})
}
