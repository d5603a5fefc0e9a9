// Package notify defines the transient notification channel shared by the
// request gateway, the CLI commands, and the TUI toast overlay.
package notify

import "time"

// Level represents the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"

	// LevelLoading marks an in-progress notification. It stays visible
	// until it is replaced or dismissed by its Pending handle.
	LevelLoading Level = "loading"

	// LevelDismiss clears a previously published notification carrying
	// the same ID. It is never rendered itself.
	LevelDismiss Level = "dismiss"
)

// Notification represents a single notification event.
type Notification struct {
	ID        int64
	Level     Level
	Message   string
	CreatedAt time.Time
}
