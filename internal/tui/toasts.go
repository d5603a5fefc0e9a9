package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dermalab/derma/internal/core/notify"
	"github.com/dermalab/derma/internal/core/styles"
)

// ToastController renders bus notifications as a single-slot overlay.
// A new notification replaces whatever is showing. Publishing with the
// ID of the visible toast updates it in place, which is how a loading
// toast morphs into its error. Loading toasts never expire on their
// own; everything else clears after the configured TTL.
type ToastController struct {
	ttl       time.Duration
	current   *notify.Notification
	expiresAt time.Time
}

// NewToastController creates a controller with the given toast lifetime.
func NewToastController(ttl time.Duration) *ToastController {
	return &ToastController{ttl: ttl}
}

// Handle applies one notification at the given time.
func (t *ToastController) Handle(n notify.Notification, now time.Time) {
	if n.Level == notify.LevelDismiss {
		if t.current != nil && t.current.ID == n.ID {
			t.current = nil
		}
		return
	}

	t.current = &n
	if n.Level == notify.LevelLoading {
		t.expiresAt = time.Time{}
	} else {
		t.expiresAt = now.Add(t.ttl)
	}
}

// Expire clears the toast once its lifetime has passed.
func (t *ToastController) Expire(now time.Time) {
	if t.current == nil || t.expiresAt.IsZero() {
		return
	}
	if now.After(t.expiresAt) {
		t.current = nil
	}
}

// Active reports whether a toast is showing.
func (t *ToastController) Active() bool {
	return t.current != nil
}

// View renders the toast, or an empty string when nothing is showing.
func (t *ToastController) View() string {
	if t.current == nil {
		return ""
	}

	var style lipgloss.Style
	var prefix string
	switch t.current.Level {
	case notify.LevelError:
		style, prefix = styles.ErrorStyle, "✗ "
	case notify.LevelWarning:
		style, prefix = styles.WarningStyle, "! "
	case notify.LevelLoading:
		style, prefix = styles.SubtitleStyle, "… "
	default:
		style, prefix = styles.SuccessStyle, "✓ "
	}

	return styles.BorderStyle.Render(style.Render(prefix + t.current.Message))
}
