// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Palette colors, tokyo-night.
const (
	ColorPrimary    = lipgloss.Color("#7aa2f7")
	ColorSecondary  = lipgloss.Color("#7dcfff")
	ColorForeground = lipgloss.Color("#c0caf5")
	ColorMuted      = lipgloss.Color("#565f89")
	ColorSurface    = lipgloss.Color("#3b4261")
	ColorSuccess    = lipgloss.Color("#9ece6a")
	ColorWarning    = lipgloss.Color("#e0af68")
	ColorError      = lipgloss.Color("#f7768e")
)

var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().Foreground(ColorSecondary)

	MutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)

	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)

	ErrorStyle = lipgloss.NewStyle().Foreground(ColorError)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSurface).
			Padding(0, 1)
)

// Confidence returns the style for a confidence band name as produced by
// the workflow classifier.
func Confidence(band string) lipgloss.Style {
	switch band {
	case "high":
		return SuccessStyle
	case "medium":
		return WarningStyle
	default:
		return ErrorStyle
	}
}

// FormTheme returns the huh theme used for interactive forms.
func FormTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = t.Focused.Title.Foreground(ColorPrimary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(ColorMuted)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(ColorSecondary)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(ColorForeground)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(ColorError)
	t.Blurred.Title = t.Blurred.Title.Foreground(ColorMuted)

	return t
}
