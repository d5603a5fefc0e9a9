package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dermalab/derma/internal/core/styles"
	"github.com/dermalab/derma/internal/core/workflow"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.gateOpen {
		return m.viewGuestWarning()
	}

	if m.loading {
		return m.centered(m.spin.View() + " Loading your dashboard...")
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")

	switch {
	case m.analyzing:
		b.WriteString(m.centered(m.spin.View() + " Analyzing image..."))
	case m.wf.State() == workflow.StateResult:
		b.WriteString(m.viewResult())
	default:
		b.WriteString(m.viewMain())
	}

	if toast := m.toasts.View(); toast != "" {
		b.WriteString("\n\n")
		b.WriteString(toast)
	}

	b.WriteString("\n\n")
	b.WriteString(m.viewHelp())
	return b.String()
}

func (m Model) viewHeader() string {
	title := styles.TitleStyle.Render("DermaAI")
	if m.guest {
		return title + "  " + styles.WarningStyle.Render("guest mode")
	}
	who := m.user.FullName
	if who == "" {
		who = m.user.Email
	}
	return title + "  " + styles.MutedStyle.Render(who)
}

func (m Model) viewGuestWarning() string {
	body := []string{
		styles.TitleStyle.Render("You are in Guest Mode"),
		"",
		"Your analysis history will not be saved. To keep a",
		"record of your results, please create an account or",
		"log in.",
		"",
		styles.MutedStyle.Render("enter: continue as guest  q: quit"),
	}
	return m.centered(styles.BorderStyle.Render(strings.Join(body, "\n")))
}

func (m Model) viewMain() string {
	left := m.viewPicker()
	if m.guest {
		return left
	}
	right := m.viewHistory()
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

func (m Model) viewPicker() string {
	var b strings.Builder

	label := "Select an image"
	if m.focus == focusPicker && !m.guest {
		label = styles.SubtitleStyle.Render(label)
	} else {
		label = styles.MutedStyle.Render(label)
	}
	b.WriteString(label + "\n")

	if sel := m.wf.Selection(); sel != nil {
		b.WriteString(styles.SuccessStyle.Render(fmt.Sprintf("✓ %s (%dx%d)", filepath.Base(sel.Path), sel.Width, sel.Height)))
		b.WriteString(styles.MutedStyle.Render("  press a to analyze"))
		b.WriteString("\n")
	}

	b.WriteString(m.picker.View())
	return b.String()
}

func (m Model) viewResult() string {
	rec := m.wf.Result()
	if rec == nil {
		return ""
	}

	band := workflow.Classify(rec.Confidence)

	lines := []string{
		styles.TitleStyle.Render("Analysis Result"),
		"",
		styles.SubtitleStyle.Render(rec.Disease),
		styles.Confidence(string(band)).Render(fmt.Sprintf("%.1f%% confidence (%s)", rec.Confidence, band)),
	}
	if !rec.Timestamp.IsZero() {
		lines = append(lines, styles.MutedStyle.Render(rec.Timestamp.DateLabel()+" "+rec.Timestamp.ClockLabel()))
	}
	lines = append(lines,
		"",
		styles.MutedStyle.Render("This is not a medical diagnosis. Consult a dermatologist."),
		"",
		styles.MutedStyle.Render("esc: back"),
	)

	return m.centered(styles.BorderStyle.Render(strings.Join(lines, "\n")))
}

func (m Model) viewHistory() string {
	var b strings.Builder

	label := "History"
	if m.focus == focusHistory {
		label = styles.SubtitleStyle.Render(label)
	} else {
		label = styles.MutedStyle.Render(label)
	}
	b.WriteString(label + "\n")

	if len(m.groups) == 0 {
		b.WriteString(styles.MutedStyle.Render("No analyses yet."))
		return b.String()
	}

	idx := 0
	for _, group := range m.groups {
		b.WriteString(styles.MutedStyle.Render(group.Label) + "\n")
		for _, rec := range group.Records {
			band := workflow.Classify(rec.Confidence)
			line := fmt.Sprintf("%s  %s %s",
				rec.Timestamp.ClockLabel(),
				rec.Disease,
				styles.Confidence(string(band)).Render(fmt.Sprintf("%.0f%%", rec.Confidence)),
			)
			if idx == m.cursor && m.focus == focusHistory {
				line = styles.SubtitleStyle.Render("> ") + line
			} else {
				line = "  " + line
			}
			b.WriteString(line + "\n")
			idx++
		}
	}

	return b.String()
}

func (m Model) viewHelp() string {
	if m.guest {
		return styles.MutedStyle.Render("a: analyze  q: quit")
	}
	return styles.MutedStyle.Render("tab: switch pane  a: analyze  enter: open  d: delete  r: refresh  q: quit")
}

func (m Model) centered(s string) string {
	if m.width == 0 {
		return s
	}
	return lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Top, s)
}
