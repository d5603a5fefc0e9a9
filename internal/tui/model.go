// Package tui implements the interactive terminal client: image picking,
// analysis, the result card, and the saved history sidebar.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dermalab/derma/internal/api"
	"github.com/dermalab/derma/internal/core/history"
	"github.com/dermalab/derma/internal/core/notify"
	"github.com/dermalab/derma/internal/core/styles"
	"github.com/dermalab/derma/internal/core/workflow"
	"github.com/dermalab/derma/internal/derma"
)

// focus identifies which pane receives navigation keys.
type focus int

const (
	focusPicker focus = iota
	focusHistory
)

// Messages.
type (
	// NotifyMsg forwards one bus notification into the program.
	NotifyMsg notify.Notification

	toastTickMsg time.Time

	dashboardLoadedMsg struct {
		dash *derma.Dashboard
		err  error
	}

	analyzeDoneMsg struct {
		rec history.Record
		err error
	}

	historyRefreshedMsg struct {
		records []history.Record
		err     error
	}
)

// Deps are the collaborators the TUI needs.
type Deps struct {
	App *derma.App
}

type Model struct {
	deps Deps

	// ctx scopes every fetch the TUI starts; teardown cancels it so
	// nothing lands after the program exits.
	ctx    context.Context
	cancel context.CancelFunc

	guest     bool
	gateOpen  bool
	user      api.User
	loading   bool
	analyzing bool

	wf      *workflow.Workflow
	records []history.Record
	groups  []history.Group
	cursor  int

	focus  focus
	picker filepicker.Model
	spin   spinner.Model
	toasts *ToastController

	width    int
	height   int
	quitting bool
}

// New builds the TUI model. The returned cancel func must run after the
// program exits; cmd_tui owns that.
func New(deps Deps) Model {
	ctx, cancel := context.WithCancel(context.Background())

	guest := !deps.App.Client.IsLoggedIn()

	fp := filepicker.New()
	fp.AllowedTypes = []string{".jpg", ".jpeg", ".png"}
	fp.DirAllowed = false
	fp.FileAllowed = true

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = sp.Style.Foreground(styles.ColorSecondary)

	return Model{
		deps:     deps,
		ctx:      ctx,
		cancel:   cancel,
		guest:    guest,
		gateOpen: guest && deps.App.Gate.ShouldShowWarning(),
		loading:  !guest,
		wf:       deps.App.NewWorkflow(guest),
		picker:   fp,
		spin:     sp,
		toasts:   NewToastController(deps.App.Config.ToastTTL()),
	}
}

// Teardown cancels in-flight work and releases the workflow's file
// handles. Called by cmd_tui after the program exits.
func (m Model) Teardown() {
	m.cancel()
	m.wf.Close()
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.picker.Init(), m.toastTick()}
	if !m.guest {
		cmds = append(cmds, m.spin.Tick, m.loadDashboard())
	}
	return tea.Batch(cmds...)
}

func (m Model) loadDashboard() tea.Cmd {
	ctx := m.ctx
	app := m.deps.App
	return func() tea.Msg {
		dash, err := app.LoadDashboard(ctx)
		return dashboardLoadedMsg{dash: dash, err: err}
	}
}

func (m Model) refreshHistory() tea.Cmd {
	ctx := m.ctx
	app := m.deps.App
	return func() tea.Msg {
		records, err := app.FetchHistory(ctx)
		return historyRefreshedMsg{records: records, err: err}
	}
}

func (m Model) deleteRecord(id int64) tea.Cmd {
	ctx := m.ctx
	app := m.deps.App
	return func() tea.Msg {
		records, err := app.DeleteRecord(ctx, id)
		return historyRefreshedMsg{records: records, err: err}
	}
}

func (m Model) analyze() tea.Cmd {
	ctx := m.ctx
	wf := m.wf
	return func() tea.Msg {
		rec, err := wf.Analyze(ctx)
		return analyzeDoneMsg{rec: rec, err: err}
	}
}

func (m Model) toastTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

func (m *Model) setRecords(records []history.Record) {
	m.records = records
	m.groups = history.GroupByDate(records)
	total := len(history.Flatten(m.groups))
	if m.cursor >= total {
		m.cursor = max(0, total-1)
	}
}

// selectedRecord returns the history record under the cursor.
func (m Model) selectedRecord() (history.Record, bool) {
	flat := history.Flatten(m.groups)
	if m.cursor < 0 || m.cursor >= len(flat) {
		return history.Record{}, false
	}
	return flat[m.cursor], true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.picker.Height = max(5, msg.Height-10)
		return m, nil

	case NotifyMsg:
		m.toasts.Handle(notify.Notification(msg), time.Now())
		return m, nil

	case toastTickMsg:
		m.toasts.Expire(time.Time(msg))
		return m, m.toastTick()

	case dashboardLoadedMsg:
		m.loading = false
		if msg.err != nil {
			// Treat a failed dashboard load as a dead session and fall
			// back to guest mode, matching the login redirect on the web.
			m.guest = true
			m.wf.Close()
			m.wf = m.deps.App.NewWorkflow(true)
			m.gateOpen = m.deps.App.Gate.ShouldShowWarning()
			return m, nil
		}
		m.user = msg.dash.User
		m.setRecords(msg.dash.History)
		return m, nil

	case historyRefreshedMsg:
		if msg.err == nil {
			m.setRecords(msg.records)
		}
		return m, nil

	case analyzeDoneMsg:
		m.analyzing = false
		if msg.err != nil {
			// Already surfaced as a toast, by the gateway or by the
			// workflow for a selection that could not be read; the
			// selection is retained for another attempt.
			return m, nil
		}
		if m.guest {
			return m, nil
		}
		return m, m.refreshHistory()

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case spinner.TickMsg:
		if m.analyzing || m.loading {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The guest warning modal swallows everything until acknowledged.
	if m.gateOpen {
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case "enter", "esc":
			m.gateOpen = false
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	}

	if m.analyzing || m.loading {
		// Everything except quit is ignored while a request runs; a
		// second analyze must not start.
		return m, nil
	}

	// Result card showing. Reset clears the displayed record and returns
	// to the picker, like the web client's "Analyze Another Image".
	if m.wf.State() == workflow.StateResult {
		switch msg.String() {
		case "esc", "enter", "backspace":
			m.wf.Reset()
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		// Drop a pending selection; otherwise esc stays with the picker,
		// which uses it to go up a directory.
		if m.wf.State() == workflow.StateSelected {
			m.wf.Discard()
			return m, nil
		}

	case "tab":
		if !m.guest {
			if m.focus == focusPicker {
				m.focus = focusHistory
			} else {
				m.focus = focusPicker
			}
		}
		return m, nil

	case "a":
		if m.wf.State() == workflow.StateSelected {
			m.analyzing = true
			return m, tea.Batch(m.spin.Tick, m.analyze())
		}
		return m, nil

	case "r":
		if !m.guest {
			return m, m.refreshHistory()
		}
		return m, nil
	}

	if m.focus == focusHistory {
		return m.updateHistoryKeys(msg)
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		if err := m.wf.Select(path); err != nil {
			m.deps.App.Bus.Errorf("%s", err.Error())
		}
	}

	return m, cmd
}

func (m Model) updateHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	flat := history.Flatten(m.groups)

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(flat)-1 {
			m.cursor++
		}
	case "enter":
		if rec, ok := m.selectedRecord(); ok {
			m.wf.ShowRecord(rec)
		}
	case "d":
		if rec, ok := m.selectedRecord(); ok {
			return m, m.deleteRecord(rec.ID)
		}
	}

	return m, nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
