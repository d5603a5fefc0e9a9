package tui

import (
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dermalab/derma/internal/api"
	"github.com/dermalab/derma/internal/core/config"
	"github.com/dermalab/derma/internal/core/history"
	"github.com/dermalab/derma/internal/core/notify"
	"github.com/dermalab/derma/internal/core/workflow"
	"github.com/dermalab/derma/internal/derma"
)

// newTestModel builds a guest-mode model against a stub server, with the
// one-time guest warning already acknowledged.
func newTestModel(t *testing.T) Model {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	jar, err := api.OpenJar(filepath.Join(t.TempDir(), "cookies.json"))
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	bus := notify.NewBus()
	client := api.NewClient(srv.URL, jar, bus, zerolog.Nop())
	app := derma.NewApp(client, bus, &cfg, nil, zerolog.Nop())
	app.Gate.ShouldShowWarning()

	m := New(Deps{App: app})
	t.Cleanup(m.Teardown)
	return m
}

func pressKey(t *testing.T, m Model, key tea.KeyMsg) Model {
	t.Helper()

	next, _ := m.Update(key)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func TestModel_result_card_dismisses_back_to_picker(t *testing.T) {
	m := newTestModel(t)

	m.wf.ShowRecord(history.Record{ID: 3, Disease: "Shingles", Confidence: 88})
	require.Equal(t, workflow.StateResult, m.wf.State())

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, workflow.StateIdle, m.wf.State())
	assert.Nil(t, m.wf.Result())
}

func TestModel_esc_drops_pending_selection(t *testing.T) {
	m := newTestModel(t)

	path := filepath.Join(t.TempDir(), "lesion.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	require.NoError(t, f.Close())

	require.NoError(t, m.wf.Select(path))
	require.Equal(t, workflow.StateSelected, m.wf.State())

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, workflow.StateIdle, m.wf.State())
	assert.Nil(t, m.wf.Selection())
}

func TestModel_result_card_ignores_other_keys(t *testing.T) {
	m := newTestModel(t)

	m.wf.ShowRecord(history.Record{ID: 3, Disease: "Shingles", Confidence: 88})

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	assert.Equal(t, workflow.StateResult, m.wf.State())

	m = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, workflow.StateIdle, m.wf.State())
}
