package workflow

import (
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dermalab/derma/internal/core/history"
	"github.com/dermalab/derma/internal/core/notify"
)

// writePNG creates a tiny valid PNG for selection tests.
func writePNG(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "lesion.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	require.NoError(t, png.Encode(f, img))
	return path
}

func writeText(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))
	return path
}

// countingAnalyzer records calls and returns a canned record or error.
type countingAnalyzer struct {
	calls int
	rec   history.Record
	err   error
	block chan struct{}
}

func (a *countingAnalyzer) analyze(_ context.Context, _ string, r io.Reader) (history.Record, error) {
	a.calls++
	if a.block != nil {
		<-a.block
	}
	_, _ = io.ReadAll(r)
	return a.rec, a.err
}

func TestWorkflow_rejects_non_image_without_state_change(t *testing.T) {
	an := &countingAnalyzer{}
	wf := New(an.analyze, nil)

	err := wf.Select(writeText(t, t.TempDir()))
	require.ErrorIs(t, err, ErrNotImage)

	assert.Equal(t, StateIdle, wf.State())
	assert.Nil(t, wf.Selection())
	assert.Zero(t, an.calls, "no network call may be issued")
}

func TestWorkflow_rejects_non_image_keeps_existing_selection(t *testing.T) {
	dir := t.TempDir()
	wf := New((&countingAnalyzer{}).analyze, nil)

	require.NoError(t, wf.Select(writePNG(t, dir)))
	prior := wf.Selection()

	err := wf.Select(writeText(t, dir))
	require.ErrorIs(t, err, ErrNotImage)

	assert.Equal(t, StateSelected, wf.State())
	assert.Same(t, prior, wf.Selection())
	assert.False(t, prior.Released())
}

func TestWorkflow_new_selection_releases_previous(t *testing.T) {
	dir := t.TempDir()
	wf := New((&countingAnalyzer{}).analyze, nil)

	require.NoError(t, wf.Select(writePNG(t, dir)))
	first := wf.Selection()

	second := filepath.Join(dir, "second.png")
	require.NoError(t, os.Link(first.Path, second))
	require.NoError(t, wf.Select(second))

	assert.True(t, first.Released())
	assert.False(t, wf.Selection().Released())
	assert.Equal(t, second, wf.Selection().Path)
}

func TestWorkflow_analyze_without_selection_is_noop(t *testing.T) {
	an := &countingAnalyzer{}
	wf := New(an.analyze, nil)

	_, err := wf.Analyze(context.Background())
	require.ErrorIs(t, err, ErrNoSelection)
	assert.Equal(t, StateIdle, wf.State())
	assert.Zero(t, an.calls)
}

func TestWorkflow_analyze_success_transitions_to_result(t *testing.T) {
	an := &countingAnalyzer{rec: history.Record{ID: 9, Disease: "Cellulitis", Confidence: 81}}
	wf := New(an.analyze, nil)

	require.NoError(t, wf.Select(writePNG(t, t.TempDir())))
	sel := wf.Selection()

	rec, err := wf.Analyze(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateResult, wf.State())
	assert.Equal(t, "Cellulitis", rec.Disease)
	require.NotNil(t, wf.Result())
	assert.Equal(t, int64(9), wf.Result().ID)

	// Selection is discarded and its preview handle released on success.
	assert.Nil(t, wf.Selection())
	assert.True(t, sel.Released())
}

func TestWorkflow_analyze_failure_retains_selection_for_retry(t *testing.T) {
	an := &countingAnalyzer{err: errors.New("server exploded")}
	wf := New(an.analyze, nil)

	require.NoError(t, wf.Select(writePNG(t, t.TempDir())))
	sel := wf.Selection()

	_, err := wf.Analyze(context.Background())
	require.Error(t, err)

	assert.Equal(t, StateSelected, wf.State())
	assert.Same(t, sel, wf.Selection())
	assert.False(t, sel.Released())
	assert.Nil(t, wf.Result())
}

func TestWorkflow_unreadable_selection_is_published_on_bus(t *testing.T) {
	bus := notify.NewBus()
	var received []notify.Notification
	bus.Subscribe(func(n notify.Notification) {
		received = append(received, n)
	})

	an := &countingAnalyzer{}
	wf := New(an.analyze, bus)

	require.NoError(t, wf.Select(writePNG(t, t.TempDir())))

	// Invalidate the preview handle behind the workflow's back, as a
	// caller holding a stale Selection could.
	wf.Selection().Release()

	_, err := wf.Analyze(context.Background())
	require.Error(t, err)
	assert.Zero(t, an.calls, "a selection that cannot be read must not be submitted")

	require.Len(t, received, 1)
	assert.Equal(t, notify.LevelError, received[0].Level)
	assert.Equal(t, err.Error(), received[0].Message)
	assert.Equal(t, StateSelected, wf.State())
}

func TestWorkflow_second_analyze_rejected_while_in_flight(t *testing.T) {
	an := &countingAnalyzer{block: make(chan struct{})}
	wf := New(an.analyze, nil)

	require.NoError(t, wf.Select(writePNG(t, t.TempDir())))

	done := make(chan struct{})
	go func() {
		_, _ = wf.Analyze(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool {
		return wf.State() == StateAnalyzing
	}, time.Second, time.Millisecond)

	_, err := wf.Analyze(context.Background())
	assert.ErrorIs(t, err, ErrAnalysisInFlight)

	close(an.block)
	<-done
	assert.Equal(t, 1, an.calls)
}

func TestWorkflow_reset_releases_everything(t *testing.T) {
	wf := New((&countingAnalyzer{}).analyze, nil)

	require.NoError(t, wf.Select(writePNG(t, t.TempDir())))
	sel := wf.Selection()

	wf.Reset()

	assert.Equal(t, StateIdle, wf.State())
	assert.Nil(t, wf.Selection())
	assert.Nil(t, wf.Result())
	assert.True(t, sel.Released())
}

func TestWorkflow_reset_dismisses_displayed_result(t *testing.T) {
	wf := New((&countingAnalyzer{}).analyze, nil)

	wf.ShowRecord(history.Record{ID: 7, Disease: "Impetigo"})
	require.Equal(t, StateResult, wf.State())

	wf.Reset()

	assert.Equal(t, StateIdle, wf.State())
	assert.Nil(t, wf.Result())
}

func TestWorkflow_discard_returns_to_idle(t *testing.T) {
	wf := New((&countingAnalyzer{}).analyze, nil)

	require.NoError(t, wf.Select(writePNG(t, t.TempDir())))
	sel := wf.Selection()

	wf.Discard()

	assert.Equal(t, StateIdle, wf.State())
	assert.True(t, sel.Released())
}

func TestWorkflow_show_record_displays_history_item(t *testing.T) {
	wf := New((&countingAnalyzer{}).analyze, nil)

	require.NoError(t, wf.Select(writePNG(t, t.TempDir())))
	sel := wf.Selection()

	wf.ShowRecord(history.Record{ID: 4, Disease: "Shingles"})

	assert.Equal(t, StateResult, wf.State())
	assert.Nil(t, wf.Selection())
	assert.True(t, sel.Released())
	require.NotNil(t, wf.Result())
	assert.Equal(t, int64(4), wf.Result().ID)
}

func TestWorkflow_close_releases_selection(t *testing.T) {
	wf := New((&countingAnalyzer{}).analyze, nil)

	require.NoError(t, wf.Select(writePNG(t, t.TempDir())))
	sel := wf.Selection()

	wf.Close()
	assert.True(t, sel.Released())
}
