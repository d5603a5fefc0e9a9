// Package workflow implements the diagnosis state machine shared by the
// authenticated and guest analysis surfaces: image selection, preview,
// analysis submission, result display, reset.
package workflow

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/dermalab/derma/internal/core/history"
	"github.com/dermalab/derma/internal/core/notify"
)

// State is the workflow's current position.
type State int

const (
	StateIdle State = iota
	StateSelected
	StateAnalyzing
	StateResult
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSelected:
		return "selected"
	case StateAnalyzing:
		return "analyzing"
	case StateResult:
		return "result"
	default:
		return "unknown"
	}
}

var (
	// ErrNoSelection rejects Analyze without a selected image.
	ErrNoSelection = errors.New("Please select a file first.")

	// ErrAnalysisInFlight rejects Select/Analyze while a submission is
	// outstanding, instead of relying on the caller disabling its
	// trigger.
	ErrAnalysisInFlight = errors.New("analysis already in progress")
)

// Analyzer performs the prediction call. The guest and authenticated
// variants differ only in which endpoint this hits.
type Analyzer func(ctx context.Context, filename string, r io.Reader) (history.Record, error)

// Workflow drives one analysis surface. Not safe for concurrent use of
// the mutating methods from multiple goroutines except Analyze completion,
// which is internally synchronized.
type Workflow struct {
	mu      sync.Mutex
	state   State
	sel     *Selection
	result  *history.Record
	analyze Analyzer
	bus     *notify.Bus
}

// New creates an idle workflow submitting through analyze. bus carries
// failures that happen before the submission reaches the gateway; it may
// be nil.
func New(analyze Analyzer, bus *notify.Bus) *Workflow {
	return &Workflow{analyze: analyze, bus: bus}
}

// State returns the current state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Selection returns the active selection, or nil.
func (w *Workflow) Selection() *Selection {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sel
}

// Result returns the active diagnosis, or nil.
func (w *Workflow) Result() *history.Record {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}

// Select adopts exactly one image file. Invalid files produce a
// validation error with no state change and no network traffic. A prior
// selection is discarded, and its preview handle released, before the new
// one is adopted; any displayed result is cleared.
func (w *Workflow) Select(path string) error {
	w.mu.Lock()
	if w.state == StateAnalyzing {
		w.mu.Unlock()
		return ErrAnalysisInFlight
	}
	w.mu.Unlock()

	sel, err := NewSelection(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.sel != nil {
		w.sel.Release()
	}
	w.sel = sel
	w.result = nil
	w.state = StateSelected
	return nil
}

// Analyze submits the selected image. On success the returned record
// becomes the active result and the selection is discarded; on failure
// the selection is retained so the user can retry. Gateway errors are
// already surfaced on the notification bus by the request gateway; a
// selection that can no longer be read never reaches the gateway, so
// that failure is published here.
func (w *Workflow) Analyze(ctx context.Context) (history.Record, error) {
	w.mu.Lock()
	if w.state == StateAnalyzing {
		w.mu.Unlock()
		return history.Record{}, ErrAnalysisInFlight
	}
	if w.sel == nil {
		w.mu.Unlock()
		return history.Record{}, ErrNoSelection
	}
	sel := w.sel
	w.state = StateAnalyzing
	w.mu.Unlock()

	r, err := sel.Reader()
	if err != nil {
		if w.bus != nil {
			w.bus.Errorf("%s", err)
		}
		w.mu.Lock()
		w.state = StateSelected
		w.mu.Unlock()
		return history.Record{}, err
	}

	rec, err := w.analyze(ctx, sel.Path, r)
	if err != nil {
		w.mu.Lock()
		w.state = StateSelected
		w.mu.Unlock()
		return history.Record{}, err
	}

	w.mu.Lock()
	sel.Release()
	w.sel = nil
	w.result = &rec
	w.state = StateResult
	w.mu.Unlock()
	return rec, nil
}

// ShowRecord displays a historical record as the active result,
// discarding any selection (authenticated variant's history click).
func (w *Workflow) ShowRecord(rec history.Record) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateAnalyzing {
		return
	}
	if w.sel != nil {
		w.sel.Release()
		w.sel = nil
	}
	w.result = &rec
	w.state = StateResult
}

// Discard drops the selection before submission (Selected -> Idle).
func (w *Workflow) Discard() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateSelected {
		return
	}
	if w.sel != nil {
		w.sel.Release()
		w.sel = nil
	}
	w.state = StateIdle
}

// Reset clears selection, preview, and result (-> Idle).
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateAnalyzing {
		return
	}
	if w.sel != nil {
		w.sel.Release()
		w.sel = nil
	}
	w.result = nil
	w.state = StateIdle
}

// Close releases held resources on teardown.
func (w *Workflow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.sel != nil {
		w.sel.Release()
		w.sel = nil
	}
}
