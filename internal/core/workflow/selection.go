package workflow

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"sync"

	// Registers the two accepted raster formats with image.DecodeConfig.
	_ "image/jpeg"
	_ "image/png"
)

// Accepted media types.
const (
	MediaJPEG = "image/jpeg"
	MediaPNG  = "image/png"
)

// ErrNotImage rejects files that are not one of the accepted raster
// formats. The message is shown to the user as-is.
var ErrNotImage = errors.New("Invalid file type. Please upload an image.")

// Selection is the client-side state of one chosen image: the file plus
// its open preview handle. A workflow owns at most one selection at a
// time; the handle must be released when the selection is superseded,
// submitted, or the workflow torn down.
type Selection struct {
	Path      string
	MediaType string
	Width     int
	Height    int

	mu       sync.Mutex
	f        *os.File
	released bool
}

// NewSelection opens path and validates that it decodes as JPEG or PNG.
// The file stays open as the preview handle until Release.
func NewSelection(path string) (*Selection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		_ = f.Close()
		return nil, ErrNotImage
	}

	var mediaType string
	switch format {
	case "jpeg":
		mediaType = MediaJPEG
	case "png":
		mediaType = MediaPNG
	default:
		_ = f.Close()
		return nil, ErrNotImage
	}

	return &Selection{
		Path:      path,
		MediaType: mediaType,
		Width:     cfg.Width,
		Height:    cfg.Height,
		f:         f,
	}, nil
}

// Reader rewinds the preview handle for submission.
func (s *Selection) Reader() (io.Reader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return nil, errors.New("selection already released")
	}
	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind image: %w", err)
	}
	return s.f, nil
}

// Release closes the preview handle. Safe to call more than once.
func (s *Selection) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return
	}
	s.released = true
	_ = s.f.Close()
}

// Released reports whether the preview handle has been closed.
func (s *Selection) Released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}
