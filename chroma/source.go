package chroma

import (
	"image"
	"sync"
	"time"
)

// FrameSource supplies decoded video frames to the pipeline. Decoding,
// looping and playback control live behind this interface; the core
// only pulls the current frame and reads the playback position for the
// estimation warm-up guard.
type FrameSource interface {
	// Frame returns the current decoded frame. A nil image or an error
	// means no frame is available this tick; the session skips and
	// retries at the next tick.
	Frame() (image.Image, error)
	// Position returns the current playback position.
	Position() time.Duration
}

// Presenter receives the processed working buffer once per tick. The
// opacity value is a final multiplicative compositing factor over the
// whole buffer, applied by the presentation layer rather than
// per-pixel by the filter.
type Presenter interface {
	Present(buf *Buffer, opacity float64) error
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(buf *Buffer, opacity float64) error

// Present implements Presenter.
func (f PresenterFunc) Present(buf *Buffer, opacity float64) error {
	return f(buf, opacity)
}

// ImageSource is a FrameSource backed by a replaceable image.Image and
// a manually advanced playback position. It is intended for tests and
// tooling where no real decoder drives the pipeline.
type ImageSource struct {
	mu  sync.RWMutex
	img image.Image
	pos time.Duration
}

// NewImageSource creates an image-backed frame source starting at
// position zero. img may be nil, in which case the source reports not
// ready until SetImage is called.
func NewImageSource(img image.Image) *ImageSource {
	return &ImageSource{img: img}
}

// Frame implements FrameSource.
func (s *ImageSource) Frame() (image.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.img == nil {
		return nil, ErrSourceNotReady
	}
	return s.img, nil
}

// Position implements FrameSource.
func (s *ImageSource) Position() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pos
}

// SetImage replaces the current frame.
func (s *ImageSource) SetImage(img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.img = img
}

// Advance moves the playback position forward.
func (s *ImageSource) Advance(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pos += d
}

// SetPosition sets the playback position to an absolute value.
func (s *ImageSource) SetPosition(pos time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pos = pos
}
