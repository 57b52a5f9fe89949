package chroma

import (
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualScheduler queues tick callbacks and fires them on demand so
// tests can step the pipeline deterministically.
type manualScheduler struct {
	mu        sync.Mutex
	pending   []func()
	cancelled bool
}

func (m *manualScheduler) ScheduleTick(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancelled {
		return
	}
	m.pending = append(m.pending, fn)
}

func (m *manualScheduler) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelled = true
	m.pending = nil
}

// Fire runs the currently queued callbacks and returns how many ran.
// Callbacks scheduled during firing are queued for the next Fire.
func (m *manualScheduler) Fire() int {
	m.mu.Lock()
	batch := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

func (m *manualScheduler) PendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// capturePresenter records every presented buffer and opacity.
type capturePresenter struct {
	mu        sync.Mutex
	buffers   []*Buffer
	opacities []float64
	err       error
}

func (p *capturePresenter) Present(buf *Buffer, opacity float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.buffers = append(p.buffers, buf.Clone())
	p.opacities = append(p.opacities, opacity)
	return nil
}

func (p *capturePresenter) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buffers)
}

func (p *capturePresenter) Last() *Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.buffers) == 0 {
		return nil
	}
	return p.buffers[len(p.buffers)-1]
}

// spriteImage builds a size×size white frame with a black square
// subject in the middle.
func spriteImage(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	lo, hi := size/4, 3*size/4
	for y := lo; y < hi; y++ {
		for x := lo; x < hi; x++ {
			img.SetRGBA(x, y, color.RGBA{A: 255})
		}
	}
	return img
}

// testConfig returns a small deterministic configuration: no softening
// so keyed output is byte-exact, and the working buffer matches the
// source size so the frame copy is 1:1.
func testConfig(size int) Config {
	cfg := DefaultConfig()
	cfg.Size = size
	cfg.Softness = 0
	cfg.SampleBlock = 2
	cfg.SampleInset = 1
	cfg.Warmup = 100 * time.Millisecond
	return cfg
}

func newTestSession(t *testing.T, size int) (*Session, *ImageSource, *capturePresenter, *manualScheduler) {
	t.Helper()
	source := NewImageSource(spriteImage(size))
	presenter := &capturePresenter{}
	sched := &manualScheduler{}
	session, err := NewSession(source, presenter, sched, testConfig(size))
	require.NoError(t, err)
	return session, source, presenter, sched
}

func TestNewSessionValidation(t *testing.T) {
	source := NewImageSource(nil)
	presenter := &capturePresenter{}
	sched := &manualScheduler{}
	cfg := testConfig(16)

	tests := []struct {
		name    string
		build   func() (*Session, error)
		wantErr error
	}{
		{
			name:    "nil source",
			build:   func() (*Session, error) { return NewSession(nil, presenter, sched, cfg) },
			wantErr: ErrNilSource,
		},
		{
			name:    "nil presenter",
			build:   func() (*Session, error) { return NewSession(source, nil, sched, cfg) },
			wantErr: ErrNilPresenter,
		},
		{
			name:    "nil scheduler",
			build:   func() (*Session, error) { return NewSession(source, presenter, nil, cfg) },
			wantErr: ErrNilScheduler,
		},
		{
			name: "invalid size",
			build: func() (*Session, error) {
				bad := cfg
				bad.Size = 0
				return NewSession(source, presenter, sched, bad)
			},
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	session, err := NewSession(source, presenter, sched, cfg)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, session.State())
	assert.NotEmpty(t, session.ID())
}

func TestTickBeforeWarmupPresentsRaw(t *testing.T) {
	session, _, presenter, _ := newTestSession(t, 16)

	status := session.Tick()
	assert.Equal(t, TickRaw, status)
	assert.False(t, session.Background().Detected, "estimation must wait for the warm-up guard")

	require.Equal(t, 1, presenter.Count())
	buf := presenter.Last()
	assert.Equal(t, byte(255), buf.Alpha(0, 0), "raw frame keeps the opaque background")
}

func TestTickDetectsBackgroundAfterWarmup(t *testing.T) {
	session, source, presenter, _ := newTestSession(t, 16)

	source.SetPosition(150 * time.Millisecond)
	status := session.Tick()
	assert.Equal(t, TickProcessed, status)

	est := session.Background()
	require.True(t, est.Detected)
	assert.Equal(t, Color{R: 255, G: 255, B: 255}, est.Color)

	buf := presenter.Last()
	require.NotNil(t, buf)
	assert.Equal(t, byte(0), buf.Alpha(0, 0), "background corner keyed out")
	assert.Equal(t, byte(255), buf.Alpha(8, 8), "subject center kept opaque")

	// RGB is preserved even where alpha was removed.
	r, g, b, _ := buf.At(0, 0)
	assert.Equal(t, [3]byte{255, 255, 255}, [3]byte{r, g, b})
}

func TestBackgroundEstimateWrittenOnce(t *testing.T) {
	session, source, _, _ := newTestSession(t, 16)

	source.SetPosition(200 * time.Millisecond)
	require.Equal(t, TickProcessed, session.Tick())
	first := session.Background()
	require.True(t, first.Detected)

	// Swap in a frame with black corners; the estimate must not move.
	dark := image.NewRGBA(image.Rect(0, 0, 16, 16))
	source.SetImage(dark)
	source.Advance(100 * time.Millisecond)
	session.Tick()

	assert.Equal(t, first, session.Background())
}

func TestTickSourceNotReady(t *testing.T) {
	session, source, presenter, _ := newTestSession(t, 16)

	source.SetImage(nil)
	assert.Equal(t, TickSourceNotReady, session.Tick())
	assert.Zero(t, presenter.Count(), "nothing is presented without a frame")

	// The source coming back recovers on the next tick.
	source.SetImage(spriteImage(16))
	assert.Equal(t, TickRaw, session.Tick())
	assert.Equal(t, 1, presenter.Count())
}

func TestTickEmptyFrameIsNotReady(t *testing.T) {
	session, source, _, _ := newTestSession(t, 16)

	source.SetImage(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	assert.Equal(t, TickSourceNotReady, session.Tick())
}

func TestTickPresenterFailure(t *testing.T) {
	session, _, presenter, _ := newTestSession(t, 16)
	presenter.err = errors.New("surface lost")

	assert.Equal(t, TickDrawFailure, session.Tick())

	// Failures are absorbed: the next tick proceeds normally.
	presenter.err = nil
	assert.Equal(t, TickRaw, session.Tick())
}

func TestTickFailingStage(t *testing.T) {
	session, source, presenter, _ := newTestSession(t, 16)
	session.AddStage(&recordStage{name: "broken", fail: errors.New("stage exploded")})

	source.SetPosition(time.Second)
	assert.Equal(t, TickDrawFailure, session.Tick())
	assert.Zero(t, presenter.Count(), "abandoned output must not reach the presenter")
}

func TestUserStageRunsAfterKeying(t *testing.T) {
	session, source, _, _ := newTestSession(t, 16)
	stage := &recordStage{name: "probe"}
	session.AddStage(stage)

	source.SetPosition(time.Second)
	require.Equal(t, TickProcessed, session.Tick())

	require.Len(t, stage.seen, 1)
	assert.Equal(t, byte(0), stage.seen[0], "custom stage sees the keyed buffer")
}

func TestSessionPresentsConfiguredOpacity(t *testing.T) {
	session, _, presenter, _ := newTestSession(t, 16)

	session.Tick()
	require.Equal(t, 1, presenter.Count())
	assert.InDelta(t, DefaultOpacity, presenter.opacities[0], 1e-9)
}

func TestStartSchedulesAndReschedules(t *testing.T) {
	session, _, presenter, sched := newTestSession(t, 16)

	require.NoError(t, session.Start())
	assert.Equal(t, StateRunning, session.State())
	assert.Equal(t, ErrSessionRunning, session.Start())

	require.Equal(t, 1, sched.Fire())
	assert.Equal(t, 1, presenter.Count())
	assert.Equal(t, 1, sched.PendingCount(), "a running session re-arms the scheduler")

	require.Equal(t, 1, sched.Fire())
	assert.Equal(t, 2, presenter.Count())
}

func TestStopIsIdempotent(t *testing.T) {
	session, _, _, sched := newTestSession(t, 16)

	// Stopping before any tick has run is safe.
	require.NoError(t, session.Stop())
	require.NoError(t, session.Stop())
	assert.Equal(t, StateCancelled, session.State())

	assert.Equal(t, ErrSessionCancelled, session.Start())
	assert.Equal(t, TickCancelled, session.Tick())
	assert.Zero(t, sched.Fire())
}

func TestStopPreventsRescheduling(t *testing.T) {
	session, _, presenter, sched := newTestSession(t, 16)

	require.NoError(t, session.Start())
	require.Equal(t, 1, sched.Fire())
	require.NoError(t, session.Stop())

	assert.Zero(t, sched.Fire(), "cancel clears the pending tick")
	assert.Equal(t, 1, presenter.Count())
}

func TestSessionStatsAccounting(t *testing.T) {
	session, source, presenter, _ := newTestSession(t, 16)

	source.SetImage(nil)
	session.Tick() // source not ready
	source.SetImage(spriteImage(16))
	session.Tick() // raw, still warming up
	source.SetPosition(time.Second)
	session.Tick() // processed
	presenter.err = errors.New("surface lost")
	session.Tick() // draw failure
	presenter.err = nil
	session.Stop()
	session.Tick() // cancelled

	stats := session.Stats()
	assert.Equal(t, uint64(1), stats.SourceNotReady)
	assert.Equal(t, uint64(1), stats.Raw)
	assert.Equal(t, uint64(1), stats.Processed)
	assert.Equal(t, uint64(1), stats.DrawFailures)
	assert.Equal(t, uint64(1), stats.Cancelled)
	assert.Equal(t, uint64(5), stats.Ticks())
	assert.Equal(t, TickCancelled, stats.LastStatus)
	assert.False(t, stats.LastTick.IsZero())
}

func TestSessionScalesLargerFrames(t *testing.T) {
	// A 32px source frame lands in a 16px working buffer; corners are
	// still background and still keyed out.
	source := NewImageSource(spriteImage(32))
	presenter := &capturePresenter{}
	session, err := NewSession(source, presenter, &manualScheduler{}, testConfig(16))
	require.NoError(t, err)

	source.SetPosition(time.Second)
	require.Equal(t, TickProcessed, session.Tick())

	buf := presenter.Last()
	require.NotNil(t, buf)
	assert.Equal(t, 16, buf.Width)
	assert.Equal(t, byte(0), buf.Alpha(0, 0))
	assert.Equal(t, byte(255), buf.Alpha(8, 8))
}

func TestSoftnessRoundTripThroughSession(t *testing.T) {
	// With softening enabled the keyed edge is no longer binary.
	source := NewImageSource(spriteImage(16))
	presenter := &capturePresenter{}
	cfg := testConfig(16)
	cfg.Softness = 1
	session, err := NewSession(source, presenter, &manualScheduler{}, cfg)
	require.NoError(t, err)

	source.SetPosition(time.Second)
	require.Equal(t, TickProcessed, session.Tick())

	buf := presenter.Last()
	// One pixel left of the subject edge picked up partial alpha.
	edge := buf.Alpha(3, 8)
	assert.Greater(t, edge, byte(0))
	assert.Less(t, edge, byte(255))
}
