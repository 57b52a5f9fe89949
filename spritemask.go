package spritemask

import (
	"time"

	"github.com/opd-ai/spritemask/chroma"
	"github.com/sirupsen/logrus"
)

// Options configures a Pipeline. Obtain defaults with DefaultOptions
// and adjust fields before calling New; a nil Options is treated as
// DefaultOptions.
type Options struct {
	// Size is the side length of the square output buffer in pixels.
	Size int
	// Opacity in [0,1] is the whole-buffer compositing factor handed
	// to the presenter with every frame.
	Opacity float64
	// Softness is the edge softening shift in pixels; 0 disables the
	// softener.
	Softness float64
	// Tolerance in [0,255] is the background color distance tolerance.
	Tolerance int

	// EdgeBand widens tolerance² into the partial-transparency ring.
	EdgeBand float64
	// EdgeAttenuation is the alpha multiplier inside the ring.
	EdgeAttenuation float64
	// PassOpacity is the softener's per-pass blend opacity.
	PassOpacity float64
	// SampleBlock is the side length of each corner sample block.
	SampleBlock int
	// SampleInset is the corner margin of each sample block.
	SampleInset int
	// Warmup is the minimum playback position before background
	// estimation runs, skipping the first unstable frames.
	Warmup time.Duration
	// Interval is the tick cadence of the built-in scheduler.
	Interval time.Duration
}

// DefaultOptions returns the standard configuration: a 140px buffer,
// 0.9 opacity, 0.6px softness and a tolerance of 35, ticking at
// display refresh cadence.
func DefaultOptions() *Options {
	return &Options{
		Size:            chroma.DefaultSize,
		Opacity:         chroma.DefaultOpacity,
		Softness:        chroma.DefaultSoftness,
		Tolerance:       chroma.DefaultTolerance,
		EdgeBand:        chroma.DefaultEdgeBand,
		EdgeAttenuation: chroma.DefaultEdgeAttenuation,
		PassOpacity:     chroma.DefaultPassOpacity,
		SampleBlock:     chroma.DefaultSampleBlock,
		SampleInset:     chroma.DefaultSampleInset,
		Warmup:          chroma.DefaultWarmup,
		Interval:        chroma.DisplayInterval,
	}
}

// config converts the options into a session configuration.
func (o *Options) config() chroma.Config {
	return chroma.Config{
		Size:            o.Size,
		Opacity:         o.Opacity,
		Softness:        o.Softness,
		Tolerance:       o.Tolerance,
		EdgeBand:        o.EdgeBand,
		EdgeAttenuation: o.EdgeAttenuation,
		PassOpacity:     o.PassOpacity,
		SampleBlock:     o.SampleBlock,
		SampleInset:     o.SampleInset,
		Warmup:          o.Warmup,
	}
}

// Pipeline is the high-level API for one background-removal session.
//
// It wraps a chroma.Session together with its scheduler, following the
// facade-over-subsystem layout used across this codebase. One Pipeline
// is bound to one source, one presenter and one configuration; replace
// the Pipeline to change any of them.
type Pipeline struct {
	impl     *chroma.Session
	sched    chroma.Scheduler
	interval time.Duration
}

// New creates a pipeline driven by the built-in interval scheduler.
//
// Parameters:
//   - source: supplies decoded frames and the playback position
//   - presenter: receives the processed buffer once per tick
//   - opts: configuration; nil means DefaultOptions
//
// Returns:
//   - *Pipeline: the new pipeline, in its idle state
//   - error: validation failure of options or collaborators
func New(source chroma.FrameSource, presenter chroma.Presenter, opts *Options) (*Pipeline, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = chroma.DisplayInterval
	}
	return NewWithScheduler(source, presenter, chroma.NewIntervalScheduler(interval), opts)
}

// NewWithScheduler creates a pipeline driven by a caller-supplied
// scheduler, for hosts that expose their own display-refresh callback.
func NewWithScheduler(source chroma.FrameSource, presenter chroma.Presenter, sched chroma.Scheduler, opts *Options) (*Pipeline, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	session, err := chroma.NewSession(source, presenter, sched, opts.config())
	if err != nil {
		return nil, err
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = chroma.DisplayInterval
	}

	logrus.WithFields(logrus.Fields{
		"function":   "NewWithScheduler",
		"session_id": session.ID(),
		"interval":   interval,
	}).Debug("Pipeline created")

	return &Pipeline{
		impl:     session,
		sched:    sched,
		interval: interval,
	}, nil
}

// Start begins ticking at the scheduler's cadence.
func (p *Pipeline) Start() error {
	return p.impl.Start()
}

// Stop tears the pipeline down. It is idempotent: calling it before
// Start or repeatedly after the first call is a safe no-op. A stopped
// pipeline cannot be restarted.
func (p *Pipeline) Stop() error {
	return p.impl.Stop()
}

// Tick synchronously runs one pipeline tick and reports its outcome.
// Hosts driving the pipeline from their own refresh callback call this
// instead of Start.
func (p *Pipeline) Tick() chroma.TickStatus {
	return p.impl.Tick()
}

// ID returns the session identifier used in log fields.
func (p *Pipeline) ID() string {
	return p.impl.ID()
}

// State returns the session lifecycle state.
func (p *Pipeline) State() chroma.SessionState {
	return p.impl.State()
}

// Background returns the background estimate; Detected is false until
// the corner sampling has succeeded once.
func (p *Pipeline) Background() chroma.BackgroundEstimate {
	return p.impl.Background()
}

// Stats returns a snapshot of the per-tick outcome counters.
func (p *Pipeline) Stats() chroma.StatsSnapshot {
	return p.impl.Stats()
}

// AddStage appends a custom processing stage that runs after keying
// and softening on every processed tick.
func (p *Pipeline) AddStage(stage chroma.Stage) {
	p.impl.AddStage(stage)
}

// IterationInterval returns the tick cadence of the pipeline's
// scheduler.
func (p *Pipeline) IterationInterval() time.Duration {
	return p.interval
}
