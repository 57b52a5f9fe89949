package chroma

import (
	"sync"

	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
)

// Session is the per-tick pipeline orchestrator.
//
// One session binds one frame source, one presenter and one
// configuration for its whole lifetime; changing source or size means
// constructing a new session. Per tick it pulls the current frame into
// the working buffer, runs the one-time background estimation when the
// warm-up guard allows, applies the keying chain once an estimate
// exists and hands the result to the presenter.
//
// The session owns the working buffer and the background estimate
// exclusively. All buffer mutation happens synchronously inside a
// single tick, so a presented buffer always reflects the fully
// completed processing of exactly one source frame.
type Session struct {
	id        string
	source    FrameSource
	presenter Presenter
	sched     Scheduler
	cfg       Config

	estimator *Estimator
	filter    *KeyFilter
	softener  *Softener

	buf        *Buffer
	estimate   BackgroundEstimate
	chain      *Chain
	userStages []Stage
	scaler     draw.Scaler

	state SessionState
	stats *Stats

	mu sync.RWMutex
}

// NewSession creates a pipeline session in StateIdle.
//
// The configuration is validated (and recoverable fields clamped)
// before any stage is constructed. The session does not tick until
// Start is called or Tick is driven manually.
func NewSession(source FrameSource, presenter Presenter, sched Scheduler, cfg Config) (*Session, error) {
	if source == nil {
		return nil, ErrNilSource
	}
	if presenter == nil {
		return nil, ErrNilPresenter
	}
	if sched == nil {
		return nil, ErrNilScheduler
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		id:        ksuid.New().String(),
		source:    source,
		presenter: presenter,
		sched:     sched,
		cfg:       cfg,
		estimator: NewEstimator(cfg.SampleBlock, cfg.SampleInset),
		filter:    NewKeyFilter(cfg.Tolerance, cfg.EdgeBand, cfg.EdgeAttenuation),
		softener:  NewSoftener(cfg.Softness, cfg.PassOpacity),
		scaler:    draw.ApproxBiLinear,
		state:     StateIdle,
		stats:     NewStats(),
	}

	logrus.WithFields(logrus.Fields{
		"function":   "NewSession",
		"session_id": s.id,
		"size":       cfg.Size,
		"tolerance":  cfg.Tolerance,
		"softness":   cfg.Softness,
		"opacity":    cfg.Opacity,
		"warmup":     cfg.Warmup,
	}).Info("Pipeline session created")

	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Config returns the session configuration after validation clamping.
func (s *Session) Config() Config {
	return s.cfg
}

// Background returns the current background estimate. Detected is
// false until the estimator has succeeded once; afterwards the value
// never changes for the lifetime of the session.
func (s *Session) Background() BackgroundEstimate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.estimate
}

// Stats returns a snapshot of the session's tick counters.
func (s *Session) Stats() StatsSnapshot {
	return s.stats.Snapshot()
}

// AddStage appends a processing stage that runs after keying and
// softening on every processed tick.
func (s *Session) AddStage(stage Stage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userStages = append(s.userStages, stage)
	if s.chain != nil {
		s.chain.Add(stage)
	}
}

// Start transitions the session to StateRunning and schedules the
// first tick. Starting a running session or a cancelled one is an
// error; the session cannot be restarted after Stop.
func (s *Session) Start() error {
	s.mu.Lock()
	switch s.state {
	case StateRunning:
		s.mu.Unlock()
		return ErrSessionRunning
	case StateCancelled:
		s.mu.Unlock()
		return ErrSessionCancelled
	}
	s.state = StateRunning
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":   "Start",
		"session_id": s.id,
	}).Info("Pipeline session started")

	s.sched.ScheduleTick(s.run)
	return nil
}

// Stop cancels the session. It detaches from the scheduler and moves
// to the terminal StateCancelled; no in-flight tick is interrupted,
// only future ticks are prevented. Safe to call before any tick has
// run and safe to call repeatedly.
func (s *Session) Stop() error {
	s.mu.Lock()
	if s.state == StateCancelled {
		s.mu.Unlock()
		return nil
	}
	s.state = StateCancelled
	s.mu.Unlock()

	s.sched.Cancel()

	logrus.WithFields(logrus.Fields{
		"function":   "Stop",
		"session_id": s.id,
		"ticks":      s.stats.Snapshot().Ticks(),
	}).Info("Pipeline session cancelled")

	return nil
}

// run executes one tick and re-arms the scheduler while the session is
// still running. This is the callback registered with the scheduler.
func (s *Session) run() {
	s.Tick()

	s.mu.RLock()
	running := s.state == StateRunning
	s.mu.RUnlock()
	if running {
		s.sched.ScheduleTick(s.run)
	}
}

// Tick synchronously executes one pipeline tick and reports its
// outcome. Production ticks are driven through the scheduler; tests
// call Tick directly to step the pipeline deterministically.
func (s *Session) Tick() TickStatus {
	s.mu.Lock()
	status := s.tickLocked()
	s.mu.Unlock()

	s.stats.Record(status)

	logrus.WithFields(logrus.Fields{
		"function":   "Tick",
		"session_id": s.id,
		"status":     status,
	}).Trace("Pipeline tick completed")

	return status
}

// tickLocked is the tick body; the caller holds the write lock.
func (s *Session) tickLocked() TickStatus {
	if s.state == StateCancelled {
		return TickCancelled
	}

	// Step 1: size the working buffer.
	if s.buf == nil || s.buf.Width != s.cfg.Size || s.buf.Height != s.cfg.Size {
		s.buf = NewBuffer(s.cfg.Size, s.cfg.Size)
	}

	// Step 2: copy the current decoded frame into the working buffer.
	frame, err := s.source.Frame()
	if err != nil || frame == nil {
		return TickSourceNotReady
	}
	sr := frame.Bounds()
	if sr.Dx() <= 0 || sr.Dy() <= 0 {
		return TickSourceNotReady
	}
	dst := s.buf.RGBA()
	s.scaler.Scale(dst, dst.Bounds(), frame, sr, draw.Src, nil)

	// Step 3: one-time background estimation behind the warm-up guard.
	if !s.estimate.Detected && s.source.Position() >= s.cfg.Warmup {
		s.detectBackground()
	}

	// Step 4: apply the keying chain once an estimate exists.
	if !s.estimate.Detected {
		if err := s.presenter.Present(s.buf, s.cfg.Opacity); err != nil {
			return TickDrawFailure
		}
		return TickRaw
	}

	if err := s.chain.Apply(s.buf); err != nil {
		logrus.WithFields(logrus.Fields{
			"function":   "tickLocked",
			"session_id": s.id,
			"error":      err.Error(),
		}).Warn("Keying chain failed, abandoning tick output")
		return TickDrawFailure
	}

	// Step 5: hand the processed buffer to the presentation surface.
	if err := s.presenter.Present(s.buf, s.cfg.Opacity); err != nil {
		logrus.WithFields(logrus.Fields{
			"function":   "tickLocked",
			"session_id": s.id,
			"error":      err.Error(),
		}).Warn("Presenter rejected buffer, abandoning tick output")
		return TickDrawFailure
	}

	return TickProcessed
}

// detectBackground attempts the one-time corner estimation and, on
// success, writes the session's BackgroundEstimate and builds the
// keying chain. Sampling failures leave the estimate undetected; the
// next tick retries.
func (s *Session) detectBackground() {
	c, err := s.estimator.Estimate(s.buf)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":   "detectBackground",
			"session_id": s.id,
			"error":      err.Error(),
		}).Debug("Background estimation deferred")
		return
	}

	s.estimate = BackgroundEstimate{Color: c, Detected: true}

	s.chain = NewChain()
	s.chain.Add(s.filter.Bound(c))
	if s.cfg.Softness > 0 {
		s.chain.Add(s.softener)
	}
	for _, stage := range s.userStages {
		s.chain.Add(stage)
	}

	logrus.WithFields(logrus.Fields{
		"function":   "detectBackground",
		"session_id": s.id,
		"background": c.Hex(),
		"stages":     s.chain.Len(),
	}).Info("Background color detected")
}
