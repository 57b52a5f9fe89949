package chroma

import (
	"sync"
	"time"
)

// DisplayInterval is the default tick cadence, matching a 60 Hz
// display refresh.
const DisplayInterval = time.Second / 60

// Scheduler abstracts the host's display-refresh callback so the core
// is testable without a real display driver.
//
// ScheduleTick registers fn to run once at the next display refresh;
// the session re-registers itself after every tick. Cancel prevents
// any future callback from firing but never interrupts one already in
// flight.
type Scheduler interface {
	// ScheduleTick runs fn once at the next display refresh
	ScheduleTick(fn func())
	// Cancel detaches from the host scheduler; idempotent
	Cancel()
}

// IntervalScheduler drives ticks from a wall-clock timer at a fixed
// cadence. It is the production scheduler when no host refresh
// callback is available.
type IntervalScheduler struct {
	interval time.Duration

	mu        sync.Mutex
	timer     *time.Timer
	cancelled bool
}

// NewIntervalScheduler creates a scheduler firing at the given
// interval. Non-positive intervals fall back to DisplayInterval.
func NewIntervalScheduler(interval time.Duration) *IntervalScheduler {
	if interval <= 0 {
		interval = DisplayInterval
	}
	return &IntervalScheduler{interval: interval}
}

// Interval returns the configured tick cadence.
func (s *IntervalScheduler) Interval() time.Duration {
	return s.interval
}

// ScheduleTick arms a one-shot timer for fn. A pending callback is
// replaced; after Cancel this is a no-op.
func (s *IntervalScheduler) ScheduleTick(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelled {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.interval, fn)
}

// Cancel stops any pending callback and rejects future scheduling.
// Safe to call repeatedly and before anything was scheduled.
func (s *IntervalScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelled = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
