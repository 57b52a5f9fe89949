package chroma

import (
	"sync"
	"time"
)

// Stats counts tick outcomes for one session.
//
// The session's swallowed-failure policy means no error ever crosses
// its boundary; these counters are the observable trace of what each
// tick did, so tests and monitoring can assert on skip-vs-process
// behavior deterministically.
type Stats struct {
	mu sync.RWMutex

	processed      uint64
	raw            uint64
	sourceNotReady uint64
	drawFailures   uint64
	cancelled      uint64

	lastStatus TickStatus
	lastTick   time.Time
}

// StatsSnapshot is a point-in-time copy of a session's tick counters.
type StatsSnapshot struct {
	// Processed counts ticks where a frame was keyed and presented.
	Processed uint64
	// Raw counts ticks presented without keying (estimate pending).
	Raw uint64
	// SourceNotReady counts ticks skipped for lack of frame data.
	SourceNotReady uint64
	// DrawFailures counts ticks whose output was abandoned.
	DrawFailures uint64
	// Cancelled counts ticks attempted after the session ended.
	Cancelled uint64

	// LastStatus is the outcome of the most recent tick.
	LastStatus TickStatus
	// LastTick is when the most recent tick completed.
	LastTick time.Time
}

// NewStats creates a zeroed stats collector.
func NewStats() *Stats {
	return &Stats{}
}

// Record counts one tick outcome.
func (s *Stats) Record(status TickStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch status {
	case TickProcessed:
		s.processed++
	case TickRaw:
		s.raw++
	case TickSourceNotReady:
		s.sourceNotReady++
	case TickDrawFailure:
		s.drawFailures++
	case TickCancelled:
		s.cancelled++
	}
	s.lastStatus = status
	s.lastTick = time.Now()
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return StatsSnapshot{
		Processed:      s.processed,
		Raw:            s.raw,
		SourceNotReady: s.sourceNotReady,
		DrawFailures:   s.drawFailures,
		Cancelled:      s.cancelled,
		LastStatus:     s.lastStatus,
		LastTick:       s.lastTick,
	}
}

// Ticks returns the total number of recorded ticks.
func (s StatsSnapshot) Ticks() uint64 {
	return s.Processed + s.Raw + s.SourceNotReady + s.DrawFailures + s.Cancelled
}
