package chroma

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit RGB triple. Immutable once produced; the estimator
// returns one and the filter only ever reads it.
type Color struct {
	R uint8
	G uint8
	B uint8
}

// Hex returns the color in "#rrggbb" form for log fields and
// diagnostics.
func (c Color) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hex()
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// DistanceSq returns the squared Euclidean RGB distance to another
// color. Squared distance is monotonic with true distance, so
// thresholds can be compared as squared values without a square root.
func (c Color) DistanceSq(o Color) int {
	dr := int(c.R) - int(o.R)
	dg := int(c.G) - int(o.G)
	db := int(c.B) - int(o.B)
	return dr*dr + dg*dg + db*db
}

// BackgroundEstimate is the session-scoped background color estimate.
//
// It starts undetected and transitions to detected exactly once per
// session, after which it is immutable until the session is replaced.
type BackgroundEstimate struct {
	Color    Color
	Detected bool
}

// SessionState represents the lifecycle state of a pipeline session.
type SessionState uint32

const (
	// StateIdle indicates the session has not been started yet
	StateIdle SessionState = iota
	// StateRunning indicates the session is ticking
	StateRunning
	// StateCancelled is the terminal state after Stop
	StateCancelled
)

// String implements fmt.Stringer for log fields.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(s))
	}
}

// TickStatus classifies the outcome of a single pipeline tick.
//
// Every failure kind inside a tick is absorbed and reported only
// through this status (and the matching Stats counter), keeping the
// rendering loop resilient while staying observable in tests.
type TickStatus uint32

const (
	// TickProcessed indicates a frame was keyed, softened and presented
	TickProcessed TickStatus = iota
	// TickRaw indicates a frame was presented without keying because
	// the background estimate is still pending (warm-up or deferral)
	TickRaw
	// TickSourceNotReady indicates the source had no frame this tick
	TickSourceNotReady
	// TickDrawFailure indicates copying or processing failed and the
	// tick's output was abandoned
	TickDrawFailure
	// TickCancelled indicates the session was already cancelled
	TickCancelled
)

// String implements fmt.Stringer for log fields.
func (t TickStatus) String() string {
	switch t {
	case TickProcessed:
		return "processed"
	case TickRaw:
		return "raw"
	case TickSourceNotReady:
		return "source_not_ready"
	case TickDrawFailure:
		return "draw_failure"
	case TickCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(t))
	}
}
