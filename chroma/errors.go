package chroma

import "errors"

// Sentinel errors for chroma package operations.
// These errors enable reliable error classification using errors.Is().
// All of them are non-fatal by design: the session absorbs them and
// reports a TickStatus instead of propagating.

// Frame acquisition errors.
var (
	// ErrSourceNotReady indicates the frame source had no decoded
	// pixel data available this tick.
	ErrSourceNotReady = errors.New("frame source not ready")

	// ErrSamplingFailure indicates a corner-block read failed, usually
	// because the source dimensions are not yet valid. The estimate
	// stays undetected and the caller retries on a later tick.
	ErrSamplingFailure = errors.New("corner sampling failed")

	// ErrDrawFailure indicates copying or processing the working
	// buffer failed; the tick's output is abandoned.
	ErrDrawFailure = errors.New("buffer draw failed")
)

// Session lifecycle errors.
var (
	// ErrSessionRunning indicates Start was called twice.
	ErrSessionRunning = errors.New("session is already running")

	// ErrSessionCancelled indicates the session reached its terminal
	// state and cannot be restarted.
	ErrSessionCancelled = errors.New("session is cancelled")

	// ErrNilSource indicates the frame source is nil.
	ErrNilSource = errors.New("frame source cannot be nil")

	// ErrNilPresenter indicates the presenter is nil.
	ErrNilPresenter = errors.New("presenter cannot be nil")

	// ErrNilScheduler indicates the scheduler is nil.
	ErrNilScheduler = errors.New("scheduler cannot be nil")

	// ErrInvalidConfig indicates the configuration failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)
