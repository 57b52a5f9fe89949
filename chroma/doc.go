// Package chroma implements the per-frame background removal pipeline
// for spritemask.
//
// The pipeline removes a near-uniform background color from a sequence
// of video frames in real time, producing an RGBA buffer with a
// transparent background suitable for overlay compositing. Processing
// per tick is:
//
//	FrameSource → Session → (Estimator, once) → KeyFilter → Softener → Presenter
//
// The package follows an interface-based design so the core is testable
// without a real video decoder or display surface:
//   - FrameSource supplies decoded pixel data and a playback position
//   - Presenter receives the processed buffer once per tick
//   - Scheduler abstracts the host's display-refresh callback
//
// All failures inside a tick are absorbed and surface only as an
// explicit TickStatus plus a Stats counter; no error crosses the
// session boundary.
package chroma
