// Package spritemask removes a near-uniform background color from a
// sequence of video frames in real time, producing an RGBA buffer with
// a transparent background suitable for overlay compositing, such as
// an icon-sized animated sprite layered over arbitrary backdrops.
//
// The background color is auto-detected once per session by averaging
// four small corner blocks of the frame, then every pixel's alpha is
// rewritten from its squared RGB distance to that color, with a soft
// transitional edge band, and a cheap directional blend smooths the
// resulting edge.
//
// # Getting Started
//
// Create a pipeline with a frame source and a presenter and start it:
//
//	opts := spritemask.DefaultOptions()
//	opts.Size = 96
//	opts.Tolerance = 40
//
//	pipeline, err := spritemask.New(source, presenter, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pipeline.Stop()
//
//	if err := pipeline.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// The source supplies decoded frames and a playback position; the
// presenter receives the processed buffer once per tick together with
// the configured opacity. Video decoding and display compositing stay
// entirely outside this module.
//
// Hosts with their own display-refresh callback can drive ticks
// manually through NewWithScheduler or Pipeline.Tick instead of the
// built-in interval scheduler.
package spritemask
