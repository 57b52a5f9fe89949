package chroma

import (
	"fmt"
	"time"
)

// Default configuration values. The edge band width and attenuation
// were tuned by eye for icon-scale sprites; they are configuration, not
// invariants, and can be adjusted per session.
const (
	// DefaultSize is the side length of the square working buffer.
	DefaultSize = 140
	// DefaultOpacity is the whole-buffer compositing factor handed to
	// the presenter.
	DefaultOpacity = 0.9
	// DefaultSoftness is the edge softening shift in pixels.
	DefaultSoftness = 0.6
	// DefaultTolerance is the chroma-key distance tolerance.
	DefaultTolerance = 35
	// DefaultEdgeBand widens the tolerance into a partial-transparency
	// ring: squared distances below tolerance²·EdgeBand fall in the
	// edge band.
	DefaultEdgeBand = 1.7
	// DefaultEdgeAttenuation is the alpha multiplier inside the edge
	// band.
	DefaultEdgeAttenuation = 0.35
	// DefaultPassOpacity is the per-pass blend opacity of the softener.
	DefaultPassOpacity = 0.3
	// DefaultSampleBlock is the side length of each corner sample
	// block.
	DefaultSampleBlock = 6
	// DefaultSampleInset is the margin between a corner and its sample
	// block, avoiding edge artifacts.
	DefaultSampleInset = 2
	// DefaultWarmup is the minimum playback position before the
	// estimator may sample, so the first unstable frames are skipped.
	DefaultWarmup = 100 * time.Millisecond
)

// Config holds the per-session pipeline configuration. It is read-only
// to the pipeline stages once the session is constructed.
type Config struct {
	// Size is the side length of the square working buffer in pixels.
	Size int
	// Opacity in [0,1] is applied by the presentation layer as a final
	// multiplicative factor over the whole buffer; the filter itself
	// never touches it.
	Opacity float64
	// Softness is the edge softening shift in pixels; 0 disables the
	// softener.
	Softness float64
	// Tolerance in [0,255] is the chroma-key color distance tolerance.
	Tolerance int
	// EdgeBand (>= 1) widens tolerance² into the partial-transparency
	// band.
	EdgeBand float64
	// EdgeAttenuation in [0,1] is the alpha multiplier inside the band.
	EdgeAttenuation float64
	// PassOpacity in [0,1] is the softener's per-pass blend opacity.
	PassOpacity float64
	// SampleBlock is the side length of each corner sample block.
	SampleBlock int
	// SampleInset is the corner margin of each sample block.
	SampleInset int
	// Warmup is the minimum playback position before estimation runs.
	Warmup time.Duration
}

// DefaultConfig returns a configuration with all default values.
func DefaultConfig() Config {
	return Config{
		Size:            DefaultSize,
		Opacity:         DefaultOpacity,
		Softness:        DefaultSoftness,
		Tolerance:       DefaultTolerance,
		EdgeBand:        DefaultEdgeBand,
		EdgeAttenuation: DefaultEdgeAttenuation,
		PassOpacity:     DefaultPassOpacity,
		SampleBlock:     DefaultSampleBlock,
		SampleInset:     DefaultSampleInset,
		Warmup:          DefaultWarmup,
	}
}

// Validate checks the configuration and clamps recoverable fields into
// their valid ranges. Only a non-positive Size is unrecoverable.
func (c *Config) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("%w: size must be positive, got %d", ErrInvalidConfig, c.Size)
	}

	if c.Opacity < 0 {
		c.Opacity = 0
	} else if c.Opacity > 1 {
		c.Opacity = 1
	}

	if c.Softness < 0 {
		c.Softness = 0
	}

	if c.Tolerance < 0 {
		c.Tolerance = 0
	} else if c.Tolerance > 255 {
		c.Tolerance = 255
	}

	if c.EdgeBand < 1 {
		c.EdgeBand = 1
	}

	if c.EdgeAttenuation < 0 {
		c.EdgeAttenuation = 0
	} else if c.EdgeAttenuation > 1 {
		c.EdgeAttenuation = 1
	}

	if c.PassOpacity < 0 {
		c.PassOpacity = 0
	} else if c.PassOpacity > 1 {
		c.PassOpacity = 1
	}

	if c.SampleBlock < 1 {
		c.SampleBlock = 1
	}
	if c.SampleInset < 0 {
		c.SampleInset = 0
	}
	if c.Warmup < 0 {
		c.Warmup = 0
	}

	return nil
}
