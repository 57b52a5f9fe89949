package chroma

import (
	"fmt"
)

// Stage is one in-place processing step over the working buffer.
type Stage interface {
	// Apply processes the buffer in place
	Apply(buf *Buffer) error
	// Name returns the stage name for identification
	Name() string
}

// Chain runs multiple stages in sequence over the same buffer.
//
// The session composes its keying chain (filter, then softener) once
// the background estimate lands; callers may append further stages
// that run after keying.
type Chain struct {
	stages []Stage
}

// NewChain creates an empty stage chain.
func NewChain() *Chain {
	return &Chain{stages: make([]Stage, 0)}
}

// Add appends a stage to the chain.
func (c *Chain) Add(stage Stage) {
	c.stages = append(c.stages, stage)
}

// Apply runs the buffer through all stages in order. The first stage
// failure aborts the chain; the buffer may then hold a partially
// processed frame and must not be presented.
func (c *Chain) Apply(buf *Buffer) error {
	if buf == nil {
		return fmt.Errorf("%w: nil buffer", ErrDrawFailure)
	}
	for i, stage := range c.stages {
		if err := stage.Apply(buf); err != nil {
			return fmt.Errorf("stage %d (%s): %w", i, stage.Name(), err)
		}
	}
	return nil
}

// Len returns the number of stages in the chain.
func (c *Chain) Len() int {
	return len(c.stages)
}

// Clear removes all stages from the chain.
func (c *Chain) Clear() {
	c.stages = c.stages[:0]
}

// AlphaScaleStage multiplies every pixel's alpha by a fixed factor.
// Useful for pre-multiplying the session opacity into the buffer when
// the presentation surface cannot composite with a global factor.
type AlphaScaleStage struct {
	factor float64
}

// NewAlphaScaleStage creates an alpha scaling stage with the factor
// clamped to [0,1].
func NewAlphaScaleStage(factor float64) *AlphaScaleStage {
	if factor < 0 {
		factor = 0
	} else if factor > 1 {
		factor = 1
	}
	return &AlphaScaleStage{factor: factor}
}

// Apply implements Stage.
func (a *AlphaScaleStage) Apply(buf *Buffer) error {
	if buf == nil {
		return fmt.Errorf("%w: nil buffer", ErrDrawFailure)
	}
	for i := 3; i < len(buf.Pix); i += 4 {
		buf.Pix[i] = byte(float64(buf.Pix[i])*a.factor + 0.5)
	}
	return nil
}

// Name implements Stage.
func (a *AlphaScaleStage) Name() string {
	return fmt.Sprintf("AlphaScale(%.2f)", a.factor)
}
