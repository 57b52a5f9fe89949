package chroma

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Estimator samples four square corner blocks of a frame and averages
// them into a single background color.
//
// The estimate assumes the subject never occupies the corner regions,
// which holds for centered icon-sized sprites on a flat studio
// background. The estimator itself is stateless; the session owns the
// single-write BackgroundEstimate transition.
type Estimator struct {
	block int // side length of each corner sample block
	inset int // margin between a corner and its block
}

// NewEstimator creates a corner-block background estimator.
// block is clamped to at least 1, inset to at least 0.
func NewEstimator(block, inset int) *Estimator {
	if block < 1 {
		block = 1
	}
	if inset < 0 {
		inset = 0
	}
	return &Estimator{block: block, inset: inset}
}

// Estimate averages the R, G and B channels independently across the
// four inset corner blocks of buf and returns the rounded average.
//
// Returns ErrSamplingFailure when the buffer cannot fit the blocks
// (typically the source dimensions are not yet valid). That is a
// deferral, not an error: the caller retries on a later tick.
func (e *Estimator) Estimate(buf *Buffer) (Color, error) {
	if buf == nil || len(buf.Pix) == 0 {
		return Color{}, fmt.Errorf("%w: empty buffer", ErrSamplingFailure)
	}

	span := e.inset + e.block
	if buf.Width < span || buf.Height < span {
		logrus.WithFields(logrus.Fields{
			"function": "Estimate",
			"width":    buf.Width,
			"height":   buf.Height,
			"block":    e.block,
			"inset":    e.inset,
		}).Debug("Buffer too small for corner sampling")
		return Color{}, fmt.Errorf("%w: buffer %dx%d cannot fit %dpx blocks with %dpx inset",
			ErrSamplingFailure, buf.Width, buf.Height, e.block, e.inset)
	}

	// Block anchors near each of the four corners.
	anchors := [4][2]int{
		{e.inset, e.inset},
		{buf.Width - span, e.inset},
		{e.inset, buf.Height - span},
		{buf.Width - span, buf.Height - span},
	}

	var sumR, sumG, sumB int
	for _, a := range anchors {
		for y := a[1]; y < a[1]+e.block; y++ {
			for x := a[0]; x < a[0]+e.block; x++ {
				r, g, b, _ := buf.At(x, y)
				sumR += int(r)
				sumG += int(g)
				sumB += int(b)
			}
		}
	}

	count := 4 * e.block * e.block
	c := Color{
		R: uint8((sumR + count/2) / count),
		G: uint8((sumG + count/2) / count),
		B: uint8((sumB + count/2) / count),
	}

	logrus.WithFields(logrus.Fields{
		"function":   "Estimate",
		"background": c.Hex(),
		"samples":    count,
	}).Debug("Background color estimated from corner blocks")

	return c, nil
}
