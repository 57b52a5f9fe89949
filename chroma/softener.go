package chroma

import (
	"fmt"
	"math"
)

// Softener smooths the hard edges the key filter introduces by
// blending the buffer with itself shifted left and then right, each
// pass composited at a low fixed opacity.
//
// This is a cheap approximate one-dimensional smoothing rather than a
// true 2D blur: at icon scale a full convolution is unnecessary.
// Smoothing is applied along the horizontal axis only; keep it that
// way unless a product requirement calls for symmetric softening.
type Softener struct {
	softness    float64
	passOpacity float64
}

// NewSoftener creates an edge softener. softness is the shift amount in
// pixels (negative values are treated as 0); passOpacity is clamped to
// [0,1].
func NewSoftener(softness, passOpacity float64) *Softener {
	if softness < 0 {
		softness = 0
	}
	if passOpacity < 0 {
		passOpacity = 0
	} else if passOpacity > 1 {
		passOpacity = 1
	}
	return &Softener{softness: softness, passOpacity: passOpacity}
}

// Apply runs the two directional blend passes over buf in place.
// With softness 0 (or a shift that rounds to 0 pixels) the buffer is
// left byte-for-byte unchanged. Implements Stage.
func (s *Softener) Apply(buf *Buffer) error {
	if buf == nil {
		return fmt.Errorf("%w: nil buffer", ErrDrawFailure)
	}

	shift := int(math.Round(s.softness))
	if shift == 0 || s.passOpacity == 0 {
		return nil
	}

	s.pass(buf, shift)  // blend with the buffer shifted left
	s.pass(buf, -shift) // then shifted right
	return nil
}

// pass blends buf with a snapshot of itself offset horizontally by
// shift samples. Pixels whose shifted source falls outside the row are
// left unchanged.
func (s *Softener) pass(buf *Buffer, shift int) {
	snap := append([]byte(nil), buf.Pix...)
	p := s.passOpacity
	q := 1 - p

	for y := 0; y < buf.Height; y++ {
		row := y * buf.Width * 4
		for x := 0; x < buf.Width; x++ {
			sx := x + shift
			if sx < 0 || sx >= buf.Width {
				continue
			}
			di := row + x*4
			si := row + sx*4
			for c := 0; c < 4; c++ {
				v := float64(snap[di+c])*q + float64(snap[si+c])*p
				buf.Pix[di+c] = byte(v + 0.5)
			}
		}
	}
}

// Name implements Stage.
func (s *Softener) Name() string {
	return fmt.Sprintf("Softener(%.2fpx)", s.softness)
}
