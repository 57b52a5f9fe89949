package chroma

import "fmt"

// KeyFilter rewrites each pixel's alpha according to its squared RGB
// distance from the background color.
//
// Two squared thresholds split pixels into three classes:
//
//	dist² < tolerance²            background: alpha forced to 0
//	dist² < tolerance²·band       edge band: alpha attenuated
//	otherwise                     foreground: alpha unchanged
//
// A single hard cutoff produces visibly jagged keyed edges; the wider
// second threshold with a fixed attenuation creates a soft transitional
// ring around the removed region without per-pixel gradient cost. RGB
// channels are never modified.
type KeyFilter struct {
	tolerance   int
	band        float64
	attenuation float64
}

// NewKeyFilter creates a chroma-key filter. tolerance is clamped to
// [0,255], band to at least 1, attenuation to [0,1].
func NewKeyFilter(tolerance int, band, attenuation float64) *KeyFilter {
	if tolerance < 0 {
		tolerance = 0
	} else if tolerance > 255 {
		tolerance = 255
	}
	if band < 1 {
		band = 1
	}
	if attenuation < 0 {
		attenuation = 0
	} else if attenuation > 1 {
		attenuation = 1
	}
	return &KeyFilter{tolerance: tolerance, band: band, attenuation: attenuation}
}

// Apply rewrites the alpha channel of every pixel in buf in place,
// classifying against the background color bg. The squared thresholds
// are computed once and reused across the whole buffer.
func (f *KeyFilter) Apply(buf *Buffer, bg Color) {
	t2 := f.tolerance * f.tolerance
	outer := float64(t2) * f.band
	br, bgc, bb := int(bg.R), int(bg.G), int(bg.B)

	for i := 0; i < len(buf.Pix); i += 4 {
		dr := int(buf.Pix[i]) - br
		dg := int(buf.Pix[i+1]) - bgc
		db := int(buf.Pix[i+2]) - bb
		dist2 := dr*dr + dg*dg + db*db

		switch {
		case dist2 < t2:
			a := int(buf.Pix[i+3]) - 255
			if a < 0 {
				a = 0
			}
			buf.Pix[i+3] = byte(a)
		case float64(dist2) < outer:
			a := float64(buf.Pix[i+3])*f.attenuation + 0.5
			if a > 255 {
				a = 255
			}
			buf.Pix[i+3] = byte(a)
		}
	}
}

// Bound returns the filter as a Stage with the background color fixed,
// so it can run inside a Chain once the estimate is detected.
func (f *KeyFilter) Bound(bg Color) Stage {
	return &boundKeyFilter{filter: f, bg: bg}
}

// boundKeyFilter adapts KeyFilter to the Stage interface.
type boundKeyFilter struct {
	filter *KeyFilter
	bg     Color
}

// Apply implements Stage.
func (b *boundKeyFilter) Apply(buf *Buffer) error {
	if buf == nil {
		return fmt.Errorf("%w: nil buffer", ErrDrawFailure)
	}
	b.filter.Apply(buf, b.bg)
	return nil
}

// Name implements Stage.
func (b *boundKeyFilter) Name() string {
	return fmt.Sprintf("KeyFilter(%s, tol=%d)", b.bg.Hex(), b.filter.tolerance)
}
