package chroma

import (
	"image"
)

// Buffer is a dense width×height grid of interleaved RGBA samples,
// each channel an 8-bit value. It is the unit of data passed between
// all pipeline stages and is mutated in place by the filter and
// softener.
type Buffer struct {
	Width  int
	Height int
	// Pix holds interleaved R, G, B, A bytes with a stride of Width*4.
	Pix []byte
}

// NewBuffer creates a zeroed buffer of the given dimensions.
// Non-positive dimensions produce an empty buffer.
func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
}

// RGBA returns an *image.RGBA view sharing this buffer's pixel
// storage. Drawing into the returned image mutates the buffer, which
// is how decoded frames are scaled into the working buffer each tick.
func (b *Buffer) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// offset returns the index of the R byte for the pixel at (x, y).
// The caller is responsible for bounds.
func (b *Buffer) offset(x, y int) int {
	return (y*b.Width + x) * 4
}

// At returns the RGBA sample at (x, y).
func (b *Buffer) At(x, y int) (r, g, bl, a byte) {
	i := b.offset(x, y)
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

// Set writes the RGBA sample at (x, y).
func (b *Buffer) Set(x, y int, r, g, bl, a byte) {
	i := b.offset(x, y)
	b.Pix[i] = r
	b.Pix[i+1] = g
	b.Pix[i+2] = bl
	b.Pix[i+3] = a
}

// Alpha returns the alpha channel at (x, y).
func (b *Buffer) Alpha(x, y int) byte {
	return b.Pix[b.offset(x, y)+3]
}

// SetAlpha writes only the alpha channel at (x, y).
func (b *Buffer) SetAlpha(x, y int, a byte) {
	b.Pix[b.offset(x, y)+3] = a
}

// Clear zeroes every sample without reallocating.
func (b *Buffer) Clear() {
	for i := range b.Pix {
		b.Pix[i] = 0
	}
}

// Clone creates a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	return &Buffer{
		Width:  b.Width,
		Height: b.Height,
		Pix:    append([]byte(nil), b.Pix...),
	}
}

// Equal reports whether two buffers have identical dimensions and
// byte-for-byte identical samples.
func (b *Buffer) Equal(other *Buffer) bool {
	if other == nil || b.Width != other.Width || b.Height != other.Height {
		return false
	}
	if len(b.Pix) != len(other.Pix) {
		return false
	}
	for i := range b.Pix {
		if b.Pix[i] != other.Pix[i] {
			return false
		}
	}
	return true
}
