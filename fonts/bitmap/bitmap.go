// Package bitmap decodes the packed glyph atlases embedded by the asset
// pipeline, in two flavors: fixed-width fonts with a uniform glyph cell,
// and variable-width fonts whose glyph boundaries are recovered by
// scanning for fully transparent columns.
//
// Atlas encoding: glyph pixels are bit-packed column-major (columns left
// to right, pixels top to bottom within a column, most significant bit
// first) at 1, 2, 4 or 8 bits per pixel. Black is the transparent end of
// the scale: sample 0 is fully transparent and the maximum sample fully
// opaque, with intermediate values spread linearly.
//
// Fonts alias their atlas storage and never copy it; glyph lookups decode
// lazily. All font values are safe for concurrent use.
package bitmap

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/text/encoding/charmap"

	"github.com/pkosel/embuf/buffer"
)

var (
	// ErrNotFound is returned for codepoints outside the declared range.
	ErrNotFound = errors.New("bitmap: no glyph for codepoint")
	// ErrGlyphCountMismatch is returned when the column scan of a
	// variable-width atlas disagrees with the declared glyph count.
	ErrGlyphCountMismatch = errors.New("bitmap: glyph count mismatch")
)

// ColorMode selects what a decoded sample carries.
type ColorMode uint8

const (
	// ModeAlpha samples are coverage only, for single-color rendering.
	ModeAlpha ColorMode = iota
	// ModeGray samples also feed a grayscale color channel.
	ModeGray
)

func (m ColorMode) String() string {
	switch m {
	case ModeAlpha:
		return "alpha"
	case ModeGray:
		return "gray"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(m))
	}
}

func validBitDepth(bits int) bool {
	return bits == 1 || bits == 2 || bits == 4 || bits == 8
}

// readBits extracts count bits at bit position pos, most significant
// bit first.
func readBits(atlas buffer.View, pos, count int) uint8 {
	var out uint8
	for i := 0; i < count; i++ {
		b := atlas.At(pos >> 3)
		out = out<<1 | b>>(7-(pos&7))&1
		pos++
	}
	return out
}

// Glyph is a lazily decoded view over one glyph's pixels. It aliases the
// font's atlas; nothing is copied.
type Glyph struct {
	atlas   buffer.View
	bitBase int // bit offset of the first column, -1 for blank glyphs
	width   int
	height  int
	bits    int
	mode    ColorMode
}

// Width returns the glyph width in pixels.
func (g *Glyph) Width() int { return g.width }

// Height returns the glyph height in pixels.
func (g *Glyph) Height() int { return g.height }

// Sample returns the raw quantized value of the pixel, in
// [0, 1<<bitsPerPixel). Coordinates outside the glyph read as 0.
func (g *Glyph) Sample(x, y int) uint8 {
	if x < 0 || x >= g.width || y < 0 || y >= g.height || g.bitBase < 0 {
		return 0
	}
	colBits := g.height * g.bits
	return readBits(g.atlas, g.bitBase+x*colBits+y*g.bits, g.bits)
}

// Alpha returns the opacity of the pixel on the full 8-bit scale:
// 0 fully transparent, 255 fully opaque.
func (g *Glyph) Alpha(x, y int) uint8 {
	maxSample := uint16(1)<<g.bits - 1
	return uint8(uint16(g.Sample(x, y)) * 255 / maxSample)
}

// ColorModel implements image.Image.
func (g *Glyph) ColorModel() color.Model {
	if g.mode == ModeGray {
		return color.GrayModel
	}
	return color.AlphaModel
}

// Bounds implements image.Image.
func (g *Glyph) Bounds() image.Rectangle { return image.Rect(0, 0, g.width, g.height) }

// At implements image.Image: a coverage mask in ModeAlpha, grayscale
// intensity in ModeGray.
func (g *Glyph) At(x, y int) color.Color {
	v := g.Alpha(x, y)
	if g.mode == ModeGray {
		return color.Gray{Y: v}
	}
	return color.Alpha{A: v}
}

// Source is the shared lookup contract of both font flavors.
type Source interface {
	// Glyph returns the bitmap for a codepoint, or ErrNotFound.
	Glyph(codepoint int) (*Glyph, error)
}

// GlyphForRune maps r through a single-byte charmap (Latin-1, CP1251,
// ...) into the font's codepoint space and looks the glyph up.
func GlyphForRune(f Source, r rune, cm *charmap.Charmap) (*Glyph, error) {
	b, ok := cm.EncodeRune(r)
	if !ok {
		return nil, fmt.Errorf("%w: %q has no mapping in the charmap", ErrNotFound, r)
	}
	return f.Glyph(int(b))
}
