package bitmap

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Face adapts a FixedFont to the golang.org/x/image/font.Face interface,
// so embedded fonts plug into the standard text drawing helpers. The
// whole cell sits above the baseline and the advance equals the cell
// width.
//
// The glyph images of a ModeGray font carry no usable alpha for
// font.DrawString style masking; Face is meant for coverage (ModeAlpha)
// fonts.
type Face struct {
	Font *FixedFont
}

var _ font.Face = Face{}

// Close implements font.Face. It is a no-op: the atlas is static storage.
func (f Face) Close() error { return nil }

// Glyph implements font.Face.
func (f Face) Glyph(dot fixed.Point26_6, r rune) (dr image.Rectangle, mask image.Image, maskp image.Point, advance fixed.Int26_6, ok bool) {
	g, err := f.Font.Glyph(int(r))
	if err != nil {
		return image.Rectangle{}, nil, image.Point{}, 0, false
	}
	x, y := dot.X.Floor(), dot.Y.Floor()
	dr = image.Rect(x, y-g.Height(), x+g.Width(), y)
	return dr, g, image.Point{}, fixed.I(g.Width()), true
}

// GlyphBounds implements font.Face.
func (f Face) GlyphBounds(r rune) (bounds fixed.Rectangle26_6, advance fixed.Int26_6, ok bool) {
	if _, err := f.Font.Glyph(int(r)); err != nil {
		return fixed.Rectangle26_6{}, 0, false
	}
	return fixed.R(0, -f.Font.CellHeight(), f.Font.CellWidth(), 0), fixed.I(f.Font.CellWidth()), true
}

// GlyphAdvance implements font.Face.
func (f Face) GlyphAdvance(r rune) (advance fixed.Int26_6, ok bool) {
	if _, err := f.Font.Glyph(int(r)); err != nil {
		return 0, false
	}
	return fixed.I(f.Font.CellWidth()), true
}

// Kern implements font.Face; cell fonts carry no kerning.
func (f Face) Kern(r0, r1 rune) fixed.Int26_6 { return 0 }

// Metrics implements font.Face.
func (f Face) Metrics() font.Metrics {
	h := fixed.I(f.Font.CellHeight())
	return font.Metrics{
		Height:     h,
		Ascent:     h,
		Descent:    0,
		XHeight:    h,
		CapHeight:  h,
		CaretSlope: image.Point{X: 0, Y: 1},
	}
}
