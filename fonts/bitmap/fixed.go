package bitmap

import (
	"fmt"

	"github.com/pkosel/embuf/buffer"
)

// FixedFont addresses glyphs of a uniform cell size. Every glyph cell is
// padded to a byte boundary, so the atlas stride per glyph is
// ceil(cellWidth*cellHeight*bitsPerPixel / 8) bytes and lookups are a
// single slice computation.
type FixedFont struct {
	atlas  buffer.View
	first  int
	count  int
	width  int
	height int
	bits   int
	mode   ColorMode
}

// NewFixedFont wraps an atlas of glyphCount cells of cellWidth by
// cellHeight pixels, assigned to consecutive codepoints starting at
// firstCodepoint. It fails with buffer.ErrLayoutMismatch when the atlas
// is shorter than the declared dimensions require.
func NewFixedFont(atlas buffer.View, firstCodepoint, glyphCount, cellWidth, cellHeight, bitsPerPixel int, mode ColorMode) (*FixedFont, error) {
	if !validBitDepth(bitsPerPixel) {
		return nil, fmt.Errorf("bitmap: unsupported bit depth %d", bitsPerPixel)
	}
	if glyphCount <= 0 || cellWidth <= 0 || cellHeight <= 0 {
		return nil, fmt.Errorf("bitmap: invalid cell layout %d glyphs of %dx%d", glyphCount, cellWidth, cellHeight)
	}
	f := &FixedFont{
		atlas:  atlas,
		first:  firstCodepoint,
		count:  glyphCount,
		width:  cellWidth,
		height: cellHeight,
		bits:   bitsPerPixel,
		mode:   mode,
	}
	if need := glyphCount * f.stride(); atlas.Len() < need {
		return nil, fmt.Errorf("%w: atlas holds %d bytes, %d glyphs of %dx%d at %d bpp need %d",
			buffer.ErrLayoutMismatch, atlas.Len(), glyphCount, cellWidth, cellHeight, bitsPerPixel, need)
	}
	return f, nil
}

// stride is the per-glyph atlas cost in bytes.
func (f *FixedFont) stride() int {
	return (f.width*f.height*f.bits + 7) / 8
}

// FirstCodepoint returns the codepoint of the first glyph.
func (f *FixedFont) FirstCodepoint() int { return f.first }

// GlyphCount returns the number of glyphs in the atlas.
func (f *FixedFont) GlyphCount() int { return f.count }

// CellWidth returns the uniform glyph width in pixels.
func (f *FixedFont) CellWidth() int { return f.width }

// CellHeight returns the glyph height in pixels.
func (f *FixedFont) CellHeight() int { return f.height }

// BitsPerPixel returns the atlas bit depth.
func (f *FixedFont) BitsPerPixel() int { return f.bits }

// Mode returns the color mode of the font.
func (f *FixedFont) Mode() ColorMode { return f.mode }

// Glyph returns the bitmap for a codepoint. The returned glyph aliases
// the atlas.
func (f *FixedFont) Glyph(codepoint int) (*Glyph, error) {
	i := codepoint - f.first
	if i < 0 || i >= f.count {
		return nil, fmt.Errorf("%w: %d outside [%d, %d)", ErrNotFound, codepoint, f.first, f.first+f.count)
	}
	return &Glyph{
		atlas:   f.atlas,
		bitBase: i * f.stride() * 8,
		width:   f.width,
		height:  f.height,
		bits:    f.bits,
		mode:    f.mode,
	}, nil
}
