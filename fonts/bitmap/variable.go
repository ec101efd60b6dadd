package bitmap

import (
	"fmt"
	"sync"

	"github.com/pkosel/embuf/buffer"
)

// VariableFont packs glyphs of differing widths contiguously in a single
// atlas row. Widths are not stored; they are recovered by scanning the
// row for fully transparent columns, which separate consecutive glyphs.
//
// A glyph with no ink at all (space) is indistinguishable from a gap, so
// its width must be supplied through the overrides table; such glyphs
// never consume scan output.
//
// The scan runs at most once per font, on first lookup. A failed scan is
// final: the font reports the same error for every subsequent lookup.
type VariableFont struct {
	atlas     buffer.View
	first     int
	count     int
	height    int
	bits      int
	mode      ColorMode
	overrides map[int]int // codepoint to width, for blank glyphs

	scanOnce sync.Once
	bounds   []Boundary
	scanErr  error
}

// Boundary locates one glyph in the atlas row. Start is the first atlas
// column of the glyph, or -1 when the width comes from an override and
// the glyph has no atlas backing.
type Boundary struct {
	Start, Width int
}

// NewVariableFont wraps a single-row atlas of glyphCount glyphs of
// cellHeight pixels, assigned to consecutive codepoints starting at
// firstCodepoint. spaceOverrides supplies the widths of blank glyphs by
// codepoint; the map is copied.
func NewVariableFont(atlas buffer.View, firstCodepoint, glyphCount, cellHeight, bitsPerPixel int, mode ColorMode, spaceOverrides map[int]int) (*VariableFont, error) {
	if !validBitDepth(bitsPerPixel) {
		return nil, fmt.Errorf("bitmap: unsupported bit depth %d", bitsPerPixel)
	}
	if glyphCount <= 0 || cellHeight <= 0 {
		return nil, fmt.Errorf("bitmap: invalid layout, %d glyphs of height %d", glyphCount, cellHeight)
	}
	f := &VariableFont{
		atlas:  atlas,
		first:  firstCodepoint,
		count:  glyphCount,
		height: cellHeight,
		bits:   bitsPerPixel,
		mode:   mode,
	}
	if len(spaceOverrides) > 0 {
		f.overrides = make(map[int]int, len(spaceOverrides))
		for cp, w := range spaceOverrides {
			if cp < firstCodepoint || cp >= firstCodepoint+glyphCount {
				return nil, fmt.Errorf("bitmap: override for codepoint %d outside [%d, %d)",
					cp, firstCodepoint, firstCodepoint+glyphCount)
			}
			if w < 0 {
				return nil, fmt.Errorf("bitmap: negative override width %d for codepoint %d", w, cp)
			}
			f.overrides[cp] = w
		}
	}
	// every scanned glyph needs at least one inked column, plus a
	// separator between neighbours
	if scanned := glyphCount - len(f.overrides); scanned > 0 {
		if minCols := 2*scanned - 1; f.columns() < minCols {
			return nil, fmt.Errorf("%w: atlas holds %d columns, %d scanned glyphs need at least %d",
				buffer.ErrLayoutMismatch, f.columns(), scanned, minCols)
		}
	}
	return f, nil
}

// FirstCodepoint returns the codepoint of the first glyph.
func (f *VariableFont) FirstCodepoint() int { return f.first }

// GlyphCount returns the declared number of glyphs.
func (f *VariableFont) GlyphCount() int { return f.count }

// CellHeight returns the glyph height in pixels.
func (f *VariableFont) CellHeight() int { return f.height }

// BitsPerPixel returns the atlas bit depth.
func (f *VariableFont) BitsPerPixel() int { return f.bits }

// Mode returns the color mode of the font.
func (f *VariableFont) Mode() ColorMode { return f.mode }

// columns is the number of complete pixel columns the atlas holds.
func (f *VariableFont) columns() int {
	return f.atlas.Len() * 8 / (f.height * f.bits)
}

// inked reports whether any pixel of the column carries ink.
func (f *VariableFont) inked(col int) bool {
	base := col * f.height * f.bits
	for y := 0; y < f.height; y++ {
		if readBits(f.atlas, base+y*f.bits, f.bits) != 0 {
			return true
		}
	}
	return false
}

// scan walks the atlas once, left to right, collecting runs of inked
// columns. A fully transparent column ends the glyph before it; the next
// inked column starts the next glyph. Runs are assigned to codepoints in
// increasing order, skipping codepoints whose width is overridden.
func (f *VariableFont) scan() {
	cols := f.columns()
	var runs []Boundary
	start := -1
	for c := 0; c < cols; c++ {
		switch {
		case f.inked(c):
			if start < 0 {
				start = c
			}
		case start >= 0:
			runs = append(runs, Boundary{Start: start, Width: c - start})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, Boundary{Start: start, Width: cols - start})
	}

	if len(runs)+len(f.overrides) != f.count {
		f.scanErr = fmt.Errorf("%w: scan found %d glyphs and %d overrides, font declares %d",
			ErrGlyphCountMismatch, len(runs), len(f.overrides), f.count)
		return
	}

	bounds := make([]Boundary, f.count)
	next := 0
	for i := range bounds {
		if w, ok := f.overrides[f.first+i]; ok {
			bounds[i] = Boundary{Start: -1, Width: w}
			continue
		}
		bounds[i] = runs[next]
		next++
	}
	f.bounds = bounds
}

// Boundaries returns the glyph boundary table in codepoint order,
// computing it on first use. The returned slice is a copy.
func (f *VariableFont) Boundaries() ([]Boundary, error) {
	f.scanOnce.Do(f.scan)
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	out := make([]Boundary, len(f.bounds))
	copy(out, f.bounds)
	return out, nil
}

// Glyph returns the bitmap for a codepoint. The returned glyph aliases
// the atlas; override glyphs are blank.
func (f *VariableFont) Glyph(codepoint int) (*Glyph, error) {
	i := codepoint - f.first
	if i < 0 || i >= f.count {
		return nil, fmt.Errorf("%w: %d outside [%d, %d)", ErrNotFound, codepoint, f.first, f.first+f.count)
	}
	f.scanOnce.Do(f.scan)
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	b := f.bounds[i]
	g := &Glyph{
		atlas:   f.atlas,
		bitBase: -1,
		width:   b.Width,
		height:  f.height,
		bits:    f.bits,
		mode:    f.mode,
	}
	if b.Start >= 0 {
		g.bitBase = b.Start * f.height * f.bits
	}
	return g, nil
}
