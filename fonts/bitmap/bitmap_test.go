package bitmap

import (
	"errors"
	"image/color"
	"sync"
	"testing"

	"golang.org/x/exp/errors/fmt"
	"golang.org/x/text/encoding/charmap"

	"github.com/pkosel/embuf/buffer"
)

// 1-bit font with two 4x4 cells: a blank glyph and a solid one.
func blankAndSolid(t *testing.T) *FixedFont {
	t.Helper()
	atlas := buffer.NewView([]byte{0x00, 0x00, 0xFF, 0xFF})
	f, err := NewFixedFont(atlas, 'A', 2, 4, 4, 1, ModeAlpha)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestFixedFontLookup(t *testing.T) {
	f := blankAndSolid(t)

	blank, err := f.Glyph('A')
	if err != nil {
		t.Fatal(err)
	}
	solid, err := f.Glyph('B')
	if err != nil {
		t.Fatal(err)
	}
	for _, g := range []*Glyph{blank, solid} {
		if g.Width() != 4 || g.Height() != 4 {
			t.Fatalf("expected a 4x4 glyph, got %dx%d", g.Width(), g.Height())
		}
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if a := blank.Alpha(x, y); a != 0 {
				t.Errorf("blank glyph (%d,%d): expected alpha 0, got %d", x, y, a)
			}
			if a := solid.Alpha(x, y); a != 255 {
				t.Errorf("solid glyph (%d,%d): expected alpha 255, got %d", x, y, a)
			}
		}
	}

	for _, cp := range []int{'A' - 1, 'C', 0, -7} {
		if _, err := f.Glyph(cp); !errors.Is(err, ErrNotFound) {
			t.Errorf("codepoint %d: expected ErrNotFound, got %v", cp, err)
		}
	}
}

func TestFixedFontWholeRange(t *testing.T) {
	// every declared codepoint resolves, and only those
	const count = 16
	atlas := buffer.NewView(make([]byte, count*2)) // 4x4 at 1 bpp is 2 bytes per cell
	f, err := NewFixedFont(atlas, 0x20, count, 4, 4, 1, ModeAlpha)
	if err != nil {
		t.Fatal(err)
	}
	for cp := 0x20; cp < 0x20+count; cp++ {
		g, err := f.Glyph(cp)
		if err != nil {
			t.Fatal(err)
		}
		if g.Width() != 4 || g.Height() != 4 {
			t.Fatalf("codepoint %d: got %dx%d cell", cp, g.Width(), g.Height())
		}
	}
	if _, err := f.Glyph(0x20 + count); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound past the range, got %v", err)
	}
}

func TestFixedFontColumnOrder(t *testing.T) {
	// 2x2 cell with ink on the falling diagonal: column 0 is (1,0),
	// column 1 is (0,1), packed MSB first as 1001_0000
	atlas := buffer.NewView([]byte{0x90})
	f, err := NewFixedFont(atlas, 0, 1, 2, 2, 1, ModeAlpha)
	if err != nil {
		t.Fatal(err)
	}
	g, err := f.Glyph(0)
	if err != nil {
		t.Fatal(err)
	}
	expected := [2][2]uint8{{1, 0}, {0, 1}} // indexed [y][x]
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if s := g.Sample(x, y); s != expected[y][x] {
				t.Errorf("(%d,%d): expected sample %d, got %d", x, y, expected[y][x], s)
			}
		}
	}
}

func TestFixedFont4Bit(t *testing.T) {
	// one 1x2 cell at 4 bpp: samples 10 and 5 in a single byte
	atlas := buffer.NewView([]byte{0xA5})
	f, err := NewFixedFont(atlas, 0, 1, 1, 2, 4, ModeGray)
	if err != nil {
		t.Fatal(err)
	}
	g, err := f.Glyph(0)
	if err != nil {
		t.Fatal(err)
	}
	if s := g.Sample(0, 0); s != 10 {
		t.Errorf("expected sample 10, got %d", s)
	}
	if s := g.Sample(0, 1); s != 5 {
		t.Errorf("expected sample 5, got %d", s)
	}
	// sixteen linear levels on the 8-bit scale
	if a := g.Alpha(0, 0); a != 170 {
		t.Errorf("expected alpha 170, got %d", a)
	}
	if a := g.Alpha(0, 1); a != 85 {
		t.Errorf("expected alpha 85, got %d", a)
	}
	if c := g.At(0, 0); c != (color.Gray{Y: 170}) {
		t.Errorf("expected gray 170, got %v", c)
	}
}

func TestFixedFontLayoutMismatch(t *testing.T) {
	atlas := buffer.NewView([]byte{0x00, 0x00, 0x00}) // 3 bytes, 2 glyphs need 4
	_, err := NewFixedFont(atlas, 'A', 2, 4, 4, 1, ModeAlpha)
	if !errors.Is(err, buffer.ErrLayoutMismatch) {
		t.Fatalf("expected ErrLayoutMismatch, got %v", err)
	}
}

// variableAtlas builds a 1-bit atlas of height 8 where each byte is one
// column: 0xFF ink, 0x00 transparent.
func variableAtlas(cols ...byte) buffer.View {
	return buffer.NewView(cols)
}

func TestVariableFontScan(t *testing.T) {
	// glyph widths 2, 1, 3 separated by single transparent columns,
	// plus a space of width 2 overridden at the second codepoint
	atlas := variableAtlas(0xFF, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0xFF, 0xFF)
	f, err := NewVariableFont(atlas, 100, 4, 8, 1, ModeAlpha, map[int]int{101: 2})
	if err != nil {
		t.Fatal(err)
	}

	bounds, err := f.Boundaries()
	if err != nil {
		t.Fatal(err)
	}
	expected := []Boundary{{0, 2}, {-1, 2}, {3, 1}, {5, 3}}
	if len(bounds) != len(expected) {
		t.Fatalf("expected %d boundaries, got %d", len(expected), len(bounds))
	}
	for i := range expected {
		if bounds[i] != expected[i] {
			t.Errorf("boundary %d: expected %+v, got %+v", i, expected[i], bounds[i])
		}
	}

	for i, width := range []int{2, 2, 1, 3} {
		g, err := f.Glyph(100 + i)
		if err != nil {
			t.Fatal(err)
		}
		if g.Width() != width || g.Height() != 8 {
			t.Errorf("glyph %d: expected %dx8, got %dx%d", i, width, g.Width(), g.Height())
		}
	}

	// the override glyph is blank
	space, err := f.Glyph(101)
	if err != nil {
		t.Fatal(err)
	}
	for x := 0; x < space.Width(); x++ {
		for y := 0; y < space.Height(); y++ {
			if a := space.Alpha(x, y); a != 0 {
				t.Errorf("space (%d,%d): expected alpha 0, got %d", x, y, a)
			}
		}
	}

	// the glyph after the override starts where the scan put it
	g, err := f.Glyph(102)
	if err != nil {
		t.Fatal(err)
	}
	if a := g.Alpha(0, 0); a != 255 {
		t.Errorf("expected the third glyph to map to column 3, alpha 255, got %d", a)
	}

	if _, err := f.Glyph(104); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestVariableFontBoundariesOrdered(t *testing.T) {
	atlas := variableAtlas(
		0xFF, 0x00, 0xFF, 0xFF, 0x00, 0x00, 0xFF, 0x00, 0xFF, 0xFF, 0xFF, 0xFF,
	)
	f, err := NewVariableFont(atlas, 0, 4, 8, 1, ModeAlpha, nil)
	if err != nil {
		t.Fatal(err)
	}
	bounds, err := f.Boundaries()
	if err != nil {
		t.Fatal(err)
	}
	if len(bounds) != 4 {
		t.Fatalf("expected 4 boundaries, got %d", len(bounds))
	}
	end := 0
	for i, b := range bounds {
		if b.Start < end {
			t.Errorf("boundary %d overlaps its predecessor: %+v", i, b)
		}
		if b.Width <= 0 {
			t.Errorf("boundary %d has no width: %+v", i, b)
		}
		end = b.Start + b.Width
	}
}

func TestVariableFontTrailingGlyph(t *testing.T) {
	// the last glyph runs to the end of the atlas without a closing gap
	atlas := variableAtlas(0xFF, 0x00, 0xFF)
	f, err := NewVariableFont(atlas, 0, 2, 8, 1, ModeAlpha, nil)
	if err != nil {
		t.Fatal(err)
	}
	bounds, err := f.Boundaries()
	if err != nil {
		t.Fatal(err)
	}
	expected := []Boundary{{0, 1}, {2, 1}}
	for i := range expected {
		if bounds[i] != expected[i] {
			t.Errorf("boundary %d: expected %+v, got %+v", i, expected[i], bounds[i])
		}
	}
}

func TestVariableFontCountMismatch(t *testing.T) {
	atlas := variableAtlas(0xFF, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0xFF, 0xFF, 0x00)
	f, err := NewVariableFont(atlas, 100, 5, 8, 1, ModeAlpha, nil)
	if err != nil {
		t.Fatal(err)
	}

	_, err = f.Glyph(100)
	if !errors.Is(err, ErrGlyphCountMismatch) {
		t.Fatalf("expected ErrGlyphCountMismatch, got %v", err)
	}

	// the failed scan is final, later lookups see the same error
	for _, cp := range []int{100, 102, 104} {
		if _, err := f.Glyph(cp); !errors.Is(err, ErrGlyphCountMismatch) {
			t.Errorf("codepoint %d: expected the sticky ErrGlyphCountMismatch, got %v", cp, err)
		}
	}
	if _, err := f.Boundaries(); !errors.Is(err, ErrGlyphCountMismatch) {
		t.Errorf("expected ErrGlyphCountMismatch from Boundaries, got %v", err)
	}
}

func TestVariableFontLayoutMismatch(t *testing.T) {
	// 4 scanned glyphs need at least 7 columns, the atlas has 3
	atlas := variableAtlas(0xFF, 0x00, 0xFF)
	_, err := NewVariableFont(atlas, 0, 4, 8, 1, ModeAlpha, nil)
	if !errors.Is(err, buffer.ErrLayoutMismatch) {
		t.Fatalf("expected ErrLayoutMismatch, got %v", err)
	}
}

func TestVariableFontOverrideValidation(t *testing.T) {
	atlas := variableAtlas(0xFF, 0x00, 0xFF)
	if _, err := NewVariableFont(atlas, 0, 2, 8, 1, ModeAlpha, map[int]int{5: 2}); err == nil {
		t.Fatal("expected an error for an override outside the codepoint range")
	}
	if _, err := NewVariableFont(atlas, 0, 2, 8, 1, ModeAlpha, map[int]int{1: -1}); err == nil {
		t.Fatal("expected an error for a negative override width")
	}
}

func TestVariableFont4Bit(t *testing.T) {
	// height 2 at 4 bpp: one byte per column
	atlas := buffer.NewView([]byte{0x5F, 0x00, 0x07})
	f, err := NewVariableFont(atlas, 0, 2, 2, 4, ModeAlpha, nil)
	if err != nil {
		t.Fatal(err)
	}
	g, err := f.Glyph(0)
	if err != nil {
		t.Fatal(err)
	}
	if s := g.Sample(0, 0); s != 5 {
		t.Errorf("expected sample 5, got %d", s)
	}
	if s := g.Sample(0, 1); s != 15 {
		t.Errorf("expected sample 15, got %d", s)
	}
	if a := g.Alpha(0, 1); a != 255 {
		t.Errorf("expected alpha 255, got %d", a)
	}

	second, err := f.Glyph(1)
	if err != nil {
		t.Fatal(err)
	}
	if s := second.Sample(0, 1); s != 7 {
		t.Errorf("expected sample 7, got %d", s)
	}
}

func TestVariableFontConcurrentFirstLookup(t *testing.T) {
	atlas := variableAtlas(0xFF, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0xFF, 0xFF)
	f, err := NewVariableFont(atlas, 0, 3, 8, 1, ModeAlpha, nil)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	widths := make([]int, 16)
	for i := range widths {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			g, err := f.Glyph(slot % 3)
			if err != nil {
				t.Error(err)
				return
			}
			widths[slot] = g.Width()
		}(i)
	}
	wg.Wait()

	expected := []int{2, 1, 3}
	for i, w := range widths {
		if w != expected[i%3] {
			t.Errorf("lookup %d: expected width %d, got %d", i, expected[i%3], w)
		}
	}
}

func TestGlyphForRune(t *testing.T) {
	// a single glyph at the Latin-1 position of 'Ä'
	atlas := buffer.NewView([]byte{0x80})
	f, err := NewFixedFont(atlas, 0xC4, 1, 1, 1, 1, ModeAlpha)
	if err != nil {
		t.Fatal(err)
	}

	g, err := GlyphForRune(f, 'Ä', charmap.ISO8859_1)
	if err != nil {
		t.Fatal(err)
	}
	if g.Alpha(0, 0) != 255 {
		t.Fatal("expected the glyph pixel to be opaque")
	}

	// mapped by the charmap but absent from the font
	if _, err := GlyphForRune(f, 'e', charmap.ISO8859_1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	// not representable in the charmap at all
	if _, err := GlyphForRune(f, '€', charmap.ISO8859_1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGlyphImage(t *testing.T) {
	f := blankAndSolid(t)
	g, err := f.Glyph('B')
	if err != nil {
		t.Fatal(err)
	}
	if g.ColorModel() != color.AlphaModel {
		t.Fatal("expected an alpha color model")
	}
	b := g.Bounds()
	if b.Dx() != 4 || b.Dy() != 4 {
		t.Fatalf("expected 4x4 bounds, got %s", fmt.Sprint(b))
	}
	if c := g.At(2, 2); c != (color.Alpha{A: 255}) {
		t.Fatalf("expected opaque alpha, got %v", c)
	}
	// out of bounds reads are transparent, matching image semantics
	if c := g.At(17, -1); c != (color.Alpha{A: 0}) {
		t.Fatalf("expected transparent alpha, got %v", c)
	}
}
