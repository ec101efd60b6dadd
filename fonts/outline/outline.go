// Package outline wraps embedded outline font blobs. The wrapper is
// deliberately opaque: rasterization belongs to an external engine, this
// package only validates that there is data to hand over and sniffs the
// container format from its magic number.
package outline

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/benoitkugler/textlayout/fonts/truetype"

	"github.com/pkosel/embuf/buffer"
)

// ErrEmptyFont is returned when a font view holds no data.
var ErrEmptyFont = errors.New("outline: empty font data")

// Format tags the container layout of an outline font.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatMPFF           // packed outline format of the asset pipeline
	FormatTrueType
	FormatOpenType
)

func (f Format) String() string {
	switch f {
	case FormatMPFF:
		return "MPFF"
	case FormatTrueType:
		return "TrueType"
	case FormatOpenType:
		return "OpenType"
	default:
		return "unknown"
	}
}

const (
	mpffMagic     = "MPFF"
	openTypeMagic = "OTTO"
)

// DetectFormat sniffs the 4-byte magic at the start of the view.
func DetectFormat(data buffer.View) Format {
	if data.Len() < 4 {
		return FormatUnknown
	}
	b := data.Bytes()
	switch {
	case string(b[:4]) == mpffMagic:
		return FormatMPFF
	case binary.BigEndian.Uint32(b) == 0x00010000:
		return FormatTrueType
	case string(b[:4]) == openTypeMagic:
		return FormatOpenType
	}
	return FormatUnknown
}

// Font pairs an outline font blob with its format tag.
type Font struct {
	data   buffer.View
	format Format
}

// NewFont wraps a non-empty byte view. The data is not parsed.
func NewFont(data buffer.View, format Format) (Font, error) {
	if data.Len() == 0 {
		return Font{}, ErrEmptyFont
	}
	return Font{data: data, format: format}, nil
}

// Format returns the declared container format.
func (f Font) Format() Format { return f.format }

// Data returns the raw font bytes.
func (f Font) Data() buffer.View { return f.data }

// Engine is implemented by outline rasterizers consuming raw font data.
type Engine interface {
	LoadFont(data []byte, format Format) error
}

// LoadInto hands the font bytes, untouched, to an engine.
func (f Font) LoadInto(e Engine) error {
	return e.LoadFont(f.data.Bytes(), f.format)
}

// MPFFGlyphCount reads the glyph count from the MPFF header: the magic
// followed by a little-endian uint16.
func (f Font) MPFFGlyphCount() (int, error) {
	if f.format != FormatMPFF {
		return 0, fmt.Errorf("outline: %s font has no MPFF header", f.format)
	}
	b := f.data.Bytes()
	if len(b) < 6 || string(b[:4]) != mpffMagic {
		return 0, fmt.Errorf("outline: truncated or mistagged MPFF header")
	}
	return int(binary.LittleEndian.Uint16(b[4:6])), nil
}

// ParseTrueType hands the font bytes to the textlayout TrueType parser,
// which also accepts OpenType containers. MPFF fonts are rejected; their
// rasterizer has its own loader.
func (f Font) ParseTrueType() (*truetype.Font, error) {
	if f.format == FormatMPFF {
		return nil, fmt.Errorf("outline: %s font is not TrueType-compatible", f.format)
	}
	font, err := truetype.Parse(bytes.NewReader(f.data.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("outline: invalid font file: %s", err)
	}
	return font, nil
}
