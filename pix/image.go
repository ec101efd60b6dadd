// Package pix wraps embedded pixel buffers produced by the asset
// pipeline. An image view carries its pixel format out of band and its
// dimensions in a small header inside the data; the pixel payload itself
// is opaque to this package and interpreted by whoever fills a texture
// from it.
package pix

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/pkosel/embuf/buffer"
)

var (
	// ErrTruncatedHeader is returned when the view is shorter than the
	// dimension header.
	ErrTruncatedHeader = errors.New("pix: truncated image header")
	// ErrDimensionOverflow is returned when the header-declared
	// dimensions do not fit the payload.
	ErrDimensionOverflow = errors.New("pix: declared dimensions exceed pixel data")
	// ErrUnknownFormat is returned for pixel formats outside the closed set.
	ErrUnknownFormat = errors.New("pix: unknown pixel format")
)

// Format identifies the packed pixel layout. The values mirror the
// converters of the asset pipeline.
type Format uint8

const (
	RGBA8888 Format = iota + 1
	RGB888
	RGB565
	RGBA4444
	RGAB5515 // RGB555 with a 1-bit punch-through alpha
	R4       // 4-bit grayscale
	A4       // 4-bit alpha
	R1       // 1-bit grayscale
	A1       // 1-bit alpha
	BC1      // block compression, 4x4 texel blocks of 8 bytes
)

// BitsPerPixel returns the storage cost of one pixel. BC1 blocks hold 16
// texels in 8 bytes.
func (f Format) BitsPerPixel() int {
	switch f {
	case RGBA8888:
		return 32
	case RGB888:
		return 24
	case RGB565, RGBA4444, RGAB5515:
		return 16
	case R4, A4, BC1:
		return 4
	case R1, A1:
		return 1
	default:
		return 0
	}
}

// String returns the identifier the asset pipeline uses for the format.
func (f Format) String() string {
	switch f {
	case RGBA8888:
		return "rgba8888"
	case RGB888:
		return "rgb888"
	case RGB565:
		return "rgb565"
	case RGBA4444:
		return "rgba4444"
	case RGAB5515:
		return "rgab5515"
	case R4:
		return "r4"
	case A4:
		return "a4"
	case R1:
		return "r1"
	case A1:
		return "a1"
	case BC1:
		return "bc1"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(f))
	}
}

// ParseFormat resolves a format from its string identifier.
func ParseFormat(name string) (Format, error) {
	for f := RGBA8888; f <= BC1; f++ {
		if f.String() == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// HeaderSize is the fixed dimension prefix: big-endian uint16 width and
// height.
const HeaderSize = 4

// Config holds the dimensions recovered from an image header.
type Config struct {
	Width, Height int
}

// Image pairs a pixel buffer with its format tag.
type Image struct {
	data   buffer.View
	format Format
}

// NewImage validates the format tag and wraps the view.
func NewImage(data buffer.View, f Format) (Image, error) {
	if f.BitsPerPixel() == 0 {
		return Image{}, fmt.Errorf("%w: %d", ErrUnknownFormat, uint8(f))
	}
	return Image{data: data, format: f}, nil
}

// Format returns the pixel format of the image.
func (img Image) Format() Format { return img.format }

// Data returns the raw view, header included.
func (img Image) Data() buffer.View { return img.data }

// Pixels returns the payload following the dimension header.
func (img Image) Pixels() (buffer.View, error) {
	if _, err := img.ParseHeader(); err != nil {
		return buffer.View{}, err
	}
	return img.data.Slice(HeaderSize, img.data.Len()), nil
}

// ParseHeader reads the dimension prefix and checks it against the
// payload length.
func (img Image) ParseHeader() (Config, error) {
	if img.data.Len() < HeaderSize {
		return Config{}, fmt.Errorf("%w: %d bytes", ErrTruncatedHeader, img.data.Len())
	}
	b := img.data.Bytes()
	cfg := Config{
		Width:  int(binary.BigEndian.Uint16(b[0:2])),
		Height: int(binary.BigEndian.Uint16(b[2:4])),
	}
	need := payloadBytes(img.format, cfg.Width, cfg.Height)
	if need > img.data.Len()-HeaderSize {
		return Config{}, fmt.Errorf("%w: %dx%d %s needs %d bytes, have %d",
			ErrDimensionOverflow, cfg.Width, cfg.Height, img.format, need, img.data.Len()-HeaderSize)
	}
	return cfg, nil
}

func payloadBytes(f Format, width, height int) int {
	if f == BC1 {
		// blocks are padded to full 4x4 texel tiles
		return (width + 3) / 4 * ((height + 3) / 4) * 8
	}
	bits := width * height * f.BitsPerPixel()
	return (bits + 7) / 8
}
