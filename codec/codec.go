// Package codec associates embedded byte views with the compression
// algorithm they were packed with, and provides the matching decoders.
//
// The set of codecs is closed: an asset's codec identifier is a protocol
// constant chosen at asset-conversion time, and the decoders here are the
// only ones the program is built to support. Decoding always targets a
// caller-provided destination buffer, since consumers typically
// decompress into statically sized scratch memory.
package codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/pkosel/embuf/buffer"
)

var (
	// ErrUnknownCodec is returned for identifiers outside the closed set.
	ErrUnknownCodec = errors.New("codec: unknown codec")
	// ErrCorruptStream is returned when the compressed input is malformed.
	ErrCorruptStream = errors.New("codec: corrupt stream")
	// ErrOutOfMemory is returned when decompression needs more space than
	// the caller-provided destination offers.
	ErrOutOfMemory = errors.New("codec: destination buffer too small")
)

// Codec identifies a compression algorithm. The values are protocol
// constants; changing them breaks compatibility with packed assets.
type Codec uint8

const (
	None Codec = iota
	RLE
	LZSS
	LZW
	Flate
	LZ4
	Zstd
)

// String returns the identifier the asset pipeline uses for the codec.
func (c Codec) String() string {
	switch c {
	case None:
		return "none"
	case RLE:
		return "rle"
	case LZSS:
		return "lzss"
	case LZW:
		return "lzw"
	case Flate:
		return "flate"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCodec resolves a codec from its string identifier.
func ParseCodec(name string) (Codec, error) {
	switch name {
	case "none":
		return None, nil
	case "rle":
		return RLE, nil
	case "lzss":
		return LZSS, nil
	case "lzw":
		return LZW, nil
	case "flate":
		return Flate, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return Zstd, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// Compressed pairs a compressed byte view with its codec. The envelope
// itself performs no decoding.
type Compressed struct {
	data  buffer.View
	codec Codec
}

// NewCompressed validates the codec identifier and wraps the view.
func NewCompressed(data buffer.View, c Codec) (Compressed, error) {
	if c > Zstd {
		return Compressed{}, fmt.Errorf("%w: %d", ErrUnknownCodec, uint8(c))
	}
	return Compressed{data: data, codec: c}, nil
}

// Codec returns the codec identifier of the envelope.
func (c Compressed) Codec() Codec { return c.codec }

// Data returns the compressed payload.
func (c Compressed) Data() buffer.View { return c.data }

// DecodeInto decompresses the payload into dst and returns the number of
// bytes written.
func (c Compressed) DecodeInto(dst []byte) (int, error) {
	dec, err := NewDecoder(c.codec)
	if err != nil {
		return 0, err
	}
	return dec.DecodeInto(dst, c.data.Bytes())
}

// Decoder decompresses a complete stream into a caller-provided
// destination. Implementations report ErrCorruptStream on malformed
// input and ErrOutOfMemory when dst is too small; they never silently
// truncate.
type Decoder interface {
	DecodeInto(dst, src []byte) (int, error)
}

// NewDecoder resolves the decoder for a codec identifier.
func NewDecoder(c Codec) (Decoder, error) {
	switch c {
	case None:
		return passthrough{}, nil
	case RLE:
		return rleDecoder{}, nil
	case LZSS:
		return lzssDecoder{}, nil
	case LZW:
		return lzwDecoder{}, nil
	case Flate:
		return flateDecoder{}, nil
	case LZ4:
		return lz4Decoder{}, nil
	case Zstd:
		return zstdDecoder{}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCodec, uint8(c))
	}
}

type passthrough struct{}

func (passthrough) DecodeInto(dst, src []byte) (int, error) {
	if len(dst) < len(src) {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrOutOfMemory, len(src), len(dst))
	}
	return copy(dst, src), nil
}

// readInto drains r into dst. Reaching the end of dst while r still has
// data is ErrOutOfMemory; any read failure is a corrupt stream.
func readInto(dst []byte, r io.Reader) (int, error) {
	n := 0
	for {
		if n == len(dst) {
			var probe [1]byte
			m, err := r.Read(probe[:])
			if m > 0 {
				return n, fmt.Errorf("%w: output exceeds %d bytes", ErrOutOfMemory, len(dst))
			}
			if err == io.EOF {
				return n, nil
			}
			if err != nil {
				return n, fmt.Errorf("%w: %s", ErrCorruptStream, err)
			}
			continue
		}
		m, err := r.Read(dst[n:])
		n += m
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("%w: %s", ErrCorruptStream, err)
		}
	}
}
