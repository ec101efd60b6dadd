// Package jtag frames embedded hardware command streams for sequential
// consumption by a hardware-interface layer. Frame contents are opaque
// here; only the framing is checked.
package jtag

import (
	"errors"
	"fmt"

	"github.com/pkosel/embuf/buffer"
)

// ErrIndexOutOfRange is returned for frame accesses past the stream end.
var ErrIndexOutOfRange = errors.New("jtag: frame index out of range")

// StreamKind identifies the consumer of a command stream and implies its
// fixed frame size.
type StreamKind uint8

const (
	// KindTAP carries 8-byte TAP controller command frames.
	KindTAP StreamKind = iota + 1
	// KindFlash carries 4-byte flash programming words.
	KindFlash
	// KindRegister carries 2-byte register writes.
	KindRegister
)

// FrameSize returns the frame size in bytes, or 0 for unknown kinds.
func (k StreamKind) FrameSize() int {
	switch k {
	case KindTAP:
		return 8
	case KindFlash:
		return 4
	case KindRegister:
		return 2
	default:
		return 0
	}
}

func (k StreamKind) String() string {
	switch k {
	case KindTAP:
		return "tap"
	case KindFlash:
		return "flash"
	case KindRegister:
		return "register"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Stream wraps a byte view as a sequence of fixed-size frames.
type Stream struct {
	frames buffer.View
	kind   StreamKind
}

// NewStream validates the framing: the view length must be an exact
// multiple of the kind's frame size.
func NewStream(frames buffer.View, kind StreamKind) (Stream, error) {
	size := kind.FrameSize()
	if size == 0 {
		return Stream{}, fmt.Errorf("jtag: unknown stream kind %d", uint8(kind))
	}
	if frames.Len()%size != 0 {
		return Stream{}, fmt.Errorf("%w: %d bytes is not a multiple of the %d-byte %s frame",
			buffer.ErrLayoutMismatch, frames.Len(), size, kind)
	}
	return Stream{frames: frames, kind: kind}, nil
}

// Kind returns the stream kind.
func (s Stream) Kind() StreamKind { return s.kind }

// FrameCount returns the number of frames in the stream.
func (s Stream) FrameCount() int {
	return s.frames.Len() / s.kind.FrameSize()
}

// Frame returns the i-th frame as a sub-view of the stream.
func (s Stream) Frame(i int) (buffer.View, error) {
	if i < 0 || i >= s.FrameCount() {
		return buffer.View{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, s.FrameCount())
	}
	size := s.kind.FrameSize()
	return s.frames.Slice(i*size, (i+1)*size), nil
}
