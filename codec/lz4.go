package codec

import (
	"errors"
	"fmt"

	"github.com/pierrec/lz4/v4"
)

type lz4Decoder struct{}

// The payload is a single LZ4 block, not the framed format.
func (lz4Decoder) DecodeInto(dst, src []byte) (int, error) {
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) {
			return 0, fmt.Errorf("%w: output exceeds %d bytes", ErrOutOfMemory, len(dst))
		}
		return 0, fmt.Errorf("%w: %s", ErrCorruptStream, err)
	}
	return n, nil
}
