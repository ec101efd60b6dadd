package codec

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

type zstdDecoder struct{}

func (zstdDecoder) DecodeInto(dst, src []byte) (int, error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrCorruptStream, err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(src, dst[:0])
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrCorruptStream, err)
	}
	if len(out) > len(dst) {
		return 0, fmt.Errorf("%w: output is %d bytes, destination %d", ErrOutOfMemory, len(out), len(dst))
	}
	return len(out), nil
}
