package codec

import (
	"bytes"

	"github.com/klauspost/compress/flate"
)

type flateDecoder struct{}

func (flateDecoder) DecodeInto(dst, src []byte) (int, error) {
	rc := flate.NewReader(bytes.NewReader(src))
	defer rc.Close()
	return readInto(dst, rc)
}
