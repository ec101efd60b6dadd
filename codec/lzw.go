package codec

import (
	"bytes"

	"github.com/hhrutter/lzw"
)

type lzwDecoder struct{}

func (lzwDecoder) DecodeInto(dst, src []byte) (int, error) {
	rc := lzw.NewReader(bytes.NewReader(src), true)
	defer rc.Close()
	return readInto(dst, rc)
}
