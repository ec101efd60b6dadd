package codec

import "fmt"

// Byte-oriented run length coding: a control byte below 0x80 is followed
// by that many +1 literal bytes, a control byte above 0x80 repeats the
// next byte 257-control times, and 0x80 marks the end of data.

type rleDecoder struct{}

const eodRunLength = 0x80

func (rleDecoder) DecodeInto(dst, src []byte) (int, error) {
	n := 0
	for pos := 0; ; {
		// EOF before the EOD marker is an error
		if pos >= len(src) {
			return n, fmt.Errorf("%w: missing EOD marker", ErrCorruptStream)
		}
		b := src[pos]
		pos++
		if b == eodRunLength {
			return n, nil
		}
		if b < 0x80 {
			c := int(b) + 1
			if pos+c > len(src) {
				return n, fmt.Errorf("%w: truncated literal run", ErrCorruptStream)
			}
			if n+c > len(dst) {
				return n, fmt.Errorf("%w: output exceeds %d bytes", ErrOutOfMemory, len(dst))
			}
			n += copy(dst[n:], src[pos:pos+c])
			pos += c
			continue
		}
		c := 257 - int(b)
		if pos >= len(src) {
			return n, fmt.Errorf("%w: truncated repeat run", ErrCorruptStream)
		}
		if n+c > len(dst) {
			return n, fmt.Errorf("%w: output exceeds %d bytes", ErrOutOfMemory, len(dst))
		}
		rep := src[pos]
		pos++
		for j := 0; j < c; j++ {
			dst[n] = rep
			n++
		}
	}
}
