package codec

import "fmt"

// LZSS streams start with a small header describing the field widths the
// encoder settled on: 4 bits window-bits minus 3, 4 bits length-bits
// minus 1, 2 bits minimum back-reference minus 1, then a 22-bit entry
// count. Each entry is flag-prefixed: flag 0 is an 8-bit literal, flag 1
// a back-reference storing distance-1 in window-bits and
// length-minimumReference in length-bits.

type lzssDecoder struct{}

func (lzssDecoder) DecodeInto(dst, src []byte) (int, error) {
	r := bitReader{data: src}

	windowBits, err := r.read(4)
	if err != nil {
		return 0, err
	}
	lengthBits, err := r.read(4)
	if err != nil {
		return 0, err
	}
	minRef, err := r.read(2)
	if err != nil {
		return 0, err
	}
	count, err := r.read(22)
	if err != nil {
		return 0, err
	}
	windowBits += 3
	lengthBits += 1
	minRef += 1

	n := 0
	for i := uint32(0); i < count; i++ {
		flag, err := r.read(1)
		if err != nil {
			return n, err
		}
		if flag == 0 {
			lit, err := r.read(8)
			if err != nil {
				return n, err
			}
			if n >= len(dst) {
				return n, fmt.Errorf("%w: output exceeds %d bytes", ErrOutOfMemory, len(dst))
			}
			dst[n] = byte(lit)
			n++
			continue
		}
		distField, err := r.read(int(windowBits))
		if err != nil {
			return n, err
		}
		lenField, err := r.read(int(lengthBits))
		if err != nil {
			return n, err
		}
		dist := int(distField) + 1
		length := int(lenField) + int(minRef)
		if dist > n {
			return n, fmt.Errorf("%w: back-reference of %d bytes at offset %d", ErrCorruptStream, dist, n)
		}
		if n+length > len(dst) {
			return n, fmt.Errorf("%w: output exceeds %d bytes", ErrOutOfMemory, len(dst))
		}
		// byte-wise copy, references may overlap their own output
		for j := 0; j < length; j++ {
			dst[n] = dst[n-dist]
			n++
		}
	}
	return n, nil
}
