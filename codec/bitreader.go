package codec

import "fmt"

// bitReader reads big-endian bit fields from a byte slice, most
// significant bit first.
type bitReader struct {
	data []byte
	pos  int // in bits
}

func (r *bitReader) read(count int) (uint32, error) {
	var out uint32
	for i := 0; i < count; i++ {
		byteIndex := r.pos >> 3
		if byteIndex >= len(r.data) {
			return 0, fmt.Errorf("%w: unexpected end of bit stream", ErrCorruptStream)
		}
		out = out<<1 | uint32(r.data[byteIndex]>>(7-(r.pos&7))&1)
		r.pos++
	}
	return out, nil
}
