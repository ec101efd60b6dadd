// Package buffer provides immutable, non-owning views over byte regions
// embedded in the program binary.
//
// Assets produced by the offline conversion pipeline are linked into the
// binary as constant byte arrays; a View aliases that storage without
// copying it. Views are constructed once, at program initialization, and
// the underlying storage lives for the whole process, so a View is always
// safe to share between goroutines.
package buffer

import (
	"errors"
	"fmt"
	"unsafe"
)

// ErrLayoutMismatch is returned when a declared structure does not fit
// the byte region it is applied to.
var ErrLayoutMismatch = errors.New("buffer: layout mismatch")

// View is a fixed-length window over byte storage. The storage is never
// mutated through a View; callers must not write to the slice returned
// by Bytes.
type View struct {
	data []byte
}

// NewView wraps data without copying it.
func NewView(data []byte) View { return View{data: data} }

// Len returns the number of bytes in the view.
func (v View) Len() int { return len(v.data) }

// At returns the byte at index i. It panics if i is out of range,
// like a slice access.
func (v View) At(i int) byte { return v.data[i] }

// Slice returns the sub-view [lo, hi). The result aliases the same
// storage.
func (v View) Slice(lo, hi int) View { return View{data: v.data[lo:hi:hi]} }

// Bytes exposes the underlying storage. The returned slice is read-only
// by contract.
func (v View) Bytes() []byte { return v.data }

// Element is the set of types an ElementView can expose. All of them
// have a fixed, self-describing size.
type Element interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~int8 | ~int16 | ~int32 | ~int64
}

// ElementView reinterprets a View as a sequence of fixed-size elements,
// decoded big-endian, the byte order the asset pipeline emits.
type ElementView[T Element] struct {
	view View
	size int
}

// Elements builds an ElementView over v. It fails with ErrLayoutMismatch
// when the byte length is not an exact multiple of the element size; it
// never silently truncates a trailing partial element.
func Elements[T Element](v View) (ElementView[T], error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if v.Len()%size != 0 {
		return ElementView[T]{}, fmt.Errorf("%w: %d bytes is not a multiple of the %d-byte element size",
			ErrLayoutMismatch, v.Len(), size)
	}
	return ElementView[T]{view: v, size: size}, nil
}

// Count returns the number of elements in the view.
func (e ElementView[T]) Count() int {
	if e.size == 0 {
		return 0
	}
	return e.view.Len() / e.size
}

// At decodes the element at index i. It panics if i is out of range,
// like a slice access.
func (e ElementView[T]) At(i int) T {
	if i < 0 || i >= e.Count() {
		panic("buffer: element index out of range")
	}
	var out uint64
	base := i * e.size
	for j := 0; j < e.size; j++ {
		out = out<<8 | uint64(e.view.data[base+j])
	}
	return T(out)
}

// Raw returns the underlying byte view.
func (e ElementView[T]) Raw() View { return e.view }
