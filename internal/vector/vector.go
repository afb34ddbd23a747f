// Package vector implements the serialized containers the trie is made of:
// a growable-or-mapped vector of fixed-size elements and a bit vector with
// rank/select support.
//
// The serialized form of a vector is a uint64 byte count, the raw
// little-endian element bytes, and zero padding up to the next 8-byte
// boundary. Mapped vectors alias the element bytes in place, so files
// written on a little-endian machine are read back zero-copy.
package vector

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"unsafe"

	"github.com/Reneg973/marisa-trie/internal/iox"
)

var (
	// ErrMisaligned reports a payload whose byte count is not a multiple
	// of the element size, or a mapped region with a misaligned base.
	ErrMisaligned = errors.New("vector: misaligned payload")
	// ErrTooLarge reports a payload that does not fit the address space.
	ErrTooLarge = errors.New("vector: payload too large")
)

// Elem is the set of element types a Vec can hold. All of them are plain
// fixed-size values, so the raw bytes are the serialized form.
type Elem interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | RankIndex
}

func sizeOf[T Elem]() int {
	var z T
	return int(reflect.TypeOf(z).Size())
}

func alignOf[T Elem]() int {
	var z T
	return reflect.TypeOf(z).Align()
}

// Vec is either an owned growable vector or a fixed zero-copy view over a
// mapped byte region. Mutating a fixed view is a programming error and
// panics.
type Vec[T Elem] struct {
	objs  []T
	fixed bool
}

func (v *Vec[T]) mutable() {
	if v.fixed {
		panic("vector: mutation of a fixed view")
	}
}

func (v *Vec[T]) Push(x T) {
	v.mutable()
	v.Reserve(len(v.objs) + 1)
	v.objs = append(v.objs, x)
}

func (v *Vec[T]) Pop() {
	v.mutable()
	v.objs = v.objs[:len(v.objs)-1]
}

// Resize grows or shrinks to n elements; new elements are zero.
func (v *Vec[T]) Resize(n int) {
	v.mutable()
	if n <= len(v.objs) {
		v.objs = v.objs[:n]
		return
	}
	v.Reserve(n)
	for len(v.objs) < n {
		var z T
		v.objs = append(v.objs, z)
	}
}

// ResizeFill grows or shrinks to n elements; new elements are x.
func (v *Vec[T]) ResizeFill(n int, x T) {
	v.mutable()
	if n <= len(v.objs) {
		v.objs = v.objs[:n]
		return
	}
	v.Reserve(n)
	for len(v.objs) < n {
		v.objs = append(v.objs, x)
	}
}

// Reserve ensures capacity for at least n elements. The growth policy is
// max(n, min(2*cap, MaxSize)).
func (v *Vec[T]) Reserve(n int) {
	v.mutable()
	c := cap(v.objs)
	if n <= c {
		return
	}
	newCap := n
	if c > n/2 {
		if c > MaxSize[T]()/2 {
			newCap = MaxSize[T]()
		} else {
			newCap = c * 2
		}
	}
	grown := make([]T, len(v.objs), newCap)
	copy(grown, v.objs)
	v.objs = grown
}

// Shrink drops excess capacity.
func (v *Vec[T]) Shrink() {
	v.mutable()
	if len(v.objs) == cap(v.objs) {
		return
	}
	shrunk := make([]T, len(v.objs))
	copy(shrunk, v.objs)
	v.objs = shrunk
}

func (v *Vec[T]) At(i int) T     { return v.objs[i] }
func (v *Vec[T]) Set(i int, x T) { v.mutable(); v.objs[i] = x }
func (v *Vec[T]) Back() T        { return v.objs[len(v.objs)-1] }
func (v *Vec[T]) Size() int      { return len(v.objs) }
func (v *Vec[T]) Empty() bool    { return len(v.objs) == 0 }
func (v *Vec[T]) Fixed() bool    { return v.fixed }
func (v *Vec[T]) Slice() []T     { return v.objs }

// TotalSize is the in-memory element payload in bytes.
func (v *Vec[T]) TotalSize() int {
	return len(v.objs) * sizeOf[T]()
}

// IOSize is the serialized size in bytes, header and padding included.
func (v *Vec[T]) IOSize() int {
	return 8 + v.TotalSize() + pad8(uint64(v.TotalSize()))
}

func (v *Vec[T]) Clear() {
	*v = Vec[T]{}
}

func MaxSize[T Elem]() int {
	return math.MaxInt / sizeOf[T]()
}

func pad8(total uint64) int {
	return int((8 - total%8) % 8)
}

func bytesOf[T Elem](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*sizeOf[T]())
}

// Write serializes the vector.
func (v *Vec[T]) Write(w *iox.Writer) error {
	total := uint64(v.TotalSize())
	if err := w.WriteUint64(total); err != nil {
		return err
	}
	if err := w.Write(bytesOf(v.objs)); err != nil {
		return err
	}
	return w.Pad(pad8(total))
}

func (v *Vec[T]) header(total uint64) (n int, err error) {
	sz := uint64(sizeOf[T]())
	if total%sz != 0 {
		return 0, fmt.Errorf("%w: %d %% %d != 0", ErrMisaligned, total, sz)
	}
	if total > uint64(math.MaxInt) {
		return 0, ErrTooLarge
	}
	return int(total / sz), nil
}

// Read deserializes into an owned vector.
func (v *Vec[T]) Read(r *iox.Reader) error {
	total, err := r.ReadUint64()
	if err != nil {
		return err
	}
	n, err := v.header(total)
	if err != nil {
		return err
	}
	objs := make([]T, n)
	if err := r.Read(bytesOf(objs)); err != nil {
		return err
	}
	if err := r.Skip(pad8(total)); err != nil {
		return err
	}
	v.objs = objs
	v.fixed = false
	return nil
}

// Map aliases the element bytes of the mapped region in place; the result
// is a fixed view whose lifetime is the region's.
func (v *Vec[T]) Map(m *iox.Mapper) error {
	total, err := m.MapUint64()
	if err != nil {
		return err
	}
	n, err := v.header(total)
	if err != nil {
		return err
	}
	b, err := m.MapBytes(int(total))
	if err != nil {
		return err
	}
	var objs []T
	if n > 0 {
		p := unsafe.Pointer(&b[0])
		if uintptr(p)%uintptr(alignOf[T]()) != 0 {
			return fmt.Errorf("%w: mapped region base", ErrMisaligned)
		}
		objs = unsafe.Slice((*T)(p), n)
	}
	if err := m.Skip(pad8(total)); err != nil {
		return err
	}
	v.objs = objs
	v.fixed = true
	return nil
}
