package vector

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Reneg973/marisa-trie/internal/iox"
)

func TestVecPushPopResize(t *testing.T) {
	var v Vec[uint32]
	require.True(t, v.Empty())
	for i := 0; i < 100; i++ {
		v.Push(uint32(i))
	}
	require.Equal(t, 100, v.Size())
	require.Equal(t, uint32(99), v.Back())
	v.Pop()
	require.Equal(t, 99, v.Size())

	v.Resize(4)
	require.Equal(t, 4, v.Size())
	v.Resize(6)
	require.Equal(t, uint32(3), v.At(3))
	require.Equal(t, uint32(0), v.At(5))

	v.ResizeFill(8, 7)
	require.Equal(t, uint32(7), v.At(7))
	require.Equal(t, uint32(0), v.At(5))

	v.Set(0, 42)
	require.Equal(t, uint32(42), v.At(0))

	v.Shrink()
	require.Equal(t, 8, v.Size())
	require.Equal(t, 8, cap(v.objs))
}

func TestVecReserveDoubles(t *testing.T) {
	var v Vec[uint8]
	v.Reserve(10)
	c := cap(v.objs)
	require.GreaterOrEqual(t, c, 10)
	for i := 0; i < c; i++ {
		v.Push(1)
	}
	v.Push(1)
	require.Equal(t, 2*c, cap(v.objs))
}

func TestVecRoundTrip(t *testing.T) {
	var v Vec[uint32]
	for i := 0; i < 3; i++ { // 12 bytes, exercises the 4-byte padding
		v.Push(uint32(i * 17))
	}

	var buf bytes.Buffer
	require.NoError(t, v.Write(iox.NewWriter(&buf)))
	require.Equal(t, v.IOSize(), buf.Len())
	require.Equal(t, 0, buf.Len()%8)

	data := append([]byte(nil), buf.Bytes()...)

	var rd Vec[uint32]
	require.NoError(t, rd.Read(iox.NewReader(&buf)))
	require.False(t, rd.Fixed())
	require.Equal(t, v.Slice(), rd.Slice())

	var mv Vec[uint32]
	require.NoError(t, mv.Map(iox.NewMapper(data)))
	require.True(t, mv.Fixed())
	require.Equal(t, v.Slice(), mv.Slice())
	require.Panics(t, func() { mv.Push(1) })
	require.Panics(t, func() { mv.Resize(1) })
	require.Panics(t, func() { mv.Shrink() })
}

func TestVecRoundTripEmpty(t *testing.T) {
	var v Vec[uint64]
	var buf bytes.Buffer
	require.NoError(t, v.Write(iox.NewWriter(&buf)))
	require.Equal(t, 8, buf.Len())

	var rd Vec[uint64]
	require.NoError(t, rd.Read(iox.NewReader(&buf)))
	require.Equal(t, 0, rd.Size())
}

func TestVecReadMisaligned(t *testing.T) {
	var buf bytes.Buffer
	w := iox.NewWriter(&buf)
	require.NoError(t, w.WriteUint64(10)) // not a multiple of 4
	require.NoError(t, w.Write(make([]byte, 16)))

	var v Vec[uint32]
	require.ErrorIs(t, v.Read(iox.NewReader(&buf)), ErrMisaligned)
}

func TestVecReadTruncated(t *testing.T) {
	var buf bytes.Buffer
	w := iox.NewWriter(&buf)
	require.NoError(t, w.WriteUint64(16))
	require.NoError(t, w.Write(make([]byte, 4)))

	var v Vec[uint32]
	require.ErrorIs(t, v.Read(iox.NewReader(&buf)), iox.ErrTruncated)
}

func TestRankIndexPacking(t *testing.T) {
	var ri RankIndex
	ri.setRel(1, 7)
	ri.setRel(2, 100)
	ri.setRel(3, 192)
	require.Equal(t, uint64(7), ri.Rel(1))
	require.Equal(t, uint64(100), ri.Rel(2))
	require.Equal(t, uint64(192), ri.Rel(3))
}
