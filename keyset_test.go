package marisa

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeysetArenaStability(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	ks := NewKeyset()

	want := make([]string, 0, 5000)
	for i := 0; i < 5000; i++ {
		s := fmt.Sprintf("key-%d-%d", i, r.Intn(1000000))
		want = append(want, s)
		ks.PushString(s)
	}

	// Slices handed out early must survive all the growth above.
	total := 0
	for i, s := range want {
		require.Equal(t, s, string(ks.At(i).Bytes()))
		require.Equal(t, float32(1), ks.At(i).Weight())
		total += len(s)
	}
	require.Equal(t, total, ks.TotalLength())
	require.Equal(t, 5000, ks.NumKeys())
}

func TestKeysetLargeKeySpansChunks(t *testing.T) {
	ks := NewKeyset()
	big := make([]byte, 3*keysetChunkSize)
	for i := range big {
		big[i] = byte(i)
	}
	ks.Push(big, 2.5)
	ks.PushString("small")
	require.Equal(t, big, ks.At(0).Bytes())
	require.Equal(t, float32(2.5), ks.At(0).Weight())
	require.Equal(t, "small", ks.At(1).String())
}

func TestKeysetResetReusesArena(t *testing.T) {
	ks := NewKeyset()
	for i := 0; i < 100; i++ {
		ks.PushString(fmt.Sprintf("first-%d", i))
	}
	chunksBefore := len(ks.chunks)

	ks.Reset()
	require.Equal(t, 0, ks.NumKeys())
	require.Equal(t, 0, ks.TotalLength())

	for i := 0; i < 100; i++ {
		ks.PushString(fmt.Sprintf("second-%d", i))
	}
	require.Equal(t, chunksBefore, len(ks.chunks), "reset must reuse chunks")
	require.Equal(t, "second-0", ks.At(0).String())

	ks.Clear()
	require.Equal(t, 0, ks.NumKeys())
	require.Empty(t, ks.chunks)
}

func TestKeysetBuildTwice(t *testing.T) {
	ks := NewKeyset()
	ks.PushString("reuse")
	ks.PushString("me")

	tr := New()
	require.NoError(t, tr.Build(ks, 0))
	first := []uint32{ks.At(0).ID(), ks.At(1).ID()}

	require.NoError(t, tr.Build(ks, LabelOrder))
	second := []uint32{ks.At(0).ID(), ks.At(1).ID()}
	require.ElementsMatch(t, first, []uint32{0, 1})
	require.ElementsMatch(t, second, []uint32{0, 1})
}
