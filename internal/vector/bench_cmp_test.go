package vector

import (
	"math/rand"
	"testing"

	"github.com/hillbig/rsdic"
	bits "github.com/siongui/go-succinct-data-structure-trie/reference"
)

// Baselines: hillbig's rsdic and siongui's reference rank directory, the
// same structures the original experiments compared against.

func buildBenchBV(n int, density float32) *BitVector {
	r := rand.New(rand.NewSource(42))
	bv := &BitVector{}
	for i := 0; i < n; i++ {
		bv.Push(r.Float32() < density)
	}
	bv.Build(true, true)
	return bv
}

func BenchmarkBitVector_Rank_100K(b *testing.B)   { benchmarkBitVectorRank(b, 100_000) }
func BenchmarkBitVector_Rank_1M(b *testing.B)     { benchmarkBitVectorRank(b, 1_000_000) }
func BenchmarkBitVector_Select_100K(b *testing.B) { benchmarkBitVectorSelect(b, 100_000) }
func BenchmarkBitVector_Select_1M(b *testing.B)   { benchmarkBitVectorSelect(b, 1_000_000) }

func benchmarkBitVectorRank(b *testing.B, size int) {
	bv := buildBenchBV(size, 0.3)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bv.Rank1(uint64(i % size))
	}
}

func benchmarkBitVectorSelect(b *testing.B, size int) {
	bv := buildBenchBV(size, 0.3)
	ones := int(bv.Ones())
	if ones == 0 {
		b.Skip("no ones in the data")
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bv.Select1(uint64(i % ones))
	}
}

func Benchmark_RSDic_Rank_100K(b *testing.B)   { benchmarkRSDicRank(b, 100_000) }
func Benchmark_RSDic_Rank_1M(b *testing.B)     { benchmarkRSDicRank(b, 1_000_000) }
func Benchmark_RSDic_Select_100K(b *testing.B) { benchmarkRSDicSelect(b, 100_000) }

func benchmarkRSDicRank(b *testing.B, size int) {
	r := rand.New(rand.NewSource(42))
	rs := rsdic.New()
	for i := 0; i < size; i++ {
		rs.PushBack(r.Float32() < 0.3)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rs.Rank(uint64(i%size), true)
	}
}

func benchmarkRSDicSelect(b *testing.B, size int) {
	r := rand.New(rand.NewSource(42))
	rs := rsdic.New()
	for i := 0; i < size; i++ {
		rs.PushBack(r.Float32() < 0.3)
	}
	ones := int(rs.Rank(rs.Num(), true))
	if ones == 0 {
		b.Skip("no ones in the data")
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rs.Select(uint64(i%ones), true)
	}
}

func Benchmark_RefRankDirectory_Rank_100K(b *testing.B) {
	benchmarkRefRankDirectoryRank(b, 100_000)
}

func benchmarkRefRankDirectoryRank(b *testing.B, approxBits int) {
	data := generateRandomBase64Data(approxBits)
	numBits := uint(len(data) * 6)

	rd := bits.CreateRankDirectory(data, numBits, 32*32, 32)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rd.Rank(1, uint(i%int(numBits)))
	}
}

func generateRandomBase64Data(approxBits int) string {
	charsNeeded := (approxBits + 5) / 6
	const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

	r := rand.New(rand.NewSource(42))
	result := make([]byte, charsNeeded)
	for i := 0; i < charsNeeded; i++ {
		result[i] = base64Chars[r.Intn(len(base64Chars))]
	}
	return string(result)
}
