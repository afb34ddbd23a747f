package marisa

import (
	"fmt"
	"math/rand"
	"testing"

	boomphf "github.com/dgryski/go-boomphf"
	iradix "github.com/hashicorp/go-immutable-radix"
	"github.com/zeebo/xxh3"
)

// Baselines for membership lookups: an immutable radix tree, the stdlib
// map, and a minimal perfect hash over key hashes.

func generateStringKeys(n int) []string {
	r := rand.New(rand.NewSource(42))
	keys := make([]string, 0, n)
	seen := make(map[string]struct{}, n)
	for len(keys) < n {
		k := fmt.Sprintf("%s/%d/%x", []string{"user", "item", "order", "event"}[r.Intn(4)], r.Intn(1_000_000), r.Uint32())
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

func setupTrie(b *testing.B, n int) (*Trie, []string) {
	b.Helper()
	b.StopTimer()
	keys := generateStringKeys(n)
	ks := NewKeyset()
	for _, k := range keys {
		ks.PushString(k)
	}
	tr := New()
	if err := tr.Build(ks, 0); err != nil {
		b.Fatal(err)
	}
	b.StartTimer()
	return tr, keys
}

func setupStdMap(b *testing.B, n int) (map[string]uint32, []string) {
	b.Helper()
	b.StopTimer()
	keys := generateStringKeys(n)
	m := make(map[string]uint32, n)
	for i, k := range keys {
		m[k] = uint32(i)
	}
	b.StartTimer()
	return m, keys
}

func setupIradix(b *testing.B, n int) (*iradix.Tree, []string) {
	b.Helper()
	b.StopTimer()
	keys := generateStringKeys(n)
	r := iradix.New()
	for i, k := range keys {
		r, _, _ = r.Insert([]byte(k), uint32(i))
	}
	b.StartTimer()
	return r, keys
}

func setupBoomphf(b *testing.B, n int) (*boomphf.H, []uint64) {
	b.Helper()
	b.StopTimer()
	keys := generateStringKeys(n)
	hashes := make([]uint64, len(keys))
	for i, k := range keys {
		hashes[i] = xxh3.HashString(k)
	}
	h := boomphf.New(2.0, hashes)
	b.StartTimer()
	return h, hashes
}

func BenchmarkTrie_Build_100k(b *testing.B) {
	keys := generateStringKeys(100_000)
	ks := NewKeyset()
	for _, k := range keys {
		ks.PushString(k)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr := New()
		if err := tr.Build(ks, 0); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTrie_Lookup_Hit_100k(b *testing.B) {
	tr, keys := setupTrie(b, 100_000)
	agent := NewAgent()
	for i := 0; i < b.N; i++ {
		agent.SetQueryString(keys[i%len(keys)])
		if !tr.Lookup(agent) {
			b.Fatal("unexpected miss")
		}
	}
}

func Benchmark_StdMap_Lookup_Hit_100k(b *testing.B) {
	m, keys := setupStdMap(b, 100_000)
	var id uint32
	for i := 0; i < b.N; i++ {
		id = m[keys[i%len(keys)]]
	}
	_ = id
}

func Benchmark_iradix_Lookup_Hit_100k(b *testing.B) {
	r, keys := setupIradix(b, 100_000)
	for i := 0; i < b.N; i++ {
		if _, ok := r.Get([]byte(keys[i%len(keys)])); !ok {
			b.Fatal("unexpected miss")
		}
	}
}

func Benchmark_boomphf_Lookup_Hit_100k(b *testing.B) {
	h, hashes := setupBoomphf(b, 100_000)
	for i := 0; i < b.N; i++ {
		if h.Query(hashes[i%len(hashes)]) == 0 {
			b.Fatal("unexpected miss")
		}
	}
}

func BenchmarkTrie_Lookup_Miss_100k(b *testing.B) {
	tr, _ := setupTrie(b, 100_000)
	b.StopTimer()
	miss := make([]string, 1024)
	for i := range miss {
		miss[i] = fmt.Sprintf("missing/%d", i)
	}
	b.StartTimer()
	agent := NewAgent()
	for i := 0; i < b.N; i++ {
		agent.SetQueryString(miss[i%len(miss)])
		if tr.Lookup(agent) {
			b.Fatal("unexpected hit")
		}
	}
}

func BenchmarkTrie_PredictiveSearch_100k(b *testing.B) {
	tr, keys := setupTrie(b, 100_000)
	agent := NewAgent()
	for i := 0; i < b.N; i++ {
		agent.SetQueryString(keys[i%len(keys)][:5])
		for tr.PredictiveSearch(agent) {
		}
	}
}

func BenchmarkTrie_MemoryFootprint_100k(b *testing.B) {
	tr, keys := setupTrie(b, 100_000)
	totalKeyBytes := 0
	for _, k := range keys {
		totalKeyBytes += len(k)
	}
	b.ReportMetric(float64(tr.TotalSize()), "bytes_in_mem")
	b.ReportMetric(float64(tr.TotalSize())/float64(len(keys)), "bytes/key")
	b.ReportMetric(float64(totalKeyBytes), "raw_key_bytes")
	agent := NewAgent()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		agent.SetQueryString(keys[i%len(keys)])
		tr.Lookup(agent)
	}
}
