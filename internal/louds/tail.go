package louds

import (
	"bytes"

	"golang.org/x/exp/slices"

	"github.com/Reneg973/marisa-trie/internal/errutil"
	"github.com/Reneg973/marisa-trie/internal/iox"
	"github.com/Reneg973/marisa-trie/internal/vector"
)

// tailStore holds the out-of-line edge suffixes of the last built level.
// In text mode suffixes are NUL-terminated and addressed by byte offset;
// a suffix that is the tail end of another shares its bytes. In binary
// mode suffixes are packed back to back, addressed by index through the
// end-flag bit vector, and only exact duplicates coalesce (the caller
// already removed those).
type tailStore struct {
	content vector.Vec[uint8]
	ends    vector.BitVector
}

func (t *tailStore) binary() bool { return t.ends.Size() > 0 }

// buildTail stores the deduplicated suffix set and returns the link id of
// each input suffix: a byte offset in text mode, a suffix index in binary
// mode. A text request degrades to binary when any suffix contains NUL.
func buildTail(strs [][]byte, mode TailMode) (tailStore, []uint32) {
	var t tailStore
	ids := make([]uint32, len(strs))
	if len(strs) == 0 {
		return t, ids
	}

	if mode == TailText {
		for _, s := range strs {
			if bytes.IndexByte(s, 0) >= 0 {
				mode = TailBinary
				break
			}
		}
	}

	if mode == TailBinary {
		for k, s := range strs {
			errutil.BugOn(len(s) == 0, "empty tail suffix")
			ids[k] = uint32(k)
			for i, b := range s {
				t.content.Push(b)
				t.ends.Push(i == len(s)-1)
			}
		}
		t.ends.Build(false, true)
		t.content.Shrink()
		return t, ids
	}

	// Text mode: sort by reversed byte order so that a suffix of another
	// stored string lands next to it, then append longest-first and point
	// the shorter ones into the longer one's bytes.
	order := make([]int, len(strs))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) bool {
		return reverseLess(strs[a], strs[b])
	})
	for i := len(order) - 1; i >= 0; i-- {
		s := strs[order[i]]
		if i+1 < len(order) {
			next := strs[order[i+1]]
			if len(s) <= len(next) && bytes.Equal(s, next[len(next)-len(s):]) {
				ids[order[i]] = ids[order[i+1]] + uint32(len(next)-len(s))
				continue
			}
		}
		ids[order[i]] = uint32(t.content.Size())
		for _, b := range s {
			t.content.Push(b)
		}
		t.content.Push(0)
	}
	t.content.Shrink()
	return t, ids
}

// reverseLess compares two strings in reversed byte order.
func reverseLess(a, b []byte) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 1; i <= n; i++ {
		ca, cb := a[len(a)-i], b[len(b)-i]
		if ca != cb {
			return ca < cb
		}
	}
	return len(a) < len(b)
}

// suffix returns a zero-copy view of the stored suffix for a link id.
func (t *tailStore) suffix(id uint32) []byte {
	s := t.content.Slice()
	if t.binary() {
		start := uint64(0)
		if id > 0 {
			start = t.ends.Select1(uint64(id)-1) + 1
		}
		end := t.ends.Select1(uint64(id)) + 1
		return s[start:end]
	}
	rest := s[id:]
	return rest[:bytes.IndexByte(rest, 0)]
}

// numSuffixes is only meaningful in binary mode.
func (t *tailStore) numSuffixes() uint64 {
	return t.ends.Ones()
}

func (t *tailStore) TotalSize() int {
	return t.content.TotalSize() + t.ends.TotalSize()
}

func (t *tailStore) IOSize() int {
	return t.content.IOSize() + t.ends.IOSize()
}

func (t *tailStore) Write(w *iox.Writer) error {
	return errutil.First(t.content.Write(w), t.ends.Write(w))
}

func (t *tailStore) Read(r *iox.Reader) error {
	return errutil.First(t.content.Read(r), t.ends.Read(r))
}

func (t *tailStore) Map(m *iox.Mapper) error {
	return errutil.First(t.content.Map(m), t.ends.Map(m))
}
