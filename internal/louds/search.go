package louds

import (
	"bytes"
)

// findChild locates the child of v on level lvIdx whose edge starts with
// b. Under label order children are stored by ascending label and a
// binary search applies; under weight order they are stored by descending
// weight and scanned linearly (the order exists so predictive search
// visits heavy children first).
func (t *Trie) findChild(lvIdx int, v uint32, b byte) (uint32, bool) {
	lvl := &t.levels[lvIdx]
	if lvl.cache != nil {
		if c, ok := lvl.cache.get(v, b); ok {
			return c, true
		}
	}
	lo, hi := lvl.childRange(v)
	if t.cfg.order == OrderLabel {
		i, j := lo, hi
		for i < j {
			mid := (i + j) / 2
			if lvl.label(mid) < b {
				i = mid + 1
			} else {
				j = mid
			}
		}
		if i < hi && lvl.label(i) == b {
			return i, true
		}
		return 0, false
	}
	for c := lo; c < hi; c++ {
		if lvl.label(c) == b {
			return c, true
		}
	}
	return 0, false
}

// appendLink appends the remainder string of link node c (the edge bytes
// after its label) to buf.
func (t *Trie) appendLink(lvIdx int, c uint32, buf []byte) []byte {
	lvl := &t.levels[lvIdx]
	id := lvl.linkID(c)
	if lvIdx+1 >= len(t.levels) {
		return append(buf, lvl.tail.suffix(id)...)
	}
	nxt := &t.levels[lvIdx+1]
	node := uint32(nxt.terms.Select1(uint64(id)))
	return t.appendUpward(lvIdx+1, node, buf)
}

// appendUpward appends the string spelled from the level's root down to
// node. It walks upward, appending each edge reversed, and reverses the
// collected segment once at the end.
func (t *Trie) appendUpward(lvIdx int, node uint32, buf []byte) []byte {
	lvl := &t.levels[lvIdx]
	start := len(buf)
	for node != 0 {
		if lvl.links.Get(uint64(node)) {
			mark := len(buf)
			buf = t.appendLink(lvIdx, node, buf)
			reverseBytes(buf[mark:])
		}
		buf = append(buf, lvl.label(node))
		node = lvl.parent(node)
	}
	reverseBytes(buf[start:])
	return buf
}

func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// linkView returns the remainder string of link node c on level 0,
// zero-copy when it lives in a tail store, via the state's scratch
// buffer when it spans inner levels.
func (t *Trie) linkView(c uint32, st *State) []byte {
	if len(t.levels) == 1 {
		return t.levels[0].tail.suffix(t.levels[0].linkID(c))
	}
	st.linkBuf = t.appendLink(0, c, st.linkBuf[:0])
	return st.linkBuf
}

// Lookup reports whether the state's query is a stored key and fills in
// its id.
func (t *Trie) Lookup(st *State) bool {
	st.op = opNone
	if len(t.levels) == 0 {
		return false
	}
	lvl := &t.levels[0]
	node := uint32(0)
	q := st.query
	pos := 0
	for pos < len(q) {
		c, ok := t.findChild(0, node, q[pos])
		if !ok {
			return false
		}
		pos++
		if lvl.links.Get(uint64(c)) {
			rem := t.linkView(c, st)
			if len(q)-pos < len(rem) || !bytes.Equal(q[pos:pos+len(rem)], rem) {
				return false
			}
			pos += len(rem)
		}
		node = c
	}
	if !lvl.terms.Get(uint64(node)) {
		return false
	}
	st.id = uint32(lvl.terms.Rank1(uint64(node)))
	st.result = q
	return true
}

// ReverseLookup restores the key with the given id into the state.
func (t *Trie) ReverseLookup(st *State, id uint32) error {
	st.op = opNone
	if len(t.levels) == 0 {
		return ErrNotBuilt
	}
	if id >= t.numKeys {
		return ErrIDOutOfRange
	}
	node := uint32(t.levels[0].terms.Select1(uint64(id)))
	st.keyBuf = t.appendUpward(0, node, st.keyBuf[:0])
	st.result = st.keyBuf
	st.id = id
	return nil
}

// CommonPrefixSearch emits, one per call, the stored keys that are
// prefixes of the query, shortest first. It returns false when no further
// prefix matches.
func (t *Trie) CommonPrefixSearch(st *State) bool {
	if st.op != opCommonPrefix {
		st.op = opCommonPrefix
		st.done = len(t.levels) == 0
		st.node = 0
		st.pos = 0
		st.pending = true
	}
	if st.done {
		return false
	}
	lvl := &t.levels[0]
	for {
		if st.pending {
			st.pending = false
			if lvl.terms.Get(uint64(st.node)) {
				st.result = st.query[:st.pos]
				st.id = uint32(lvl.terms.Rank1(uint64(st.node)))
				return true
			}
		}
		if st.pos >= len(st.query) {
			st.done = true
			return false
		}
		c, ok := t.findChild(0, st.node, st.query[st.pos])
		if !ok {
			st.done = true
			return false
		}
		st.pos++
		if lvl.links.Get(uint64(c)) {
			rem := t.linkView(c, st)
			if len(st.query)-st.pos < len(rem) || !bytes.Equal(st.query[st.pos:st.pos+len(rem)], rem) {
				st.done = true
				return false
			}
			st.pos += len(rem)
		}
		st.node = c
		st.pending = true
	}
}

// PredictiveSearch emits, one per call, the stored keys the query is a
// prefix of: depth first, children in stored order (ascending label under
// label order, descending weight under weight order). It returns false
// when the subtree is exhausted.
func (t *Trie) PredictiveSearch(st *State) bool {
	if st.op != opPredictive {
		st.op = opPredictive
		st.frames = st.frames[:0]
		st.done = true
		if len(t.levels) == 0 {
			return false
		}
		node, ok := t.descend(st)
		if !ok {
			return false
		}
		st.done = false
		lo, hi := t.levels[0].childRange(node)
		st.frames = append(st.frames, frame{node: node, next: lo, end: hi, keyLen: len(st.keyBuf)})
	}
	if st.done {
		return false
	}
	lvl := &t.levels[0]
	for len(st.frames) > 0 {
		f := &st.frames[len(st.frames)-1]
		if !f.checked {
			f.checked = true
			if lvl.terms.Get(uint64(f.node)) {
				st.result = st.keyBuf[:f.keyLen]
				st.id = uint32(lvl.terms.Rank1(uint64(f.node)))
				return true
			}
		}
		if f.next >= f.end {
			st.frames = st.frames[:len(st.frames)-1]
			continue
		}
		c := f.next
		f.next++
		st.keyBuf = st.keyBuf[:f.keyLen]
		st.keyBuf = append(st.keyBuf, lvl.label(c))
		if lvl.links.Get(uint64(c)) {
			st.keyBuf = t.appendLink(0, c, st.keyBuf)
		}
		lo, hi := lvl.childRange(c)
		st.frames = append(st.frames, frame{node: c, next: lo, end: hi, keyLen: len(st.keyBuf)})
	}
	st.done = true
	return false
}

// descend resolves the query prefix to its subtree root, accumulating the
// actual key bytes (the last edge may overshoot the query) in keyBuf.
func (t *Trie) descend(st *State) (uint32, bool) {
	lvl := &t.levels[0]
	node := uint32(0)
	q := st.query
	pos := 0
	st.keyBuf = st.keyBuf[:0]
	for pos < len(q) {
		c, ok := t.findChild(0, node, q[pos])
		if !ok {
			return 0, false
		}
		st.keyBuf = append(st.keyBuf, q[pos])
		pos++
		if lvl.links.Get(uint64(c)) {
			mark := len(st.keyBuf)
			st.keyBuf = t.appendLink(0, c, st.keyBuf)
			rem := st.keyBuf[mark:]
			left := len(q) - pos
			if left >= len(rem) {
				if !bytes.Equal(q[pos:pos+len(rem)], rem) {
					return 0, false
				}
			} else if !bytes.Equal(q[pos:], rem[:left]) {
				return 0, false
			}
			pos += min(left, len(rem))
		}
		node = c
	}
	return node, true
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
