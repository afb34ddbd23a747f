package louds

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/slices"

	"github.com/Reneg973/marisa-trie/internal/errutil"
	"github.com/Reneg973/marisa-trie/internal/vector"
)

var (
	ErrDuplicateKey = errors.New("louds: duplicate key")
	ErrKeyTooLong   = errors.New("louds: key too long")
	ErrTooManyKeys  = errors.New("louds: too many keys")
	ErrNotBuilt     = errors.New("louds: trie not built")
	ErrIDOutOfRange = errors.New("louds: key id out of range")
)

// MaxKeyLen bounds the length of a single key.
const MaxKeyLen = 1<<16 - 1

// Key is one build input. ID is filled in by Build.
type Key struct {
	Data   []byte
	Weight float32
	ID     uint32
}

// level is one LOUDS layer. Node v's children are the node indices
// [select0(v)−v, select0(v+1)−v−1); the parent of node c is
// select1(c)−c−1; the edge label of node c is labels[c−1]. A node with a
// set link flag carries a multi-byte edge: labels holds its first byte
// and linkIDs (indexed by the node's rank among link nodes) holds a
// terminal id in the next level, or a tail id on the last level.
type level struct {
	louds   vector.BitVector
	terms   vector.BitVector
	links   vector.BitVector
	labels  vector.Vec[uint8]
	tail    tailStore
	linkIDs vector.Vec[uint32]
	cache   *childCache
}

func (lv *level) numNodes() uint64 {
	// One 0 per node plus the super-root's terminating 0.
	return lv.louds.Size() - lv.louds.Ones() - 1
}

func (lv *level) childRange(v uint32) (uint32, uint32) {
	lo := lv.louds.Select0(uint64(v)) - uint64(v)
	hi := lv.louds.Select0(uint64(v)+1) - uint64(v) - 1
	return uint32(lo), uint32(hi)
}

func (lv *level) parent(c uint32) uint32 {
	return uint32(lv.louds.Select1(uint64(c))-uint64(c)) - 1
}

func (lv *level) label(c uint32) byte {
	return lv.labels.At(int(c) - 1)
}

func (lv *level) linkID(c uint32) uint32 {
	return lv.linkIDs.At(int(lv.links.Rank1(uint64(c))))
}

// Trie is the built engine: one or more LOUDS levels, where level k+1
// stores the deduplicated multi-byte edge strings of level k and the
// last level spills its own into a tail store.
type Trie struct {
	levels  []level
	cfg     Config
	numKeys uint32
}

func (t *Trie) NumKeys() int   { return int(t.numKeys) }
func (t *Trie) NumTries() int  { return len(t.levels) }
func (t *Trie) Config() Config { return t.cfg }

func (t *Trie) NumNodes() int {
	n := uint64(0)
	for i := range t.levels {
		n += t.levels[i].numNodes()
	}
	return int(n)
}

// buildEntry is one active string during a level build. orig indexes the
// caller's table so node assignments survive the in-place reordering.
type buildEntry struct {
	data   []byte
	weight float32
	orig   int
}

type bfsItem struct {
	lo, hi int
	pos    int
	link   bool
}

// Build constructs the trie. Key IDs are written back into keys.
func Build(keys []Key, cfg Config) (*Trie, error) {
	if len(keys) >= math.MaxUint32 {
		return nil, ErrTooManyKeys
	}
	for i := range keys {
		if len(keys[i].Data) > MaxKeyLen {
			return nil, fmt.Errorf("%w: %d bytes", ErrKeyTooLong, len(keys[i].Data))
		}
	}

	t := &Trie{cfg: cfg}
	t.levels = make([]level, 0, cfg.numTries)

	cur := make([]buildEntry, len(keys))
	for i := range keys {
		cur[i] = buildEntry{data: keys[i].Data, weight: keys[i].Weight, orig: i}
	}

	// rankToUniq of the previous level: for each of its link ranks, the
	// index of its deduplicated string in the current level's input.
	var prevRankToUniq []int

	for lv := 0; lv < cfg.numTries; lv++ {
		isLast := lv == cfg.numTries-1
		lvl, nodeOf, linkStrs, err := t.buildLevel(cur, lv == 0)
		if err != nil {
			return nil, err
		}
		t.levels = append(t.levels, lvl)
		lvlp := &t.levels[lv]

		ids := make([]uint32, len(cur))
		for orig, node := range nodeOf {
			ids[orig] = uint32(lvlp.terms.Rank1(uint64(node)))
		}
		if lv == 0 {
			for i := range keys {
				keys[i].ID = ids[i]
			}
			t.numKeys = uint32(lvlp.terms.Ones())
		} else {
			prev := &t.levels[lv-1]
			for _, uniq := range prevRankToUniq {
				prev.linkIDs.Push(ids[uniq])
			}
			prev.linkIDs.Shrink()
		}

		errutil.Debugf("louds: level %d: %d nodes, %d terminals, %d links",
			lv, lvlp.numNodes(), lvlp.terms.Ones(), len(linkStrs))

		if len(linkStrs) == 0 {
			break
		}
		if isLast {
			uniq, rankToUniq := dedupEntries(linkStrs)
			strs := make([][]byte, len(uniq))
			for i := range uniq {
				strs[i] = uniq[i].data
			}
			tail, tailIDs := buildTail(strs, cfg.tail)
			lvlp.tail = tail
			for _, u := range rankToUniq {
				lvlp.linkIDs.Push(tailIDs[u])
			}
			lvlp.linkIDs.Shrink()
			break
		}
		cur, prevRankToUniq = dedupEntries(linkStrs)
	}
	return t, nil
}

// dedupEntries coalesces equal strings, accumulating their weights, and
// maps each input rank to its surviving index.
func dedupEntries(in []buildEntry) ([]buildEntry, []int) {
	order := make([]int, len(in))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) bool {
		return bytes.Compare(in[a].data, in[b].data) < 0
	})
	uniq := make([]buildEntry, 0, len(in))
	rankToUniq := make([]int, len(in))
	for _, rank := range order {
		if n := len(uniq); n > 0 && bytes.Equal(uniq[n-1].data, in[rank].data) {
			uniq[n-1].weight += in[rank].weight
			rankToUniq[rank] = n - 1
			continue
		}
		rankToUniq[rank] = len(uniq)
		uniq = append(uniq, buildEntry{data: in[rank].data, weight: in[rank].weight, orig: len(uniq)})
	}
	return uniq, rankToUniq
}

type childGroup struct {
	lo, hi int
	label  byte
	weight float32
}

// buildLevel runs the BFS over one level. It returns the level (frozen),
// the terminal node of every input entry, and the exported multi-byte
// edge strings in link-rank order.
func (t *Trie) buildLevel(entries []buildEntry, topLevel bool) (level, []uint32, []buildEntry, error) {
	var lvl level
	lvl.cache = newChildCache(len(entries), t.cfg.cache)
	nodeOf := make([]uint32, len(entries))
	var linkStrs []buildEntry

	// Super-root block, then the root's flag slots.
	lvl.louds.Push(true)
	lvl.louds.Push(false)
	lvl.terms.Push(false)
	lvl.links.Push(false)
	numNodes := uint32(1)

	queue := []bfsItem{{lo: 0, hi: len(entries), pos: 0}}
	var groups []childGroup
	var scratch []buildEntry

	// Queue order is node order: entry qi describes node qi.
	for qi := 0; qi < len(queue); qi++ {
		it := queue[qi]
		if it.link {
			lvl.louds.Push(false)
			continue
		}
		v := uint32(qi)
		pos := it.pos

		sub := entries[it.lo:it.hi]
		slices.SortStableFunc(sub, func(a, b buildEntry) bool {
			xa, xb := len(a.data) == pos, len(b.data) == pos
			if xa != xb {
				return xa
			}
			if xa {
				return false
			}
			return a.data[pos] < b.data[pos]
		})

		// Exhausted entries terminate at this node.
		x := it.lo
		for x < it.hi && len(entries[x].data) == pos {
			x++
		}
		if n := x - it.lo; n > 0 {
			if n > 1 {
				if topLevel {
					return level{}, nil, nil, fmt.Errorf("%w: %q", ErrDuplicateKey, entries[it.lo].data)
				}
				errutil.Bug("louds: duplicate inner string %q", entries[it.lo].data)
			}
			lvl.terms.Set(uint64(v), true)
			nodeOf[entries[it.lo].orig] = v
		}

		groups = groups[:0]
		for i := x; i < it.hi; {
			j := i + 1
			w := entries[i].weight
			for j < it.hi && entries[j].data[pos] == entries[i].data[pos] {
				w += entries[j].weight
				j++
			}
			groups = append(groups, childGroup{lo: i, hi: j, label: entries[i].data[pos], weight: w})
			i = j
		}
		if t.cfg.order == OrderWeight && len(groups) > 1 {
			slices.SortStableFunc(groups, func(a, b childGroup) bool {
				if a.weight != b.weight {
					return a.weight > b.weight
				}
				return a.label < b.label
			})
			// Rearrange the subrange to match the group order.
			scratch = append(scratch[:0], entries[x:it.hi]...)
			at := x
			for gi := range groups {
				g := &groups[gi]
				n := g.hi - g.lo
				copy(entries[at:at+n], scratch[g.lo-x:g.hi-x])
				g.lo, g.hi = at, at+n
				at += n
			}
		}

		for _, g := range groups {
			c := numNodes
			numNodes++
			lvl.louds.Push(true)
			lvl.labels.Push(g.label)
			e := &entries[g.lo]
			if g.hi-g.lo == 1 && len(e.data)-pos >= 2 {
				// The whole remaining suffix rides this edge: keep its
				// first byte in labels and export the rest.
				lvl.terms.Push(true)
				lvl.links.Push(true)
				nodeOf[e.orig] = c
				linkStrs = append(linkStrs, buildEntry{data: e.data[pos+1:], weight: g.weight, orig: len(linkStrs)})
				queue = append(queue, bfsItem{link: true})
			} else {
				lvl.terms.Push(false)
				lvl.links.Push(false)
				queue = append(queue, bfsItem{lo: g.lo, hi: g.hi, pos: pos + 1})
			}
			lvl.cache.insert(v, g.label, c)
		}
		lvl.louds.Push(false)
	}

	lvl.louds.Build(true, true)
	lvl.terms.Build(false, true)
	lvl.links.Build(false, true)
	lvl.labels.Shrink()
	return lvl, nodeOf, linkStrs, nil
}
