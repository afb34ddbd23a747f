package vector

import (
	"errors"
	"fmt"
	mathbits "math/bits"

	"github.com/Reneg973/marisa-trie/internal/errutil"
	"github.com/Reneg973/marisa-trie/internal/iox"
)

// ErrCorrupt reports a serialized bit vector whose inner vectors disagree.
var ErrCorrupt = errors.New("vector: corrupt bit vector")

const (
	wordBits      = 64
	blockBits     = 256
	wordsPerBlock = blockBits / wordBits

	// One select sample per this many occurrences. The interval is stored
	// as element 0 of the serialized sample vector, so readers need no
	// out-of-band knowledge.
	selectSampleInterval = 512
)

// BitVector is a packed bit sequence. After Build it is frozen and answers
// rank in O(1) and select in O(log blocks-per-sample).
type BitVector struct {
	units Vec[uint64]
	nbits uint64
	ranks Vec[RankIndex]
	sel0  Vec[uint32]
	sel1  Vec[uint32]
	ones  uint64
}

func (b *BitVector) Push(bit bool) {
	if b.nbits%wordBits == 0 {
		b.units.Push(0)
	}
	if bit {
		b.units.Slice()[b.nbits/wordBits] |= 1 << (b.nbits % wordBits)
	}
	b.nbits++
}

// Set flips bit i to the given value. Only valid before Build.
func (b *BitVector) Set(i uint64, bit bool) {
	w := b.units.Slice()
	if bit {
		w[i/wordBits] |= 1 << (i % wordBits)
	} else {
		w[i/wordBits] &^= 1 << (i % wordBits)
	}
}

func (b *BitVector) Get(i uint64) bool {
	return b.units.At(int(i/wordBits))>>(i%wordBits)&1 == 1
}

// Size is the number of bits.
func (b *BitVector) Size() uint64 { return b.nbits }

// Ones is the number of set bits. Valid after Build.
func (b *BitVector) Ones() uint64 { return b.ones }

func (b *BitVector) numBlocks() uint64 {
	return (b.nbits + blockBits - 1) / blockBits
}

// Build freezes the sequence: it computes the rank index and, per flag,
// the select sample tables.
func (b *BitVector) Build(enableSel0, enableSel1 bool) {
	words := b.units.Slice()
	nb := b.numBlocks()
	b.ranks.Clear()
	b.ranks.Reserve(int(nb) + 1)
	cum := uint64(0)
	for blk := uint64(0); blk <= nb; blk++ {
		ri := RankIndex{Abs: uint32(cum)}
		var rel uint64
		for w := uint64(1); w <= wordsPerBlock; w++ {
			wi := blk*wordsPerBlock + w - 1
			if wi < uint64(len(words)) {
				rel += uint64(mathbits.OnesCount64(words[wi]))
			}
			if w < wordsPerBlock {
				ri.setRel(w, rel)
			}
		}
		b.ranks.Push(ri)
		if blk < nb {
			cum += rel
		}
	}
	b.ones = cum

	b.sel0.Clear()
	b.sel1.Clear()
	if enableSel0 {
		b.sel0 = b.buildSelect(false)
	}
	if enableSel1 {
		b.sel1 = b.buildSelect(true)
	}
	b.units.Shrink()
}

func (b *BitVector) blockBound(blk uint64) uint64 {
	p := blk * blockBits
	if p > b.nbits {
		p = b.nbits
	}
	return p
}

func (b *BitVector) countInBlock(blk uint64, ones bool) uint64 {
	set := uint64(b.ranks.At(int(blk)+1).Abs) - uint64(b.ranks.At(int(blk)).Abs)
	if ones {
		return set
	}
	return b.blockBound(blk+1) - b.blockBound(blk) - set
}

func (b *BitVector) buildSelect(ones bool) Vec[uint32] {
	var s Vec[uint32]
	s.Push(selectSampleInterval)
	total := b.nbits - b.ones
	if ones {
		total = b.ones
	}
	nb := b.numBlocks()
	target, cum := uint64(0), uint64(0)
	for blk := uint64(0); blk < nb && target < total; blk++ {
		cnt := b.countInBlock(blk, ones)
		for target < cum+cnt && target < total {
			s.Push(uint32(blk))
			target += selectSampleInterval
		}
		cum += cnt
	}
	s.Push(uint32(nb))
	s.Shrink()
	return s
}

// Rank1 counts set bits in [0, i).
func (b *BitVector) Rank1(i uint64) uint64 {
	ri := b.ranks.At(int(i / blockBits))
	r := uint64(ri.Abs)
	if w := i % blockBits / wordBits; w > 0 {
		r += ri.Rel(w)
	}
	if rem := i % wordBits; rem > 0 {
		r += uint64(mathbits.OnesCount64(b.units.At(int(i/wordBits)) & (1<<rem - 1)))
	}
	return r
}

// Rank0 counts cleared bits in [0, i).
func (b *BitVector) Rank0(i uint64) uint64 {
	return i - b.Rank1(i)
}

func (b *BitVector) absAt(blk uint64, ones bool) uint64 {
	set := uint64(b.ranks.At(int(blk)).Abs)
	if ones {
		return set
	}
	return b.blockBound(blk) - set
}

// findBlock returns the block holding the k-th occurrence, narrowing by
// the sample table when one exists.
func (b *BitVector) findBlock(k uint64, ones bool, samples *Vec[uint32]) uint64 {
	nb := b.numBlocks()
	lo, hi := uint64(0), nb
	if samples.Size() > 0 {
		iv := uint64(samples.At(0))
		j := int(k / iv)
		lo = uint64(samples.At(1 + j))
		if h := uint64(samples.At(2+j)) + 1; h < hi {
			hi = h
		}
	}
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if b.absAt(mid, ones) <= k {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// Select1 is the position of the k-th (0-indexed) set bit; k < Ones().
func (b *BitVector) Select1(k uint64) uint64 {
	errutil.BugOn(k >= b.ones, "select1(%d) of %d ones", k, b.ones)
	blk := b.findBlock(k, true, &b.sel1)
	ri := b.ranks.At(int(blk))
	r := k - uint64(ri.Abs)
	w := uint64(wordsPerBlock - 1)
	for w > 0 && ri.Rel(w) > r {
		w--
	}
	if w > 0 {
		r -= ri.Rel(w)
	}
	return blk*blockBits + w*wordBits + select64(b.units.At(int(blk*wordsPerBlock+w)), r)
}

// Select0 is the position of the k-th (0-indexed) cleared bit.
func (b *BitVector) Select0(k uint64) uint64 {
	errutil.BugOn(k >= b.nbits-b.ones, "select0(%d) of %d zeros", k, b.nbits-b.ones)
	blk := b.findBlock(k, false, &b.sel0)
	ri := b.ranks.At(int(blk))
	r := k - (b.blockBound(blk) - uint64(ri.Abs))
	w := uint64(wordsPerBlock - 1)
	for w > 0 && w*wordBits-ri.Rel(w) > r {
		w--
	}
	if w > 0 {
		r -= w*wordBits - ri.Rel(w)
	}
	return blk*blockBits + w*wordBits + select64(^b.units.At(int(blk*wordsPerBlock+w)), r)
}

func select64(w uint64, r uint64) uint64 {
	for i := uint64(0); i < 8; i++ {
		bt := uint8(w >> (8 * i))
		c := uint64(mathbits.OnesCount8(bt))
		if r < c {
			for j := uint64(0); ; j++ {
				if bt&(1<<j) != 0 {
					if r == 0 {
						return i*8 + j
					}
					r--
				}
			}
		}
		r -= c
	}
	panic("vector: select64 out of range")
}

// TotalSize is the in-memory payload in bytes.
func (b *BitVector) TotalSize() int {
	return b.units.TotalSize() + 8 + b.ranks.TotalSize() + b.sel0.TotalSize() + b.sel1.TotalSize()
}

// IOSize is the serialized size in bytes.
func (b *BitVector) IOSize() int {
	return b.units.IOSize() + 8 + b.ranks.IOSize() + b.sel0.IOSize() + b.sel1.IOSize()
}

func (b *BitVector) Clear() {
	*b = BitVector{}
}

func (b *BitVector) Write(w *iox.Writer) error {
	return errutil.First(
		b.units.Write(w),
		w.WriteUint64(b.nbits),
		b.ranks.Write(w),
		b.sel0.Write(w),
		b.sel1.Write(w),
	)
}

func (b *BitVector) validate() error {
	if b.units.Size() != int((b.nbits+wordBits-1)/wordBits) {
		return fmt.Errorf("%w: %d words for %d bits", ErrCorrupt, b.units.Size(), b.nbits)
	}
	if b.ranks.Size() == 0 {
		// Never built; only legal for an empty sequence.
		if b.nbits != 0 {
			return fmt.Errorf("%w: missing rank index", ErrCorrupt)
		}
		b.ones = 0
		return nil
	}
	if b.ranks.Size() != int(b.numBlocks())+1 {
		return fmt.Errorf("%w: %d rank entries for %d blocks", ErrCorrupt, b.ranks.Size(), b.numBlocks())
	}
	b.ones = uint64(b.ranks.Back().Abs)
	if b.ones > b.nbits {
		return fmt.Errorf("%w: %d ones in %d bits", ErrCorrupt, b.ones, b.nbits)
	}
	return nil
}

func (b *BitVector) Read(r *iox.Reader) error {
	var err error
	if e := b.units.Read(r); e != nil {
		return e
	}
	if b.nbits, err = r.ReadUint64(); err != nil {
		return err
	}
	if err = errutil.First(b.ranks.Read(r), b.sel0.Read(r), b.sel1.Read(r)); err != nil {
		return err
	}
	return b.validate()
}

func (b *BitVector) Map(m *iox.Mapper) error {
	var err error
	if e := b.units.Map(m); e != nil {
		return e
	}
	if b.nbits, err = m.MapUint64(); err != nil {
		return err
	}
	if err = errutil.First(b.ranks.Map(m), b.sel0.Map(m), b.sel1.Map(m)); err != nil {
		return err
	}
	return b.validate()
}
