package louds

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// childCache short-circuits child lookup for hot (parent, label) pairs.
// It is a build-side accelerator: it is not serialized, and tries loaded
// from a stream or a mapping run without it.
type cacheSlot struct {
	parent uint32
	child  uint32 // 0 means empty; the root is never anyone's child
	label  byte
}

type childCache struct {
	slots []cacheSlot
	mask  uint64
}

func cacheRatio(level CacheLevel) int {
	switch level {
	case CacheTiny:
		return 16
	case CacheSmall:
		return 8
	case CacheLarge:
		return 2
	case CacheHuge:
		return 1
	default:
		return 4
	}
}

func newChildCache(numKeys int, level CacheLevel) *childCache {
	size := 256
	for size < numKeys/cacheRatio(level) && size < 1<<22 {
		size <<= 1
	}
	return &childCache{slots: make([]cacheSlot, size), mask: uint64(size - 1)}
}

func (c *childCache) index(parent uint32, label byte) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(parent)<<8|uint64(label))
	return xxh3.Hash(b[:]) & c.mask
}

// insert keeps the first occupant: children are inserted in BFS order, so
// shallow (hotter) edges win collisions.
func (c *childCache) insert(parent uint32, label byte, child uint32) {
	s := &c.slots[c.index(parent, label)]
	if s.child == 0 {
		*s = cacheSlot{parent: parent, child: child, label: label}
	}
}

// get returns the cached child; a miss proves nothing.
func (c *childCache) get(parent uint32, label byte) (uint32, bool) {
	s := c.slots[c.index(parent, label)]
	if s.child != 0 && s.parent == parent && s.label == label {
		return s.child, true
	}
	return 0, false
}
