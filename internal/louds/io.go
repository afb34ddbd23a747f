package louds

import (
	"fmt"

	"github.com/Reneg973/marisa-trie/internal/errutil"
	"github.com/Reneg973/marisa-trie/internal/iox"
	"github.com/Reneg973/marisa-trie/internal/report"
)

// The stream leads with the built level count and the packed config
// flags, each a 4-byte integer zero-padded to 8, followed by the levels.
// Per level: louds, terminal flags, link flags, labels, tail content,
// tail end flags, link ids.

func (lv *level) write(w *iox.Writer) error {
	return errutil.First(
		lv.louds.Write(w),
		lv.terms.Write(w),
		lv.links.Write(w),
		lv.labels.Write(w),
		lv.tail.Write(w),
		lv.linkIDs.Write(w),
	)
}

func (lv *level) read(r *iox.Reader) error {
	return errutil.First(
		lv.louds.Read(r),
		lv.terms.Read(r),
		lv.links.Read(r),
		lv.labels.Read(r),
		lv.tail.Read(r),
		lv.linkIDs.Read(r),
	)
}

func (lv *level) mmap(m *iox.Mapper) error {
	return errutil.First(
		lv.louds.Map(m),
		lv.terms.Map(m),
		lv.links.Map(m),
		lv.labels.Map(m),
		lv.tail.Map(m),
		lv.linkIDs.Map(m),
	)
}

// Write serializes the trie.
func (t *Trie) Write(w *iox.Writer) error {
	if len(t.levels) == 0 {
		return ErrNotBuilt
	}
	if err := w.WriteUint32Pad8(uint32(len(t.levels))); err != nil {
		return err
	}
	if err := w.WriteUint32Pad8(uint32(t.cfg.Flags())); err != nil {
		return err
	}
	for i := range t.levels {
		if err := t.levels[i].write(w); err != nil {
			return err
		}
	}
	return nil
}

func (t *Trie) decodeHeader(numLevels, flags uint32) error {
	cfg, err := ParseConfig(int(flags))
	if err != nil {
		return err
	}
	if numLevels < MinNumTries || int(numLevels) > cfg.numTries {
		return fmt.Errorf("louds: corrupt stream: %d levels for num_tries %d", numLevels, cfg.numTries)
	}
	t.cfg = cfg
	t.levels = make([]level, numLevels)
	return nil
}

func (t *Trie) finishLoad() error {
	lvl := &t.levels[0]
	if lvl.terms.Size() != lvl.numNodes() {
		return fmt.Errorf("louds: corrupt stream: %d terminal flags for %d nodes",
			lvl.terms.Size(), lvl.numNodes())
	}
	t.numKeys = uint32(lvl.terms.Ones())
	return nil
}

// Read deserializes a trie from a stream.
func Read(r *iox.Reader) (*Trie, error) {
	t := &Trie{}
	numLevels, err := r.ReadUint32Pad8()
	if err != nil {
		return nil, err
	}
	flags, err := r.ReadUint32Pad8()
	if err != nil {
		return nil, err
	}
	if err := t.decodeHeader(numLevels, flags); err != nil {
		return nil, err
	}
	for i := range t.levels {
		if err := t.levels[i].read(r); err != nil {
			return nil, err
		}
	}
	if err := t.finishLoad(); err != nil {
		return nil, err
	}
	return t, nil
}

// Map builds a trie over a mapped byte region without copying element
// payloads. The region must outlive the trie.
func Map(m *iox.Mapper) (*Trie, error) {
	t := &Trie{}
	numLevels, err := m.MapUint32Pad8()
	if err != nil {
		return nil, err
	}
	flags, err := m.MapUint32Pad8()
	if err != nil {
		return nil, err
	}
	if err := t.decodeHeader(numLevels, flags); err != nil {
		return nil, err
	}
	for i := range t.levels {
		if err := t.levels[i].mmap(m); err != nil {
			return nil, err
		}
	}
	if err := t.finishLoad(); err != nil {
		return nil, err
	}
	return t, nil
}

// TotalSize is the in-memory payload in bytes.
func (t *Trie) TotalSize() int {
	n := 0
	for i := range t.levels {
		lv := &t.levels[i]
		n += lv.louds.TotalSize() + lv.terms.TotalSize() + lv.links.TotalSize() +
			lv.labels.TotalSize() + lv.tail.TotalSize() + lv.linkIDs.TotalSize()
	}
	return n
}

// IOSize is the serialized size in bytes.
func (t *Trie) IOSize() int {
	n := 16
	for i := range t.levels {
		lv := &t.levels[i]
		n += lv.louds.IOSize() + lv.terms.IOSize() + lv.links.IOSize() +
			lv.labels.IOSize() + lv.tail.IOSize() + lv.linkIDs.IOSize()
	}
	return n
}

// MemReport breaks TotalSize down per level and component.
func (t *Trie) MemReport() report.MemReport {
	levels := make([]report.MemReport, 0, len(t.levels))
	for i := range t.levels {
		lv := &t.levels[i]
		levels = append(levels, report.Sum(fmt.Sprintf("level %d", i),
			report.MemReport{Name: "louds", TotalBytes: lv.louds.TotalSize()},
			report.MemReport{Name: "terminal flags", TotalBytes: lv.terms.TotalSize()},
			report.MemReport{Name: "link flags", TotalBytes: lv.links.TotalSize()},
			report.MemReport{Name: "labels", TotalBytes: lv.labels.TotalSize()},
			report.MemReport{Name: "tail", TotalBytes: lv.tail.TotalSize()},
			report.MemReport{Name: "link ids", TotalBytes: lv.linkIDs.TotalSize()},
		))
	}
	return report.Sum("trie", levels...)
}
