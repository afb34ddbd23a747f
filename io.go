package marisa

import (
	"io"

	"github.com/Reneg973/marisa-trie/internal/errutil"
	"github.com/Reneg973/marisa-trie/internal/iox"
	"github.com/Reneg973/marisa-trie/internal/louds"
)

// Write serializes the trie to w.
func (t *Trie) Write(w io.Writer) error {
	if t.lt == nil {
		return ErrNotBuilt
	}
	return t.lt.Write(iox.NewWriter(w))
}

// WriteFD serializes the trie to an open file descriptor.
func (t *Trie) WriteFD(fd int) error {
	if t.lt == nil {
		return ErrNotBuilt
	}
	return t.lt.Write(iox.NewFDWriter(fd))
}

// Save serializes the trie to a file.
func (t *Trie) Save(path string) error {
	if t.lt == nil {
		return ErrNotBuilt
	}
	fw, err := iox.CreateWriter(path)
	if err != nil {
		return err
	}
	return errutil.First(t.lt.Write(&fw.Writer), fw.Close())
}

// Read replaces the trie with one deserialized from r. On failure the
// trie keeps its previous state.
func (t *Trie) Read(r io.Reader) error {
	lt, err := louds.Read(iox.NewReader(r))
	if err != nil {
		return err
	}
	return t.replace(lt, nil)
}

// ReadFD deserializes from an open file descriptor.
func (t *Trie) ReadFD(fd int) error {
	lt, err := louds.Read(iox.NewFDReader(fd))
	if err != nil {
		return err
	}
	return t.replace(lt, nil)
}

// Load replaces the trie with one deserialized from a file.
func (t *Trie) Load(path string) error {
	fr, err := iox.OpenReader(path)
	if err != nil {
		return err
	}
	defer fr.Close()
	lt, err := louds.Read(&fr.Reader)
	if err != nil {
		return err
	}
	return t.replace(lt, nil)
}

// Map replaces the trie with a zero-copy view over data. The caller owns
// data and must keep it alive and unmodified for the trie's lifetime.
func (t *Trie) Map(data []byte) error {
	lt, err := louds.Map(iox.NewMapper(data))
	if err != nil {
		return err
	}
	return t.replace(lt, nil)
}

// Mmap memory-maps path and builds a zero-copy view over it. The mapping
// is released by Clear, Close, the next load, or a successful Build.
func (t *Trie) Mmap(path string) error {
	fm, err := iox.OpenFileMapper(path)
	if err != nil {
		return err
	}
	lt, err := louds.Map(&fm.Mapper)
	if err != nil {
		fm.Close()
		return err
	}
	return t.replace(lt, fm)
}

// Close releases the mapping, if any, and empties the trie. Callers must
// finish all queries first.
func (t *Trie) Close() error {
	return t.Clear()
}
