package marisa

import (
	"github.com/Reneg973/marisa-trie/internal/iox"
	"github.com/Reneg973/marisa-trie/internal/louds"
	"github.com/Reneg973/marisa-trie/internal/report"
)

// MemReport is a hierarchical per-component size breakdown.
type MemReport = report.MemReport

// Trie is the public handle around the LOUDS engine. Its zero value is an
// empty trie: all queries miss and Write fails until Build or a load.
type Trie struct {
	lt *louds.Trie
	fm *iox.FileMapper
}

func New() *Trie { return &Trie{} }

// replace installs a new engine, releasing a previous mapping if any.
func (t *Trie) replace(lt *louds.Trie, fm *iox.FileMapper) error {
	var err error
	if t.fm != nil {
		err = t.fm.Close()
	}
	t.lt = lt
	t.fm = fm
	return err
}

// Build constructs the trie from the keyset under the given flags (see
// the flag constants; 0 is all defaults). On success each keyset entry's
// ID slot is filled with its identifier; on failure the trie keeps its
// previous state.
func (t *Trie) Build(ks *Keyset, flags int) error {
	cfg, err := louds.ParseConfig(flags)
	if err != nil {
		return err
	}
	keys := make([]louds.Key, ks.NumKeys())
	for i := range keys {
		keys[i] = louds.Key{Data: ks.keys[i].data, Weight: ks.keys[i].weight}
	}
	lt, err := louds.Build(keys, cfg)
	if err != nil {
		return err
	}
	for i := range keys {
		ks.keys[i].id = keys[i].ID
	}
	return t.replace(lt, nil)
}

// Lookup reports whether the agent's query is a stored key; on a hit the
// agent's Key and ID are filled. A miss leaves the agent's result alone.
func (t *Trie) Lookup(a *Agent) bool {
	if t.lt == nil {
		return false
	}
	return t.lt.Lookup(&a.state)
}

// ReverseLookup restores the key whose identifier was bound with
// SetQueryID into the agent.
func (t *Trie) ReverseLookup(a *Agent) error {
	if t.lt == nil {
		return ErrNotBuilt
	}
	return t.lt.ReverseLookup(&a.state, a.queryID)
}

// CommonPrefixSearch emits, one per call, the stored keys that are
// prefixes of the agent's query, shortest first.
func (t *Trie) CommonPrefixSearch(a *Agent) bool {
	if t.lt == nil {
		return false
	}
	return t.lt.CommonPrefixSearch(&a.state)
}

// PredictiveSearch emits, one per call, the stored keys the agent's
// query is a prefix of: lexicographic under LabelOrder, heaviest sibling
// subtree first under WeightOrder.
func (t *Trie) PredictiveSearch(a *Agent) bool {
	if t.lt == nil {
		return false
	}
	return t.lt.PredictiveSearch(&a.state)
}

// NumKeys is the number of stored keys.
func (t *Trie) NumKeys() int {
	if t.lt == nil {
		return 0
	}
	return t.lt.NumKeys()
}

// NumTries is the number of LOUDS levels actually built.
func (t *Trie) NumTries() int {
	if t.lt == nil {
		return 0
	}
	return t.lt.NumTries()
}

func (t *Trie) NumNodes() int {
	if t.lt == nil {
		return 0
	}
	return t.lt.NumNodes()
}

func (t *Trie) Empty() bool { return t.NumKeys() == 0 }

// Size is the number of stored keys.
func (t *Trie) Size() int { return t.NumKeys() }

// TotalSize is the in-memory payload in bytes.
func (t *Trie) TotalSize() int {
	if t.lt == nil {
		return 0
	}
	return t.lt.TotalSize()
}

// IOSize is the serialized size in bytes.
func (t *Trie) IOSize() int {
	if t.lt == nil {
		return 0
	}
	return t.lt.IOSize()
}

// MemReport breaks TotalSize down per level and component.
func (t *Trie) MemReport() MemReport {
	if t.lt == nil {
		return MemReport{Name: "trie"}
	}
	return t.lt.MemReport()
}

// Clear returns the trie to its empty state, releasing any mapping.
func (t *Trie) Clear() error {
	return t.replace(nil, nil)
}

// Swap exchanges the contents of two tries.
func (t *Trie) Swap(o *Trie) {
	t.lt, o.lt = o.lt, t.lt
	t.fm, o.fm = o.fm, t.fm
}
