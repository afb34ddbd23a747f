package marisa

// Key is one entry of a Keyset. After a successful Build its ID slot
// holds the identifier the trie assigned to it.
type Key struct {
	data   []byte
	weight float32
	id     uint32
}

// Bytes returns the key's bytes. The slice stays valid for the owning
// Keyset's lifetime and must not be modified.
func (k *Key) Bytes() []byte { return k.data }

func (k *Key) String() string { return string(k.data) }

// Weight is the key's build weight; it only matters under WeightOrder.
func (k *Key) Weight() float32 { return k.weight }

// ID is the identifier assigned by the last Build this key took part in.
func (k *Key) ID() uint32 { return k.id }

const keysetChunkSize = 4096

// Keyset collects build input. Key bytes are copied into an arena of
// doubling chunks, so the slices handed back by Key.Bytes stay put while
// the Keyset grows.
type Keyset struct {
	keys   []Key
	chunks [][]byte
	cur    int
	used   int
	total  int
}

func NewKeyset() *Keyset { return &Keyset{} }

func (ks *Keyset) alloc(n int) []byte {
	for {
		if ks.cur < len(ks.chunks) {
			c := ks.chunks[ks.cur]
			if len(c)-ks.used >= n {
				b := c[ks.used : ks.used+n : ks.used+n]
				ks.used += n
				return b
			}
			ks.cur++
			ks.used = 0
			continue
		}
		size := keysetChunkSize
		if len(ks.chunks) > 0 {
			size = len(ks.chunks[len(ks.chunks)-1]) * 2
		}
		if size < n {
			size = n
		}
		ks.chunks = append(ks.chunks, make([]byte, size))
	}
}

// Push copies key into the arena and appends it with the given weight.
func (ks *Keyset) Push(key []byte, weight float32) {
	b := ks.alloc(len(key))
	copy(b, key)
	ks.keys = append(ks.keys, Key{data: b, weight: weight})
	ks.total += len(key)
}

// PushString appends key with weight 1.
func (ks *Keyset) PushString(key string) {
	ks.Push([]byte(key), 1.0)
}

func (ks *Keyset) NumKeys() int { return len(ks.keys) }

// At returns the i-th key in push order.
func (ks *Keyset) At(i int) *Key { return &ks.keys[i] }

// TotalLength is the summed byte length of all keys.
func (ks *Keyset) TotalLength() int { return ks.total }

// Reset empties the keyset but keeps the arena for reuse.
func (ks *Keyset) Reset() {
	ks.keys = ks.keys[:0]
	ks.cur = 0
	ks.used = 0
	ks.total = 0
}

// Clear empties the keyset and releases the arena.
func (ks *Keyset) Clear() {
	*ks = Keyset{}
}
