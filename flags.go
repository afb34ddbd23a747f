package marisa

import "github.com/Reneg973/marisa-trie/internal/louds"

// Build flags. Combine at most one value per field with the number of
// tries, e.g. Build(ks, marisa.BinaryTail|marisa.LabelOrder|4). A zero
// field takes its default.
const (
	MinNumTries     = louds.MinNumTries
	MaxNumTries     = louds.MaxNumTries
	DefaultNumTries = louds.DefaultNumTries

	TinyCache   = int(louds.CacheTiny) << louds.CacheLevelShift
	SmallCache  = int(louds.CacheSmall) << louds.CacheLevelShift
	NormalCache = int(louds.CacheNormal) << louds.CacheLevelShift
	LargeCache  = int(louds.CacheLarge) << louds.CacheLevelShift
	HugeCache   = int(louds.CacheHuge) << louds.CacheLevelShift

	TextTail   = int(louds.TailText) << louds.TailModeShift
	BinaryTail = int(louds.TailBinary) << louds.TailModeShift

	WeightOrder = int(louds.OrderWeight) << louds.NodeOrderShift
	LabelOrder  = int(louds.OrderLabel) << louds.NodeOrderShift

	DefaultCache = NormalCache
	DefaultTail  = TextTail
	DefaultOrder = WeightOrder
)

// MaxKeyLen bounds the length of a single key in bytes.
const MaxKeyLen = louds.MaxKeyLen

var (
	ErrInvalidFlags = louds.ErrInvalidFlags
	ErrDuplicateKey = louds.ErrDuplicateKey
	ErrKeyTooLong   = louds.ErrKeyTooLong
	ErrTooManyKeys  = louds.ErrTooManyKeys
	ErrNotBuilt     = louds.ErrNotBuilt
	ErrIDOutOfRange = louds.ErrIDOutOfRange
)
