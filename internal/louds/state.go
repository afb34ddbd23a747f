package louds

type opKind uint8

const (
	opNone opKind = iota
	opCommonPrefix
	opPredictive
)

// frame is one level of the predictive-search stack: a node, the cursor
// over its child range, and the key length on entry to the node.
type frame struct {
	node    uint32
	next    uint32
	end     uint32
	keyLen  int
	checked bool
}

// State is the per-query cursor. It holds the query, the current result,
// and the traversal position that lets common-prefix and predictive
// search resume across calls. Only the engine interprets it.
type State struct {
	query  []byte
	result []byte
	id     uint32

	keyBuf  []byte
	linkBuf []byte

	op      opKind
	done    bool
	node    uint32
	pos     int
	pending bool // current node not yet checked for a terminal
	frames  []frame
}

// Reset binds a new query and discards traversal progress. The query
// bytes are referenced, not copied; they must stay unmodified while the
// state is in use.
func (s *State) Reset(query []byte) {
	s.query = query
	s.result = nil
	s.id = 0
	s.op = opNone
	s.done = false
	s.frames = s.frames[:0]
}

// Query returns the bound query bytes.
func (s *State) Query() []byte { return s.query }

// Key returns the last result's key bytes. The slice is only valid until
// the next call on the same state.
func (s *State) Key() []byte { return s.result }

// ID returns the last result's key identifier.
func (s *State) ID() uint32 { return s.id }
