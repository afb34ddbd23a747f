package marisa

import "github.com/Reneg973/marisa-trie/internal/louds"

// Agent is a reusable query cursor. It carries the query, the current
// result, and the traversal state that lets CommonPrefixSearch and
// PredictiveSearch resume across calls. An Agent may be reused across
// queries and tries, but must not be shared between goroutines.
type Agent struct {
	state   louds.State
	queryID uint32
}

func NewAgent() *Agent { return &Agent{} }

// SetQuery binds a query and resets traversal state. The bytes are
// referenced, not copied; they must stay unmodified during the query.
func (a *Agent) SetQuery(key []byte) {
	a.state.Reset(key)
}

func (a *Agent) SetQueryString(key string) {
	a.state.Reset([]byte(key))
}

// SetQueryID binds a key identifier for ReverseLookup.
func (a *Agent) SetQueryID(id uint32) {
	a.state.Reset(nil)
	a.queryID = id
}

// Query returns the bound query bytes.
func (a *Agent) Query() []byte { return a.state.Query() }

// Key returns the key bytes of the last successful operation. The slice
// is only valid until the next operation on this agent.
func (a *Agent) Key() []byte { return a.state.Key() }

// ID returns the key identifier of the last successful operation.
func (a *Agent) ID() uint32 { return a.state.ID() }
