// Package marisa is a static, succinct trie for sets of byte-string keys.
//
// Keys are supplied in bulk through a Keyset; Build produces an immutable
// trie that answers exact membership (with a stable integer id per key),
// id-to-key reverse lookup, common-prefix enumeration and predictive
// enumeration. The built trie serializes to a portable little-endian
// binary that can be reloaded or memory-mapped for zero-copy reads.
//
// Queries go through an Agent, a reusable cursor that carries the query,
// the current result and the traversal state that lets the enumeration
// calls resume where they left off:
//
//	agent := marisa.NewAgent()
//	agent.SetQueryString("app")
//	for trie.PredictiveSearch(agent) {
//		fmt.Printf("%s -> %d\n", agent.Key(), agent.ID())
//	}
//
// A built trie is immutable; any number of goroutines may query it
// concurrently as long as each uses its own Agent. Build, load, mmap,
// Clear and Swap require exclusive access.
package marisa
