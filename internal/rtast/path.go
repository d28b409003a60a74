// Package rtast implements the C7 Round-trip AST from spec.md §4.5: a
// mutable view over a parsed document that supports path-addressed
// replace_val/replace_key/cursor-indexing edits and reconstructs the
// original source byte-for-byte except where an edit occurred.
//
// Shaped like a "resolve position → node" cursor pattern, but keyed by
// a path of dict-key/list-index hops instead of a byte offset (see
// DESIGN.md). Byte-fidelity is achieved by caching the original source
// and computing a sorted list of byte-range splices for pending edits
// rather than replaying a token stream: dumps() with no pending edits
// is the original source, unchanged.
package rtast

// Hop is one step of a Path: either a dict-key lookup or a list-index
// lookup.
type Hop struct {
	Key     string
	Index   int
	IsIndex bool
}

// K builds a dict-key hop.
func K(key string) Hop { return Hop{Key: key} }

// I builds a list-index hop.
func I(index int) Hop { return Hop{Index: index, IsIndex: true} }

// Path addresses one node of the document: a sequence of dict-key/
// list-index hops from the root, per spec.md §4.5 "path is a sequence
// of dict-key and list-index hops".
type Path []Hop
