package ast

// Walk traverses n in document order: n itself, then its children
// depth-first. visit may return false to stop traversal early, in
// which case Walk also returns false to its own caller.
//
// A position-to-node resolution walk, the shape editor tooling (go to
// definition, hover) uses to find the node under a cursor; this is the
// read-only counterpart kept after the request/response transport layer
// was dropped (see DESIGN.md).
func Walk(n Node, visit func(Node) bool) bool {
	if n == nil {
		return true
	}
	if !visit(n) {
		return false
	}
	switch node := n.(type) {
	case *Document:
		return Walk(node.Root, visit)
	case *Tag:
		return Walk(node.Target, visit)
	case *Dict:
		for _, e := range node.Entries {
			if !Walk(e.Value, visit) {
				return false
			}
		}
	case *List:
		for _, it := range node.Items {
			if !Walk(it.Value, visit) {
				return false
			}
		}
	}
	return true
}
