package rtast

import "github.com/malphas-lang/bespon-go/internal/ast"

// Walk traverses the document's live tree in source order, calling
// visit with the path to each node reached (the root's own path is
// empty). Unlike ast.Walk (a bare node visitor), this threads the dict-key/list-index
// path alongside each node so callers can feed it straight back into
// At/ReplaceVal/ReplaceKey. visit may return false to stop early.
func (d *Document) Walk(visit func(Path, ast.Node) bool) {
	walkNode(nil, unwrapTag(d.root), visit)
}

func walkNode(path Path, n ast.Node, visit func(Path, ast.Node) bool) bool {
	if !visit(path, n) {
		return false
	}
	switch node := n.(type) {
	case *ast.Dict:
		for _, e := range node.Entries {
			child := append(append(Path{}, path...), K(e.Key))
			if !walkNode(child, unwrapTag(e.Value), visit) {
				return false
			}
		}
	case *ast.List:
		for i, it := range node.Items {
			child := append(append(Path{}, path...), I(i))
			if !walkNode(child, unwrapTag(it.Value), visit) {
				return false
			}
		}
	}
	return true
}
