package resolve

import (
	"github.com/malphas-lang/bespon-go/internal/ast"
	"github.com/malphas-lang/bespon-go/internal/lexer"
	"github.com/malphas-lang/bespon-go/internal/options"
	"github.com/malphas-lang/bespon-go/internal/values"
)

// resolver carries the document-scoped label table and fail-fast error
// sentinel through one resolution pass, per spec.md §9 "Global option
// bundle → immutable configuration record" and §7 "Propagation is
// fail-fast".
type resolver struct {
	opts options.Load

	// labelNodes maps every declared label to the raw node it tags,
	// populated by a pre-pass (collectLabels) so aliases can be checked
	// against the full label set regardless of source order.
	labelNodes map[string]ast.Node

	// placeholders holds a pre-allocated Value per label when
	// circular_references is enabled: resolveAliasByName hands this
	// pointer out immediately (rather than recursing into the label's
	// own subtree) and resolveTag fills it in place once the labeled
	// node's own resolution completes.
	placeholders map[string]*Value

	// completed holds the final Value for every label whose own Tag
	// node has finished resolving; resolveAliasByName consults this
	// first so later aliases see a fully-populated value.
	completed map[string]*Value

	// firstErr, once set, makes every resolve function a no-op.
	firstErr *Error
}

// Resolve walks doc's raw tree and produces the resolved value graph,
// per spec.md §6 `parse(source, options) -> Value | Error`.
func Resolve(doc *ast.Document, opts options.Load) (*Value, *Error) {
	r := &resolver{
		opts:         opts,
		labelNodes:   make(map[string]ast.Node),
		placeholders: make(map[string]*Value),
		completed:    make(map[string]*Value),
	}
	r.collectLabels(doc.Root)
	if r.firstErr != nil {
		return nil, r.firstErr
	}
	v := r.resolveNode(doc.Root, 0)
	if r.firstErr != nil {
		return nil, r.firstErr
	}
	return v, nil
}

func (r *resolver) fail(kind ErrorKind, msg string, span lexer.Span) *Value {
	if r.firstErr == nil {
		r.firstErr = &Error{Kind: kind, Message: msg, Span: span}
	}
	return nil
}

func (r *resolver) failed() bool { return r.firstErr != nil }

// collectLabels pre-registers every `label=` declaration in the
// document, per spec.md invariant 4 "a label is declared exactly once".
// Running this before any resolution lets an alias anywhere in the
// document be checked against the complete label set, independent of
// source order (needed to distinguish UndefinedAlias from a forward
// reference under circular_references=false).
func (r *resolver) collectLabels(n ast.Node) {
	if r.failed() || n == nil {
		return
	}
	switch node := n.(type) {
	case *ast.Dict:
		for _, e := range node.Entries {
			r.collectLabels(e.Value)
		}
	case *ast.List:
		for _, it := range node.Items {
			r.collectLabels(it.Value)
		}
	case *ast.Tag:
		if node.Label != "" {
			if _, dup := r.labelNodes[node.Label]; dup {
				r.fail(ErrLabelRedefinition, "label '"+node.Label+"' is already defined", node.Span())
				return
			}
			r.labelNodes[node.Label] = node.Target
			if r.opts.CircularReferences {
				r.placeholders[node.Label] = &Value{}
			}
		}
		r.collectLabels(node.Target)
	}
}

// resolveNode dispatches on the raw node's concrete type.
func (r *resolver) resolveNode(n ast.Node, depth int) *Value {
	if r.failed() {
		return nil
	}
	if depth > r.opts.MaxNestingDepth {
		return r.fail(ErrDepthExceeded, "nesting depth exceeds the configured maximum", n.Span())
	}
	switch node := n.(type) {
	case *ast.Dict:
		return r.resolveDict(node, depth)
	case *ast.List:
		return r.resolveList(node, depth)
	case *ast.Tag:
		return r.resolveTag(node, depth)
	case *ast.Scalar:
		return r.resolveScalar(node)
	case *ast.AliasRef:
		return r.resolveAlias(node)
	default:
		return r.fail(ErrUnknownType, "unsupported node", n.Span())
	}
}

func (r *resolver) resolveDict(node *ast.Dict, depth int) *Value {
	dict := NewDict()
	for _, e := range node.Entries {
		v := r.resolveNode(e.Value, depth+1)
		if r.failed() {
			return nil
		}
		if !dict.set(e.Key, v, node.Overwrite) {
			return r.fail(ErrDuplicateKey, "duplicate key '"+e.Key+"'", e.Span())
		}
	}
	return &Value{Kind: KindDict, Dict: dict}
}

func (r *resolver) resolveList(node *ast.List, depth int) *Value {
	items := make([]*Value, 0, len(node.Items))
	for _, it := range node.Items {
		v := r.resolveNode(it.Value, depth+1)
		if r.failed() {
			return nil
		}
		items = append(items, v)
	}
	return &Value{Kind: KindList, List: items}
}

func (r *resolver) resolveScalar(node *ast.Scalar) *Value {
	switch node.Kind {
	case ast.ScalarNone:
		return &Value{Kind: KindNone}
	case ast.ScalarBool:
		return &Value{Kind: KindBool, Bool: node.Value.(bool)}
	case ast.ScalarInt, ast.ScalarFloat, ast.ScalarComplex, ast.ScalarRational:
		nv, ok := node.Value.(values.Value)
		if !ok {
			return r.fail(ErrUnknownType, "malformed numeric scalar", node.Span())
		}
		return fromNumberValue(nv)
	case ast.ScalarString:
		s, _ := node.Value.(string)
		return &Value{Kind: KindString, Str: s}
	default:
		return r.fail(ErrUnknownType, "unsupported scalar kind", node.Span())
	}
}

func fromNumberValue(nv values.Value) *Value {
	v := &Value{}
	switch nv.Kind {
	case values.KindInt:
		v.Kind = KindInt
		v.Int = nv.Int
		v.Base = nv.Base
		v.HadUnderscores = nv.HadUnderscores
		v.UnderscoreStride = nv.UnderscoreStride
	case values.KindFloat:
		v.Kind = KindFloat
		v.Float = nv.Float
		v.Decimal = nv.Decimal
		v.HexFloat = nv.HexFloat
	case values.KindComplex:
		v.Kind = KindComplex
		v.Complex = nv.Complex
	case values.KindRational:
		v.Kind = KindRational
		v.Rational = nv.Rational
	}
	return v
}

// resolveAlias resolves an AliasRef node, per spec.md §4.4 rule 4.
func (r *resolver) resolveAlias(node *ast.AliasRef) *Value {
	if !r.opts.Aliases {
		return r.fail(ErrUndefinedAlias, "aliases are disabled for this load", node.Span())
	}
	return r.resolveAliasByName(node.Name, node.Span())
}

// resolveAliasByName looks up name in the label table. A fully resolved
// label returns its completed Value; an unknown name is UndefinedAlias;
// a known-but-not-yet-completed label (a forward reference or a true
// cycle — spec.md §4.4 groups both under the same restriction) returns
// the pre-allocated placeholder when circular_references is enabled, or
// fails with CircularReference otherwise.
func (r *resolver) resolveAliasByName(name string, span lexer.Span) *Value {
	if v, ok := r.completed[name]; ok {
		return v
	}
	if _, known := r.labelNodes[name]; !known {
		return r.fail(ErrUndefinedAlias, "undefined alias '$"+name+"'", span)
	}
	if r.opts.CircularReferences {
		if slot, ok := r.placeholders[name]; ok {
			return slot
		}
	}
	return r.fail(ErrCircularReference, "circular or forward reference to '$"+name+"'", span)
}
