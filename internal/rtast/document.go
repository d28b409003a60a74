package rtast

import (
	"sort"
	"strings"

	"github.com/malphas-lang/bespon-go/internal/ast"
	"github.com/malphas-lang/bespon-go/internal/diag"
	"github.com/malphas-lang/bespon-go/internal/options"
	"github.com/malphas-lang/bespon-go/internal/parser"
)

// splice is one pending byte-range substitution against the cached
// source, keyed by the original token span it replaces.
type splice struct {
	start, end int
	text       string
}

// Document is a mutable round-trip view over one parsed source: the
// cached original text, the live (edit-mutated) raw tree, and the
// pending splices that dumps() applies against the cached text.
type Document struct {
	source string
	root   ast.Node
	opts   options.RoundTrip

	splices []splice

	// Warnings accumulates non-fatal diagnostics raised during edits,
	// e.g. CodeStyleFallback when a replacement couldn't keep its
	// original delimiter style (spec.md §4.5 "Style preservation
	// rules").
	Warnings []diag.Diagnostic
}

// ParseRoundTrip parses source into a round-trip Document, per spec.md
// §6 `parse_roundtrip(source, options) -> AST | Error`.
func ParseRoundTrip(source string, opts options.RoundTrip) (*Document, *parser.Error) {
	popts := []parser.Option{
		parser.WithMaxNestingDepth(opts.MaxNestingDepth),
		parser.WithFloatOverflowToInf(opts.FloatOverflowToInf),
	}
	if opts.Filename != "" {
		popts = append(popts, parser.WithFilename(opts.Filename))
	}
	p := parser.New(source, popts...)
	doc := p.ParseDocument()
	if errs := p.Errors(); len(errs) > 0 {
		e := errs[0]
		return nil, &e
	}
	return &Document{source: source, root: doc.Root, opts: opts}, nil
}

// Root returns the document's live (possibly edited) raw tree root.
func (d *Document) Root() ast.Node { return d.root }

// Cursor addresses one DictEntry or ListItem reached by At, per
// spec.md §4.5 "Indexing (ast[k] / ast[i]) returns a cursor object".
type Cursor struct {
	doc *Document

	parentDict *ast.Dict
	entry      *ast.DictEntry

	parentList *ast.List
	item       *ast.ListItem

	node ast.Node
}

// Value returns the node addressed by the cursor.
func (c *Cursor) Value() ast.Node { return c.node }

func (c *Cursor) attachments() *ast.Attachments {
	if c.entry != nil {
		return &c.entry.ValueAttachments
	}
	return &c.item.Attachments
}

// KeyDocComment returns the doc comment bound to this entry's key, if
// any. Only meaningful for dict entries; list items have no key side.
func (c *Cursor) KeyDocComment() *ast.Comment {
	if c.entry == nil {
		return nil
	}
	return c.entry.KeyAttachments.DocComment
}

// KeyTrailingComment returns the trailing comment bound to this
// entry's key, if any.
func (c *Cursor) KeyTrailingComment() *ast.Comment {
	if c.entry == nil {
		return nil
	}
	return c.entry.KeyAttachments.TrailingComment
}

// ValueDocComment returns the doc comment bound to this node's value.
func (c *Cursor) ValueDocComment() *ast.Comment { return c.attachments().DocComment }

// ValueTrailingComment returns the same-line trailing comment after
// this node's value.
func (c *Cursor) ValueTrailingComment() *ast.Comment { return c.attachments().TrailingComment }

// ValueStartTrailingComment returns the trailing comment anchored at
// this collection's opening delimiter.
func (c *Cursor) ValueStartTrailingComment() *ast.Comment {
	return c.attachments().StartTrailingComment
}

// ValueEndTrailingComment returns the trailing comment anchored at
// this collection's closing delimiter.
func (c *Cursor) ValueEndTrailingComment() *ast.Comment {
	return c.attachments().EndTrailingComment
}

// SetTrailingComment rewrites the text of an already-present trailing
// comment slot, per spec.md §4.5 "trailing-comment fields may be
// assigned only when a comment already exists at that slot (no new
// comment insertion)". which selects the slot: "key", "value",
// "value_start", or "value_end".
func (c *Cursor) SetTrailingComment(which string, text string) error {
	var slot **ast.Comment
	switch which {
	case "key":
		if c.entry == nil {
			return &Error{Kind: ErrPathNotFound, Message: "no key side at this path"}
		}
		slot = &c.entry.KeyAttachments.TrailingComment
	case "value":
		slot = &c.attachments().TrailingComment
	case "value_start":
		slot = &c.attachments().StartTrailingComment
	case "value_end":
		slot = &c.attachments().EndTrailingComment
	default:
		return &Error{Kind: ErrPathNotFound, Message: "unknown comment slot '" + which + "'"}
	}
	if *slot == nil {
		return &Error{Kind: ErrTypeMismatch, Message: "no existing " + which + " comment to replace"}
	}
	old := *slot
	newRaw := rewriteCommentText(old.Raw, old.Text, text)
	d := c.doc
	d.splices = append(d.splices, splice{start: old.Span.Start, end: old.Span.End, text: newRaw})
	old.Text = text
	old.Raw = newRaw
	return nil
}

// rewriteCommentText substitutes newText for oldText inside raw,
// preserving whatever marker/spacing precedes it (e.g. "# ", "### ").
func rewriteCommentText(raw, oldText, newText string) string {
	if idx := strings.LastIndex(raw, oldText); idx >= 0 {
		return raw[:idx] + newText + raw[idx+len(oldText):]
	}
	return raw
}

// unwrapTag follows Tag wrappers down to the node they describe; path
// hops address the document's logical dict/list structure, not its
// tag-wrapper layer.
func unwrapTag(n ast.Node) ast.Node {
	for {
		t, ok := n.(*ast.Tag)
		if !ok {
			return n
		}
		n = t.Target
	}
}

// At resolves path against the document's current (possibly already
// edited) tree and returns a cursor onto the addressed node.
func (d *Document) At(path Path) (*Cursor, error) {
	if len(path) == 0 {
		return &Cursor{doc: d, node: d.root}, nil
	}
	cur := unwrapTag(d.root)
	for i, hop := range path {
		last := i == len(path)-1
		if !hop.IsIndex {
			dict, ok := cur.(*ast.Dict)
			if !ok {
				return nil, &Error{Kind: ErrPathNotFound, Message: "path segment '" + hop.Key + "' is not a dict"}
			}
			entry, ok := dict.Get(hop.Key)
			if !ok {
				return nil, &Error{Kind: ErrPathNotFound, Message: "no key '" + hop.Key + "' at this path"}
			}
			if last {
				return &Cursor{doc: d, parentDict: dict, entry: entry, node: entry.Value}, nil
			}
			cur = unwrapTag(entry.Value)
			continue
		}
		list, ok := cur.(*ast.List)
		if !ok {
			return nil, &Error{Kind: ErrPathNotFound, Message: "path index is not inside a list"}
		}
		if hop.Index < 0 || hop.Index >= len(list.Items) {
			return nil, &Error{Kind: ErrPathNotFound, Message: "list index out of range"}
		}
		item := list.Items[hop.Index]
		if last {
			return &Cursor{doc: d, parentList: list, item: item, node: item.Value}, nil
		}
		cur = unwrapTag(item.Value)
	}
	return nil, &Error{Kind: ErrPathNotFound, Message: "empty path resolution"}
}

// Dumps reconstructs source text, substituting each pending edit's
// re-rendered form for its original span and leaving everything else
// byte-identical, per spec.md §4.5 "dumps()" and the round-trip-
// fidelity testable property (zero edits ⇒ byte-identical original).
func (d *Document) Dumps() string {
	if len(d.splices) == 0 {
		return d.source
	}
	sorted := make([]splice, len(d.splices))
	copy(sorted, d.splices)
	// Stable: splices with equal start stay in call order, so the
	// overlap resolution below can tell later calls from earlier ones.
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].start < sorted[j].start })

	// Overlapping edits at the same span (e.g. two replace_val calls
	// touching the same occurrence) collapse to the later call: replace
	// rather than append when the next splice starts inside the one
	// already kept.
	resolved := sorted[:0:0]
	for _, s := range sorted {
		if n := len(resolved); n > 0 && s.start < resolved[n-1].end {
			resolved[n-1] = s
			continue
		}
		resolved = append(resolved, s)
	}

	var b strings.Builder
	b.Grow(len(d.source))
	pos := 0
	for _, s := range resolved {
		b.WriteString(d.source[pos:s.start])
		b.WriteString(s.text)
		pos = s.end
	}
	b.WriteString(d.source[pos:])
	return b.String()
}
