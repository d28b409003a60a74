// Package ast defines the raw parse tree built by internal/parser (C5):
// Scalar, Dict-like, List-like, Tag, and Alias/label-handle nodes
// carrying source spans, per spec.md §3 "Data Model". internal/resolve
// (C6) consumes this tree and produces either a resolved value graph or
// hands it to internal/rtast (C7) to become a round-trip AST.
//
// A Node-interface-over-typed-structs shape: every node exposes Span()
// and carries an unexported span field set by its constructor.
package ast

import "github.com/malphas-lang/bespon-go/internal/lexer"

// Node is any parse-tree node with an associated source span.
type Node interface {
	Span() lexer.Span
	nodeKind()
}

// Style records which of BespON's three interchangeable surface
// syntaxes produced a collection, per spec.md §3 "Collection" attributes.
type Style int

const (
	StyleInline Style = iota
	StyleIndent
	StyleSection
)

// Comment is a single comment bound to a node at one of its anchor
// points (spec.md §3 "Comments bound to a node").
type Comment struct {
	Text string // decoded text, leading marker and the spaces after it stripped
	Raw  string
	Doc  bool
	Span lexer.Span
}

// Attachments holds the comment slots a node may carry. Which slots are
// meaningful depends on context: a DictEntry's key side only ever uses
// Doc/Trailing, its value side uses all four.
type Attachments struct {
	DocComment           *Comment
	TrailingComment      *Comment
	StartTrailingComment *Comment
	EndTrailingComment   *Comment
}

// ScalarKind identifies a Scalar node's decoded type.
type ScalarKind int

const (
	ScalarString ScalarKind = iota
	ScalarInt
	ScalarFloat
	ScalarBool
	ScalarNone
	ScalarComplex
	ScalarRational
	ScalarBytes
	ScalarBase16
	ScalarBase64
)

// Scalar is a leaf value node: decoded value plus enough of the original
// raw form to re-render it in style on a round-trip replacement.
type Scalar struct {
	Kind ScalarKind

	Raw   string // exact source text between delimiters, or the bare literal for numbers/keywords
	Value any    // values.Value payload for numbers, string for strings/bytes, bool for ScalarBool

	QuoteStyle string // "", `"`, `'`, "`" — delimiter family for ScalarString/Bytes/Base16/Base64
	DelimRun   int
	Multiline  bool
	TrailingSlash int

	span lexer.Span
}

func (s *Scalar) Span() lexer.Span { return s.span }
func (*Scalar) nodeKind()          {}

// NewScalar constructs a Scalar node.
func NewScalar(kind ScalarKind, raw string, value any, span lexer.Span) *Scalar {
	return &Scalar{Kind: kind, Raw: raw, Value: value, span: span}
}

// DictEntry is one key/value pair inside a Dict, in source order.
type DictEntry struct {
	Key    string // decoded key text
	KeyRaw string // original spelling incl. quoting, for round-trip rename checks

	// KeySpans records every literal source occurrence of this entry's
	// key segment: the defining occurrence plus any later dotted-keypath
	// or inline-dict mention that merged into the same entry. rtast's
	// ReplaceKey rewrites all of them, per spec.md §4.5/§8 ("every
	// literal occurrence of k as a key-path segment... is renamed").
	// Keypath prefixes introduced by a `|=== a.b` section header are not
	// tracked here; section syntax carries no literal key-path segment
	// to rewrite in place.
	KeySpans []lexer.Span

	Value Node

	KeyAttachments   Attachments
	ValueAttachments Attachments

	// KeypathCreated marks a dict implicitly created by an
	// intermediate keypath segment (spec.md §4.3 "Keypath assembly"),
	// which is mergeable by a later sibling keypath.
	KeypathCreated bool

	span lexer.Span
}

func (e *DictEntry) Span() lexer.Span { return e.span }

// Dict is an ordered insertion map, per spec.md §3 "Node kinds".
type Dict struct {
	Entries []*DictEntry
	index   map[string]int // key -> index into Entries, for O(1) lookup/overwrite

	Style          Style
	Compact        bool // StyleInline only: no interior newlines
	IndentColumn   int  // StyleIndent only: column of the opening key
	TrailingComma  bool

	// Overwrite mirrors a `(overwrite=true)>` tag wrapping this dict,
	// per spec.md §3 invariant 2: with it set, a repeated key replaces
	// the earlier one instead of raising DuplicateKey.
	Overwrite bool

	span lexer.Span
}

func (d *Dict) Span() lexer.Span { return d.span }
func (*Dict) nodeKind()          {}

// NewDict constructs an empty Dict.
func NewDict(style Style, span lexer.Span) *Dict {
	return &Dict{Style: style, span: span, index: make(map[string]int)}
}

// Get returns the entry for key, if present.
func (d *Dict) Get(key string) (*DictEntry, bool) {
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.Entries[i], true
}

// Set appends a new entry, or — if overwrite is true and key already
// exists — replaces the existing entry's value in place (iteration
// order stays at the first occurrence, per spec.md §4.3 rule 3).
func (d *Dict) Set(entry *DictEntry, overwrite bool) bool {
	if i, ok := d.index[entry.Key]; ok {
		if !overwrite {
			return false
		}
		existing := d.Entries[i]
		existing.Value = entry.Value
		existing.ValueAttachments = entry.ValueAttachments
		existing.KeypathCreated = entry.KeypathCreated
		return true
	}
	d.index[entry.Key] = len(d.Entries)
	d.Entries = append(d.Entries, entry)
	return true
}

// Rename changes an existing entry's Key (and its index slot), used by
// replace_key and by keypath-segment renaming in internal/rtast.
func (d *Dict) Rename(oldKey, newKey string) bool {
	i, ok := d.index[oldKey]
	if !ok {
		return false
	}
	if _, collide := d.index[newKey]; collide {
		return false
	}
	delete(d.index, oldKey)
	d.index[newKey] = i
	d.Entries[i].Key = newKey
	return true
}

// ListItem is one element of a List, carrying its own trailing-comment
// anchors independent of the List's.
type ListItem struct {
	Value       Node
	Attachments Attachments
	span        lexer.Span
}

func (li *ListItem) Span() lexer.Span { return li.span }

// List is an ordered sequence, per spec.md §3 "Node kinds".
type List struct {
	Items []*ListItem

	Style         Style
	Compact       bool
	IndentColumn  int
	TrailingComma bool

	span lexer.Span
}

func (l *List) Span() lexer.Span { return l.span }
func (*List) nodeKind()          {}

// NewList constructs an empty List.
func NewList(style Style, span lexer.Span) *List {
	return &List{Style: style, span: span}
}

// Tag wraps a target node with the metadata parsed from a `(…)>` tag
// prefix, per spec.md §4.4.
type Tag struct {
	Target Node

	TypeName string // "" if untyped
	Label    string // "" if unlabeled
	Indent   string // "" if not overridden
	Newline  string // "" if not overridden
	Overwrite bool
	Init      string // alias name for init=$other inheritance, "" if absent

	span lexer.Span
}

func (t *Tag) Span() lexer.Span { return t.span }
func (*Tag) nodeKind()          {}

// NewTag constructs a Tag wrapping target.
func NewTag(target Node, span lexer.Span) *Tag {
	return &Tag{Target: target, span: span}
}

// AliasRef is an unresolved `$name` reference; internal/resolve replaces
// it with the aliased node (or reports UndefinedAlias/CircularReference).
type AliasRef struct {
	Name string
	span lexer.Span
}

func (a *AliasRef) Span() lexer.Span { return a.span }
func (*AliasRef) nodeKind()          {}

// NewAliasRef constructs an AliasRef node.
func NewAliasRef(name string, span lexer.Span) *AliasRef {
	return &AliasRef{Name: name, span: span}
}

// Document is the parse result's root: a Dict, or a List when the
// document starts with a list-item marker. Labels are not stored here;
// internal/resolve builds its label table from the Tag nodes.
type Document struct {
	Root Node
	span lexer.Span
}

func (d *Document) Span() lexer.Span { return d.span }
func (*Document) nodeKind()          {}

// NewDocument constructs a Document wrapping root.
func NewDocument(root Node, span lexer.Span) *Document {
	return &Document{Root: root, span: span}
}
