// Package parser implements the C5 Collection parser from spec.md §4.3:
// indentation, inline, section, and keypath assembly into the raw
// ast.Node tree that internal/resolve (C6) and internal/rtast (C7)
// consume downstream.
//
// Built around a curTok/peekTok lookahead and nextToken cursor,
// structured as a collection-stack parser: instead of precedence
// climbing over binary operators, parseValue dispatches on the token
// that opens each of BespON's three collection styles, and indent-style
// nesting is driven by comparing source columns rather than by explicit
// delimiters.
package parser

import (
	"github.com/malphas-lang/bespon-go/internal/ast"
	"github.com/malphas-lang/bespon-go/internal/lexer"
	"github.com/malphas-lang/bespon-go/internal/values"
)

// Option configures a Parser.
type Option func(*Parser)

// WithFilename attributes every emitted span to filename.
func WithFilename(name string) Option {
	return func(p *Parser) { p.filename = name }
}

// WithMaxNestingDepth overrides the default collection depth bound
// (spec.md §6 max_nesting_depth, default 100).
func WithMaxNestingDepth(n int) Option {
	return func(p *Parser) { p.maxDepth = n }
}

// WithFloatOverflowToInf mirrors the float_overflow_to_inf load option.
func WithFloatOverflowToInf(v bool) Option {
	return func(p *Parser) { p.floatOverflowToInf = v }
}

// Parser is a recursive-descent, indentation-sensitive collection
// parser over a lexer.Lexer's token stream.
type Parser struct {
	lx      *lexer.Lexer
	cur     lexer.Token
	peek    lexer.Token

	filename           string
	maxDepth           int
	floatOverflowToInf bool

	depth int

	errors []Error
	// firstErr, once set, makes every parse function a no-op: spec.md
	// §7 "Propagation is fail-fast: the first error aborts the parse".
	firstErr *Error
}

// New creates a Parser over src.
func New(src string, opts ...Option) *Parser {
	p := &Parser{maxDepth: 100}
	for _, opt := range opts {
		opt(p)
	}
	lexOpts := []lexer.Option{}
	if p.filename != "" {
		lexOpts = append(lexOpts, lexer.WithFilename(p.filename))
	}
	p.lx = lexer.New(src, lexOpts...)
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns the errors accumulated during parsing (at most one,
// per the fail-fast policy, plus any raised by the underlying lexer).
func (p *Parser) Errors() []Error {
	all := make([]Error, 0, len(p.lx.Errors)+len(p.errors))
	for _, le := range p.lx.Errors {
		all = append(all, Error{Kind: lexErrKindToParseKind(le.Kind), Message: le.Message, Span: le.Span})
	}
	all = append(all, p.errors...)
	return all
}

func lexErrKindToParseKind(k lexer.ErrorKind) ErrorKind {
	// Lexical errors surface as-is through diag.Code via lexer.Error;
	// this mapping only covers Errors() aggregation for callers that
	// want one combined slice, so it's deliberately lossy (Unexpected
	// is close enough as a structural fallback label).
	return ErrUnexpected
}

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.lx.NextToken()
}

func (p *Parser) fail(kind ErrorKind, msg string, span lexer.Span) {
	if p.firstErr != nil {
		return
	}
	e := Error{Kind: kind, Message: msg, Span: span}
	p.firstErr = &e
	p.errors = append(p.errors, e)
}

func (p *Parser) failed() bool { return p.firstErr != nil }

func (p *Parser) skipNewlines() {
	for !p.failed() && p.cur.Type == lexer.NEWLINE {
		p.nextToken()
	}
}

// leadingDocComment consumes any comment lines immediately preceding the
// next real token and returns the last doc comment among them (spec.md
// §4.3 rule 2: "Doc comment binds to the nearest following key"); plain
// line comments are dropped.
func (p *Parser) leadingDocComment() *ast.Comment {
	var doc *ast.Comment
	for !p.failed() && (p.cur.Type == lexer.DOC_COMMENT || p.cur.Type == lexer.LINE_COMMENT) {
		if p.cur.Type == lexer.DOC_COMMENT {
			doc = &ast.Comment{Text: p.cur.Value, Raw: p.cur.Raw, Doc: true, Span: p.cur.Span}
		}
		p.nextToken()
		p.skipNewlines()
	}
	return doc
}

// trailingComment consumes a same-line comment immediately after a
// value, if present (spec.md §3 "trailing line comments").
func (p *Parser) trailingComment() *ast.Comment {
	if p.cur.Type == lexer.LINE_COMMENT {
		c := &ast.Comment{Text: p.cur.Value, Raw: p.cur.Raw, Doc: false, Span: p.cur.Span}
		p.nextToken()
		return c
	}
	return nil
}


// ParseDocument parses the entire input and returns the raw tree root,
// per spec.md §2 "raw nodes with source spans". The root is a Dict
// unless the document's first content is a list-item marker, in which
// case the root is a List.
func (p *Parser) ParseDocument() *ast.Document {
	startSpan := p.cur.Span
	p.skipNewlines()
	p.leadingDocComment()

	var root ast.Node
	if p.cur.Type == lexer.ASTERISK {
		root = p.parseIndentList(p.cur.Span.Column)
	} else {
		root = p.parseRootDict()
	}
	if root == nil {
		root = ast.NewDict(ast.StyleIndent, startSpan)
	}
	return ast.NewDocument(root, startSpan)
}

// parseRootDict parses the top level as an indent/section-style dict:
// a sequence of `key = value` lines (optionally prefixed by the current
// section path) with no enclosing delimiter.
func (p *Parser) parseRootDict() *ast.Dict {
	dict := ast.NewDict(ast.StyleIndent, p.cur.Span)
	var sectionPrefix []string

	for {
		p.skipNewlines()
		doc := p.leadingDocComment()
		if p.failed() || p.cur.Type == lexer.EOF {
			break
		}

		switch p.cur.Type {
		case lexer.SECTION_OPEN:
			p.nextToken()
			path, ok := p.parseKeypathSegments()
			if !ok {
				return dict
			}
			sectionPrefix = path
			p.expectLineEnd()
			continue
		case lexer.SECTION_CLOSE:
			p.nextToken()
			sectionPrefix = nil
			p.expectLineEnd()
			continue
		}

		p.parseDictEntryInto(dict, sectionPrefix, doc)
		if p.failed() {
			break
		}
	}
	return dict
}

// parseIndentDict parses a nested indent-style dict: every entry's key
// starts at exactly column.
func (p *Parser) parseIndentDict(column int, overwrite bool) *ast.Dict {
	dict := ast.NewDict(ast.StyleIndent, p.cur.Span)
	dict.IndentColumn = column
	dict.Overwrite = overwrite

	for {
		p.skipNewlines()
		doc := p.leadingDocComment()
		if p.failed() || p.cur.Type == lexer.EOF {
			break
		}
		if p.cur.Span.Column != column {
			break
		}
		if p.cur.Type == lexer.ASTERISK {
			p.fail(ErrUnexpected, "list item marker inside a dict", p.cur.Span)
			break
		}
		p.parseDictEntryInto(dict, nil, doc)
		if p.failed() {
			break
		}
	}
	return dict
}

// parseIndentList parses a nested indent-style list: every item starts
// with `*` at exactly column.
func (p *Parser) parseIndentList(column int) *ast.List {
	list := ast.NewList(ast.StyleIndent, p.cur.Span)
	list.IndentColumn = column

	for {
		p.skipNewlines()
		doc := p.leadingDocComment()
		if p.failed() || p.cur.Type == lexer.EOF {
			break
		}
		if p.cur.Span.Column != column || p.cur.Type != lexer.ASTERISK {
			break
		}
		p.nextToken() // consume '*'

		val := p.parseValue(column)
		if p.failed() {
			break
		}
		trailing := p.trailingComment()
		li := &ast.ListItem{Value: val}
		li.Attachments.DocComment = doc
		li.Attachments.TrailingComment = trailing
		list.Items = append(list.Items, li)
		if !endsAtLineStart(val) {
			p.expectLineEnd()
		}
	}
	return list
}

// parseDictEntryInto parses one `keypath = value` line and assembles it
// into dict, honoring the keypath-created-dict merge policy from
// spec.md §4.3.
func (p *Parser) parseDictEntryInto(dict *ast.Dict, prefix []string, doc *ast.Comment) {
	keySpan := p.cur.Span
	segKey, keyRaw, ok := p.parseOneKey()
	if !ok {
		return
	}
	segments := append(append([]string{}, prefix...), segKey)
	segSpans := make([]lexer.Span, len(prefix), len(prefix)+1)
	segSpans = append(segSpans, keySpan)
	for p.cur.Type == lexer.DOT {
		p.nextToken()
		segSpan := p.cur.Span
		seg, _, ok := p.parseOneKey()
		if !ok {
			return
		}
		segments = append(segments, seg)
		segSpans = append(segSpans, segSpan)
	}

	if p.cur.Type != lexer.ASSIGN {
		p.fail(ErrUnexpected, "expected '=' after key", p.cur.Span)
		return
	}
	p.nextToken()

	valueDoc := p.leadingDocComment()
	entryCol := keySpan.Column
	value := p.parseValue(entryCol)
	if p.failed() {
		return
	}
	trailing := p.trailingComment()

	finalKey := segments[len(segments)-1]
	finalSpan := segSpans[len(segSpans)-1]
	target := p.descendKeypath(dict, segments[:len(segments)-1], segSpans[:len(segSpans)-1])
	if target == nil {
		return
	}
	entry := &ast.DictEntry{Key: finalKey, KeyRaw: keyRaw, Value: value}
	entry.KeyAttachments.DocComment = doc
	entry.ValueAttachments.DocComment = valueDoc
	entry.ValueAttachments.TrailingComment = trailing

	if existing, ok := target.Get(finalKey); ok && target.Overwrite {
		existing.KeySpans = append(existing.KeySpans, finalSpan)
	} else {
		entry.KeySpans = append(entry.KeySpans, finalSpan)
	}
	if !target.Set(entry, target.Overwrite) {
		p.fail(ErrDuplicateKey, "duplicate key '"+finalKey+"'", keySpan)
		return
	}
	if !endsAtLineStart(value) {
		p.expectLineEnd()
	}
}

// descendKeypath walks/creates the intermediate dicts named by segments
// under dict, returning the innermost dict to assign the final key
// into. An intermediate segment may reuse an existing dict only if that
// dict was itself keypath-created or carries an explicit overwrite tag
// (spec.md §4.3 "Keypath assembly"); otherwise it's DuplicateKey.
func (p *Parser) descendKeypath(dict *ast.Dict, segments []string, segSpans []lexer.Span) *ast.Dict {
	cur := dict
	for i, seg := range segments {
		span := lexer.Span{}
		if i < len(segSpans) {
			span = segSpans[i]
		}
		existing, ok := cur.Get(seg)
		if !ok {
			child := ast.NewDict(ast.StyleIndent, lexer.Span{})
			entry := &ast.DictEntry{Key: seg, KeyRaw: seg, Value: child, KeypathCreated: true}
			if span.End > span.Start {
				entry.KeySpans = append(entry.KeySpans, span)
			}
			cur.Set(entry, false)
			cur = child
			continue
		}
		childDict, isDict := existing.Value.(*ast.Dict)
		if !isDict || !(existing.KeypathCreated || childDict.Overwrite) {
			p.fail(ErrDuplicateKey, "keypath segment '"+seg+"' is not an extendable dict", p.cur.Span)
			return nil
		}
		if span.End > span.Start {
			existing.KeySpans = append(existing.KeySpans, span)
		}
		cur = childDict
	}
	return cur
}

// parseOneKey reads a single (possibly quoted) key segment.
func (p *Parser) parseOneKey() (string, string, bool) {
	switch p.cur.Type {
	case lexer.IDENT:
		raw := p.cur.Raw
		p.nextToken()
		return raw, raw, true
	case lexer.STRING:
		val, raw := p.cur.Value, p.cur.Raw
		p.nextToken()
		return val, raw, true
	default:
		p.fail(ErrUnexpected, "expected a key", p.cur.Span)
		return "", "", false
	}
}

func (p *Parser) parseKeypathSegments() ([]string, bool) {
	var segs []string
	seg, _, ok := p.parseOneKey()
	if !ok {
		return nil, false
	}
	segs = append(segs, seg)
	for p.cur.Type == lexer.DOT {
		p.nextToken()
		seg, _, ok := p.parseOneKey()
		if !ok {
			return nil, false
		}
		segs = append(segs, seg)
	}
	return segs, true
}

func (p *Parser) expectLineEnd() {
	if p.cur.Type == lexer.EOF || p.cur.Type == lexer.NEWLINE {
		if p.cur.Type == lexer.NEWLINE {
			p.nextToken()
		}
		return
	}
	p.fail(ErrUnexpected, "expected end of line", p.cur.Span)
}

// endsAtLineStart reports whether n (possibly tag-wrapped) is an
// indent-style block, whose own lines already consumed every line break
// up to the next line's first token.
func endsAtLineStart(n ast.Node) bool {
	if t, ok := n.(*ast.Tag); ok {
		n = t.Target
	}
	switch c := n.(type) {
	case *ast.Dict:
		return c.Style == ast.StyleIndent
	case *ast.List:
		return c.Style == ast.StyleIndent
	}
	return false
}

// parseValue parses one value in key/list-item position. minColumn is
// the column of the key (or `*` marker) that introduced it, used to
// detect a nested indent collection continuing on the following line.
func (p *Parser) parseValue(minColumn int) ast.Node {
	return p.parseValueWithOverwrite(minColumn, false)
}

// parseValueWithOverwrite is parseValue with a pending dict-overwrite flag
// (set by a `(overwrite=true)>` tag) applied before the dict's own entries
// are parsed, so duplicate keys within it are allowed from the start
// rather than only after the tag finishes wrapping it (spec.md §4.4).
func (p *Parser) parseValueWithOverwrite(minColumn int, overwrite bool) ast.Node {
	if p.failed() {
		return nil
	}
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		p.fail(ErrDepthExceeded, "nesting depth exceeds the configured maximum", p.cur.Span)
		return nil
	}

	switch p.cur.Type {
	case lexer.LPAREN:
		return p.parseTag(minColumn)
	case lexer.LBRACE:
		return p.parseInlineDict(overwrite)
	case lexer.LBRACKET:
		return p.parseInlineList()
	case lexer.DOLLAR:
		span := p.cur.Span
		p.nextToken()
		if p.cur.Type != lexer.IDENT {
			p.fail(ErrUnexpected, "expected alias name after '$'", p.cur.Span)
			return nil
		}
		name := p.cur.Raw
		p.nextToken()
		return ast.NewAliasRef(name, span)
	case lexer.STRING:
		return p.scalarFromString()
	case lexer.NUMBER:
		return p.scalarFromNumber()
	case lexer.IDENT:
		return p.scalarFromIdent()
	case lexer.NEWLINE:
		p.skipNewlines()
		if p.failed() {
			return nil
		}
		if p.cur.Span.Column <= minColumn || p.cur.Type == lexer.EOF {
			p.fail(ErrEmptyCollectionItem, "missing value", p.cur.Span)
			return nil
		}
		if p.cur.Type == lexer.ASTERISK {
			return p.parseIndentList(p.cur.Span.Column)
		}
		return p.parseIndentDict(p.cur.Span.Column, overwrite)
	default:
		p.fail(ErrUnexpected, "unexpected token in value position", p.cur.Span)
		return nil
	}
}

func (p *Parser) scalarFromString() *ast.Scalar {
	tok := p.cur
	span := tok.Span
	p.nextToken()
	s := ast.NewScalar(ast.ScalarString, tok.Raw, tok.Value, span)
	s.QuoteStyle = tok.QuoteStyle
	s.DelimRun = tok.DelimRun
	s.Multiline = tok.Multiline
	s.TrailingSlash = tok.TrailingSlash
	return s
}

func (p *Parser) scalarFromIdent() ast.Node {
	tok := p.cur
	switch tok.Raw {
	case "none":
		p.nextToken()
		return ast.NewScalar(ast.ScalarNone, tok.Raw, nil, tok.Span)
	case "true", "false":
		v, _ := values.ParseBool(tok.Raw)
		p.nextToken()
		return ast.NewScalar(ast.ScalarBool, tok.Raw, v.Bool, tok.Span)
	default:
		// An unquoted identifier-like string value (spec.md §4.1).
		p.nextToken()
		return ast.NewScalar(ast.ScalarString, tok.Raw, tok.Raw, tok.Span)
	}
}

func (p *Parser) scalarFromNumber() ast.Node {
	tok := p.cur
	p.nextToken()
	v, err := values.ParseNumber(tok.Raw, p.floatOverflowToInf)
	if err != nil {
		p.fail(ErrUnexpected, "bad number literal '"+tok.Raw+"'", tok.Span)
		return nil
	}
	kind := ast.ScalarInt
	switch v.Kind {
	case values.KindFloat:
		kind = ast.ScalarFloat
	case values.KindComplex:
		kind = ast.ScalarComplex
	case values.KindRational:
		kind = ast.ScalarRational
	}
	return ast.NewScalar(kind, tok.Raw, v, tok.Span)
}

// parseInlineDict parses `{ key=val, key=val, }` (spec.md §4.3 "Inline
// style"), allowing free newlines inside.
func (p *Parser) parseInlineDict(overwrite bool) *ast.Dict {
	span := p.cur.Span
	p.nextToken() // consume '{'
	dict := ast.NewDict(ast.StyleInline, span)
	dict.Overwrite = overwrite

	for {
		p.skipNewlines()
		if p.failed() {
			return dict
		}
		if p.cur.Type == lexer.RBRACE {
			p.nextToken()
			return dict
		}
		if p.cur.Type == lexer.EOF {
			p.fail(ErrUnbalancedDelim, "unterminated inline dict", span)
			return dict
		}
		doc := p.leadingDocComment()
		keySpan := p.cur.Span
		key, keyRaw, ok := p.parseOneKey()
		if !ok {
			return dict
		}
		segments := []string{key}
		segSpans := []lexer.Span{keySpan}
		for p.cur.Type == lexer.DOT {
			p.nextToken()
			segSpan := p.cur.Span
			seg, _, ok := p.parseOneKey()
			if !ok {
				return dict
			}
			segments = append(segments, seg)
			segSpans = append(segSpans, segSpan)
		}
		if p.cur.Type != lexer.ASSIGN {
			p.fail(ErrUnexpected, "expected '=' after key", p.cur.Span)
			return dict
		}
		p.nextToken()
		p.skipNewlines()
		value := p.parseValue(keySpan.Column)
		if p.failed() {
			return dict
		}
		finalKey := segments[len(segments)-1]
		finalSpan := segSpans[len(segSpans)-1]
		target := p.descendKeypath(dict, segments[:len(segments)-1], segSpans[:len(segSpans)-1])
		entry := &ast.DictEntry{Key: finalKey, KeyRaw: keyRaw, Value: value}
		entry.KeyAttachments.DocComment = doc
		if target != nil {
			if existing, ok := target.Get(finalKey); ok && target.Overwrite {
				existing.KeySpans = append(existing.KeySpans, finalSpan)
			} else {
				entry.KeySpans = append(entry.KeySpans, finalSpan)
			}
		}
		if target == nil || !target.Set(entry, target.Overwrite) {
			p.fail(ErrDuplicateKey, "duplicate key '"+entry.Key+"'", keySpan)
			return dict
		}
		p.skipNewlines()
		if p.cur.Type == lexer.COMMA {
			dict.TrailingComma = true
			p.nextToken()
		} else {
			dict.TrailingComma = false
		}
	}
}

// parseInlineList parses `[ v, v, ]`.
func (p *Parser) parseInlineList() *ast.List {
	span := p.cur.Span
	p.nextToken() // consume '['
	list := ast.NewList(ast.StyleInline, span)

	for {
		p.skipNewlines()
		if p.failed() {
			return list
		}
		if p.cur.Type == lexer.RBRACKET {
			p.nextToken()
			return list
		}
		if p.cur.Type == lexer.EOF {
			p.fail(ErrUnbalancedDelim, "unterminated inline list", span)
			return list
		}
		doc := p.leadingDocComment()
		itemSpan := p.cur.Span
		value := p.parseValue(itemSpan.Column)
		if p.failed() {
			return list
		}
		li := &ast.ListItem{Value: value}
		li.Attachments.DocComment = doc
		list.Items = append(list.Items, li)

		p.skipNewlines()
		if p.cur.Type == lexer.COMMA {
			list.TrailingComma = true
			p.nextToken()
		} else {
			list.TrailingComma = false
		}
	}
}

// reservedTagKeys lists the tag argument keywords recognized by
// spec.md §4.4 rule 2; anything else is TagMismatch.
var reservedTagKeys = map[string]bool{
	"type": true, "label": true, "indent": true,
	"newline": true, "init": true, "overwrite": true,
}

// tagArgs accumulates a tag's parsed arguments before the wrapped ast.Tag
// node (and its span, which covers the whole `(…)> value` production) is
// constructed at the end of parseTag.
type tagArgs struct {
	TypeName  string
	Label     string
	Indent    string
	Newline   string
	Overwrite bool
	Init      string
}

// parseTag parses `(type, k=v, …)>` then the value it prefixes, per
// spec.md §4.4.
func (p *Parser) parseTag(minColumn int) ast.Node {
	span := p.cur.Span
	p.nextToken() // consume '('
	tag := &tagArgs{}

	first := true
	for p.cur.Type != lexer.TAGCLOSE {
		if p.failed() {
			return nil
		}
		if p.cur.Type == lexer.EOF {
			p.fail(ErrUnbalancedDelim, "unterminated tag", span)
			return nil
		}
		if p.cur.Type == lexer.COMMA {
			p.nextToken()
			first = false
			continue
		}
		if p.cur.Type != lexer.IDENT {
			p.fail(ErrTagMismatch, "expected a tag keyword or type name", p.cur.Span)
			return nil
		}
		name := p.cur.Raw
		keySpan := p.cur.Span
		p.nextToken()

		if p.cur.Type != lexer.ASSIGN {
			if first && !reservedTagKeys[name] {
				tag.TypeName = name
				first = false
				continue
			}
			p.fail(ErrTagMismatch, "expected '=' after tag keyword '"+name+"'", p.cur.Span)
			return nil
		}
		if !reservedTagKeys[name] {
			p.fail(ErrTagMismatch, "unknown tag keyword '"+name+"'", keySpan)
			return nil
		}
		p.nextToken()

		switch name {
		case "type":
			if p.cur.Type != lexer.IDENT {
				p.fail(ErrTagMismatch, "expected a type name", p.cur.Span)
				return nil
			}
			tag.TypeName = p.cur.Raw
			p.nextToken()
		case "label":
			if p.cur.Type != lexer.IDENT {
				p.fail(ErrTagMismatch, "expected a label name", p.cur.Span)
				return nil
			}
			tag.Label = p.cur.Raw
			p.nextToken()
		case "init":
			if p.cur.Type != lexer.DOLLAR {
				p.fail(ErrTagMismatch, "expected '$name' for init", p.cur.Span)
				return nil
			}
			p.nextToken()
			if p.cur.Type != lexer.IDENT {
				p.fail(ErrTagMismatch, "expected a name after '$'", p.cur.Span)
				return nil
			}
			tag.Init = p.cur.Raw
			p.nextToken()
		case "overwrite":
			if p.cur.Type != lexer.IDENT || (p.cur.Raw != "true" && p.cur.Raw != "false") {
				p.fail(ErrTagMismatch, "expected true/false for overwrite", p.cur.Span)
				return nil
			}
			tag.Overwrite = p.cur.Raw == "true"
			p.nextToken()
		case "indent":
			if p.cur.Type != lexer.STRING {
				p.fail(ErrTagMismatch, "expected a string for indent", p.cur.Span)
				return nil
			}
			tag.Indent = p.cur.Value
			p.nextToken()
		case "newline":
			if p.cur.Type != lexer.STRING {
				p.fail(ErrTagMismatch, "expected a string for newline", p.cur.Span)
				return nil
			}
			tag.Newline = p.cur.Value
			p.nextToken()
		}
		first = false
	}
	p.nextToken() // consume ')>'

	if p.cur.Type == lexer.LPAREN {
		p.fail(ErrTagMismatch, "multiple tags in a row", p.cur.Span)
		return nil
	}

	target := p.parseValueWithOverwrite(minColumn, tag.Overwrite)
	if p.failed() {
		return nil
	}
	if !typeCompatible(tag.TypeName, target) {
		p.fail(ErrTagMismatch, "type '"+tag.TypeName+"' is not compatible with this value's shape", span)
		return nil
	}
	if tag.Overwrite {
		if d, ok := target.(*ast.Dict); ok {
			d.Overwrite = true
		}
	}

	fullSpan := span
	fullSpan.End = target.Span().End
	node := ast.NewTag(target, fullSpan)
	node.TypeName = tag.TypeName
	node.Label = tag.Label
	node.Indent = tag.Indent
	node.Newline = tag.Newline
	node.Overwrite = tag.Overwrite
	node.Init = tag.Init
	return node
}

// typeCompatible checks the explicit-typing shape rule from spec.md
// §4.4 rule 3: none/true/false can never be explicitly typed; set/odict
// need list/dict shape; bytes/base16/base64 need string shape.
func typeCompatible(typeName string, target ast.Node) bool {
	if typeName == "" {
		return true
	}
	if s, ok := target.(*ast.Scalar); ok && (s.Kind == ast.ScalarNone || s.Kind == ast.ScalarBool) {
		return false
	}
	switch typeName {
	case "none", "true", "false":
		return false
	case "set", "list":
		_, ok := target.(*ast.List)
		return ok
	case "odict", "dict":
		_, ok := target.(*ast.Dict)
		return ok
	case "bytes", "base16", "base64":
		scalar, ok := target.(*ast.Scalar)
		return ok && scalar.Kind == ast.ScalarString
	default:
		return true
	}
}
