// Package bespon is the public entry point for the BespON configuration
// language: parsing to a resolved Value tree, parsing to an editable
// round-trip AST, and serializing a Value tree back to source, per
// spec.md §6.
package bespon

import (
	"github.com/malphas-lang/bespon-go/internal/dump"
	"github.com/malphas-lang/bespon-go/internal/options"
	"github.com/malphas-lang/bespon-go/internal/parser"
	"github.com/malphas-lang/bespon-go/internal/resolve"
	"github.com/malphas-lang/bespon-go/internal/rtast"
	"github.com/malphas-lang/bespon-go/internal/source"
)

// Re-export the option constructors so callers need only import this
// package for the common case.
type (
	LoadOption      = options.LoadOption
	RoundTripOption = options.RoundTripOption
	DumpOption      = options.DumpOption
	CustomType      = options.CustomType
)

var (
	WithLoadFilename      = options.WithLoadFilename
	WithAliases           = options.WithAliases
	WithCircularReferences = options.WithCircularReferences
	WithCustomParsers     = options.WithCustomParsers
	WithCustomTypes       = options.WithCustomTypes
	WithExtendedTypes     = options.WithExtendedTypes
	WithFloatOverflowToInf = options.WithFloatOverflowToInf
	WithIntegers          = options.WithIntegers
	WithMaxNestingDepth   = options.WithMaxNestingDepth
	WithOnlyASCIISource   = options.WithOnlyASCIISource
	WithOnlyASCIIUnquoted = options.WithOnlyASCIIUnquoted
	WithPythonTypes       = options.WithPythonTypes
	WithEmptyDefault      = options.WithEmptyDefault

	WithEnforceTypes = options.WithEnforceTypes

	WithDumpAliases            = options.WithDumpAliases
	WithBaseclass              = options.WithBaseclass
	WithDumpCircularReferences = options.WithDumpCircularReferences
	WithCompactInline          = options.WithCompactInline
	WithDumpExtendedTypes      = options.WithDumpExtendedTypes
	WithFlushStartListItem     = options.WithFlushStartListItem
	WithHexFloats              = options.WithHexFloats
	WithInlineDepth            = options.WithInlineDepth
	WithDumpIntegers           = options.WithDumpIntegers
	WithDumpMaxNestingDepth    = options.WithDumpMaxNestingDepth
	WithNestingIndent          = options.WithNestingIndent
	WithDumpOnlyASCIISource    = options.WithDumpOnlyASCIISource
	WithDumpOnlyASCIIUnquoted  = options.WithDumpOnlyASCIIUnquoted
	WithDumpPythonTypes        = options.WithDumpPythonTypes
	WithTrailingCommas         = options.WithTrailingCommas
	WithStartListItem          = options.WithStartListItem
)

// Value is the resolved tree returned by Parse.
type Value = resolve.Value

// Document is the editable round-trip tree returned by ParseRoundTrip.
type Document = rtast.Document

// Path addresses a node inside a Document for ReplaceVal/ReplaceKey/At.
type Path = rtast.Path

// K and I build Path hops, re-exported for convenience.
var (
	K = rtast.K
	I = rtast.I
)

// ParseError wraps a lexer/parser failure (spec.md §7's Lexical/
// Structural diagnostic categories) so Parse and ParseRoundTrip report
// them as one error type to callers that don't need the richer
// Diagnostic.
type ParseError struct{ *parser.Error }

func (e *ParseError) Error() string { return e.Message }

// ResolveError wraps a Semantic-stage failure from the tag/alias
// resolver (spec.md §7's Semantic diagnostic category).
type ResolveError struct{ *resolve.Error }

func (e *ResolveError) Error() string { return e.Message }

// Parse parses src and fully resolves it into a Value tree, per
// spec.md §6 `parse(source, options) -> Value | Error`. src may be
// UTF-8 text or raw bytes carrying a UTF-8/16/32 byte-order mark; both
// are accepted since a Go string is just a byte sequence.
func Parse(src string, opts ...LoadOption) (*Value, error) {
	load := options.NewLoad(opts...)
	decoded, err := source.Decode([]byte(src))
	if err != nil {
		return nil, err
	}
	decoded = source.NormalizeNewlines(decoded)
	p := parserFor(decoded, load)
	doc := p.ParseDocument()
	if errs := p.Errors(); len(errs) > 0 {
		e := errs[0]
		return nil, &ParseError{&e}
	}
	v, rerr := resolve.Resolve(doc, load)
	if rerr != nil {
		return nil, &ResolveError{rerr}
	}
	return v, nil
}

// ParseRoundTrip parses src into an editable round-trip Document, per
// spec.md §6 `parse_roundtrip(source, options) -> AST | Error`.
func ParseRoundTrip(src string, opts ...RoundTripOption) (*Document, error) {
	rt := options.NewRoundTrip(options.NewLoad())
	for _, opt := range opts {
		opt(&rt)
	}
	decoded, err := source.Decode([]byte(src))
	if err != nil {
		return nil, err
	}
	doc, perr := rtast.ParseRoundTrip(decoded, rt)
	if perr != nil {
		return nil, &ParseError{perr}
	}
	return doc, nil
}

// Serialize renders a resolved Value tree back to BespON source, per
// spec.md §6 `serialize(value, options) -> String | Error` and §4.6's
// emission rules.
func Serialize(value *Value, opts ...DumpOption) (string, error) {
	d := options.NewDump(opts...)
	return dump.Serialize(value, d)
}

func parserFor(src string, load options.Load) *parser.Parser {
	popts := []parser.Option{
		parser.WithMaxNestingDepth(load.MaxNestingDepth),
		parser.WithFloatOverflowToInf(load.FloatOverflowToInf),
	}
	if load.Filename != "" {
		popts = append(popts, parser.WithFilename(load.Filename))
	}
	return parser.New(src, popts...)
}
