// Package options holds the immutable Load/Dump/RoundTrip configuration
// records threaded through every component, per spec.md §9 "Global
// option bundle → immutable configuration record". No component reads
// ambient/global state; every option is a field on one of these records,
// built once via functional options and passed down by value.
//
// Uses a functional-option pattern (parser.Option/WithFilename-style),
// generalized to the full option set enumerated in spec.md §6.
package options

import "github.com/sirupsen/logrus"

// CustomType is a user-registered type record, per spec.md §6.
type CustomType struct {
	Name                    string
	CompatibleImplicitTypes []string
	Parser                  func(raw string) (any, error)
	ASCIIBytes              bool
	Mutable                 bool
}

// Load configures parse/parse_roundtrip.
type Load struct {
	Filename string
	Logger   logrus.FieldLogger

	Aliases              bool
	CircularReferences   bool
	CustomParsers        map[string]func(raw string) (any, error)
	CustomTypes          map[string]CustomType
	ExtendedTypes        bool
	FloatOverflowToInf   bool
	Integers             string // integer representation name; NewLoad leaves it empty
	MaxNestingDepth      int
	OnlyASCIISource      bool
	OnlyASCIIUnquoted    bool
	PythonTypes          bool
	EmptyDefault         any
}

// LoadOption configures a Load record.
type LoadOption func(*Load)

// NewLoad builds a Load record with spec.md §6 defaults (aliases on,
// circular_references off, max_nesting_depth 100) and applies opts.
func NewLoad(opts ...LoadOption) Load {
	l := Load{
		Aliases:            true,
		CircularReferences: false,
		MaxNestingDepth:    100,
		Logger:             logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

func WithLoadFilename(name string) LoadOption { return func(l *Load) { l.Filename = name } }
func WithLoadLogger(log logrus.FieldLogger) LoadOption {
	return func(l *Load) { l.Logger = log }
}
func WithAliases(v bool) LoadOption            { return func(l *Load) { l.Aliases = v } }
func WithCircularReferences(v bool) LoadOption { return func(l *Load) { l.CircularReferences = v } }
func WithCustomParsers(m map[string]func(raw string) (any, error)) LoadOption {
	return func(l *Load) { l.CustomParsers = m }
}
func WithCustomTypes(m map[string]CustomType) LoadOption {
	return func(l *Load) { l.CustomTypes = m }
}
func WithExtendedTypes(v bool) LoadOption      { return func(l *Load) { l.ExtendedTypes = v } }
func WithFloatOverflowToInf(v bool) LoadOption { return func(l *Load) { l.FloatOverflowToInf = v } }
func WithIntegers(kind string) LoadOption      { return func(l *Load) { l.Integers = kind } }
func WithMaxNestingDepth(n int) LoadOption     { return func(l *Load) { l.MaxNestingDepth = n } }
func WithOnlyASCIISource(v bool) LoadOption    { return func(l *Load) { l.OnlyASCIISource = v } }
func WithOnlyASCIIUnquoted(v bool) LoadOption  { return func(l *Load) { l.OnlyASCIIUnquoted = v } }
func WithPythonTypes(v bool) LoadOption        { return func(l *Load) { l.PythonTypes = v } }
func WithEmptyDefault(v any) LoadOption        { return func(l *Load) { l.EmptyDefault = v } }

// RoundTrip configures parse_roundtrip-specific behavior layered on top
// of a Load record.
type RoundTrip struct {
	Load
	EnforceTypes bool
}

// RoundTripOption configures a RoundTrip record.
type RoundTripOption func(*RoundTrip)

// NewRoundTrip builds a RoundTrip record from a base Load plus opts.
func NewRoundTrip(base Load, opts ...RoundTripOption) RoundTrip {
	rt := RoundTrip{Load: base, EnforceTypes: true}
	for _, opt := range opts {
		opt(&rt)
	}
	return rt
}

func WithEnforceTypes(v bool) RoundTripOption { return func(rt *RoundTrip) { rt.EnforceTypes = v } }

// Dump configures serialize/dumps.
type Dump struct {
	Logger logrus.FieldLogger

	Aliases             bool
	Baseclass           bool
	CircularReferences  bool
	CompactInline       bool
	ExtendedTypes       bool
	FlushStartListItem  bool
	HexFloats           bool
	InlineDepth         int
	Integers            string
	MaxNestingDepth     int
	NestingIndent       string
	OnlyASCIISource     bool
	OnlyASCIIUnquoted   bool
	PythonTypes         bool
	TrailingCommas      bool
	StartListItem       string
}

// DumpOption configures a Dump record.
type DumpOption func(*Dump)

// NewDump builds a Dump record with spec.md §4.6 defaults.
func NewDump(opts ...DumpOption) Dump {
	d := Dump{
		Aliases:         true,
		MaxNestingDepth: 100,
		InlineDepth:     -1, // never switch to inline by default
		NestingIndent:   "    ",
		StartListItem:   "  * ",
		Logger:          logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func WithDumpLogger(log logrus.FieldLogger) DumpOption { return func(d *Dump) { d.Logger = log } }
func WithDumpAliases(v bool) DumpOption                { return func(d *Dump) { d.Aliases = v } }
func WithBaseclass(v bool) DumpOption                  { return func(d *Dump) { d.Baseclass = v } }
func WithDumpCircularReferences(v bool) DumpOption {
	return func(d *Dump) { d.CircularReferences = v }
}
func WithCompactInline(v bool) DumpOption      { return func(d *Dump) { d.CompactInline = v } }
func WithDumpExtendedTypes(v bool) DumpOption  { return func(d *Dump) { d.ExtendedTypes = v } }
func WithFlushStartListItem(v bool) DumpOption { return func(d *Dump) { d.FlushStartListItem = v } }
func WithHexFloats(v bool) DumpOption          { return func(d *Dump) { d.HexFloats = v } }
func WithInlineDepth(n int) DumpOption         { return func(d *Dump) { d.InlineDepth = n } }
func WithDumpIntegers(kind string) DumpOption  { return func(d *Dump) { d.Integers = kind } }
func WithDumpMaxNestingDepth(n int) DumpOption { return func(d *Dump) { d.MaxNestingDepth = n } }
func WithNestingIndent(s string) DumpOption    { return func(d *Dump) { d.NestingIndent = s } }
func WithDumpOnlyASCIISource(v bool) DumpOption {
	return func(d *Dump) { d.OnlyASCIISource = v }
}
func WithDumpOnlyASCIIUnquoted(v bool) DumpOption {
	return func(d *Dump) { d.OnlyASCIIUnquoted = v }
}
func WithDumpPythonTypes(v bool) DumpOption { return func(d *Dump) { d.PythonTypes = v } }
func WithTrailingCommas(v bool) DumpOption  { return func(d *Dump) { d.TrailingCommas = v } }
func WithStartListItem(s string) DumpOption { return func(d *Dump) { d.StartListItem = s } }
