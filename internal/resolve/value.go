// Package resolve implements the C6 Tag/Alias resolver from spec.md
// §4.4: it walks the raw internal/ast tree, resolves `$name` aliases
// against a document-scoped label table, applies `init=` inheritance,
// validates explicit type tags, and produces a typed, resolved Value
// graph with no remaining AST nodes.
//
// Walks the untyped AST into a typed one against a scope table: the
// "scope table" is the label table and the "typed AST" is the Value
// graph. The arena/stable-index design for back/forward
// references (spec.md §9) is realized with ordinary Go pointers: a
// label's placeholder Value is allocated once and filled in place, so
// every alias handed out before resolution completes still observes
// the final data (see resolveTag).
package resolve

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/malphas-lang/bespon-go/internal/values"
)

// Kind identifies which variant a resolved Value holds.
type Kind int

const (
	KindDict Kind = iota
	KindList
	KindString
	KindBytes
	KindInt
	KindFloat
	KindComplex
	KindRational
	KindBool
	KindNone
)

// DictEntry is one resolved key/value pair, in source order.
type DictEntry struct {
	Key   string
	Value *Value
}

// Dict is a resolved ordered map, mirroring ast.Dict's insertion-order
// semantics but holding Values instead of raw nodes.
type Dict struct {
	Entries []*DictEntry
	index   map[string]int
}

// NewDict constructs an empty Dict.
func NewDict() *Dict {
	return &Dict{index: make(map[string]int)}
}

// Get returns the value for key, if present.
func (d *Dict) Get(key string) (*Value, bool) {
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.Entries[i].Value, true
}

// set appends a new entry, or — if overwrite is true and key already
// exists — replaces the existing entry's value in place.
func (d *Dict) set(key string, v *Value, overwrite bool) bool {
	if i, ok := d.index[key]; ok {
		if !overwrite {
			return false
		}
		d.Entries[i].Value = v
		return true
	}
	d.index[key] = len(d.Entries)
	d.Entries = append(d.Entries, &DictEntry{Key: key, Value: v})
	return true
}

// Value is one node of the resolved document graph: every AliasRef and
// Tag from the raw tree has been replaced by the node it denotes, per
// spec.md §4.4.
type Value struct {
	Kind Kind

	// TypeName is the explicit tag type name that produced this value
	// ("" for implicit typing), kept so internal/dump can re-emit the
	// `(type)>` tag.
	TypeName string

	Dict *Dict
	List []*Value

	Str   string
	Bytes []byte

	Int              *big.Int
	Base             values.Base
	HadUnderscores   bool
	UnderscoreStride int

	Float    float64
	Decimal  decimal.Decimal
	HexFloat bool

	Complex  values.Complex
	Rational values.Rational

	Bool bool
}
