package rtast

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/malphas-lang/bespon-go/internal/ast"
	"github.com/malphas-lang/bespon-go/internal/chars"
	"github.com/malphas-lang/bespon-go/internal/diag"
	"github.com/malphas-lang/bespon-go/internal/escape"
	"github.com/malphas-lang/bespon-go/internal/values"
)

// ReplaceVal replaces the scalar value at path, re-rendering obj in
// the original token's style, per spec.md §4.5 "replace_val(path, obj)".
func (d *Document) ReplaceVal(path Path, obj any) error {
	cur, err := d.At(path)
	if err != nil {
		return err
	}
	scalar, ok := cur.node.(*ast.Scalar)
	if !ok {
		return &Error{Kind: ErrTypeMismatch, Message: "path does not address a scalar value", Span: cur.node.Span()}
	}
	if d.opts.EnforceTypes && !typeMatches(scalar.Kind, obj) {
		return &Error{Kind: ErrTypeMismatch, Message: "replacement value is not compatible with the original scalar's type", Span: scalar.Span()}
	}

	text, kind, rawValue, fellBack := d.renderReplacement(scalar, obj)
	if fellBack {
		d.Warnings = append(d.Warnings, diag.Diagnostic{
			Stage:    diag.StageRoundTrip,
			Severity: diag.SeverityWarning,
			Code:     diag.CodeStyleFallback,
			Message:  "replacement value could not preserve the original style; falling back",
			Span:     toDiagSpan(scalar.Span()),
		})
	}

	span := scalar.Span()
	d.splices = append(d.splices, splice{start: span.Start, end: span.End, text: text})
	scalar.Kind = kind
	scalar.Value = rawValue
	if kind == ast.ScalarString {
		scalar.Raw = derivedRawString(text, scalar)
	} else {
		scalar.Raw = text
	}
	return nil
}

// typeMatches checks obj's dynamic Go type against the scalar's kind,
// per spec.md §4.5 "obj must be type-compatible (string/number/bool by
// default)".
func typeMatches(kind ast.ScalarKind, obj any) bool {
	switch obj.(type) {
	case string:
		return kind == ast.ScalarString
	case bool:
		return kind == ast.ScalarBool
	case int, int64, *big.Int, float64:
		return kind == ast.ScalarInt || kind == ast.ScalarFloat
	case nil:
		return kind == ast.ScalarNone
	default:
		return false
	}
}

// renderReplacement re-renders obj using scalar's original style
// profile (numeric base, quote style, escape convention), returning
// the new raw source text, the scalar kind it now represents, the
// decoded Value payload to store, and whether a style fallback had to
// be applied.
func (d *Document) renderReplacement(scalar *ast.Scalar, obj any) (text string, kind ast.ScalarKind, value any, fellBack bool) {
	switch v := obj.(type) {
	case bool:
		if v {
			return "true", ast.ScalarBool, true, false
		}
		return "false", ast.ScalarBool, false, false
	case nil:
		return "none", ast.ScalarNone, nil, false
	case string:
		text, fellBack := renderString(scalar, v)
		return text, ast.ScalarString, v, fellBack
	case *big.Int:
		nv := values.Value{Kind: values.KindInt, Int: v, Base: values.Base10}
		if old, ok := scalar.Value.(values.Value); ok && old.Kind == values.KindInt {
			nv.Base = old.Base
			nv.HadUnderscores = old.HadUnderscores
			nv.UnderscoreStride = old.UnderscoreStride
		}
		return renderInt(nv), ast.ScalarInt, nv, false
	case int:
		return d.renderReplacement(scalar, big.NewInt(int64(v)))
	case int64:
		return d.renderReplacement(scalar, big.NewInt(v))
	case float64:
		nv := values.Value{Kind: values.KindFloat, Float: v, Decimal: decimal.NewFromFloat(v)}
		if old, ok := scalar.Value.(values.Value); ok && old.Kind == values.KindFloat {
			nv.HexFloat = old.HexFloat
		}
		return renderFloat(nv), ast.ScalarFloat, nv, false
	default:
		return "none", ast.ScalarNone, nil, true
	}
}

// renderInt re-renders an integer preserving base and underscore
// grouping, per spec.md §4.5 "Numbers keep their base... `_` grouping
// dropped unless the original had it (then reapplied at the same
// stride)".
func renderInt(nv values.Value) string {
	sign := ""
	mag := new(big.Int).Set(nv.Int)
	if mag.Sign() < 0 {
		sign = "-"
		mag.Neg(mag)
	}
	var digits, prefix string
	switch nv.Base {
	case values.Base16:
		digits, prefix = mag.Text(16), "0x"
	case values.Base8:
		digits, prefix = mag.Text(8), "0o"
	case values.Base2:
		digits, prefix = mag.Text(2), "0b"
	default:
		digits = mag.Text(10)
	}
	if nv.HadUnderscores && nv.UnderscoreStride > 0 {
		digits = groupDigits(digits, nv.UnderscoreStride)
	}
	return sign + prefix + digits
}

// groupDigits reinserts '_' separators every stride digits, counting
// from the least-significant digit.
func groupDigits(digits string, stride int) string {
	if len(digits) <= stride {
		return digits
	}
	rem := len(digits) % stride
	if rem == 0 {
		rem = stride
	}
	var b strings.Builder
	b.WriteString(digits[:rem])
	for i := rem; i < len(digits); i += stride {
		b.WriteByte('_')
		b.WriteString(digits[i : i+stride])
	}
	return b.String()
}

// renderFloat re-renders a float, keeping hex-float form if the
// original was one, per spec.md §4.5 "Hex floats stay hex".
func renderFloat(nv values.Value) string {
	if nv.HexFloat {
		return strconv.FormatFloat(nv.Float, 'x', -1, 64)
	}
	return nv.Decimal.String()
}

// renderString re-renders a string preserving the original delimiter
// family and length where possible, per spec.md §4.5 "Strings keep
// their delimiter kind and length" and the recorded Open Question
// decision: promote the delimiter run to the minimum necessary length
// before falling back to a style conversion.
func renderString(scalar *ast.Scalar, val string) (string, bool) {
	switch scalar.QuoteStyle {
	case `"`:
		return `"` + escape.Encode(val) + `"`, false
	case "'", "`":
		delim := scalar.QuoteStyle
		run := scalar.DelimRun
		if run < 1 {
			run = 1
		}
		need := longestRun(val, delim[0]) + 1
		if need > run {
			run = need
			scalar.DelimRun = run
		}
		d := strings.Repeat(delim, run)
		return d + val + d, false
	default:
		if isIdentLike(val) {
			return val, false
		}
		scalar.QuoteStyle = `"`
		scalar.DelimRun = 1
		return `"` + escape.Encode(val) + `"`, true
	}
}

func longestRun(s string, ch byte) int {
	best, cur := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == ch {
			cur++
			if cur > best {
				best = cur
			}
		} else {
			cur = 0
		}
	}
	return best
}

func isIdentLike(s string) bool {
	if s == "" {
		return false
	}
	rs := []rune(s)
	if !chars.IsIdentStart(rs[0]) {
		return false
	}
	for _, r := range rs[1:] {
		if !chars.IsIdentCont(r) {
			return false
		}
	}
	return true
}

// derivedRawString recovers the decoded/raw distinction for a freshly
// rendered string scalar: Raw must hold the exact delimited source
// text's interior (escape.Decode(Raw) == Value), matching what the
// parser produces for an ordinary STRING token.
func derivedRawString(rendered string, scalar *ast.Scalar) string {
	switch scalar.QuoteStyle {
	case `"`:
		return strings.TrimSuffix(strings.TrimPrefix(rendered, `"`), `"`)
	case "'", "`":
		d := scalar.QuoteStyle
		run := scalar.DelimRun
		if run < 1 {
			run = 1
		}
		delim := strings.Repeat(d, run)
		return strings.TrimSuffix(strings.TrimPrefix(rendered, delim), delim)
	default:
		if strings.HasPrefix(rendered, `"`) {
			return strings.TrimSuffix(strings.TrimPrefix(rendered, `"`), `"`)
		}
		return rendered
	}
}

// ReplaceKey renames the key at path in its parent dict, and rewrites
// every literal source occurrence of that key segment recorded in
// ast.DictEntry.KeySpans, per spec.md §4.5 "replace_key(path, obj)".
func (d *Document) ReplaceKey(path Path, newKey string) error {
	cur, err := d.At(path)
	if err != nil {
		return err
	}
	if cur.parentDict == nil || cur.entry == nil {
		return &Error{Kind: ErrTypeMismatch, Message: "path does not address a dict entry"}
	}
	oldKey := cur.entry.Key
	if oldKey == newKey {
		return nil
	}
	if _, collide := cur.parentDict.Get(newKey); collide {
		return &Error{Kind: ErrKeyCollision, Message: "key '" + newKey + "' already exists in this dict", Span: cur.entry.Span()}
	}

	raw := newKey
	if !isIdentLike(newKey) {
		raw = `"` + escape.Encode(newKey) + `"`
	}

	if !cur.parentDict.Rename(oldKey, newKey) {
		return &Error{Kind: ErrPathNotFound, Message: "key '" + oldKey + "' not found during rename"}
	}
	cur.entry.KeyRaw = raw

	for _, span := range cur.entry.KeySpans {
		d.splices = append(d.splices, splice{start: span.Start, end: span.End, text: raw})
	}
	return nil
}
