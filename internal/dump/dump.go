// Package dump implements the serializer half of spec.md §4.6: rendering
// a resolved internal/resolve.Value tree back to fresh BespON source.
// Unlike internal/rtast (which edits and re-splices an existing source
// string), this package always starts from nothing — there is no
// original layout to preserve, only the option record's style choices.
//
// Structured as a "walk the typed tree, emit text with an
// indent-tracking writer" pass, generalized to BespON's
// indentation/inline collection styles.
package dump

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/malphas-lang/bespon-go/internal/diag"
	"github.com/malphas-lang/bespon-go/internal/escape"
	"github.com/malphas-lang/bespon-go/internal/options"
	"github.com/malphas-lang/bespon-go/internal/resolve"
	"github.com/malphas-lang/bespon-go/internal/values"
)

// Error reports a serialization failure: spec.md §4.6's one documented
// failure mode, a circular value graph with aliases disabled.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageDump,
		Severity: diag.SeverityError,
		Code:     diag.CodeUnserializableCircular,
		Message:  e.Message,
	}
}

type writer struct {
	opts    options.Dump
	b       strings.Builder
	labeled map[*resolve.Value]string
	shared  map[*resolve.Value]bool
	nextID  int
}

// Serialize renders value as fresh BespON source, per spec.md §4.6.
func Serialize(value *resolve.Value, opts options.Dump) (string, error) {
	if value == nil {
		return "none\n", nil
	}

	w := &writer{opts: opts, labeled: map[*resolve.Value]string{}}
	w.shared = detectShared(value)
	if !opts.Aliases {
		if cyc := detectCycles(value); len(cyc) > 0 {
			return "", &Error{Message: "value graph contains a circular reference and aliases are disabled"}
		}
	}

	if value.Kind == resolve.KindDict || value.Kind == resolve.KindList {
		w.writeRootCollection(value)
	} else {
		w.writeAssignedValue(value, 0, false, "")
		w.b.WriteByte('\n')
	}
	return w.b.String(), nil
}

// detectShared walks value once, recording every pointer reached more
// than once (DAG sharing or a true cycle); recursion stops the moment a
// pointer is seen a second time, so a genuine cycle terminates here.
func detectShared(root *resolve.Value) map[*resolve.Value]bool {
	seen := map[*resolve.Value]bool{}
	shared := map[*resolve.Value]bool{}
	var walk func(v *resolve.Value)
	walk = func(v *resolve.Value) {
		if v == nil {
			return
		}
		if seen[v] {
			shared[v] = true
			return
		}
		seen[v] = true
		switch v.Kind {
		case resolve.KindDict:
			for _, e := range v.Dict.Entries {
				walk(e.Value)
			}
		case resolve.KindList:
			for _, item := range v.List {
				walk(item)
			}
		}
	}
	walk(root)
	return shared
}

// detectCycles reports the set of values that are their own ancestor,
// distinguishing a true cycle from mere DAG sharing (spec.md §4.6:
// "circular reference detection runs whether or not aliases are
// enabled; with aliases off, cycles fail").
func detectCycles(root *resolve.Value) map[*resolve.Value]bool {
	cyc := map[*resolve.Value]bool{}
	onStack := map[*resolve.Value]bool{}
	done := map[*resolve.Value]bool{}
	var walk func(v *resolve.Value)
	walk = func(v *resolve.Value) {
		if v == nil || done[v] {
			return
		}
		if onStack[v] {
			cyc[v] = true
			return
		}
		onStack[v] = true
		switch v.Kind {
		case resolve.KindDict:
			for _, e := range v.Dict.Entries {
				walk(e.Value)
			}
		case resolve.KindList:
			for _, item := range v.List {
				walk(item)
			}
		}
		onStack[v] = false
		done[v] = true
	}
	walk(root)
	return cyc
}

func (w *writer) indent(depth int) string {
	return strings.Repeat(w.opts.NestingIndent, depth)
}

func (w *writer) inline(depth int) bool {
	return w.opts.InlineDepth >= 0 && depth >= w.opts.InlineDepth
}

// labelFor returns ("", false) the first time v is rendered (the
// eventual label, if any, is assigned by writeAssignedValue right
// before it descends into v's children so a self-reference finds it
// already assigned), or ("name", true) on every subsequent occurrence;
// callers prepend the '$'.
func (w *writer) labelFor(v *resolve.Value) (string, bool) {
	name, ok := w.labeled[v]
	return name, ok
}

func (w *writer) assignLabel(v *resolve.Value) string {
	w.nextID++
	name := fmt.Sprintf("L%d", w.nextID)
	w.labeled[v] = name
	return name
}

// writeRootCollection emits the root dict/list flush-left, without the
// enclosing braces a nested collection would carry in indentation style.
func (w *writer) writeRootCollection(v *resolve.Value) {
	if name, already := w.labelFor(v); already {
		w.b.WriteString("$" + name + "\n")
		return
	}
	if w.opts.Aliases && w.shared[v] {
		label := w.assignLabel(v)
		w.b.WriteString("(label=" + label + ")>\n")
	}
	switch v.Kind {
	case resolve.KindDict:
		w.writeDictBody(v.Dict, 0)
	case resolve.KindList:
		w.writeListBody(v.List, 0)
	}
}

// tagFor builds the `(type, label=...)>` tag text for v, without
// trailing whitespace, or "" if v carries neither an explicit type nor
// needs a fresh alias label.
func (w *writer) tagFor(v *resolve.Value, label string, needsLabel bool) string {
	if v.TypeName == "" && !needsLabel {
		return ""
	}
	var parts []string
	if v.TypeName != "" {
		parts = append(parts, v.TypeName)
	}
	if needsLabel {
		parts = append(parts, "label="+label)
	}
	return "(" + strings.Join(parts, ", ") + ")>"
}

// writeAssignedValue writes the right-hand side of a "key =" or list
// marker, given sep (the separator already due before the first
// token: " " after "key =", "" after a list marker that already ends
// in a space). It reports whether the line was already newline
// terminated (a block-style, non-inline, non-empty dict/list), so the
// caller writes exactly one trailing newline either way instead of
// risking a blank line after nested block content.
func (w *writer) writeAssignedValue(v *resolve.Value, depth int, inlineCtx bool, sep string) bool {
	if v == nil {
		w.b.WriteString(sep + "none")
		return false
	}
	if name, already := w.labelFor(v); already {
		w.b.WriteString(sep + "$" + name)
		return false
	}

	needsLabel := w.opts.Aliases && w.shared[v]
	var label string
	if needsLabel {
		label = w.assignLabel(v)
	}
	tag := w.tagFor(v, label, needsLabel)

	switch v.Kind {
	case resolve.KindDict:
		block := !w.inline(depth) && !inlineCtx && len(v.Dict.Entries) > 0
		if tag != "" {
			w.b.WriteString(sep + tag)
			sep = " "
		}
		switch {
		case w.inline(depth) || inlineCtx:
			w.b.WriteString(sep)
			w.writeInlineDict(v.Dict, depth)
			return false
		case len(v.Dict.Entries) == 0:
			w.b.WriteString(sep + "{}")
			return false
		default:
			w.b.WriteByte('\n')
			w.writeDictBody(v.Dict, depth+1)
			return block
		}
	case resolve.KindList:
		block := !w.inline(depth) && !inlineCtx && len(v.List) > 0
		if tag != "" {
			w.b.WriteString(sep + tag)
			sep = " "
		}
		switch {
		case w.inline(depth) || inlineCtx:
			w.b.WriteString(sep)
			w.writeInlineList(v.List, depth)
			return false
		case len(v.List) == 0:
			w.b.WriteString(sep + "[]")
			return false
		default:
			w.b.WriteByte('\n')
			w.writeListBody(v.List, depth+1)
			return block
		}
	default:
		if tag != "" {
			w.b.WriteString(sep + tag)
			sep = " "
		}
		w.b.WriteString(sep)
		w.writeScalar(v)
		return false
	}
}

func (w *writer) writeDictBody(d *resolve.Dict, depth int) {
	ind := w.indent(depth)
	for _, e := range d.Entries {
		w.b.WriteString(ind)
		w.writeKey(e.Key)
		w.b.WriteString(" =")
		if !w.writeAssignedValue(e.Value, depth, false, " ") {
			w.b.WriteByte('\n')
		}
	}
}

func (w *writer) writeListBody(items []*resolve.Value, depth int) {
	ind := w.indent(depth)
	marker := w.opts.StartListItem
	for i, item := range items {
		m := marker
		if i == 0 && w.opts.FlushStartListItem {
			m = strings.TrimLeft(marker, " ")
		}
		w.b.WriteString(ind)
		w.b.WriteString(m)
		if !w.writeAssignedValue(item, depth, false, "") {
			w.b.WriteByte('\n')
		}
	}
}

func (w *writer) writeInlineDict(d *resolve.Dict, depth int) {
	w.b.WriteByte('{')
	for i, e := range d.Entries {
		if i > 0 {
			w.b.WriteString(", ")
		}
		w.writeKey(e.Key)
		w.b.WriteString(" = ")
		w.writeAssignedValue(e.Value, depth+1, true, "")
	}
	if w.opts.TrailingCommas && len(d.Entries) > 0 {
		w.b.WriteByte(',')
	}
	w.b.WriteByte('}')
}

func (w *writer) writeInlineList(items []*resolve.Value, depth int) {
	w.b.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			w.b.WriteString(", ")
		}
		w.writeAssignedValue(item, depth+1, true, "")
	}
	if w.opts.TrailingCommas && len(items) > 0 {
		w.b.WriteByte(',')
	}
	w.b.WriteByte(']')
}

func (w *writer) writeKey(key string) {
	if isIdentLike(key) {
		w.b.WriteString(key)
		return
	}
	w.b.WriteString(`"` + escape.Encode(key) + `"`)
}

func isIdentLike(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_') {
				return false
			}
			continue
		}
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return false
		}
	}
	return true
}

func (w *writer) writeScalar(v *resolve.Value) {
	switch v.Kind {
	case resolve.KindString:
		w.b.WriteString(w.renderString(v.Str))
	case resolve.KindBytes:
		w.writeBytes(v)
	case resolve.KindInt:
		w.b.WriteString(renderInt(v))
	case resolve.KindFloat:
		w.b.WriteString(renderFloat(v, w.opts.HexFloats))
	case resolve.KindComplex:
		w.b.WriteString(renderComplex(v.Complex))
	case resolve.KindRational:
		w.b.WriteString(renderRational(v.Rational))
	case resolve.KindBool:
		if v.Bool {
			w.b.WriteString("true")
		} else {
			w.b.WriteString("false")
		}
	case resolve.KindNone:
		w.b.WriteString("none")
	}
}

func (w *writer) renderString(s string) string {
	if w.opts.OnlyASCIIUnquoted && isIdentLike(s) && isASCII(s) {
		return s
	}
	if !w.opts.OnlyASCIIUnquoted && isIdentLike(s) {
		return s
	}
	encoded := escape.Encode(s)
	if w.opts.OnlyASCIISource {
		encoded = escapeNonASCII(encoded)
	}
	return `"` + encoded + `"`
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func escapeNonASCII(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < 0x80 {
			b.WriteRune(r)
			continue
		}
		if r > 0xFFFF {
			fmt.Fprintf(&b, "\\U%08X", r)
		} else {
			fmt.Fprintf(&b, "\\u%04X", r)
		}
	}
	return b.String()
}

// writeBytes writes the quoted payload of a bytes/base16/base64 value.
// The opening `(typeName)>` tag itself is handled generically by
// writeAssignedValue's tagFor, alongside every other typed value, so
// this only ever emits the quoted string that follows it.
func (w *writer) writeBytes(v *resolve.Value) {
	switch v.TypeName {
	case "base16":
		w.b.WriteString(`"` + hex.EncodeToString(v.Bytes) + `"`)
	case "bytes":
		w.b.WriteString(`"` + escape.Encode(string(v.Bytes)) + `"`)
	default:
		w.b.WriteString(`"` + base64.StdEncoding.EncodeToString(v.Bytes) + `"`)
	}
}

func renderInt(v *resolve.Value) string {
	sign := ""
	mag := new(big.Int).Set(v.Int)
	if mag.Sign() < 0 {
		sign = "-"
		mag.Neg(mag)
	}
	var digits, prefix string
	switch v.Base {
	case values.Base16:
		digits, prefix = mag.Text(16), "0x"
	case values.Base8:
		digits, prefix = mag.Text(8), "0o"
	case values.Base2:
		digits, prefix = mag.Text(2), "0b"
	default:
		digits = mag.Text(10)
	}
	if v.HadUnderscores && v.UnderscoreStride > 0 {
		digits = groupDigits(digits, v.UnderscoreStride)
	}
	return sign + prefix + digits
}

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

func renderFloat(v *resolve.Value, hexFloats bool) string {
	if hexFloats || v.HexFloat {
		return strconv.FormatFloat(v.Float, 'x', -1, 64)
	}
	if !v.Decimal.IsZero() || v.Float == 0 {
		return v.Decimal.String()
	}
	return strconv.FormatFloat(v.Float, 'g', -1, 64)
}

func renderComplex(c values.Complex) string {
	sign := "+"
	imag := c.Imag
	if imag < 0 {
		sign = "-"
		imag = -imag
	}
	imagStr := strconv.FormatFloat(imag, 'g', -1, 64)
	if c.Real == 0 {
		return sign + imagStr + "i"
	}
	return strconv.FormatFloat(c.Real, 'g', -1, 64) + sign + imagStr + "i"
}

func renderRational(r values.Rational) string {
	return r.Num.String() + "/" + r.Den.String()
}

