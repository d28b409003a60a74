// Package values implements the C4 Value parsers from spec.md §4.2:
// converting a scanner NUMBER/IDENT token's raw text into a typed
// scalar — integer, float, complex, rational, bool, or none.
//
// Built on a readNumber-shaped classifier, generalized from a single
// float/int distinction to BespON's full numeric-tower classification.
package values

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind identifies which scalar variant a parsed value holds.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindComplex
	KindRational
	KindBool
	KindNone
)

// Base records the radix an integer literal was written in, so the
// round-trip AST can re-render a replacement value in the same base.
type Base int

const (
	Base10 Base = iota
	Base16
	Base8
	Base2
)

// Complex holds the decoded real/imaginary components of an `a+bi`
// literal; both are float-shaped per spec.md §4.2.
type Complex struct {
	Real, Imag float64
}

// Rational holds the decoded numerator/denominator of a `p/q` literal as
// arbitrary-precision integers — fractions must round-trip exactly, a
// float64 quotient would lose that.
type Rational struct {
	Num, Den *big.Int
}

// Value is the result of parsing one numeric or keyword token.
type Value struct {
	Kind Kind

	Int     *big.Int
	Base    Base
	HadUnderscores bool
	UnderscoreStride int

	Float   float64
	Decimal decimal.Decimal // preserves the literal's decimal digits for round-trip re-rendering
	HexFloat bool

	Complex Complex

	Rational Rational

	Bool bool
}

var (
	// ErrBadNumber reports a numeric literal that is syntactically
	// well-formed per the scanner but semantically invalid (e.g. a
	// zero denominator, or overflow without float_overflow_to_inf).
	ErrBadNumber = errors.New("bad number")
)

// ParseBool recognizes BespON's two boolean keywords.
func ParseBool(raw string) (Value, bool) {
	switch raw {
	case "true":
		return Value{Kind: KindBool, Bool: true}, true
	case "false":
		return Value{Kind: KindBool, Bool: false}, true
	default:
		return Value{}, false
	}
}

// IsNone recognizes BespON's none keyword.
func IsNone(raw string) bool { return raw == "none" }

// ParseNumber classifies and decodes raw (the NUMBER token's raw text),
// per spec.md §4.2. allowInfOverflow mirrors the float_overflow_to_inf
// option.
func ParseNumber(raw string, allowInfOverflow bool) (Value, error) {
	s := raw

	if s == "inf" || s == "+inf" {
		return Value{Kind: KindFloat, Float: math.Inf(1)}, nil
	}
	if s == "-inf" {
		return Value{Kind: KindFloat, Float: math.Inf(-1)}, nil
	}
	if s == "nan" || s == "+nan" || s == "-nan" {
		return Value{Kind: KindFloat, Float: math.NaN()}, nil
	}

	if idx := strings.LastIndexByte(s, '/'); idx > 0 && isRationalSplit(s, idx) {
		return parseRational(s, idx, allowInfOverflow)
	}

	if strings.HasSuffix(s, "i") && !strings.HasSuffix(s, "0xi") {
		return parseComplex(s, allowInfOverflow)
	}

	sign := ""
	body := s
	if len(body) > 0 && (body[0] == '+' || body[0] == '-') {
		sign = string(body[0])
		body = body[1:]
	}

	if strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X") {
		return parseHex(sign, body, allowInfOverflow)
	}
	if strings.HasPrefix(body, "0o") || strings.HasPrefix(body, "0O") {
		return parseRadixInt(sign, body[2:], 8, Base8, allowInfOverflow)
	}
	if strings.HasPrefix(body, "0b") || strings.HasPrefix(body, "0B") {
		return parseRadixInt(sign, body[2:], 2, Base2, allowInfOverflow)
	}

	if strings.ContainsAny(body, ".eE") {
		return parseDecimalFloat(sign, body, allowInfOverflow)
	}
	return parseRadixInt(sign, body, 10, Base10, allowInfOverflow)
}

// isRationalSplit reports whether the '/' at idx splits s into two
// integer-shaped halves (as opposed to being part of a path-like token
// that never reaches this parser, or a false match inside an exponent).
func isRationalSplit(s string, idx int) bool {
	den := s[idx+1:]
	if den == "" {
		return false
	}
	for _, r := range den {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// stripUnderscores removes digit-group separators and reports the
// stride between them (distance between consecutive '_' positions in
// the cleaned string) so a round-trip re-render can reapply the same
// grouping, per spec.md §4.5 "Numbers keep... `_` grouping".
func stripUnderscores(s string) (string, bool, int) {
	if !strings.Contains(s, "_") {
		return s, false, 0
	}
	var positions []int
	clean := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '_' {
			positions = append(positions, len(clean))
			continue
		}
		clean = append(clean, s[i])
	}
	stride := 0
	if len(positions) >= 2 {
		stride = positions[len(positions)-1] - positions[len(positions)-2]
	} else if len(positions) == 1 {
		stride = len(clean) - positions[0]
	}
	return string(clean), true, stride
}

func parseRadixInt(sign, digits string, radix int, base Base, allowInfOverflow bool) (Value, error) {
	clean, hadUnderscore, stride := stripUnderscores(digits)
	if clean == "" {
		return Value{}, ErrBadNumber
	}
	n := new(big.Int)
	_, ok := n.SetString(clean, radix)
	if !ok {
		return Value{}, ErrBadNumber
	}
	if sign == "-" {
		n.Neg(n)
	}
	return Value{Kind: KindInt, Int: n, Base: base, HadUnderscores: hadUnderscore, UnderscoreStride: stride}, nil
}

func parseHex(sign, body string, allowInfOverflow bool) (Value, error) {
	hexPart := body[2:]
	if strings.ContainsAny(hexPart, ".pP") {
		return parseHexFloat(sign, hexPart, allowInfOverflow)
	}
	return parseRadixInt(sign, hexPart, 16, Base16, allowInfOverflow)
}

func parseHexFloat(sign, hexPart string, allowInfOverflow bool) (Value, error) {
	literal := "0x" + hexPart
	if !strings.ContainsAny(hexPart, "pP") {
		literal += "p0"
	}
	if sign == "-" {
		literal = "-" + literal
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && errors.Is(numErr.Err, strconv.ErrRange) {
			if allowInfOverflow {
				return Value{Kind: KindFloat, Float: f, HexFloat: true}, nil
			}
			return Value{}, ErrBadNumber
		}
		return Value{}, ErrBadNumber
	}
	return Value{Kind: KindFloat, Float: f, HexFloat: true}, nil
}

func parseDecimalFloat(sign, body string, allowInfOverflow bool) (Value, error) {
	clean, _, _ := stripUnderscores(body)
	literal := sign + clean
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && errors.Is(numErr.Err, strconv.ErrRange) {
			if allowInfOverflow {
				return Value{Kind: KindFloat, Float: f}, nil
			}
			return Value{}, ErrBadNumber
		}
		return Value{}, ErrBadNumber
	}
	d, err := decimal.NewFromString(literal)
	if err != nil {
		d = decimal.NewFromFloat(f)
	}
	return Value{Kind: KindFloat, Float: f, Decimal: d}, nil
}

func parseRational(s string, idx int, allowInfOverflow bool) (Value, error) {
	numPart, denPart := s[:idx], s[idx+1:]
	numVal, err := parseRadixIntDirect(numPart)
	if err != nil {
		return Value{}, ErrBadNumber
	}
	denVal, err := parseRadixIntDirect(denPart)
	if err != nil {
		return Value{}, ErrBadNumber
	}
	if denVal.Sign() == 0 {
		return Value{}, ErrBadNumber
	}
	return Value{Kind: KindRational, Rational: Rational{Num: numVal, Den: denVal}}, nil
}

func parseRadixIntDirect(s string) (*big.Int, error) {
	sign := ""
	body := s
	if len(body) > 0 && (body[0] == '+' || body[0] == '-') {
		sign = string(body[0])
		body = body[1:]
	}
	clean, _, _ := stripUnderscores(body)
	n := new(big.Int)
	_, ok := n.SetString(clean, 10)
	if !ok {
		return nil, ErrBadNumber
	}
	if sign == "-" {
		n.Neg(n)
	}
	return n, nil
}

func parseComplex(s string, allowInfOverflow bool) (Value, error) {
	body := strings.TrimSuffix(s, "i")
	if body == "" {
		return Value{Kind: KindComplex, Complex: Complex{Real: 0, Imag: 1}}, nil
	}

	splitAt := -1
	for i := len(body) - 1; i > 0; i-- {
		if (body[i] == '+' || body[i] == '-') && body[i-1] != 'e' && body[i-1] != 'E' && body[i-1] != 'p' && body[i-1] != 'P' {
			splitAt = i
			break
		}
	}

	if splitAt == -1 {
		imag, err := strconv.ParseFloat(body, 64)
		if err != nil {
			return Value{}, ErrBadNumber
		}
		return Value{Kind: KindComplex, Complex: Complex{Real: 0, Imag: imag}}, nil
	}

	realPart := body[:splitAt]
	imagPart := body[splitAt:]
	if imagPart == "+" {
		imagPart = "1"
	} else if imagPart == "-" {
		imagPart = "-1"
	}
	real, err := strconv.ParseFloat(realPart, 64)
	if err != nil {
		return Value{}, ErrBadNumber
	}
	imag, err := strconv.ParseFloat(imagPart, 64)
	if err != nil {
		return Value{}, ErrBadNumber
	}
	return Value{Kind: KindComplex, Complex: Complex{Real: real, Imag: imag}}, nil
}

// RatToBigRat converts a Rational into a *big.Rat for arithmetic or
// comparisons downstream (the resolver and rtast packages use this
// rather than carrying two representations everywhere).
func (r Rational) RatToBigRat() *big.Rat {
	return new(big.Rat).SetFrac(r.Num, r.Den)
}
