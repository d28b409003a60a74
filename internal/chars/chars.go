// Package chars implements the C1 CodePoint/Grapheme utilities from
// spec.md §4.1/§2: character classification for the scanner (identifier
// chars, digit/hex/oct/bin, the newline set, whitespace), plus
// grapheme-cluster and display-width helpers. No other package of this
// module calls the two helpers; internal/diag's formatter measures width
// with displaywidth directly.
package chars

import (
	"unicode"

	"github.com/clipperhouse/displaywidth"
	"github.com/clipperhouse/uax29/v2/graphemes"
)

// IsIdentStart reports whether r can start an unquoted identifier-like
// string: ASCII [A-Za-z_].
func IsIdentStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

// IsIdentCont reports whether r can continue an unquoted identifier-like
// string: ASCII [A-Za-z0-9_-].
func IsIdentCont(r rune) bool {
	return IsIdentStart(r) || IsDigit(r) || r == '-'
}

// IsDigit reports whether r is an ASCII decimal digit.
func IsDigit(r rune) bool { return r >= '0' && r <= '9' }

// IsHexDigit reports whether r is a hexadecimal digit.
func IsHexDigit(r rune) bool {
	return IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// IsOctalDigit reports whether r is an octal digit.
func IsOctalDigit(r rune) bool { return r >= '0' && r <= '7' }

// IsBinaryDigit reports whether r is a binary digit.
func IsBinaryDigit(r rune) bool { return r == '0' || r == '1' }

// IsSpaceOrTab reports whether r is an ASCII space or horizontal tab —
// the only whitespace BespON recognizes inside a line, as distinct from
// a line break.
func IsSpaceOrTab(r rune) bool { return r == ' ' || r == '\t' }

// Newline code points recognized per spec.md §6: LF, CR (CRLF handled by
// the scanner pairing CR+LF), NEL, LS, PS.
const (
	LF  = '\n'
	CR  = '\r'
	NEL = '\u0085'
	LS  = '\u2028'
	PS  = '\u2029'
)

// IsNewline reports whether r is one of the recognized line-break code
// points (CRLF is detected by the scanner as a pair of two such runes).
func IsNewline(r rune) bool {
	switch r {
	case LF, CR, NEL, LS, PS:
		return true
	default:
		return false
	}
}

// IsDisallowedCodePoint reports code points BespON never accepts in
// source text: C0 controls other than tab/newline/CR, and the Unicode
// noncharacter range, matching spec.md's DisallowedCodePoint lex error.
func IsDisallowedCodePoint(r rune) bool {
	if r == '\t' || IsNewline(r) {
		return false
	}
	if r < 0x20 || r == 0x7f {
		return true
	}
	if r >= 0xfdd0 && r <= 0xfdef {
		return true
	}
	if (r & 0xfffe) == 0xfffe {
		return true
	}
	return false
}

// IsASCII reports whether r is within the ASCII range, used by the
// only_ascii_source / only_ascii_unquoted options.
func IsASCII(r rune) bool { return r < 0x80 }

// IsLetter is a thin wrapper kept for readability at call sites that want
// full Unicode letter classification (quoted string content is otherwise
// unrestricted).
func IsLetter(r rune) bool { return unicode.IsLetter(r) }

// GraphemeCount returns the number of user-perceived characters (UAX #29
// grapheme clusters) in s, so a flag emoji or a letter with a combining
// accent counts as one.
func GraphemeCount(s string) int {
	seg := graphemes.FromString(s)
	n := 0
	for seg.Next() {
		n++
	}
	return n
}

// DisplayWidth returns the terminal column width of s, accounting for
// wide (CJK), zero-width (combining), and ambiguous-width runes.
func DisplayWidth(s string) int {
	return displaywidth.String(s)
}
