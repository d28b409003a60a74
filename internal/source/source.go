// Package source decodes raw input bytes into a Unicode string per
// spec.md §6 "Input": UTF-8 (default, BOM optional), UTF-16, and UTF-32,
// each auto-detected from a byte-order-mark prefix. The core never
// touches a filesystem — callers hand this package an in-memory byte
// slice already read from wherever it lives.
//
// Grounded on spec.md §6 directly. golang.org/x/text/encoding handles
// the UTF-16/32 decoding this job needs.
package source

import (
	"bytes"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF32LE = []byte{0xFF, 0xFE, 0x00, 0x00}
	bomUTF32BE = []byte{0x00, 0x00, 0xFE, 0xFF}
)

// Decode converts raw bytes to a Go string, detecting UTF-8/16/32 via a
// leading BOM and defaulting to BOM-less UTF-8 otherwise.
func Decode(raw []byte) (string, error) {
	switch {
	case bytes.HasPrefix(raw, bomUTF32LE):
		return decodeWith(raw[4:], utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM))
	case bytes.HasPrefix(raw, bomUTF32BE):
		return decodeWith(raw[4:], utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM))
	case bytes.HasPrefix(raw, bomUTF16LE):
		return decodeWith(raw[2:], unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM))
	case bytes.HasPrefix(raw, bomUTF16BE):
		return decodeWith(raw[2:], unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM))
	case bytes.HasPrefix(raw, bomUTF8):
		return string(raw[3:]), nil
	default:
		return string(raw), nil
	}
}

func decodeWith(raw []byte, enc encoding.Encoding) (string, error) {
	out, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// NormalizeNewlines rewrites every recognized line-break form (LF, CR,
// CRLF, NEL, LS, PS — spec.md §6) to a single LF. It works on the text
// alone; a tag's `newline` argument has no effect on it.
func NormalizeNewlines(s string) string {
	var b bytes.Buffer
	b.Grow(len(s))
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '\r':
			b.WriteByte('\n')
			if i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
		case '\u0085', '\u2028', '\u2029':
			b.WriteByte('\n')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
