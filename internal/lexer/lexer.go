// Package lexer implements the C3 Scanner from spec.md §4.1: a
// position-tracking tokenizer over BespON source, context-free at the
// character level but context-sensitive at the token level (multiline
// string/comment delimiters suspend the usual newline/indent rules until
// their matching closer).
//
// A rune-at-a-time read/peek cursor that tracks line/column as it
// advances, an append-only error slice instead of panicking, and
// Token{Raw,Value,Span} carrying both the exact source bytes and (for
// strings) the decoded value.
package lexer

import (
	"github.com/malphas-lang/bespon-go/internal/chars"
	"github.com/malphas-lang/bespon-go/internal/escape"
	"github.com/sirupsen/logrus"
)

// ErrorKind classifies a lexical failure per spec.md §4.1.
type ErrorKind int

const (
	ErrInvalidEscape ErrorKind = iota
	ErrUnterminatedString
	ErrMixedIndent
	ErrBadNumber
	ErrDisallowedCodePoint
	ErrInvalidLineBreak
	ErrUnknownToken
)

// Error is a lexical failure with position information.
type Error struct {
	Kind    ErrorKind
	Message string
	Span    Span
}

func (e *Error) Error() string { return e.Message }

// Lexer tokenizes BespON source one rune at a time.
type Lexer struct {
	input    []rune
	pos      int
	ch       rune
	line     int
	column   int
	filename string

	atLineStart bool // true until the first non-whitespace token on a line

	log logrus.FieldLogger

	Errors []Error
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithFilename attributes every emitted span to filename.
func WithFilename(filename string) Option {
	return func(l *Lexer) { l.filename = filename }
}

// WithLogger replaces the logger stored on the Lexer (by default
// logrus.StandardLogger()). The Lexer writes no log entries.
func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Lexer) { l.log = log }
}

// New creates a Lexer over input.
func New(input string, opts ...Option) *Lexer {
	l := &Lexer{
		input:       []rune(input),
		pos:         -1,
		line:        1,
		atLineStart: true,
		log:         logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.read()
	return l
}

func (l *Lexer) addError(kind ErrorKind, msg string, span Span) {
	span.Filename = l.filename
	l.Errors = append(l.Errors, Error{Kind: kind, Message: msg, Span: span})
}

func (l *Lexer) read() {
	l.pos++
	prevPos := l.pos - 1
	n := len(l.input)

	if l.pos >= n {
		l.advanceLineColumn(prevPos, n)
		l.ch = 0
		return
	}
	l.ch = l.input[l.pos]
	l.advanceLineColumn(prevPos, n)
}

func (l *Lexer) advanceLineColumn(prevPos, n int) {
	crlf := prevPos >= 0 && prevPos < n && l.input[prevPos] == chars.CR && prevPos+1 < n && l.input[prevPos+1] == chars.LF
	switch {
	case prevPos >= 0 && prevPos < n && chars.IsNewline(l.input[prevPos]) && !crlf:
		l.line++
		l.column = 1
	case prevPos < 0:
		l.column = 1
	default:
		l.column++
	}
}

func (l *Lexer) peek() rune {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) peekAt(offset int) rune {
	if l.pos+offset >= len(l.input) || l.pos+offset < 0 {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *Lexer) pos3() (line, column, pos int) { return l.line, l.column, l.pos }

func (l *Lexer) span(startLine, startColumn, startPos, endPos int) Span {
	return Span{Filename: l.filename, Line: startLine, Column: startColumn, Start: startPos, End: endPos}
}

func (l *Lexer) makeToken(typ TokenType, startLine, startColumn, startPos, endPos int, raw, value string) Token {
	return Token{Type: typ, Raw: raw, Value: value, Span: l.span(startLine, startColumn, startPos, endPos)}
}

// NextToken scans and returns the next token, advancing the cursor.
func (l *Lexer) NextToken() Token {
	for l.ch == ' ' || l.ch == '\t' {
		l.read()
	}

	switch {
	case l.ch == 0:
		startLine, startColumn, startPos := l.pos3()
		if startColumn == 0 {
			startColumn = 1
		}
		return l.makeToken(EOF, startLine, startColumn, startPos, startPos, "", "")

	case chars.IsNewline(l.ch):
		return l.readNewline()

	case l.ch == '#' || l.ch == '%':
		return l.readComment()

	case l.ch == '=':
		if l.atLineStart && l.peek() == '=' {
			return l.readSectionHeader(false)
		}
		return l.readSingle(ASSIGN)

	case l.ch == '|':
		if l.atLineStart && l.peek() == '=' {
			return l.readSectionHeader(true)
		}
		return l.illegal()

	case l.ch == '{':
		return l.readSingle(LBRACE)
	case l.ch == '}':
		return l.readSingle(RBRACE)
	case l.ch == '[':
		return l.readSingle(LBRACKET)
	case l.ch == ']':
		return l.readSingle(RBRACKET)
	case l.ch == '(':
		return l.readSingle(LPAREN)
	case l.ch == ')':
		if l.peek() == '>' {
			startLine, startColumn, startPos := l.pos3()
			l.read()
			l.read()
			l.atLineStart = false
			return l.makeToken(TAGCLOSE, startLine, startColumn, startPos, l.pos, ")>", ")>")
		}
		return l.readSingle(RPAREN)
	case l.ch == '*':
		return l.readSingle(ASTERISK)
	case l.ch == '.':
		return l.readSingle(DOT)
	case l.ch == ',':
		return l.readSingle(COMMA)
	case l.ch == '$':
		return l.readSingle(DOLLAR)

	case l.ch == '"' || l.ch == '\'' || l.ch == '`':
		return l.readString()

	case chars.IsDigit(l.ch):
		return l.readNumber()

	case (l.ch == '+' || l.ch == '-') && chars.IsDigit(l.peek()):
		return l.readNumber()

	case (l.ch == '+' || l.ch == '-') && l.startsSpecialFloat(1):
		return l.readNumber()

	case l.ch == 'n' && l.startsSpecialFloat(0) && !chars.IsIdentCont(l.peekAt(3)):
		startLine, startColumn, startPos := l.pos3()
		l.read()
		l.read()
		l.read()
		l.atLineStart = false
		return l.makeToken(NUMBER, startLine, startColumn, startPos, l.pos, "nan", "nan")

	case chars.IsIdentStart(l.ch):
		return l.readIdentifier()

	case chars.IsDisallowedCodePoint(l.ch):
		startLine, startColumn, startPos := l.pos3()
		ch := l.ch
		l.read()
		l.addError(ErrDisallowedCodePoint, "disallowed code point in source", l.span(startLine, startColumn, startPos, l.pos))
		l.atLineStart = false
		return l.makeToken(ILLEGAL, startLine, startColumn, startPos, l.pos, string(ch), string(ch))

	default:
		return l.illegal()
	}
}

// startsSpecialFloat reports whether the 3 runes starting `offset` runes
// ahead of the cursor spell "inf" or "nan" (used to recognize `-inf`,
// `+inf`, `nan` as number tokens even though they don't start with a
// digit).
func (l *Lexer) startsSpecialFloat(offset int) bool {
	a, b, c := l.peekAt(offset), l.peekAt(offset+1), l.peekAt(offset+2)
	word := string([]rune{a, b, c})
	return word == "inf" || word == "nan"
}

func (l *Lexer) illegal() Token {
	startLine, startColumn, startPos := l.pos3()
	ch := l.ch
	l.read()
	l.addError(ErrUnknownToken, "unexpected character '"+string(ch)+"'", l.span(startLine, startColumn, startPos, l.pos))
	l.atLineStart = false
	return l.makeToken(ILLEGAL, startLine, startColumn, startPos, l.pos, string(ch), string(ch))
}

func (l *Lexer) readSingle(typ TokenType) Token {
	startLine, startColumn, startPos := l.pos3()
	ch := l.ch
	l.read()
	l.atLineStart = false
	return l.makeToken(typ, startLine, startColumn, startPos, l.pos, string(ch), string(ch))
}

func (l *Lexer) readNewline() Token {
	startLine, startColumn, startPos := l.pos3()
	ch := l.ch
	l.read()
	raw := string(ch)
	if ch == chars.CR && l.ch == chars.LF {
		raw += string(l.ch)
		l.read()
	}
	l.atLineStart = true
	return l.makeToken(NEWLINE, startLine, startColumn, startPos, l.pos, raw, "\n")
}

// readComment reads a `#`/`%` line comment, or its doc-comment form when
// the marker repeats three times (`###`, `%%%`), per the GLOSSARY.
func (l *Lexer) readComment() Token {
	startLine, startColumn, startPos := l.pos3()
	marker := l.ch
	run := 0
	for l.ch == marker {
		run++
		l.read()
	}
	for l.ch != 0 && !chars.IsNewline(l.ch) {
		l.read()
	}
	raw := string(l.input[startPos:l.pos])
	l.atLineStart = false

	typ := LINE_COMMENT
	if run >= 3 {
		typ = DOC_COMMENT
	}
	text := raw[run:]
	for len(text) > 0 && text[0] == ' ' {
		text = text[1:]
	}
	return l.makeToken(typ, startLine, startColumn, startPos, l.pos, raw, text)
}

// readSectionHeader scans `|===`/`===` (opener) or `|===/`/`===/`
// (closer), per spec.md §4.3.
func (l *Lexer) readSectionHeader(hasPipe bool) Token {
	startLine, startColumn, startPos := l.pos3()
	if hasPipe {
		l.read() // consume '|'
	}
	run := 0
	for l.ch == '=' {
		run++
		l.read()
	}
	l.atLineStart = false
	if run < 3 {
		l.addError(ErrUnknownToken, "section header needs at least three '=' characters", l.span(startLine, startColumn, startPos, l.pos))
		raw := string(l.input[startPos:l.pos])
		return l.makeToken(ILLEGAL, startLine, startColumn, startPos, l.pos, raw, raw)
	}
	if l.ch == '/' {
		l.read()
		raw := string(l.input[startPos:l.pos])
		return l.makeToken(SECTION_CLOSE, startLine, startColumn, startPos, l.pos, raw, raw)
	}
	raw := string(l.input[startPos:l.pos])
	return l.makeToken(SECTION_OPEN, startLine, startColumn, startPos, l.pos, raw, raw)
}

func (l *Lexer) readIdentifier() Token {
	startLine, startColumn, startPos := l.pos3()
	for chars.IsIdentCont(l.ch) {
		l.read()
	}
	l.atLineStart = false
	raw := string(l.input[startPos:l.pos])
	return l.makeToken(IDENT, startLine, startColumn, startPos, l.pos, raw, raw)
}

// readNumber consumes the maximal numeric-looking run starting at the
// cursor: optional sign, base prefix, digit groups, fractional part,
// exponent, and the complex/rational suffixes. internal/values performs
// definitive classification and may reject the result as BadNumber.
func (l *Lexer) readNumber() Token {
	startLine, startColumn, startPos := l.pos3()

	if l.ch == '+' || l.ch == '-' {
		if l.startsSpecialFloat(1) {
			l.read()
			l.read()
			l.read()
			l.read()
			l.atLineStart = false
			raw := string(l.input[startPos:l.pos])
			return l.makeToken(NUMBER, startLine, startColumn, startPos, l.pos, raw, raw)
		}
		l.read()
	}

	if l.ch == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		l.read()
		l.read()
		l.consumeDigitRun(chars.IsHexDigit)
		if l.ch == '.' && chars.IsHexDigit(l.peek()) {
			l.read()
			l.consumeDigitRun(chars.IsHexDigit)
		}
		if l.ch == 'p' || l.ch == 'P' {
			l.read()
			if l.ch == '+' || l.ch == '-' {
				l.read()
			}
			l.consumeDigitRun(chars.IsDigit)
		}
		return l.finishNumber(startLine, startColumn, startPos)
	}
	if l.ch == '0' && (l.peek() == 'o' || l.peek() == 'O') {
		l.read()
		l.read()
		l.consumeDigitRun(chars.IsOctalDigit)
		return l.finishNumber(startLine, startColumn, startPos)
	}
	if l.ch == '0' && (l.peek() == 'b' || l.peek() == 'B') {
		l.read()
		l.read()
		l.consumeDigitRun(chars.IsBinaryDigit)
		return l.finishNumber(startLine, startColumn, startPos)
	}

	l.consumeDigitRun(chars.IsDigit)
	if l.ch == '.' && chars.IsDigit(l.peek()) {
		l.read()
		l.consumeDigitRun(chars.IsDigit)
	}
	if l.ch == 'e' || l.ch == 'E' {
		l.read()
		if l.ch == '+' || l.ch == '-' {
			l.read()
		}
		l.consumeDigitRun(chars.IsDigit)
	}
	return l.finishNumber(startLine, startColumn, startPos)
}

func (l *Lexer) consumeDigitRun(set func(rune) bool) {
	for set(l.ch) || l.ch == '_' {
		l.read()
	}
}

// finishNumber appends the rational (`/denominator`) or complex (`i`, or
// `±imag i`) suffix, then emits the NUMBER token.
func (l *Lexer) finishNumber(startLine, startColumn, startPos int) Token {
	if l.ch == '/' && chars.IsDigit(l.peek()) {
		l.read()
		l.consumeDigitRun(chars.IsDigit)
	} else if l.ch == 'i' && !chars.IsIdentCont(l.peekAt(1)) {
		l.read()
	} else if (l.ch == '+' || l.ch == '-') && chars.IsDigit(l.peek()) {
		// `real±imag i`: the sign and imaginary part join the token only
		// when the float-shaped run after the sign ends in 'i'.
		off := 1
		for c := l.peekAt(off); chars.IsDigit(c) || c == '_' || c == '.' || c == 'e' || c == 'E' ||
			((c == '+' || c == '-') && (l.peekAt(off-1) == 'e' || l.peekAt(off-1) == 'E')); c = l.peekAt(off) {
			off++
		}
		if l.peekAt(off) == 'i' && !chars.IsIdentCont(l.peekAt(off+1)) {
			for ; off >= 0; off-- {
				l.read()
			}
		}
	}
	l.atLineStart = false
	raw := string(l.input[startPos:l.pos])
	return l.makeToken(NUMBER, startLine, startColumn, startPos, l.pos, raw, raw)
}

// readString scans any of the four string styles described in spec.md
// §4.1: a run of `"`/`'`/`` ` `` opens the string; a matching run closes
// it. A run of 1 is single-line; a run of 2 is an empty string; a run of
// 3+ is the multiline form.
func (l *Lexer) readString() Token {
	startLine, startColumn, startPos := l.pos3()
	quote := l.ch
	run := 0
	for l.ch == quote {
		run++
		l.read()
	}
	l.atLineStart = false

	escaped := quote == '"'

	if run == 2 {
		tok := l.makeToken(STRING, startLine, startColumn, startPos, l.pos, "", "")
		tok.QuoteStyle = string(quote)
		tok.DelimRun = 1
		return tok
	}
	if run >= 3 {
		return l.readMultilineString(startLine, startColumn, startPos, quote, run, escaped)
	}
	return l.readSingleLineString(startLine, startColumn, startPos, quote, escaped)
}

// readSingleLineString reads up to the matching single delimiter,
// collapsing a newline-plus-indentation continuation into a single
// space, per spec.md §4.1. A line consisting only of whitespace inside
// the string is rejected.
func (l *Lexer) readSingleLineString(startLine, startColumn, startPos int, quote rune, escaped bool) Token {
	var raw []rune
	for {
		if l.ch == 0 {
			l.addError(ErrUnterminatedString, "unterminated string literal", l.span(startLine, startColumn, startPos, l.pos))
			break
		}
		if l.ch == quote {
			l.read()
			break
		}
		if chars.IsNewline(l.ch) {
			// Wrap continuation: collapse "\n + indentation" to one space.
			nlCh := l.ch
			l.read()
			if nlCh == chars.CR && l.ch == chars.LF {
				l.read()
			}
			for l.ch == ' ' || l.ch == '\t' {
				l.read()
			}
			if chars.IsNewline(l.ch) || l.ch == 0 {
				l.addError(ErrInvalidLineBreak, "blank line inside a wrapped single-line string", l.span(startLine, startColumn, startPos, l.pos))
			}
			raw = append(raw, ' ')
			continue
		}
		if escaped && l.ch == '\\' {
			raw = append(raw, l.ch)
			l.read()
			if l.ch != 0 {
				raw = append(raw, l.ch)
				l.read()
			}
			continue
		}
		raw = append(raw, l.ch)
		l.read()
	}

	rawText := string(raw)
	value := rawText
	if escaped {
		decoded, err := escape.Decode(rawText)
		if err != nil {
			l.addError(ErrInvalidEscape, err.Error(), l.span(startLine, startColumn, startPos, l.pos))
		} else {
			value = decoded
		}
	}

	tok := l.makeToken(STRING, startLine, startColumn, startPos, l.pos, rawText, value)
	tok.QuoteStyle = string(quote)
	tok.DelimRun = 1
	return tok
}

// readMultilineString reads a triple-or-more-delimited block string: the
// opening line's remainder is discarded, a common indentation (the
// column of the closing delimiter) is stripped from every content line,
// and the closer may carry a `/`/`//` suffix controlling whether the
// final newline is kept or stripped.
func (l *Lexer) readMultilineString(startLine, startColumn, startPos int, quote rune, run int, escaped bool) Token {
	for l.ch != 0 && !chars.IsNewline(l.ch) {
		l.read()
	}
	if chars.IsNewline(l.ch) {
		nlCh := l.ch
		l.read()
		if nlCh == chars.CR && l.ch == chars.LF {
			l.read()
		}
	}

	var lines [][]rune
	var cur []rune
	closeIndent := 0
	trailingSlash := 0

scan:
	for {
		if l.ch == 0 {
			l.addError(ErrUnterminatedString, "unterminated multiline string literal", l.span(startLine, startColumn, startPos, l.pos))
			lines = append(lines, cur)
			break
		}
		lineStartPos := l.pos
		indent := 0
		for l.ch == ' ' || l.ch == '\t' {
			indent++
			l.read()
		}
		closeRun := 0
		for l.ch == quote {
			closeRun++
			l.read()
		}
		if closeRun == run {
			if l.ch == '/' {
				trailingSlash = 1
				l.read()
				if l.ch == '/' {
					trailingSlash = 2
					l.read()
				}
			}
			closeIndent = indent
			lines = append(lines, cur)
			break scan
		}
		// Not the closer: rewind to this line's start and consume it
		// verbatim into cur.
		l.seekTo(lineStartPos)
		for l.ch != 0 && !chars.IsNewline(l.ch) {
			cur = append(cur, l.ch)
			l.read()
		}
		if chars.IsNewline(l.ch) {
			nlCh := l.ch
			l.read()
			if nlCh == chars.CR && l.ch == chars.LF {
				l.read()
			}
			lines = append(lines, cur)
			cur = nil
			continue
		}
		lines = append(lines, cur)
		break
	}

	stripped := make([]string, 0, len(lines))
	for _, ln := range lines {
		s := string(ln)
		for i := 0; i < closeIndent && len(s) > 0 && (s[0] == ' ' || s[0] == '\t'); i++ {
			s = s[1:]
		}
		stripped = append(stripped, s)
	}

	rawText := joinLines(stripped)
	if trailingSlash != 1 {
		rawText = trimOneTrailingNewline(rawText)
	}

	value := rawText
	if escaped {
		decoded, err := escape.Decode(rawText)
		if err != nil {
			l.addError(ErrInvalidEscape, err.Error(), l.span(startLine, startColumn, startPos, l.pos))
		} else {
			value = decoded
		}
	}

	tok := l.makeToken(STRING, startLine, startColumn, startPos, l.pos, rawText, value)
	tok.QuoteStyle = string(quote)
	tok.DelimRun = run
	tok.Multiline = true
	tok.TrailingSlash = trailingSlash
	return tok
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	out := lines[0]
	for _, ln := range lines[1:] {
		out += "\n" + ln
	}
	return out
}

func trimOneTrailingNewline(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\n' {
		return s[:len(s)-1]
	}
	return s
}

// seekTo rewinds the cursor to rune-index pos within the current line
// (the multiline-string scanner uses it to back out of a tentative
// closing-delimiter probe that turned out not to match).
func (l *Lexer) seekTo(pos int) {
	lineStart := pos
	for lineStart > 0 && !chars.IsNewline(l.input[lineStart-1]) {
		lineStart--
	}
	l.pos = pos - 1
	l.column = pos - lineStart
	if pos == lineStart && pos > 0 {
		// read() steps over the preceding line break again and counts it
		// as a new line; undo that count in advance.
		l.line--
	}
	l.read()
}
