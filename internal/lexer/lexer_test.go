package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/malphas-lang/bespon-go/internal/lexer"
)

func collect(src string) []lexer.Token {
	l := lexer.New(src)
	var toks []lexer.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == lexer.EOF {
			break
		}
	}
	return toks
}

func types(toks []lexer.Token) []lexer.TokenType {
	out := make([]lexer.TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestNextToken_Punctuation(t *testing.T) {
	t.Parallel()

	toks := collect(`{}[]()*.,$`)
	assert.Equal(t, []lexer.TokenType{
		lexer.LBRACE, lexer.RBRACE, lexer.LBRACKET, lexer.RBRACKET,
		lexer.LPAREN, lexer.RPAREN, lexer.ASTERISK, lexer.DOT, lexer.COMMA, lexer.DOLLAR, lexer.EOF,
	}, types(toks))
}

func TestNextToken_TagCloseVsParen(t *testing.T) {
	t.Parallel()

	toks := collect(`(int)> ()`)
	assert.Equal(t, []lexer.TokenType{
		lexer.LPAREN, lexer.IDENT, lexer.TAGCLOSE, lexer.LPAREN, lexer.RPAREN, lexer.EOF,
	}, types(toks))
}

func TestNextToken_SectionHeaders(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		src  string
		want lexer.TokenType
	}{
		"pipe opener":     {src: "|=== a.b\n", want: lexer.SECTION_OPEN},
		"bare opener":     {src: "=== a.b\n", want: lexer.SECTION_OPEN},
		"pipe closer":     {src: "|===/\n", want: lexer.SECTION_CLOSE},
		"bare closer":     {src: "===/\n", want: lexer.SECTION_CLOSE},
	}
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			l := lexer.New(tc.src)
			tok := l.NextToken()
			assert.Equal(t, tc.want, tok.Type)
			assert.Empty(t, l.Errors)
		})
	}
}

func TestNextToken_AssignVsSectionHeader(t *testing.T) {
	t.Parallel()

	// '=' mid-line (not at line start) is ASSIGN, not a section-header opener.
	toks := collect("k = 1\n")
	assert.Equal(t, []lexer.TokenType{lexer.IDENT, lexer.ASSIGN, lexer.NUMBER, lexer.NEWLINE, lexer.EOF}, types(toks))
}

func TestNextToken_Identifiers(t *testing.T) {
	t.Parallel()

	toks := collect("true false none my_key-2")
	assert.Equal(t, []lexer.TokenType{lexer.IDENT, lexer.IDENT, lexer.IDENT, lexer.IDENT, lexer.EOF}, types(toks))
	assert.Equal(t, "my_key-2", toks[3].Raw)
}

func TestNextToken_Numbers(t *testing.T) {
	t.Parallel()

	tcs := map[string]string{
		"decimal int":     "123",
		"negative int":    "-123",
		"hex int":         "0x1F",
		"octal int":       "0o17",
		"binary int":      "0b1101",
		"decimal float":   "3.14",
		"exponent float":  "1.5e10",
		"hex float":       "0x4.3p2",
		"underscored int": "1_000_000",
		"rational":        "3/4",
		"complex":         "1+2i",
		"signed inf":      "-inf",
		"nan":             "nan",
	}
	for name, src := range tcs {
		t.Run(name, func(t *testing.T) {
			l := lexer.New(src)
			tok := l.NextToken()
			assert.Equal(t, lexer.NUMBER, tok.Type)
			assert.Equal(t, src, tok.Raw)
			assert.Empty(t, l.Errors)
		})
	}
}

func TestNextToken_LineAndDocComments(t *testing.T) {
	t.Parallel()

	toks := collect("# a comment\n### a doc comment\n")
	assert.Equal(t, lexer.LINE_COMMENT, toks[0].Type)
	assert.Equal(t, "a comment", toks[0].Value)
	assert.Equal(t, lexer.NEWLINE, toks[1].Type)
	assert.Equal(t, lexer.DOC_COMMENT, toks[2].Type)
	assert.Equal(t, "a doc comment", toks[2].Value)
}

func TestNextToken_SingleLineEscapedString(t *testing.T) {
	t.Parallel()

	toks := collect(`"a\nb"`)
	assert.Equal(t, lexer.STRING, toks[0].Type)
	assert.Equal(t, "a\nb", toks[0].Value)
	assert.Equal(t, `"`, toks[0].QuoteStyle)
}

func TestNextToken_LiteralString(t *testing.T) {
	t.Parallel()

	toks := collect("`a\\nb`")
	assert.Equal(t, lexer.STRING, toks[0].Type)
	assert.Equal(t, `a\nb`, toks[0].Value, "literal strings never decode escapes")
}

func TestNextToken_EmptyString(t *testing.T) {
	t.Parallel()

	toks := collect(`""`)
	assert.Equal(t, lexer.STRING, toks[0].Type)
	assert.Equal(t, "", toks[0].Value)
}

func TestNextToken_MultilineLiteralString(t *testing.T) {
	t.Parallel()

	src := "'''\n  line one\n  line two\n  '''"
	toks := collect(src)
	assert.Equal(t, lexer.STRING, toks[0].Type)
	assert.Equal(t, "line one\nline two", toks[0].Value)
	assert.True(t, toks[0].Multiline)
	assert.Equal(t, 3, toks[0].DelimRun)
}

func TestNextToken_MultilineKeepsFinalNewlineWithSingleSlash(t *testing.T) {
	t.Parallel()

	src := "'''\n  line one\n  '''/"
	toks := collect(src)
	assert.Equal(t, "line one\n", toks[0].Value)
	assert.Equal(t, 1, toks[0].TrailingSlash)
}

func TestNextToken_UnterminatedStringReportsError(t *testing.T) {
	t.Parallel()

	l := lexer.New(`"abc`)
	tok := l.NextToken()
	assert.Equal(t, lexer.STRING, tok.Type)
	assert.NotEmpty(t, l.Errors)
	assert.Equal(t, lexer.ErrUnterminatedString, l.Errors[0].Kind)
}

func TestNextToken_DisallowedCodePoint(t *testing.T) {
	t.Parallel()

	l := lexer.New("a\x01b")
	_ = l.NextToken() // "a"
	tok := l.NextToken()
	assert.Equal(t, lexer.ILLEGAL, tok.Type)
	assert.NotEmpty(t, l.Errors)
	assert.Equal(t, lexer.ErrDisallowedCodePoint, l.Errors[0].Kind)
}

func TestNextToken_Positions(t *testing.T) {
	t.Parallel()

	toks := collect("k = 1\n")
	assert.Equal(t, 1, toks[0].Span.Line)
	assert.Equal(t, 1, toks[0].Span.Column)
	assert.Equal(t, 1, toks[1].Span.Line)
	assert.Equal(t, 3, toks[1].Span.Column)
}

func TestNextToken_CRLFCountsAsOneNewline(t *testing.T) {
	t.Parallel()

	toks := collect("a\r\nb")
	assert.Equal(t, lexer.IDENT, toks[0].Type)
	assert.Equal(t, lexer.NEWLINE, toks[1].Type)
	assert.Equal(t, "\r\n", toks[1].Raw)
	ident2 := toks[2]
	assert.Equal(t, lexer.IDENT, ident2.Type)
	assert.Equal(t, 2, ident2.Span.Line)
	assert.Equal(t, 1, ident2.Span.Column)
}
