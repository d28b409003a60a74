package diag_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/malphas-lang/bespon-go/internal/diag"
	"github.com/malphas-lang/bespon-go/internal/lexer"
)

func TestLexerErrorToDiagnostic(t *testing.T) {
	t.Parallel()

	err := lexer.Error{
		Kind:    lexer.ErrUnterminatedString,
		Message: "unterminated string literal",
		Span:    lexer.Span{Line: 1, Column: 3, Start: 2, End: 6},
	}

	d := err.ToDiagnostic()

	assert.Equal(t, diag.StageLexer, d.Stage)
	assert.Equal(t, diag.CodeUnterminatedString, d.Code)
	assert.Equal(t, diag.SeverityError, d.Severity)
	assert.Equal(t, err.Message, d.Message)
	assert.Equal(t, diag.Span{Line: 1, Column: 3, Start: 2, End: 6}, d.Span)
}

func TestSpanIsValid(t *testing.T) {
	t.Parallel()

	assert.False(t, diag.Span{}.IsValid())
	assert.True(t, diag.Span{Line: 1, Column: 1}.IsValid())
}

func TestSpanString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "3:7", diag.Span{Line: 3, Column: 7}.String())
	assert.Equal(t, "doc.bespon:3:7", diag.Span{Filename: "doc.bespon", Line: 3, Column: 7}.String())
}

func TestFormatterSimpleDiagnostic(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	f := diag.NewFormatter().WithWriter(&buf)
	f.Format(diag.Diagnostic{
		Stage:    diag.StageLexer,
		Severity: diag.SeverityError,
		Code:     diag.CodeBadNumber,
		Message:  "bad number literal",
	})

	out := buf.String()
	assert.Contains(t, out, "LEX_BAD_NUMBER")
	assert.Contains(t, out, "bad number literal")
}

func TestFormatterWithSourceSnippet(t *testing.T) {
	t.Parallel()

	src := "k = 0xZZ\n"
	var buf bytes.Buffer
	f := diag.NewFormatter().WithWriter(&buf)
	f.SetSource("doc.bespon", src)
	f.Format(diag.Diagnostic{
		Stage:    diag.StageLexer,
		Severity: diag.SeverityError,
		Code:     diag.CodeBadNumber,
		Message:  "bad number literal",
		Span:     diag.Span{Filename: "doc.bespon", Line: 1, Column: 5, Start: 4, End: 8},
	})

	out := buf.String()
	assert.Contains(t, out, "doc.bespon")
	assert.Contains(t, out, "k = 0xZZ")
	assert.Contains(t, out, "^")
}

func TestDiagnosticError(t *testing.T) {
	t.Parallel()

	d := diag.Diagnostic{
		Code:    diag.CodeDuplicateKey,
		Message: "key already defined",
		Span:    diag.Span{Filename: "doc.bespon", Line: 2, Column: 1},
	}
	assert.Equal(t, "doc.bespon:2:1: PARSE_DUPLICATE_KEY: key already defined", d.Error())
}
