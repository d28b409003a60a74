package lexer

import "github.com/malphas-lang/bespon-go/internal/diag"

// ToDiagnostic converts a lexer Error into the uniform diag.Diagnostic,
// mapping ErrorKind to the Lexical Code group from spec.md §7.
func (e Error) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageLexer,
		Severity: diag.SeverityError,
		Code:     e.Kind.code(),
		Message:  e.Message,
		Span:     e.Span.toDiag(),
	}
}

func (k ErrorKind) code() diag.Code {
	switch k {
	case ErrInvalidEscape:
		return diag.CodeInvalidEscape
	case ErrUnterminatedString:
		return diag.CodeUnterminatedString
	case ErrMixedIndent:
		return diag.CodeMixedIndent
	case ErrBadNumber:
		return diag.CodeBadNumber
	case ErrDisallowedCodePoint:
		return diag.CodeDisallowedCodePoint
	case ErrInvalidLineBreak:
		return diag.CodeInvalidLineBreak
	default:
		return diag.CodeUnknownToken
	}
}

func (s Span) toDiag() diag.Span {
	return diag.Span{Filename: s.Filename, Line: s.Line, Column: s.Column, Start: s.Start, End: s.End}
}
