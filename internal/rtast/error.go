package rtast

import (
	"github.com/malphas-lang/bespon-go/internal/diag"
	"github.com/malphas-lang/bespon-go/internal/lexer"
)

// ErrorKind classifies a round-trip operation failure per spec.md §7
// "Round-trip: path not found, type mismatch on replacement, key
// collision on rename, style fallback warning".
type ErrorKind int

const (
	ErrPathNotFound ErrorKind = iota
	ErrTypeMismatch
	ErrKeyCollision
)

// Error is a round-trip operation failure with position information.
type Error struct {
	Kind    ErrorKind
	Message string
	Span    lexer.Span
}

func (e *Error) Error() string { return e.Message }

// ToDiagnostic converts a rtast Error into the uniform diag.Diagnostic.
func (e Error) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageRoundTrip,
		Severity: diag.SeverityError,
		Code:     e.Kind.code(),
		Message:  e.Message,
		Span:     toDiagSpan(e.Span),
	}
}

func (k ErrorKind) code() diag.Code {
	switch k {
	case ErrPathNotFound:
		return diag.CodePathNotFound
	case ErrTypeMismatch:
		return diag.CodeTypeMismatch
	case ErrKeyCollision:
		return diag.CodeKeyCollision
	default:
		return diag.CodePathNotFound
	}
}

func toDiagSpan(s lexer.Span) diag.Span {
	return diag.Span{Filename: s.Filename, Line: s.Line, Column: s.Column, Start: s.Start, End: s.End}
}
