package resolve

import (
	"github.com/malphas-lang/bespon-go/internal/diag"
	"github.com/malphas-lang/bespon-go/internal/lexer"
)

// ErrorKind classifies a semantic resolution failure per spec.md §7.
type ErrorKind int

const (
	ErrUnknownType ErrorKind = iota
	ErrIncompatibleType
	ErrUndefinedAlias
	ErrCircularReference
	ErrLabelRedefinition
	ErrNumericOverflow
	ErrDuplicateKey
	ErrDepthExceeded
)

// Error is a semantic resolution failure with position information.
type Error struct {
	Kind    ErrorKind
	Message string
	Span    lexer.Span
}

func (e *Error) Error() string { return e.Message }

// ToDiagnostic converts a resolve Error into the uniform diag.Diagnostic.
func (e Error) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageResolver,
		Severity: diag.SeverityError,
		Code:     e.Kind.code(),
		Message:  e.Message,
		Span:     toDiagSpan(e.Span),
	}
}

func (k ErrorKind) code() diag.Code {
	switch k {
	case ErrUnknownType:
		return diag.CodeUnknownType
	case ErrIncompatibleType:
		return diag.CodeIncompatibleType
	case ErrUndefinedAlias:
		return diag.CodeUndefinedAlias
	case ErrCircularReference:
		return diag.CodeCircularReference
	case ErrLabelRedefinition:
		return diag.CodeLabelRedefinition
	case ErrNumericOverflow:
		return diag.CodeNumericOverflow
	case ErrDuplicateKey:
		return diag.CodeDuplicateKey
	case ErrDepthExceeded:
		return diag.CodeDepthExceeded
	default:
		return diag.CodeUnknownType
	}
}

func toDiagSpan(s lexer.Span) diag.Span {
	return diag.Span{Filename: s.Filename, Line: s.Line, Column: s.Column, Start: s.Start, End: s.End}
}
