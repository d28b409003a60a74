package parser

import (
	"github.com/malphas-lang/bespon-go/internal/diag"
	"github.com/malphas-lang/bespon-go/internal/lexer"
)

// ErrorKind classifies a structural parse failure per spec.md §7.
type ErrorKind int

const (
	ErrUnexpected ErrorKind = iota
	ErrIndent
	ErrDuplicateKey
	ErrBadSection
	ErrEmptyCollectionItem
	ErrTagMismatch
	ErrUnbalancedDelim
	ErrDepthExceeded
)

// Error is a structural parse failure with position information.
type Error struct {
	Kind    ErrorKind
	Message string
	Span    lexer.Span
}

func (e *Error) Error() string { return e.Message }

// ToDiagnostic converts a parser Error into the uniform diag.Diagnostic.
func (e Error) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageParser,
		Severity: diag.SeverityError,
		Code:     e.Kind.code(),
		Message:  e.Message,
		Span:     toDiagSpan(e.Span),
	}
}

func (k ErrorKind) code() diag.Code {
	switch k {
	case ErrUnexpected:
		return diag.CodeUnexpected
	case ErrIndent:
		return diag.CodeIndent
	case ErrDuplicateKey:
		return diag.CodeDuplicateKey
	case ErrBadSection:
		return diag.CodeBadSection
	case ErrEmptyCollectionItem:
		return diag.CodeEmptyCollectionItem
	case ErrTagMismatch:
		return diag.CodeTagMismatch
	case ErrUnbalancedDelim:
		return diag.CodeUnbalancedDelim
	case ErrDepthExceeded:
		return diag.CodeDepthExceeded
	default:
		return diag.CodeUnexpected
	}
}

func toDiagSpan(s lexer.Span) diag.Span {
	return diag.Span{Filename: s.Filename, Line: s.Line, Column: s.Column, Start: s.Start, End: s.End}
}
