// Package diagnostic defines the single failure value the compiler
// surfaces to callers. Every stage error folds into a Diagnostic with a
// kind, a human-readable message and a source position when available.
package diagnostic

import (
	"errors"
	"fmt"

	"github.com/viable-project/viable/internal/codegen"
	"github.com/viable-project/viable/internal/lexer"
	"github.com/viable-project/viable/internal/parser"
	"github.com/viable-project/viable/internal/position"
	"github.com/viable-project/viable/internal/resolver"
)

// Kind identifies the pipeline stage that produced a diagnostic.
type Kind int

const (
	Lex Kind = iota
	Parse
	Resolve
	Generate
)

// String returns the stage name.
func (k Kind) String() string {
	switch k {
	case Lex:
		return "lex"
	case Parse:
		return "parse"
	case Resolve:
		return "resolve"
	case Generate:
		return "generate"
	default:
		return "unknown"
	}
}

// Diagnostic is the structured failure returned by a compilation call.
// Span holds the offending source extent when the stage knows it; Pos
// alone is always set for positioned errors.
type Diagnostic struct {
	Kind    Kind
	Message string
	Pos     position.Position
	Span    position.Span
}

// Error implements the error interface so a Diagnostic propagates
// through ordinary error returns.
func (d *Diagnostic) Error() string {
	if d.Pos.IsValid() {
		return fmt.Sprintf("%s: %s error: %s", d.Pos, d.Kind, d.Message)
	}
	return fmt.Sprintf("%s error: %s", d.Kind, d.Message)
}

// FromError folds a stage error into a Diagnostic. Errors that already
// are diagnostics pass through unchanged.
func FromError(err error) *Diagnostic {
	var (
		diag       *Diagnostic
		lexErr     *lexer.Error
		parseErr   *parser.Error
		resolveErr *resolver.Error
		genErr     *codegen.Error
	)

	switch {
	case errors.As(err, &diag):
		return diag
	case errors.As(err, &lexErr):
		return &Diagnostic{Kind: Lex, Message: lexErr.Detail(), Pos: lexErr.Pos}
	case errors.As(err, &parseErr):
		return &Diagnostic{Kind: Parse, Message: parseErr.Message, Pos: parseErr.Pos, Span: parseErr.Span}
	case errors.As(err, &resolveErr):
		return &Diagnostic{Kind: Resolve, Message: resolveErr.Detail(), Pos: resolveErr.Pos}
	case errors.As(err, &genErr):
		return &Diagnostic{Kind: Generate, Message: genErr.Message, Pos: genErr.Pos}
	default:
		return &Diagnostic{Kind: Generate, Message: err.Error()}
	}
}
