// Package compiler wires the four pipeline stages into the single
// operation the rest of the world sees: source text in, regex text or a
// structured diagnostic out. Compilation is a pure synchronous
// transform; every call builds its own token stream, tree and symbol
// table, so concurrent calls share no state.
package compiler

import (
	"github.com/viable-project/viable/internal/codegen"
	"github.com/viable-project/viable/internal/diagnostic"
	"github.com/viable-project/viable/internal/lexer"
	"github.com/viable-project/viable/internal/parser"
	"github.com/viable-project/viable/internal/resolver"
)

// Result is a successful compilation: the regex pattern plus metadata.
type Result struct {
	Pattern      string
	CaptureNames []string // named capture groups in declaration order
}

// Compile translates Viable DSL source into the target regex dialect.
// On failure the returned error is always a *diagnostic.Diagnostic.
func Compile(source string) (Result, error) {
	return CompileFile(source, "")
}

// CompileFile is Compile with a filename attached to positions for
// error reporting.
func CompileFile(source, filename string) (Result, error) {
	if source == "" {
		return Result{}, nil
	}

	tokens, err := lexer.Tokenize(source, filename)
	if err != nil {
		return Result{}, diagnostic.FromError(err)
	}

	tree, err := parser.Parse(tokens)
	if err != nil {
		return Result{}, diagnostic.FromError(err)
	}

	resolved, err := resolver.Resolve(tree)
	if err != nil {
		return Result{}, diagnostic.FromError(err)
	}

	generated, err := codegen.Generate(resolved)
	if err != nil {
		return Result{}, diagnostic.FromError(err)
	}

	return Result{Pattern: generated.Pattern, CaptureNames: generated.CaptureNames}, nil
}
