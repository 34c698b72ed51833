// Package viable compiles a readable pattern-description language into
// an equivalent regular expression. The language trades regex
// punctuation for keywords: `some of <digit>;` compiles to `\d+`.
//
// Compilation is a pure function of the source text. On failure the
// returned error is a *diagnostic.Diagnostic carrying the stage, a
// message and the source position.
package viable

import (
	"github.com/viable-project/viable/internal/compiler"
)

// Result is a successful compilation.
type Result = compiler.Result

// Compile translates Viable source into the target regex dialect.
func Compile(source string) (Result, error) {
	return compiler.Compile(source)
}

// CompileFile is Compile with a filename attached to diagnostic
// positions.
func CompileFile(source, filename string) (Result, error) {
	return compiler.CompileFile(source, filename)
}
