package lexer

import (
	"fmt"

	"github.com/viable-project/viable/internal/position"
)

// TokenType represents the type of a token.
type TokenType int

// Token types for the Viable pattern DSL.
const (
	TokenEOF TokenType = iota

	// Literals
	TokenNumber    // decimal integer
	TokenString    // quoted string, metacharacters escaped on emission
	TokenRawString // back-quoted string, emitted verbatim
	TokenIdent     // bare identifier: capture names and range bounds
	TokenVariable  // $name
	TokenSymbol    // <digit>, <word>, ... literal holds the inner name

	// Keywords
	TokenOf
	TokenTo
	TokenCapture
	TokenSome
	TokenMatch
	TokenOver
	TokenOption
	TokenNot
	TokenEither
	TokenAny
	TokenAhead
	TokenBehind
	TokenLet
	TokenLazy

	// Punctuation
	TokenLBrace
	TokenRBrace
	TokenAssign
	TokenSemicolon
)

// tokenNames provides string representations for token types.
var tokenNames = map[TokenType]string{
	TokenEOF: "EOF",

	TokenNumber:    "NUMBER",
	TokenString:    "STRING",
	TokenRawString: "RAW_STRING",
	TokenIdent:     "IDENTIFIER",
	TokenVariable:  "VARIABLE",
	TokenSymbol:    "SYMBOL",

	TokenOf:      "OF",
	TokenTo:      "TO",
	TokenCapture: "CAPTURE",
	TokenSome:    "SOME",
	TokenMatch:   "MATCH",
	TokenOver:    "OVER",
	TokenOption:  "OPTION",
	TokenNot:     "NOT",
	TokenEither:  "EITHER",
	TokenAny:     "ANY",
	TokenAhead:   "AHEAD",
	TokenBehind:  "BEHIND",
	TokenLet:     "LET",
	TokenLazy:    "LAZY",

	TokenLBrace:    "LBRACE",
	TokenRBrace:    "RBRACE",
	TokenAssign:    "ASSIGN",
	TokenSemicolon: "SEMICOLON",
}

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

// keywords maps string keywords to their token types. Keyword matching
// takes priority over identifier matching.
var keywords = map[string]TokenType{
	"of":      TokenOf,
	"to":      TokenTo,
	"capture": TokenCapture,
	"some":    TokenSome,
	"match":   TokenMatch,
	"over":    TokenOver,
	"option":  TokenOption,
	"not":     TokenNot,
	"either":  TokenEither,
	"any":     TokenAny,
	"ahead":   TokenAhead,
	"behind":  TokenBehind,
	"let":     TokenLet,
	"lazy":    TokenLazy,
}

// symbolNames is the closed set of bracketed symbol literals.
var symbolNames = map[string]bool{
	"start":        true,
	"end":          true,
	"char":         true,
	"whitespace":   true,
	"space":        true,
	"newline":      true,
	"tab":          true,
	"return":       true,
	"feed":         true,
	"null":         true,
	"digit":        true,
	"vertical":     true,
	"word":         true,
	"alphabetic":   true,
	"alphanumeric": true,
	"boundary":     true,
	"backspace":    true,
}

// Token represents a lexical token with position information.
// Tokens are immutable once produced.
type Token struct {
	Type    TokenType
	Literal string
	Pos     position.Position
	End     position.Position // just past the token's source text
}

// Span returns the source extent of the token, delimiters included.
func (t Token) Span() position.Span {
	return position.Span{Start: t.Pos, End: t.End}
}

// String returns a string representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %q, Pos: %s}", t.Type, t.Literal, t.Pos)
}
