package lexer

import (
	"errors"
	"testing"
)

func TestBasicTokens(t *testing.T) {
	input := `16 of "na";
capture batman { some of <word>; }`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{TokenNumber, "16"},
		{TokenOf, "of"},
		{TokenString, "na"},
		{TokenSemicolon, ";"},
		{TokenCapture, "capture"},
		{TokenIdent, "batman"},
		{TokenLBrace, "{"},
		{TokenSome, "some"},
		{TokenOf, "of"},
		{TokenSymbol, "word"},
		{TokenSemicolon, ";"},
		{TokenRBrace, "}"},
		{TokenEOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestKeywords(t *testing.T) {
	input := `of to capture some match over option not either any ahead behind let lazy`

	expected := []TokenType{
		TokenOf, TokenTo, TokenCapture, TokenSome, TokenMatch, TokenOver,
		TokenOption, TokenNot, TokenEither, TokenAny, TokenAhead,
		TokenBehind, TokenLet, TokenLazy,
	}

	l := New(input)

	for i, want := range expected {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("tokens[%d] - unexpected error: %v", i, err)
		}
		if tok.Type != want {
			t.Fatalf("tokens[%d] - tokentype wrong. expected=%q, got=%q", i, want, tok.Type)
		}
	}
}

func TestKeywordPrefixIsIdentifier(t *testing.T) {
	// Identifiers that merely start with a keyword must not be split.
	l := New("software")
	tok, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != TokenIdent || tok.Literal != "software" {
		t.Fatalf("expected IDENTIFIER %q, got %s %q", "software", tok.Type, tok.Literal)
	}
}

func TestSymbolLiterals(t *testing.T) {
	names := []string{
		"start", "end", "char", "whitespace", "space", "newline", "tab",
		"return", "feed", "null", "digit", "vertical", "word",
		"alphabetic", "alphanumeric", "boundary", "backspace",
	}

	for _, name := range names {
		l := New("<" + name + ">")
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("<%s> - unexpected error: %v", name, err)
		}
		if tok.Type != TokenSymbol || tok.Literal != name {
			t.Fatalf("<%s> - got %s %q", name, tok.Type, tok.Literal)
		}
	}
}

func TestUnknownSymbol(t *testing.T) {
	l := New("<bogus>")
	if _, err := l.Next(); err == nil {
		t.Fatal("expected an error for unknown symbol")
	}
}

func TestStringDelimiters(t *testing.T) {
	tests := []struct {
		input           string
		expectedType    TokenType
		expectedLiteral string
	}{
		{`"double"`, TokenString, "double"},
		{`'single'`, TokenString, "single"},
		{"`raw.+`", TokenRawString, "raw.+"},
		{`"with 'inner' quotes"`, TokenString, "with 'inner' quotes"},
		// An escaped delimiter collapses to the bare delimiter; the
		// backslash never reaches the token value.
		{`'it\'s'`, TokenString, "it's"},
		{`"say \"hi\""`, TokenString, `say "hi"`},
		{"`a\\`b`", TokenRawString, "a`b"},
	}

	for _, tt := range tests {
		l := New(tt.input)
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("%s - unexpected error: %v", tt.input, err)
		}
		if tok.Type != tt.expectedType || tok.Literal != tt.expectedLiteral {
			t.Fatalf("%s - got %s %q", tt.input, tok.Type, tok.Literal)
		}
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"oops`)
	if _, err := l.Next(); err == nil {
		t.Fatal("expected an error for unterminated string")
	}
}

func TestVariables(t *testing.T) {
	l := New("$some_var;")

	tok, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != TokenVariable || tok.Literal != "some_var" {
		t.Fatalf("got %s %q", tok.Type, tok.Literal)
	}

	tok, err = l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != TokenSemicolon {
		t.Fatalf("expected semicolon, got %s", tok.Type)
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	input := `// a line comment
/* the marker
   block form */
"x";`

	tokens, err := Tokenize(input, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []TokenType{TokenString, TokenSemicolon, TokenEOF}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, want := range expected {
		if tokens[i].Type != want {
			t.Fatalf("tokens[%d] - expected %s, got %s", i, want, tokens[i].Type)
		}
	}
}

func TestPositions(t *testing.T) {
	input := "\"ab\";\n5 of <digit>;"

	tokens, err := Tokenize(input, "test.vbl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		line, column, offset int
	}{
		{1, 1, 0},  // "ab"
		{1, 5, 4},  // ;
		{2, 1, 6},  // 5
		{2, 3, 8},  // of
		{2, 6, 11}, // <digit>
		{2, 13, 18}, // ;
	}

	for i, tt := range tests {
		pos := tokens[i].Pos
		if pos.Line != tt.line || pos.Column != tt.column || pos.Offset != tt.offset {
			t.Fatalf("tokens[%d] - position wrong. expected=%d:%d@%d, got=%d:%d@%d",
				i, tt.line, tt.column, tt.offset, pos.Line, pos.Column, pos.Offset)
		}
		if pos.Filename != "test.vbl" {
			t.Fatalf("tokens[%d] - filename wrong: %q", i, pos.Filename)
		}
	}
}

func TestTokenSpans(t *testing.T) {
	input := `"ab"; <digit>`

	tokens, err := Tokenize(input, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		startColumn, endColumn, endOffset int
	}{
		{1, 5, 4},   // "ab", delimiters included
		{5, 6, 5},   // ;
		{7, 14, 13}, // <digit>
	}

	for i, tt := range tests {
		span := tokens[i].Span()
		if !span.IsValid() {
			t.Fatalf("tokens[%d] - span invalid: %v", i, span)
		}
		if span.Start.Column != tt.startColumn || span.End.Column != tt.endColumn || span.End.Offset != tt.endOffset {
			t.Fatalf("tokens[%d] - span wrong. expected=%d-%d@%d, got=%d-%d@%d",
				i, tt.startColumn, tt.endColumn, tt.endOffset,
				span.Start.Column, span.End.Column, span.End.Offset)
		}
	}
}

func TestUnrecognizedCharacter(t *testing.T) {
	_, err := Tokenize(`"ok"; @`, "")
	if err == nil {
		t.Fatal("expected an error for unrecognized character")
	}

	var lexErr *Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected *lexer.Error, got %T", err)
	}
	if lexErr.Char != '@' {
		t.Fatalf("expected offending character '@', got %q", lexErr.Char)
	}
	if lexErr.Pos.Line != 1 || lexErr.Pos.Column != 7 {
		t.Fatalf("expected position 1:7, got %s", lexErr.Pos)
	}
}

func TestUnrecognizedMultibyteCharacter(t *testing.T) {
	_, err := Tokenize("é", "")
	if err == nil {
		t.Fatal("expected an error for unrecognized character")
	}

	var lexErr *Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected *lexer.Error, got %T", err)
	}
	if lexErr.Char != 'é' {
		t.Fatalf("expected offending character 'é', got %q", lexErr.Char)
	}
}
