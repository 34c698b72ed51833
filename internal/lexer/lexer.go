// Package lexer implements lexical analysis for the Viable pattern DSL.
// It converts raw source text into an ordered token sequence, stripping
// whitespace and comments. Lexing fails fast: the first unrecognized
// character aborts the whole compilation.
package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/viable-project/viable/internal/position"
)

// Error represents a lexical error at a specific source position.
type Error struct {
	Pos     position.Position
	Char    rune
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("lex error at %s: %s", e.Pos, e.Detail())
}

// Detail returns the bare message without the stage or position prefix.
func (e *Error) Detail() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("unrecognized character %q", e.Char)
}

// Lexer scans Viable DSL source text.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int  // current line number, 1-based
	column       int  // current column number, 1-based
	filename     string
}

// New creates a new lexer instance.
func New(input string) *Lexer {
	return NewWithFilename(input, "")
}

// NewWithFilename creates a new lexer instance with a filename for
// error reporting.
func NewWithFilename(input, filename string) *Lexer {
	l := &Lexer{
		input:    input,
		line:     1,
		column:   0,
		filename: filename,
	}
	l.readChar()
	return l
}

// Tokenize scans the whole input and returns the token sequence,
// terminated by an EOF token. The first lexical fault aborts the scan.
func Tokenize(input, filename string) ([]Token, error) {
	l := NewWithFilename(input, filename)

	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

// readChar reads the next character and advances position.
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0 // NUL represents EOF
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++

	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

// peekChar returns the next character without advancing position.
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// pos captures the position of the current character.
func (l *Lexer) pos() position.Position {
	return position.Position{
		Filename: l.filename,
		Line:     l.line,
		Column:   l.column,
		Offset:   l.position,
	}
}

// emit finalizes a token whose source text ends just before the current
// character.
func (l *Lexer) emit(tt TokenType, literal string, start position.Position) Token {
	return Token{Type: tt, Literal: literal, Pos: start, End: l.pos()}
}

// skipWhitespaceAndComments discards whitespace runs, line comments and
// block comments (the marker form used to tag embedded patterns).
func (l *Lexer) skipWhitespaceAndComments() error {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			start := l.pos()
			l.readChar()
			l.readChar()
			for {
				if l.ch == 0 {
					return &Error{Pos: start, Message: "unterminated block comment"}
				}
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar()
					l.readChar()
					break
				}
				l.readChar()
			}
		default:
			return nil
		}
	}
}

// Next scans and returns the next token.
func (l *Lexer) Next() (Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return Token{}, err
	}

	start := l.pos()

	switch {
	case l.ch == 0:
		return Token{Type: TokenEOF, Pos: start, End: start}, nil
	case l.ch == '{':
		l.readChar()
		return l.emit(TokenLBrace, "{", start), nil
	case l.ch == '}':
		l.readChar()
		return l.emit(TokenRBrace, "}", start), nil
	case l.ch == '=':
		l.readChar()
		return l.emit(TokenAssign, "=", start), nil
	case l.ch == ';':
		l.readChar()
		return l.emit(TokenSemicolon, ";", start), nil
	case l.ch == '"' || l.ch == '\'':
		return l.readString(start, l.ch, TokenString)
	case l.ch == '`':
		return l.readString(start, '`', TokenRawString)
	case l.ch == '<':
		return l.readSymbol(start)
	case l.ch == '$':
		return l.readVariable(start)
	case isDigit(l.ch):
		return l.emit(TokenNumber, l.readNumber(), start), nil
	case isLetter(l.ch) || l.ch == '_':
		literal := l.readIdentifier()
		if tt, ok := keywords[literal]; ok {
			return l.emit(tt, literal, start), nil
		}
		return l.emit(TokenIdent, literal, start), nil
	default:
		// The scanner is byte-oriented; decode the full rune here so a
		// multi-byte character renders intact in the diagnostic.
		r, _ := utf8.DecodeRuneInString(l.input[l.position:])
		return Token{}, &Error{Pos: start, Char: r}
	}
}

// readString reads a delimited string literal. The only escape the
// language processes is a backslash-escaped delimiter, which collapses
// to the bare delimiter; every other byte is kept verbatim.
func (l *Lexer) readString(start position.Position, delim byte, tt TokenType) (Token, error) {
	l.readChar() // opening delimiter

	var sb strings.Builder
	for {
		if l.ch == 0 {
			return Token{}, &Error{Pos: start, Message: "unterminated string literal"}
		}
		if l.ch == '\\' && l.peekChar() == delim {
			sb.WriteByte(delim)
			l.readChar()
			l.readChar()
			continue
		}
		if l.ch == delim {
			break
		}
		sb.WriteByte(l.ch)
		l.readChar()
	}

	l.readChar() // closing delimiter
	return l.emit(tt, sb.String(), start), nil
}

// readSymbol reads a bracketed symbol literal such as <digit>.
func (l *Lexer) readSymbol(start position.Position) (Token, error) {
	l.readChar() // '<'

	from := l.position
	for isLetter(l.ch) {
		l.readChar()
	}
	name := l.input[from:l.position]

	if l.ch != '>' {
		return Token{}, &Error{Pos: start, Message: fmt.Sprintf("unterminated symbol literal <%s", name)}
	}
	l.readChar() // '>'

	if !symbolNames[name] {
		return Token{}, &Error{Pos: start, Message: fmt.Sprintf("unknown symbol <%s>", name)}
	}
	return l.emit(TokenSymbol, name, start), nil
}

// readVariable reads a sigil-prefixed variable name. The literal holds
// the name without the sigil.
func (l *Lexer) readVariable(start position.Position) (Token, error) {
	l.readChar() // '$'

	from := l.position
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	name := l.input[from:l.position]

	if name == "" {
		return Token{}, &Error{Pos: start, Message: "empty variable name after $"}
	}
	return l.emit(TokenVariable, name, start), nil
}

func (l *Lexer) readNumber() string {
	from := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[from:l.position]
}

func (l *Lexer) readIdentifier() string {
	from := l.position
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[from:l.position]
}

// isLetter checks if character is an ASCII letter.
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

// isDigit checks if character is an ASCII digit.
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
