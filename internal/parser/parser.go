// Package parser implements the recursive descent parser for the Viable
// pattern DSL. The grammar is LL(1): every production starts with a
// distinguishing token, so a two-token window is all the lookahead the
// parser ever needs. Parsing halts at the first error.
package parser

import (
	"fmt"
	"strconv"

	"github.com/viable-project/viable/internal/ast"
	"github.com/viable-project/viable/internal/lexer"
	"github.com/viable-project/viable/internal/position"
)

// Error represents a parsing error with the offending token's position
// and an expected-vs-found description. Span covers the token's full
// source extent when one is at hand.
type Error struct {
	Pos     position.Position
	Span    position.Span
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at %s: %s", e.Pos, e.Message)
}

// Parser consumes a token sequence and produces an AST sequence.
type Parser struct {
	tokens  []lexer.Token
	pos     int
	current lexer.Token
	peek    lexer.Token
}

// New creates a parser over a token sequence. The sequence must be
// EOF-terminated, as produced by lexer.Tokenize.
func New(tokens []lexer.Token) *Parser {
	p := &Parser{tokens: tokens}

	// Prime the two-token window.
	p.advance()
	p.advance()
	return p
}

// Parse parses a token sequence into the root AST sequence.
func Parse(tokens []lexer.Token) (ast.Sequence, error) {
	return New(tokens).Parse()
}

// Parse consumes the whole token stream and returns the root sequence.
func (p *Parser) Parse() (ast.Sequence, error) {
	var seq ast.Sequence
	for !p.currentIs(lexer.TokenEOF) {
		node, err := p.parseRule()
		if err != nil {
			return nil, err
		}
		seq = append(seq, node)
	}
	return seq, nil
}

// advance shifts the two-token window forward.
func (p *Parser) advance() {
	p.current = p.peek
	if p.pos < len(p.tokens) {
		p.peek = p.tokens[p.pos]
		p.pos++
	} else {
		p.peek = lexer.Token{Type: lexer.TokenEOF, Pos: p.current.Pos}
	}
}

func (p *Parser) currentIs(tt lexer.TokenType) bool {
	return p.current.Type == tt
}

// expect consumes the current token if it has the wanted type, erroring
// otherwise.
func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	if !p.currentIs(tt) {
		return lexer.Token{}, p.errorf("expected %s, found %s", tt, p.describe(p.current))
	}
	tok := p.current
	p.advance()
	return tok, nil
}

func (p *Parser) errorf(format string, args ...any) *Error {
	return &Error{
		Pos:     p.current.Pos,
		Span:    p.current.Span(),
		Message: fmt.Sprintf(format, args...),
	}
}

func (p *Parser) describe(tok lexer.Token) string {
	if tok.Type == lexer.TokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", tok.Type, tok.Literal)
}

// parseRule parses one top-level rule: a terminal expression, a
// quantified expression, a block form, a negation, or a let binding.
func (p *Parser) parseRule() (ast.Node, error) {
	switch p.current.Type {
	case lexer.TokenLet:
		return p.parseLet()
	case lexer.TokenLazy, lexer.TokenSome, lexer.TokenOver, lexer.TokenOption, lexer.TokenAny:
		return p.parseQuantified()
	case lexer.TokenNumber:
		return p.parseNumberLed()
	case lexer.TokenIdent:
		return p.parseCharRange()
	case lexer.TokenCapture:
		return p.parseCapture()
	case lexer.TokenMatch:
		return p.parseGroup(lexer.TokenMatch)
	case lexer.TokenEither:
		return p.parseEither()
	case lexer.TokenAhead, lexer.TokenBehind:
		return p.parseLookaround(p.current.Type)
	case lexer.TokenNot:
		return p.parseNot()
	case lexer.TokenString, lexer.TokenRawString:
		return p.parseStringTerminal()
	case lexer.TokenSymbol:
		return p.parseSymbolTerminal()
	case lexer.TokenVariable:
		return p.parseVariableRef()
	default:
		return nil, p.errorf("unexpected %s at start of rule", p.describe(p.current))
	}
}

// parseLet parses `let $name = { ... }`.
func (p *Parser) parseLet() (ast.Node, error) {
	letTok := p.current
	p.advance()

	name, err := p.expect(lexer.TokenVariable)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenAssign); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.LetBinding{Name: name.Literal, Body: body, P: letTok.Pos}, nil
}

// parseBlock parses `{ rule* }` and returns the inner sequence. A
// missing closing brace reports the opening brace's position.
func (p *Parser) parseBlock() (ast.Sequence, error) {
	open, err := p.expect(lexer.TokenLBrace)
	if err != nil {
		return nil, err
	}

	var seq ast.Sequence
	for !p.currentIs(lexer.TokenRBrace) {
		if p.currentIs(lexer.TokenEOF) {
			return nil, &Error{Pos: open.Pos, Span: open.Span(), Message: "unterminated block: missing closing brace"}
		}
		node, err := p.parseRule()
		if err != nil {
			return nil, err
		}
		seq = append(seq, node)
	}
	p.advance() // '}'
	return seq, nil
}

// parseQuantified parses `[lazy] quantity of <operand>`.
func (p *Parser) parseQuantified() (ast.Node, error) {
	start := p.current.Pos

	lazy := false
	if p.currentIs(lexer.TokenLazy) {
		lazy = true
		p.advance()
	}

	var mod ast.Modifier
	switch p.current.Type {
	case lexer.TokenSome:
		mod = ast.Modifier{Kind: ast.ModOneOrMore}
		p.advance()
	case lexer.TokenAny:
		mod = ast.Modifier{Kind: ast.ModZeroOrMore}
		p.advance()
	case lexer.TokenOption:
		mod = ast.Modifier{Kind: ast.ModOptional}
		p.advance()
	case lexer.TokenOver:
		p.advance()
		n, err := p.parseInt()
		if err != nil {
			return nil, err
		}
		// `over n` is an exclusive lower bound: n+1 or more.
		mod = ast.Modifier{Kind: ast.ModAtLeast, Min: n + 1}
	case lexer.TokenNumber:
		var err error
		mod, err = p.parseNumericQuantity()
		if err != nil {
			return nil, err
		}
	default:
		return nil, p.errorf("expected a quantifier after lazy, found %s", p.describe(p.current))
	}

	if _, err := p.expect(lexer.TokenOf); err != nil {
		return nil, err
	}

	body, err := p.parseQuantifierOperand()
	if err != nil {
		return nil, err
	}
	return &ast.Quantified{Mod: mod, Lazy: lazy, Body: body, P: start}, nil
}

// parseNumericQuantity parses `n` or `m to n` ahead of an `of` keyword.
func (p *Parser) parseNumericQuantity() (ast.Modifier, error) {
	min, err := p.parseInt()
	if err != nil {
		return ast.Modifier{}, err
	}
	if !p.currentIs(lexer.TokenTo) {
		return ast.Modifier{Kind: ast.ModExact, Min: min}, nil
	}
	p.advance() // 'to'

	max, err := p.parseInt()
	if err != nil {
		return ast.Modifier{}, err
	}
	// Bound ordering is validated by the generator, not here.
	return ast.Modifier{Kind: ast.ModBetween, Min: min, Max: max}, nil
}

// parseNumberLed disambiguates the two number-led rules: a quantified
// expression (`5 of ...`, `1 to 3 of ...`) and a standalone character
// range (`0 to 9;`).
func (p *Parser) parseNumberLed() (ast.Node, error) {
	if p.peek.Type == lexer.TokenTo {
		// Look past the second bound: `of` means quantifier, `;` means
		// character range. The second bound itself tells us nothing,
		// since digits are legal in both.
		if len(p.current.Literal) == 1 && p.peekPastBoundIs(lexer.TokenSemicolon) {
			return p.parseCharRange()
		}
		return p.parseQuantified()
	}
	if p.peek.Type == lexer.TokenOf {
		return p.parseQuantified()
	}
	return nil, p.errorf("expected 'of' or 'to' after number %s", p.current.Literal)
}

// peekPastBoundIs reports whether the token after the range bound that
// follows `current to` has the given type.
func (p *Parser) peekPastBoundIs(tt lexer.TokenType) bool {
	// p.pos indexes the token after peek; with current=number and
	// peek='to', tokens[p.pos] is the second bound and tokens[p.pos+1]
	// the token after it.
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1].Type == tt
	}
	return false
}

// parseCharRange parses `<bound> to <bound> ;` into a character range.
func (p *Parser) parseCharRange() (ast.Node, error) {
	start := p.current.Pos

	lo, err := p.parseRangeBound()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenTo); err != nil {
		return nil, err
	}
	hi, err := p.parseRangeBound()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenSemicolon); err != nil {
		return nil, err
	}
	return &ast.Range{Lo: lo, Hi: hi, P: start}, nil
}

// parseRangeBound consumes a single-character range bound.
func (p *Parser) parseRangeBound() (byte, error) {
	tok := p.current
	switch tok.Type {
	case lexer.TokenIdent, lexer.TokenNumber:
		if len(tok.Literal) != 1 {
			return 0, p.errorf("range bound %q must be a single character", tok.Literal)
		}
		p.advance()
		return tok.Literal[0], nil
	default:
		return 0, p.errorf("expected a range bound, found %s", p.describe(tok))
	}
}

// parseCapture parses `capture [name] { ... }`.
func (p *Parser) parseCapture() (ast.Node, error) {
	capTok := p.current
	p.advance()

	var name string
	if p.currentIs(lexer.TokenIdent) {
		name = p.current.Literal
		p.advance()
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Capture{Name: name, Body: body, P: capTok.Pos}, nil
}

// parseGroup parses the non-capturing `match { ... }` form.
func (p *Parser) parseGroup(kind lexer.TokenType) (ast.Node, error) {
	tok := p.current
	p.advance()

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	switch kind {
	case lexer.TokenMatch:
		return &ast.Match{Body: body, P: tok.Pos}, nil
	default:
		return nil, p.errorf("unexpected group keyword %s", tok.Literal)
	}
}

// parseEither parses `either { ... }`; each inner rule is one
// alternative.
func (p *Parser) parseEither() (ast.Node, error) {
	tok := p.current
	p.advance()

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	alts := make([]ast.Sequence, len(body))
	for i, node := range body {
		alts[i] = ast.Sequence{node}
	}
	return &ast.Either{Alts: alts, P: tok.Pos}, nil
}

// parseLookaround parses `ahead { ... }` or `behind { ... }`.
func (p *Parser) parseLookaround(kind lexer.TokenType) (ast.Node, error) {
	tok := p.current
	p.advance()

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if kind == lexer.TokenAhead {
		return &ast.Ahead{Body: body, P: tok.Pos}, nil
	}
	return &ast.Behind{Body: body, P: tok.Pos}, nil
}

// parseNot parses `not` followed by a lookaround block, a built-in
// symbol terminal, or a character range. Any other operand is an error.
func (p *Parser) parseNot() (ast.Node, error) {
	notTok := p.current
	p.advance()

	switch p.current.Type {
	case lexer.TokenAhead, lexer.TokenBehind:
		inner, err := p.parseLookaround(p.current.Type)
		if err != nil {
			return nil, err
		}
		return &ast.Not{Inner: inner, P: notTok.Pos}, nil
	case lexer.TokenSymbol:
		sym, err := p.parseSymbol()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenSemicolon); err != nil {
			return nil, err
		}
		return &ast.Not{Inner: sym, P: notTok.Pos}, nil
	case lexer.TokenIdent, lexer.TokenNumber:
		rng, err := p.parseCharRange()
		if err != nil {
			return nil, err
		}
		return &ast.Not{Inner: rng, P: notTok.Pos}, nil
	default:
		return nil, p.errorf("'not' only applies to ahead, behind, a symbol or a range; found %s", p.describe(p.current))
	}
}

// parseStringTerminal parses `"..." ;` or a raw back-quoted variant.
func (p *Parser) parseStringTerminal() (ast.Node, error) {
	tok := p.current
	p.advance()

	if _, err := p.expect(lexer.TokenSemicolon); err != nil {
		return nil, err
	}
	return &ast.StringLiteral{
		Value: tok.Literal,
		Raw:   tok.Type == lexer.TokenRawString,
		P:     tok.Pos,
	}, nil
}

// parseSymbol consumes a symbol token into a Symbol node.
func (p *Parser) parseSymbol() (*ast.Symbol, error) {
	tok := p.current
	kind, ok := ast.SymbolKindByName(tok.Literal)
	if !ok {
		return nil, p.errorf("unknown symbol <%s>", tok.Literal)
	}
	p.advance()
	return &ast.Symbol{Kind: kind, P: tok.Pos}, nil
}

// parseSymbolTerminal parses `<symbol> ;`.
func (p *Parser) parseSymbolTerminal() (ast.Node, error) {
	sym, err := p.parseSymbol()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenSemicolon); err != nil {
		return nil, err
	}
	return sym, nil
}

// parseVariableRef parses `$name ;`.
func (p *Parser) parseVariableRef() (ast.Node, error) {
	tok := p.current
	p.advance()

	if _, err := p.expect(lexer.TokenSemicolon); err != nil {
		return nil, err
	}
	return &ast.VariableRef{Name: tok.Literal, P: tok.Pos}, nil
}

// parseQuantifierOperand parses the expression a quantifier applies to.
// Assertions, nested quantifiers and variable references cannot be
// quantified directly.
func (p *Parser) parseQuantifierOperand() (ast.Node, error) {
	switch p.current.Type {
	case lexer.TokenString, lexer.TokenRawString:
		return p.parseStringTerminal()
	case lexer.TokenSymbol:
		return p.parseSymbolTerminal()
	case lexer.TokenCapture:
		return p.parseCapture()
	case lexer.TokenMatch:
		return p.parseGroup(lexer.TokenMatch)
	case lexer.TokenEither:
		return p.parseEither()
	case lexer.TokenIdent:
		return p.parseCharRange()
	case lexer.TokenNumber:
		if p.peek.Type == lexer.TokenTo {
			return p.parseCharRange()
		}
		return nil, p.errorf("expected an expression after 'of', found %s", p.describe(p.current))
	case lexer.TokenNot:
		node, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		if not, ok := node.(*ast.Not); ok {
			switch not.Inner.(type) {
			case *ast.Ahead, *ast.Behind:
				return nil, &Error{Pos: not.P, Message: "an assertion cannot be quantified"}
			}
		}
		return node, nil
	case lexer.TokenAhead, lexer.TokenBehind:
		return nil, p.errorf("an assertion cannot be quantified")
	case lexer.TokenVariable:
		return nil, p.errorf("a variable reference cannot be quantified")
	case lexer.TokenLazy, lexer.TokenSome, lexer.TokenOver, lexer.TokenOption, lexer.TokenAny:
		return nil, p.errorf("a quantifier cannot be quantified")
	default:
		return nil, p.errorf("expected an expression after 'of', found %s", p.describe(p.current))
	}
}

// parseInt consumes a number token as an int.
func (p *Parser) parseInt() (int, error) {
	tok, err := p.expect(lexer.TokenNumber)
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(tok.Literal)
	if convErr != nil {
		return 0, &Error{Pos: tok.Pos, Span: tok.Span(), Message: fmt.Sprintf("invalid number %q", tok.Literal)}
	}
	return n, nil
}
