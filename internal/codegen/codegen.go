// Package codegen emits the target regex dialect for a resolved Viable
// AST. The dialect is PCRE-flavoured: named groups, lookaround and lazy
// quantifiers. Concatenation in the DSL is plain juxtaposition in the
// output, so every fragment must be self-delimiting; multi-atom bodies
// are wrapped in a non-capturing group before a quantifier suffix is
// applied to preserve precedence.
package codegen

import (
	"fmt"
	"strings"

	"github.com/viable-project/viable/internal/ast"
	"github.com/viable-project/viable/internal/position"
)

// ErrorKind discriminates generation failures.
type ErrorKind int

const (
	InvalidRange ErrorKind = iota
	NonNegatable
	DuplicateCaptureName

	// internalError marks a tree that violated the resolver's
	// contract; it cannot be produced by well-formed input.
	internalError
)

// Error represents a generation error.
type Error struct {
	Kind    ErrorKind
	Message string
	Pos     position.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("generate error at %s: %s", e.Pos, e.Message)
}

// Result is the compiled output plus capture-group metadata.
type Result struct {
	Pattern      string
	CaptureNames []string // named groups in declaration order
}

// symbolTable maps each built-in symbol to its regex equivalent.
var symbolTable = map[ast.SymbolKind]string{
	ast.SymbolStart:        `^`,
	ast.SymbolEnd:          `$`,
	ast.SymbolChar:         `.`,
	ast.SymbolWhitespace:   `\s`,
	ast.SymbolSpace:        ` `,
	ast.SymbolNewline:      `\n`,
	ast.SymbolTab:          `\t`,
	ast.SymbolReturn:       `\r`,
	ast.SymbolFeed:         `\f`,
	ast.SymbolNull:         `\0`,
	ast.SymbolDigit:        `\d`,
	ast.SymbolVertical:     `\v`,
	ast.SymbolWord:         `\w`,
	ast.SymbolAlphabetic:   `[a-zA-Z]`,
	ast.SymbolAlphanumeric: `[a-zA-Z0-9]`,
	ast.SymbolBoundary:     `\b`,
	ast.SymbolBackspace:    `[\b]`,
}

// negatedTable maps the symbols that have an established complement.
// Negation is a closed mapping: anything absent here is NonNegatable.
var negatedTable = map[ast.SymbolKind]string{
	ast.SymbolDigit:        `\D`,
	ast.SymbolWord:         `\W`,
	ast.SymbolWhitespace:   `\S`,
	ast.SymbolBoundary:     `\B`,
	ast.SymbolSpace:        `[^ ]`,
	ast.SymbolAlphabetic:   `[^a-zA-Z]`,
	ast.SymbolAlphanumeric: `[^a-zA-Z0-9]`,
}

// metacharacters that must be escaped inside quoted string literals.
const metacharacters = `\.+*?()[]{}|^$/`

// generator accumulates output and capture metadata for one walk.
type generator struct {
	captures []string
	seen     map[string]bool
}

// Generate walks a resolved sequence and emits the regex string.
func Generate(root ast.Sequence) (Result, error) {
	g := &generator{seen: make(map[string]bool)}
	pattern, err := g.sequence(root)
	if err != nil {
		return Result{}, err
	}
	return Result{Pattern: pattern, CaptureNames: g.captures}, nil
}

// sequence concatenates member fragments with no separators.
func (g *generator) sequence(seq ast.Sequence) (string, error) {
	var sb strings.Builder
	for _, node := range seq {
		fragment, err := g.node(node)
		if err != nil {
			return "", err
		}
		sb.WriteString(fragment)
	}
	return sb.String(), nil
}

func (g *generator) node(node ast.Node) (string, error) {
	switch n := node.(type) {
	case *ast.StringLiteral:
		if n.Raw {
			return n.Value, nil
		}
		return escape(n.Value), nil

	case *ast.Symbol:
		return symbolTable[n.Kind], nil

	case *ast.Range:
		if n.Lo > n.Hi {
			return "", &Error{
				Kind:    InvalidRange,
				Message: fmt.Sprintf("invalid range: %c exceeds %c", n.Lo, n.Hi),
				Pos:     n.P,
			}
		}
		return fmt.Sprintf("[%c-%c]", n.Lo, n.Hi), nil

	case *ast.Quantified:
		return g.quantified(n)

	case *ast.Capture:
		body, err := g.sequence(n.Body)
		if err != nil {
			return "", err
		}
		if n.Name == "" {
			return "(" + body + ")", nil
		}
		if g.seen[n.Name] {
			return "", &Error{
				Kind:    DuplicateCaptureName,
				Message: fmt.Sprintf("duplicate capture name %q", n.Name),
				Pos:     n.P,
			}
		}
		g.seen[n.Name] = true
		g.captures = append(g.captures, n.Name)
		return "(?<" + n.Name + ">" + body + ")", nil

	case *ast.Match:
		body, err := g.sequence(n.Body)
		if err != nil {
			return "", err
		}
		return "(?:" + body + ")", nil

	case *ast.Either:
		parts := make([]string, len(n.Alts))
		for i, alt := range n.Alts {
			fragment, err := g.sequence(alt)
			if err != nil {
				return "", err
			}
			parts[i] = fragment
		}
		return "(?:" + strings.Join(parts, "|") + ")", nil

	case *ast.Ahead:
		body, err := g.sequence(n.Body)
		if err != nil {
			return "", err
		}
		return "(?=" + body + ")", nil

	case *ast.Behind:
		body, err := g.sequence(n.Body)
		if err != nil {
			return "", err
		}
		return "(?<=" + body + ")", nil

	case *ast.Not:
		return g.negated(n)

	default:
		// LetBinding and VariableRef never survive resolution.
		return "", &Error{
			Kind:    internalError,
			Message: fmt.Sprintf("unexpected node %T in resolved tree", node),
			Pos:     node.Pos(),
		}
	}
}

// quantified emits the body fragment, grouped when it is not a single
// atom, followed by the repetition suffix.
func (g *generator) quantified(n *ast.Quantified) (string, error) {
	body, err := g.node(n.Body)
	if err != nil {
		return "", err
	}
	if !isSingleAtom(body) {
		body = "(?:" + body + ")"
	}

	var suffix string
	switch n.Mod.Kind {
	case ast.ModExact:
		suffix = fmt.Sprintf("{%d}", n.Mod.Min)
	case ast.ModBetween:
		if n.Mod.Min > n.Mod.Max {
			return "", &Error{
				Kind:    InvalidRange,
				Message: fmt.Sprintf("invalid quantifier range: %d exceeds %d", n.Mod.Min, n.Mod.Max),
				Pos:     n.P,
			}
		}
		suffix = fmt.Sprintf("{%d,%d}", n.Mod.Min, n.Mod.Max)
	case ast.ModAtLeast:
		suffix = fmt.Sprintf("{%d,}", n.Mod.Min)
	case ast.ModZeroOrMore:
		suffix = "*"
	case ast.ModOneOrMore:
		suffix = "+"
	case ast.ModOptional:
		suffix = "?"
	}

	if n.Lazy {
		suffix += "?"
	}
	return body + suffix, nil
}

// negated emits the complement of the inner node. Lookarounds flip to
// their negative forms; symbols go through the closed negation table.
func (g *generator) negated(n *ast.Not) (string, error) {
	switch inner := n.Inner.(type) {
	case *ast.Ahead:
		body, err := g.sequence(inner.Body)
		if err != nil {
			return "", err
		}
		return "(?!" + body + ")", nil

	case *ast.Behind:
		body, err := g.sequence(inner.Body)
		if err != nil {
			return "", err
		}
		return "(?<!" + body + ")", nil

	case *ast.Symbol:
		negated, ok := negatedTable[inner.Kind]
		if !ok {
			return "", &Error{
				Kind:    NonNegatable,
				Message: fmt.Sprintf("<%s> has no negated form", inner.Kind),
				Pos:     n.P,
			}
		}
		return negated, nil

	case *ast.Range:
		if inner.Lo > inner.Hi {
			return "", &Error{
				Kind:    InvalidRange,
				Message: fmt.Sprintf("invalid range: %c exceeds %c", inner.Lo, inner.Hi),
				Pos:     inner.P,
			}
		}
		return fmt.Sprintf("[^%c-%c]", inner.Lo, inner.Hi), nil

	default:
		return "", &Error{
			Kind:    NonNegatable,
			Message: fmt.Sprintf("%s cannot be negated", inner),
			Pos:     n.P,
		}
	}
}

// escape backslash-escapes regex metacharacters in a quoted literal.
func escape(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(metacharacters, s[i]) >= 0 {
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// isSingleAtom reports whether a fragment binds to a quantifier suffix
// as one unit: a single character, a single escape, one bracket class,
// or one parenthesized group.
func isSingleAtom(fragment string) bool {
	switch {
	case len(fragment) <= 1:
		return true
	case len(fragment) == 2 && fragment[0] == '\\':
		return true
	case fragment[0] == '[' && fragment[len(fragment)-1] == ']' &&
		strings.IndexByte(fragment[1:len(fragment)-1], ']') < 0:
		return true
	case fragment[0] == '(' && fragment[len(fragment)-1] == ')' &&
		balancedGroup(fragment):
		return true
	default:
		return false
	}
}

// balancedGroup reports whether the opening parenthesis at index 0
// closes at the final index.
func balancedGroup(fragment string) bool {
	depth := 0
	for i := 0; i < len(fragment); i++ {
		switch fragment[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i == len(fragment)-1
			}
		}
	}
	return false
}
