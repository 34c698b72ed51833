// Package resolver performs variable resolution for the Viable pattern
// DSL. It records let bindings in a flat, compilation-unit-wide symbol
// table and replaces every variable reference with a deep copy of its
// bound sequence, so the generator never sees shared or cyclic nodes.
package resolver

import (
	"fmt"
	"strings"

	"github.com/viable-project/viable/internal/ast"
	"github.com/viable-project/viable/internal/position"
)

// ErrorKind discriminates resolution failures.
type ErrorKind int

const (
	UndefinedVariable ErrorKind = iota
	DuplicateBinding
	CyclicBinding
)

// Error represents a resolution error.
type Error struct {
	Kind  ErrorKind
	Name  string
	Chain []string // reference chain for cyclic bindings
	Pos   position.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("resolve error at %s: %s", e.Pos, e.Detail())
}

// Detail returns the bare message without the stage or position prefix.
func (e *Error) Detail() string {
	switch e.Kind {
	case UndefinedVariable:
		return fmt.Sprintf("undefined variable $%s", e.Name)
	case DuplicateBinding:
		return fmt.Sprintf("duplicate binding for $%s", e.Name)
	case CyclicBinding:
		return fmt.Sprintf("cyclic binding $%s", strings.Join(e.Chain, " -> $"))
	default:
		return "$" + e.Name
	}
}

// resolver carries the symbol table for one compilation unit. Bindings
// are resolved eagerly at their definition point, so stored bodies are
// always reference-free.
type resolver struct {
	table map[string]ast.Sequence
}

// Resolve walks the AST, records and drops let bindings, and replaces
// every variable reference with a deep copy of its bound sequence.
func Resolve(root ast.Sequence) (ast.Sequence, error) {
	r := &resolver{table: make(map[string]ast.Sequence)}
	return r.sequence(root, nil)
}

// sequence resolves one sequence. visited holds the chain of binding
// names currently being resolved, outermost first. Bindings are
// recorded and dropped here; references splice a deep copy of their
// bound body into the enclosing sequence.
func (r *resolver) sequence(seq ast.Sequence, visited []string) (ast.Sequence, error) {
	var out ast.Sequence
	for _, node := range seq {
		switch n := node.(type) {
		case *ast.LetBinding:
			if _, exists := r.table[n.Name]; exists {
				return nil, &Error{Kind: DuplicateBinding, Name: n.Name, Pos: n.P}
			}
			body, err := r.sequence(n.Body, append(visited, n.Name))
			if err != nil {
				return nil, err
			}
			r.table[n.Name] = body

		case *ast.VariableRef:
			body, err := r.lookup(n, visited)
			if err != nil {
				return nil, err
			}
			out = append(out, body...)

		default:
			resolved, err := r.node(node, visited)
			if err != nil {
				return nil, err
			}
			out = append(out, resolved)
		}
	}
	return out, nil
}

// lookup returns a deep copy of the sequence bound to a reference.
// Stored bodies are already reference-free, so the visited chain only
// ever catches a binding referring to itself while being resolved.
func (r *resolver) lookup(ref *ast.VariableRef, visited []string) (ast.Sequence, error) {
	for i, name := range visited {
		if name == ref.Name {
			chain := append(append([]string{}, visited[i:]...), ref.Name)
			return nil, &Error{Kind: CyclicBinding, Name: ref.Name, Chain: chain, Pos: ref.P}
		}
	}
	body, ok := r.table[ref.Name]
	if !ok {
		return nil, &Error{Kind: UndefinedVariable, Name: ref.Name, Pos: ref.P}
	}
	return body.Clone(), nil
}

// node resolves a non-binding, non-reference node by resolving its
// nested sequences. The parser guarantees a reference never appears as
// a quantifier or negation operand, so only sequence positions splice.
func (r *resolver) node(node ast.Node, visited []string) (ast.Node, error) {
	switch n := node.(type) {
	case *ast.Quantified:
		body, err := r.node(n.Body, visited)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Body = body
		return &c, nil

	case *ast.Capture:
		body, err := r.sequence(n.Body, visited)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Body = body
		return &c, nil

	case *ast.Match:
		body, err := r.sequence(n.Body, visited)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Body = body
		return &c, nil

	case *ast.Either:
		c := *n
		c.Alts = make([]ast.Sequence, len(n.Alts))
		for i, alt := range n.Alts {
			resolved, err := r.sequence(alt, visited)
			if err != nil {
				return nil, err
			}
			c.Alts[i] = resolved
		}
		return &c, nil

	case *ast.Ahead:
		body, err := r.sequence(n.Body, visited)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Body = body
		return &c, nil

	case *ast.Behind:
		body, err := r.sequence(n.Body, visited)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Body = body
		return &c, nil

	case *ast.Not:
		inner, err := r.node(n.Inner, visited)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Inner = inner
		return &c, nil

	default:
		// Leaf nodes resolve to themselves.
		return node, nil
	}
}
