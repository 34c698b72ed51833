package resolver

import (
	"errors"
	"testing"

	"github.com/viable-project/viable/internal/ast"
	"github.com/viable-project/viable/internal/lexer"
	"github.com/viable-project/viable/internal/parser"
)

func mustResolve(t *testing.T, input string) ast.Sequence {
	t.Helper()

	seq, err := resolve(input)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	return seq
}

func resolve(input string) (ast.Sequence, error) {
	tokens, err := lexer.Tokenize(input, "")
	if err != nil {
		return nil, err
	}
	tree, err := parser.Parse(tokens)
	if err != nil {
		return nil, err
	}
	return Resolve(tree)
}

func resolveErrorKind(t *testing.T, input string) ErrorKind {
	t.Helper()

	_, err := resolve(input)
	if err == nil {
		t.Fatalf("expected a resolve error for %q", input)
	}

	var rerr *Error
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *resolver.Error, got %T: %v", err, err)
	}
	return rerr.Kind
}

func TestSubstitution(t *testing.T) {
	seq := mustResolve(t, `let $x = { "ab"; } $x;`)

	if len(seq) != 1 {
		t.Fatalf("expected 1 node after resolution, got %d", len(seq))
	}

	lit, ok := seq[0].(*ast.StringLiteral)
	if !ok || lit.Value != "ab" {
		t.Fatalf("expected substituted literal, got %s", seq[0])
	}
}

func TestMultiNodeBodySplices(t *testing.T) {
	seq := mustResolve(t, `let $x = { "a"; "b"; } "pre"; $x; "post";`)

	// pre, a, b, post
	if len(seq) != 4 {
		t.Fatalf("expected 4 nodes, got %d", len(seq))
	}
	values := []string{"pre", "a", "b", "post"}
	for i, want := range values {
		lit, ok := seq[i].(*ast.StringLiteral)
		if !ok || lit.Value != want {
			t.Fatalf("seq[%d] - expected %q, got %s", i, want, seq[i])
		}
	}
}

func TestSubstitutionIsDeepCopy(t *testing.T) {
	seq := mustResolve(t, `let $x = { "ab"; } $x; $x;`)

	if len(seq) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(seq))
	}
	if seq[0] == seq[1] {
		t.Fatal("substituted nodes must not be shared")
	}

	// Mutating one copy must not affect the other.
	seq[0].(*ast.StringLiteral).Value = "changed"
	if seq[1].(*ast.StringLiteral).Value != "ab" {
		t.Fatal("substitution aliased the bound sequence")
	}
}

func TestNestedReferences(t *testing.T) {
	seq := mustResolve(t, `
let $a = { "x"; }
let $b = { $a; $a; }
$b;`)

	if len(seq) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(seq))
	}
	for i := range seq {
		lit, ok := seq[i].(*ast.StringLiteral)
		if !ok || lit.Value != "x" {
			t.Fatalf("seq[%d] - expected \"x\", got %s", i, seq[i])
		}
	}
}

func TestReferenceInsideBlocks(t *testing.T) {
	seq := mustResolve(t, `let $x = { <digit>; } capture d { $x; }`)

	capture := seq[0].(*ast.Capture)
	if len(capture.Body) != 1 {
		t.Fatalf("expected 1 node in capture, got %d", len(capture.Body))
	}
	if _, ok := capture.Body[0].(*ast.Symbol); !ok {
		t.Fatalf("expected substituted symbol, got %T", capture.Body[0])
	}
}

func TestBindingsAreDropped(t *testing.T) {
	seq := mustResolve(t, `let $unused = { "x"; } "y";`)

	if len(seq) != 1 {
		t.Fatalf("expected the binding to be dropped, got %d nodes", len(seq))
	}
}

func TestUndefinedVariable(t *testing.T) {
	if kind := resolveErrorKind(t, `$missing;`); kind != UndefinedVariable {
		t.Fatalf("expected UndefinedVariable, got %v", kind)
	}
}

func TestUseBeforeDefinition(t *testing.T) {
	// Source order matters: the reference precedes the binding.
	if kind := resolveErrorKind(t, `$x; let $x = { "a"; }`); kind != UndefinedVariable {
		t.Fatalf("expected UndefinedVariable, got %v", kind)
	}
}

func TestDuplicateBinding(t *testing.T) {
	input := `let $x = { "a"; } let $x = { "b"; }`
	if kind := resolveErrorKind(t, input); kind != DuplicateBinding {
		t.Fatalf("expected DuplicateBinding, got %v", kind)
	}
}

func TestSelfReferenceIsCyclic(t *testing.T) {
	if kind := resolveErrorKind(t, `let $x = { $x; }`); kind != CyclicBinding {
		t.Fatalf("expected CyclicBinding, got %v", kind)
	}
}

func TestCyclicChainIsReported(t *testing.T) {
	_, err := resolve(`let $x = { $x; }`)

	var rerr *Error
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *resolver.Error, got %T", err)
	}
	if len(rerr.Chain) < 2 || rerr.Chain[0] != "x" || rerr.Chain[len(rerr.Chain)-1] != "x" {
		t.Fatalf("chain wrong: %v", rerr.Chain)
	}
}
