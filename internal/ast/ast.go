// Package ast defines the abstract syntax tree for the Viable pattern
// DSL. The tree is strictly parent-owned: nodes are never shared between
// containers, and resolution substitutes deep copies so the generator
// always walks a finite acyclic tree.
package ast

import (
	"fmt"
	"strings"

	"github.com/viable-project/viable/internal/position"
)

// Node is the base interface for all AST nodes.
type Node interface {
	// Pos returns the source position where the node begins.
	Pos() position.Position
	// Clone returns a deep copy of the node.
	Clone() Node
	// String returns a human-readable representation of the node.
	String() string

	node()
}

// Sequence is an ordered list of nodes representing concatenation.
type Sequence []Node

// Clone returns a deep copy of the sequence.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	for i, n := range s {
		out[i] = n.Clone()
	}
	return out
}

// String joins the member renderings with spaces.
func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, n := range s {
		parts[i] = n.String()
	}
	return strings.Join(parts, " ")
}

// SymbolKind identifies one of the built-in character classes or anchors.
type SymbolKind int

const (
	SymbolStart SymbolKind = iota
	SymbolEnd
	SymbolChar
	SymbolWhitespace
	SymbolSpace
	SymbolNewline
	SymbolTab
	SymbolReturn
	SymbolFeed
	SymbolNull
	SymbolDigit
	SymbolVertical
	SymbolWord
	SymbolAlphabetic
	SymbolAlphanumeric
	SymbolBoundary
	SymbolBackspace
)

var symbolKindNames = map[SymbolKind]string{
	SymbolStart:        "start",
	SymbolEnd:          "end",
	SymbolChar:         "char",
	SymbolWhitespace:   "whitespace",
	SymbolSpace:        "space",
	SymbolNewline:      "newline",
	SymbolTab:          "tab",
	SymbolReturn:       "return",
	SymbolFeed:         "feed",
	SymbolNull:         "null",
	SymbolDigit:        "digit",
	SymbolVertical:     "vertical",
	SymbolWord:         "word",
	SymbolAlphabetic:   "alphabetic",
	SymbolAlphanumeric: "alphanumeric",
	SymbolBoundary:     "boundary",
	SymbolBackspace:    "backspace",
}

var symbolKindsByName = func() map[string]SymbolKind {
	m := make(map[string]SymbolKind, len(symbolKindNames))
	for k, name := range symbolKindNames {
		m[name] = k
	}
	return m
}()

// String returns the symbol's source name, e.g. "digit" for <digit>.
func (k SymbolKind) String() string {
	if name, ok := symbolKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// SymbolKindByName looks up a symbol kind from its source name.
func SymbolKindByName(name string) (SymbolKind, bool) {
	k, ok := symbolKindsByName[name]
	return k, ok
}

// ModifierKind identifies a quantifier form.
type ModifierKind int

const (
	ModExact      ModifierKind = iota // n of
	ModBetween                        // m to n of
	ModAtLeast                        // over n of (lower bound already adjusted)
	ModZeroOrMore                     // any of
	ModOneOrMore                      // some of
	ModOptional                       // option of
)

// Modifier describes how many times a quantified body repeats. Min and
// Max are meaningful only for the bounded kinds.
type Modifier struct {
	Kind ModifierKind
	Min  int
	Max  int
}

// StringLiteral is a quoted text fragment. Raw literals (back-quoted)
// are emitted without metacharacter escaping.
type StringLiteral struct {
	Value string
	Raw   bool
	P     position.Position
}

// Symbol is a built-in character class or anchor such as <digit>.
type Symbol struct {
	Kind SymbolKind
	P    position.Position
}

// Range is a character range such as `a to z`.
type Range struct {
	Lo byte
	Hi byte
	P  position.Position
}

// Quantified wraps a body with a repetition modifier.
type Quantified struct {
	Mod  Modifier
	Lazy bool
	Body Node
	P    position.Position
}

// Capture is a capturing group, optionally named.
type Capture struct {
	Name string // empty for unnamed captures
	Body Sequence
	P    position.Position
}

// Match is a non-capturing group.
type Match struct {
	Body Sequence
	P    position.Position
}

// Either is an alternation; each alternative is itself a sequence.
type Either struct {
	Alts []Sequence
	P    position.Position
}

// Ahead is a positive lookahead assertion.
type Ahead struct {
	Body Sequence
	P    position.Position
}

// Behind is a positive lookbehind assertion.
type Behind struct {
	Body Sequence
	P    position.Position
}

// Not negates its inner node. The parser restricts the inner node to
// Ahead, Behind, Symbol or Range.
type Not struct {
	Inner Node
	P     position.Position
}

// LetBinding binds a variable name to a sequence. Bindings contribute
// no direct output; the resolver records and drops them.
type LetBinding struct {
	Name string // without the sigil
	Body Sequence
	P    position.Position
}

// VariableRef is a reference to a let-bound sequence.
type VariableRef struct {
	Name string // without the sigil
	P    position.Position
}

func (n *StringLiteral) Pos() position.Position { return n.P }
func (n *Symbol) Pos() position.Position        { return n.P }
func (n *Range) Pos() position.Position         { return n.P }
func (n *Quantified) Pos() position.Position    { return n.P }
func (n *Capture) Pos() position.Position       { return n.P }
func (n *Match) Pos() position.Position         { return n.P }
func (n *Either) Pos() position.Position        { return n.P }
func (n *Ahead) Pos() position.Position         { return n.P }
func (n *Behind) Pos() position.Position        { return n.P }
func (n *Not) Pos() position.Position           { return n.P }
func (n *LetBinding) Pos() position.Position    { return n.P }
func (n *VariableRef) Pos() position.Position   { return n.P }

func (n *StringLiteral) Clone() Node { c := *n; return &c }
func (n *Symbol) Clone() Node        { c := *n; return &c }
func (n *Range) Clone() Node         { c := *n; return &c }

func (n *Quantified) Clone() Node {
	c := *n
	c.Body = n.Body.Clone()
	return &c
}

func (n *Capture) Clone() Node {
	c := *n
	c.Body = n.Body.Clone()
	return &c
}

func (n *Match) Clone() Node {
	c := *n
	c.Body = n.Body.Clone()
	return &c
}

func (n *Either) Clone() Node {
	c := *n
	c.Alts = make([]Sequence, len(n.Alts))
	for i, alt := range n.Alts {
		c.Alts[i] = alt.Clone()
	}
	return &c
}

func (n *Ahead) Clone() Node {
	c := *n
	c.Body = n.Body.Clone()
	return &c
}

func (n *Behind) Clone() Node {
	c := *n
	c.Body = n.Body.Clone()
	return &c
}

func (n *Not) Clone() Node {
	c := *n
	c.Inner = n.Inner.Clone()
	return &c
}

func (n *LetBinding) Clone() Node {
	c := *n
	c.Body = n.Body.Clone()
	return &c
}

func (n *VariableRef) Clone() Node { c := *n; return &c }

func (n *StringLiteral) String() string {
	if n.Raw {
		return fmt.Sprintf("`%s`", n.Value)
	}
	return fmt.Sprintf("%q", n.Value)
}
func (n *Symbol) String() string { return "<" + n.Kind.String() + ">" }
func (n *Range) String() string  { return fmt.Sprintf("%c to %c", n.Lo, n.Hi) }

func (n *Quantified) String() string {
	var prefix string
	switch n.Mod.Kind {
	case ModExact:
		prefix = fmt.Sprintf("%d of", n.Mod.Min)
	case ModBetween:
		prefix = fmt.Sprintf("%d to %d of", n.Mod.Min, n.Mod.Max)
	case ModAtLeast:
		prefix = fmt.Sprintf("over %d of", n.Mod.Min-1)
	case ModZeroOrMore:
		prefix = "any of"
	case ModOneOrMore:
		prefix = "some of"
	case ModOptional:
		prefix = "option of"
	}
	if n.Lazy {
		prefix = "lazy " + prefix
	}
	return prefix + " " + n.Body.String()
}

func (n *Capture) String() string {
	if n.Name != "" {
		return fmt.Sprintf("capture %s { %s }", n.Name, n.Body)
	}
	return fmt.Sprintf("capture { %s }", n.Body)
}
func (n *Match) String() string { return fmt.Sprintf("match { %s }", n.Body) }

func (n *Either) String() string {
	parts := make([]string, len(n.Alts))
	for i, alt := range n.Alts {
		parts[i] = alt.String()
	}
	return fmt.Sprintf("either { %s }", strings.Join(parts, "; "))
}

func (n *Ahead) String() string       { return fmt.Sprintf("ahead { %s }", n.Body) }
func (n *Behind) String() string      { return fmt.Sprintf("behind { %s }", n.Body) }
func (n *Not) String() string         { return "not " + n.Inner.String() }
func (n *LetBinding) String() string  { return fmt.Sprintf("let $%s = { %s }", n.Name, n.Body) }
func (n *VariableRef) String() string { return "$" + n.Name }

func (*StringLiteral) node() {}
func (*Symbol) node()        {}
func (*Range) node()         {}
func (*Quantified) node()    {}
func (*Capture) node()       {}
func (*Match) node()         {}
func (*Either) node()        {}
func (*Ahead) node()         {}
func (*Behind) node()        {}
func (*Not) node()           {}
func (*LetBinding) node()    {}
func (*VariableRef) node()   {}
