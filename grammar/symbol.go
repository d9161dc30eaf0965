package grammar

import "strings"

// Kind classifies a symbol. Every symbol in a grammar is exactly one of
// Terminal or NonTerminal; Unclassified only appears in references that are
// resolved against earlier declarations.
type Kind uint8

const (
	Unclassified Kind = iota
	Terminal
	NonTerminal
)

func (k Kind) String() string {
	switch k {
	case Terminal:
		return "terminal"
	case NonTerminal:
		return "nonterminal"
	default:
		return "unclassified"
	}
}

// Epsilon is how an empty right-hand side is written in dumps and grammar files.
const Epsilon = "ε"

// Symbol is a named grammar symbol tagged with its kind.
type Symbol struct {
	Name string
	Kind Kind
}

// T returns a terminal symbol.
func T(name string) Symbol {
	return Symbol{Name: name, Kind: Terminal}
}

// N returns a nonterminal symbol.
func N(name string) Symbol {
	return Symbol{Name: name, Kind: NonTerminal}
}

// Ref returns an unclassified reference. AddProduction resolves it against
// the symbols already declared in the grammar.
func Ref(name string) Symbol {
	return Symbol{Name: name}
}

func (s Symbol) IsTerminal() bool {
	return s.Kind == Terminal
}

func (s Symbol) IsNonTerminal() bool {
	return s.Kind == NonTerminal
}

func (s Symbol) String() string {
	return s.Name
}

// Sequence is one right-hand side. An empty sequence derives the empty string.
type Sequence []Symbol

// Seq builds a sequence of unclassified references from names.
func Seq(names ...string) Sequence {
	seq := make(Sequence, len(names))
	for i, name := range names {
		seq[i] = Ref(name)
	}
	return seq
}

func (s Sequence) String() string {
	if len(s) == 0 {
		return Epsilon
	}
	return strings.Join(s.Names(), " ")
}

// Names returns the symbol names in order.
func (s Sequence) Names() []string {
	names := make([]string, len(s))
	for i, sym := range s {
		names[i] = sym.Name
	}
	return names
}

// Key returns a string that is equal for sequences with equal symbol names.
func (s Sequence) Key() string {
	return strings.Join(s.Names(), "\x00")
}

func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i].Name != other[i].Name {
			return false
		}
	}
	return true
}

func (s Sequence) Clone() Sequence {
	if s == nil {
		return Sequence{}
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// IsUnit reports whether the sequence is a single nonterminal.
func (s Sequence) IsUnit() bool {
	return len(s) == 1 && s[0].Kind == NonTerminal
}

// Rule is a single production, used when walking a grammar in order.
type Rule struct {
	Left  string
	Right Sequence
}

func (r Rule) String() string {
	return r.Left + " -> " + r.Right.String()
}
