// Package grammar holds context-free grammars with explicitly classified
// symbols.
package grammar

import (
	"maps"
	"slices"
)

// Grammar is a context-free grammar. Productions are kept per left-hand side
// in insertion order, so every walk over a grammar is deterministic.
type Grammar struct {
	productions  map[string][]Sequence
	lefts        []string
	terminals    map[string]bool
	nonTerminals map[string]bool
	start        string
}

// New creates an empty grammar.
func New() *Grammar {
	return &Grammar{
		productions:  make(map[string][]Sequence),
		terminals:    make(map[string]bool),
		nonTerminals: make(map[string]bool),
	}
}

// DeclareTerminal registers names as terminals.
func (g *Grammar) DeclareTerminal(names ...string) error {
	for _, name := range names {
		if _, err := g.resolve("", T(name)); err != nil {
			return err
		}
	}
	for _, name := range names {
		g.terminals[name] = true
	}
	return nil
}

// DeclareNonTerminal registers names as nonterminals.
func (g *Grammar) DeclareNonTerminal(names ...string) error {
	for _, name := range names {
		if _, err := g.resolve("", N(name)); err != nil {
			return err
		}
	}
	for _, name := range names {
		g.nonTerminals[name] = true
	}
	return nil
}

// resolve checks sym against the current classification and returns it with
// its kind filled in.
func (g *Grammar) resolve(left string, sym Symbol) (Symbol, error) {
	if sym.Name == "" {
		return sym, ErrEmptySymbol
	}
	switch sym.Kind {
	case Terminal:
		if g.nonTerminals[sym.Name] {
			return sym, &KindConflictError{Symbol: sym.Name, Have: NonTerminal, Want: Terminal}
		}
	case NonTerminal:
		if g.terminals[sym.Name] {
			return sym, &KindConflictError{Symbol: sym.Name, Have: Terminal, Want: NonTerminal}
		}
	default:
		switch {
		case g.terminals[sym.Name]:
			sym.Kind = Terminal
		case g.nonTerminals[sym.Name]:
			sym.Kind = NonTerminal
		default:
			return sym, &UnclassifiedSymbolError{Left: left, Symbol: sym.Name}
		}
	}
	return sym, nil
}

// AddProduction appends right to the productions of left and registers left
// as a nonterminal. Symbols of right must either carry a kind or refer to a
// symbol declared earlier. On error the grammar is left unchanged.
func (g *Grammar) AddProduction(left string, right ...Symbol) error {
	if left == "" {
		return ErrEmptySymbol
	}
	if g.terminals[left] {
		return &KindConflictError{Symbol: left, Have: Terminal, Want: NonTerminal}
	}

	resolved := make(Sequence, len(right))
	for i, sym := range right {
		if sym.Name == left && sym.Kind == Unclassified {
			sym.Kind = NonTerminal
		}
		r, err := g.resolve(left, sym)
		if err != nil {
			return err
		}
		resolved[i] = r
	}
	// A sequence may use one name with two kinds.
	kinds := make(map[string]Kind, len(resolved))
	for _, sym := range resolved {
		if k, ok := kinds[sym.Name]; ok && k != sym.Kind {
			return &KindConflictError{Symbol: sym.Name, Have: k, Want: sym.Kind}
		}
		kinds[sym.Name] = sym.Kind
	}
	if k, ok := kinds[left]; ok && k == Terminal {
		return &KindConflictError{Symbol: left, Have: NonTerminal, Want: Terminal}
	}

	g.nonTerminals[left] = true
	for _, sym := range resolved {
		if sym.Kind == Terminal {
			g.terminals[sym.Name] = true
		} else {
			g.nonTerminals[sym.Name] = true
		}
	}
	if _, ok := g.productions[left]; !ok {
		g.lefts = append(g.lefts, left)
	}
	g.productions[left] = append(g.productions[left], resolved)
	return nil
}

// SetStartSymbol designates the start symbol and registers it as a nonterminal.
func (g *Grammar) SetStartSymbol(name string) error {
	if name == "" {
		return ErrEmptySymbol
	}
	if g.terminals[name] {
		return &KindConflictError{Symbol: name, Have: Terminal, Want: NonTerminal}
	}
	g.nonTerminals[name] = true
	g.start = name
	return nil
}

// StartSymbol returns the start symbol, or "" if none was set.
func (g *Grammar) StartSymbol() string {
	return g.start
}

func (g *Grammar) IsTerminal(name string) bool {
	return g.terminals[name]
}

func (g *Grammar) IsNonTerminal(name string) bool {
	return g.nonTerminals[name]
}

// Terminals returns the terminal names in sorted order.
func (g *Grammar) Terminals() []string {
	return slices.Sorted(maps.Keys(g.terminals))
}

// NonTerminals returns the nonterminal names in sorted order.
func (g *Grammar) NonTerminals() []string {
	return slices.Sorted(maps.Keys(g.nonTerminals))
}

// Lefts returns the nonterminals that have productions, in insertion order.
func (g *Grammar) Lefts() []string {
	return slices.Clone(g.lefts)
}

// Productions returns a copy of the right-hand sides of left.
func (g *Grammar) Productions(left string) []Sequence {
	prods := g.productions[left]
	if prods == nil {
		return nil
	}
	out := make([]Sequence, len(prods))
	for i, rhs := range prods {
		out[i] = rhs.Clone()
	}
	return out
}

// HasProductions reports whether left has at least one right-hand side.
func (g *Grammar) HasProductions(left string) bool {
	return len(g.productions[left]) > 0
}

// Rules returns every production in insertion order.
func (g *Grammar) Rules() []Rule {
	var rules []Rule
	for _, left := range g.lefts {
		for _, rhs := range g.productions[left] {
			rules = append(rules, Rule{Left: left, Right: rhs.Clone()})
		}
	}
	return rules
}

// NumProductions returns the total number of right-hand sides.
func (g *Grammar) NumProductions() int {
	n := 0
	for _, prods := range g.productions {
		n += len(prods)
	}
	return n
}

// IsInCNF reports whether every production is A -> a, A -> B C, or S -> ε
// for the start symbol S. A start symbol with an ε production must not occur
// on any right-hand side.
func (g *Grammar) IsInCNF() bool {
	if g.start == "" {
		return false
	}
	startHasEmpty, startOnRight := false, false
	for _, left := range g.lefts {
		for _, rhs := range g.productions[left] {
			switch len(rhs) {
			case 0:
				if left != g.start {
					return false
				}
				startHasEmpty = true
			case 1:
				if !g.terminals[rhs[0].Name] {
					return false
				}
			case 2:
				if !g.nonTerminals[rhs[0].Name] || !g.nonTerminals[rhs[1].Name] {
					return false
				}
				if rhs[0].Name == g.start || rhs[1].Name == g.start {
					startOnRight = true
				}
			default:
				return false
			}
		}
	}
	return !(startHasEmpty && startOnRight)
}

// Validate returns every structural problem of the grammar. An empty result
// means the grammar is well formed.
func (g *Grammar) Validate() []error {
	var errs []error
	if g.start == "" {
		errs = append(errs, &ValidationError{Code: NoStartSymbol})
	}
	if len(g.lefts) == 0 {
		errs = append(errs, &ValidationError{Code: NoProductions})
	}
	if g.start != "" && !g.HasProductions(g.start) {
		errs = append(errs, &ValidationError{Code: StartWithoutProductions, Symbol: g.start})
	}

	undefined := make(map[string]bool)
	for _, left := range g.lefts {
		for _, rhs := range g.productions[left] {
			for _, sym := range rhs {
				if sym.Kind == NonTerminal && !g.HasProductions(sym.Name) {
					undefined[sym.Name] = true
				}
			}
		}
	}
	for _, name := range slices.Sorted(maps.Keys(undefined)) {
		errs = append(errs, &ValidationError{Code: UndefinedNonTerminal, Symbol: name})
	}
	return errs
}

// Copy returns a deep copy of the grammar.
func (g *Grammar) Copy() *Grammar {
	c := &Grammar{
		productions:  make(map[string][]Sequence, len(g.productions)),
		lefts:        slices.Clone(g.lefts),
		terminals:    maps.Clone(g.terminals),
		nonTerminals: maps.Clone(g.nonTerminals),
		start:        g.start,
	}
	for left, prods := range g.productions {
		cp := make([]Sequence, len(prods))
		for i, rhs := range prods {
			cp[i] = rhs.Clone()
		}
		c.productions[left] = cp
	}
	return c
}

// HasEpsilonProductions reports whether any nonterminal derives ε directly.
func (g *Grammar) HasEpsilonProductions() bool {
	for _, prods := range g.productions {
		for _, rhs := range prods {
			if len(rhs) == 0 {
				return true
			}
		}
	}
	return false
}

// HasUnitProductions reports whether any production is A -> B.
func (g *Grammar) HasUnitProductions() bool {
	for _, prods := range g.productions {
		for _, rhs := range prods {
			if rhs.IsUnit() {
				return true
			}
		}
	}
	return false
}

// Stats summarizes the size of a grammar.
type Stats struct {
	NonTerminals int    `json:"nonTerminals"`
	Terminals    int    `json:"terminals"`
	Productions  int    `json:"productions"`
	WithRules    int    `json:"variablesWithProductions"`
	StartSymbol  string `json:"startSymbol"`
	IsCNF        bool   `json:"isCnf"`
}

func (g *Grammar) Stats() Stats {
	return Stats{
		NonTerminals: len(g.nonTerminals),
		Terminals:    len(g.terminals),
		Productions:  g.NumProductions(),
		WithRules:    len(g.lefts),
		StartSymbol:  g.start,
		IsCNF:        g.IsInCNF(),
	}
}
