package cnf

import (
	"github.com/dhamidi/chomsky/grammar"
)

// Binarize rewrites every right-hand side longer than two into a right
// branching chain: A -> a1 Y1, Y1 -> a2 Y2, ..., Yk -> a(n-1) an. Every long
// production gets its own chain, even when suffixes coincide.
func (c *Converter) Binarize(g *grammar.Grammar) (*grammar.Grammar, error) {
	d := newDraft()
	for _, left := range g.Lefts() {
		d.touch(left)
		for _, rhs := range g.Productions(left) {
			cur, rest := left, rhs
			for len(rest) > 2 {
				next := c.newVariable(c.binaryPrefix)
				d.add(cur, grammar.Sequence{rest[0], grammar.N(next)})
				cur, rest = next, rest[1:]
			}
			d.add(cur, rest)
		}
	}
	return d.build(g, g.StartSymbol())
}

// LiftTerminals replaces each terminal t inside a two-symbol right-hand side
// with a new nonterminal that derives only t. One nonterminal is created per
// terminal.
func (c *Converter) LiftTerminals(g *grammar.Grammar) (*grammar.Grammar, error) {
	lifted := make(map[string]string)
	var order []string

	d := newDraft()
	for _, left := range g.Lefts() {
		d.touch(left)
		for _, rhs := range g.Productions(left) {
			if len(rhs) == 2 {
				for i, sym := range rhs {
					if !sym.IsTerminal() {
						continue
					}
					name, ok := lifted[sym.Name]
					if !ok {
						name = c.newVariable(c.terminalPrefix)
						lifted[sym.Name] = name
						order = append(order, sym.Name)
					}
					rhs[i] = grammar.N(name)
				}
			}
			d.add(left, rhs)
		}
	}
	for _, t := range order {
		d.add(lifted[t], grammar.Sequence{grammar.T(t)})
	}
	return d.build(g, g.StartSymbol())
}
