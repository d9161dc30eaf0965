package cnf

import (
	"fmt"

	"github.com/dhamidi/chomsky/grammar"
)

// maxNullableSymbols bounds the number of nullable symbols in a single
// right-hand side; epsilon elimination enumerates 2^n variants of it.
const maxNullableSymbols = 24

// Nullable returns the nonterminals of g that derive the empty string.
func Nullable(g *grammar.Grammar) map[string]bool {
	nullable := make(map[string]bool)
	for changed := true; changed; {
		changed = false
		for _, left := range g.Lefts() {
			if nullable[left] {
				continue
			}
			for _, rhs := range g.Productions(left) {
				if allIn(rhs, nullable) {
					nullable[left] = true
					changed = true
					break
				}
			}
		}
	}
	return nullable
}

// allIn reports whether every symbol of rhs is in set. It is true for ε.
func allIn(rhs grammar.Sequence, set map[string]bool) bool {
	for _, sym := range rhs {
		if !set[sym.Name] {
			return false
		}
	}
	return true
}

// EliminateEpsilon removes every ε production. Each right-hand side is
// replaced by all its variants with nullable symbols left out. If the start
// symbol is nullable the empty string stays derivable through an ε production
// on the start symbol, which is renamed first when it occurs on a right-hand
// side.
func (c *Converter) EliminateEpsilon(g *grammar.Grammar) (*grammar.Grammar, error) {
	nullable := Nullable(g)
	log.Debugf("nullable: %v", sortedKeys(nullable))

	start := g.StartSymbol()
	startNullable := nullable[start]
	keepStart := startNullable && !onRight(g, start)

	d := newDraft()
	for _, left := range g.Lefts() {
		d.touch(left)
		for _, rhs := range g.Productions(left) {
			if len(rhs) == 0 {
				if keepStart && left == start {
					d.add(left, rhs)
				}
				continue
			}
			variants, err := withoutNullable(rhs, nullable)
			if err != nil {
				return nil, fmt.Errorf("production %s: %w", grammar.Rule{Left: left, Right: rhs}, err)
			}
			for _, v := range variants {
				d.add(left, v)
			}
		}
	}

	switch {
	case keepStart:
		d.add(start, grammar.Sequence{})
	case startNullable:
		newStart := c.newVariable(c.startPrefix)
		d.add(newStart, grammar.Sequence{grammar.N(start)})
		d.add(newStart, grammar.Sequence{})
		start = newStart
	}
	return d.build(g, start)
}

// withoutNullable returns every non-empty variant of rhs that keeps each
// non-nullable symbol and keeps or drops each nullable one. The full
// sequence comes first.
func withoutNullable(rhs grammar.Sequence, nullable map[string]bool) ([]grammar.Sequence, error) {
	var positions []int
	for i, sym := range rhs {
		if nullable[sym.Name] {
			positions = append(positions, i)
		}
	}
	if len(positions) > maxNullableSymbols {
		return nil, fmt.Errorf("%d nullable symbols in one right-hand side, at most %d supported", len(positions), maxNullableSymbols)
	}

	var variants []grammar.Sequence
	for mask := (1 << len(positions)) - 1; mask >= 0; mask-- {
		drop := make(map[int]bool, len(positions))
		for bit, pos := range positions {
			if mask&(1<<bit) == 0 {
				drop[pos] = true
			}
		}
		v := make(grammar.Sequence, 0, len(rhs)-len(drop))
		for i, sym := range rhs {
			if !drop[i] {
				v = append(v, sym)
			}
		}
		if len(v) > 0 {
			variants = append(variants, v)
		}
	}
	return variants, nil
}

// onRight reports whether name occurs in any right-hand side of g.
func onRight(g *grammar.Grammar, name string) bool {
	for _, rule := range g.Rules() {
		for _, sym := range rule.Right {
			if sym.Name == name {
				return true
			}
		}
	}
	return false
}
