package cnf

import (
	"github.com/dhamidi/chomsky/grammar"
)

// Generating returns the symbols of g that derive some string of terminals.
// Every terminal is generating.
func Generating(g *grammar.Grammar) map[string]bool {
	generating := make(map[string]bool)
	for _, t := range g.Terminals() {
		generating[t] = true
	}
	for changed := true; changed; {
		changed = false
		for _, left := range g.Lefts() {
			if generating[left] {
				continue
			}
			for _, rhs := range g.Productions(left) {
				if allIn(rhs, generating) {
					generating[left] = true
					changed = true
					break
				}
			}
		}
	}
	return generating
}

// Reachable returns the symbols that occur in some derivation from the start
// symbol of g.
func Reachable(g *grammar.Grammar) map[string]bool {
	start := g.StartSymbol()
	reachable := map[string]bool{start: true}
	work := []string{start}
	for len(work) > 0 {
		left := work[len(work)-1]
		work = work[:len(work)-1]
		for _, rhs := range g.Productions(left) {
			for _, sym := range rhs {
				if !reachable[sym.Name] {
					reachable[sym.Name] = true
					work = append(work, sym.Name)
				}
			}
		}
	}
	return reachable
}

// EliminateUseless drops non-generating symbols first and unreachable
// symbols second. The opposite order can keep a reachable symbol whose only
// purpose was a non-generating one.
func (c *Converter) EliminateUseless(g *grammar.Grammar) (*grammar.Grammar, error) {
	generating := Generating(g)
	log.Debugf("generating: %v", nonTerminalsIn(g, generating))

	d := newDraft()
	for _, left := range g.Lefts() {
		if !generating[left] {
			continue
		}
		for _, rhs := range g.Productions(left) {
			if allIn(rhs, generating) {
				d.add(left, rhs)
			}
		}
	}
	pruned, err := d.build(g, g.StartSymbol())
	if err != nil {
		return nil, err
	}

	reachable := Reachable(pruned)
	log.Debugf("reachable: %v", nonTerminalsIn(pruned, reachable))

	final := newDraft()
	for _, left := range pruned.Lefts() {
		if !reachable[left] {
			continue
		}
		for _, rhs := range pruned.Productions(left) {
			final.add(left, rhs)
		}
	}
	c.empty = !final.has(g.StartSymbol())
	return final.build(g, g.StartSymbol())
}

func nonTerminalsIn(g *grammar.Grammar, set map[string]bool) []string {
	var names []string
	for _, name := range g.NonTerminals() {
		if set[name] {
			names = append(names, name)
		}
	}
	return names
}
