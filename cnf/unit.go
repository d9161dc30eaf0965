package cnf

import (
	"github.com/dhamidi/chomsky/grammar"
	"github.com/tliron/commonlog"
)

// UnitPairs returns the transitive closure of the unit relation: B is in
// UnitPairs(g)[A] iff A derives B through unit productions only.
func UnitPairs(g *grammar.Grammar) map[string]map[string]bool {
	pairs := make(map[string]map[string]bool)
	for _, rule := range g.Rules() {
		if rule.Right.IsUnit() {
			addPair(pairs, rule.Left, rule.Right[0].Name)
		}
	}

	for changed := true; changed; {
		changed = false
		var found [][2]string
		for _, a := range sortedKeys(setOfKeys(pairs)) {
			for _, b := range sortedKeys(pairs[a]) {
				for _, c := range sortedKeys(pairs[b]) {
					if !pairs[a][c] {
						found = append(found, [2]string{a, c})
					}
				}
			}
		}
		for _, p := range found {
			if addPair(pairs, p[0], p[1]) {
				changed = true
			}
		}
	}
	return pairs
}

func addPair(pairs map[string]map[string]bool, a, b string) bool {
	if pairs[a] == nil {
		pairs[a] = make(map[string]bool)
	}
	if pairs[a][b] {
		return false
	}
	pairs[a][b] = true
	return true
}

func setOfKeys[V any](m map[string]V) map[string]bool {
	set := make(map[string]bool, len(m))
	for k := range m {
		set[k] = true
	}
	return set
}

// EliminateUnit removes every unit production A -> B. A receives the
// non-unit productions of every B it reaches through unit productions.
func (c *Converter) EliminateUnit(g *grammar.Grammar) (*grammar.Grammar, error) {
	pairs := UnitPairs(g)
	if log.AllowLevel(commonlog.Debug) {
		for _, a := range sortedKeys(setOfKeys(pairs)) {
			log.Debugf("unit pairs %s: %v", a, sortedKeys(pairs[a]))
		}
	}

	d := newDraft()
	for _, left := range g.Lefts() {
		d.touch(left)
		for _, rhs := range g.Productions(left) {
			if !rhs.IsUnit() {
				d.add(left, rhs)
			}
		}
		for _, b := range sortedKeys(pairs[left]) {
			for _, rhs := range g.Productions(b) {
				if !rhs.IsUnit() {
					d.add(left, rhs)
				}
			}
		}
	}
	return d.build(g, g.StartSymbol())
}
