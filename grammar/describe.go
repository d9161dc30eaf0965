package grammar

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// Describe writes a human readable dump of the grammar: the start symbol,
// the sorted symbol sets and the productions grouped by left-hand side.
func (g *Grammar) Describe(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Start symbol: %s\n", g.start)
	fmt.Fprintf(&b, "Nonterminals: [%s]\n", strings.Join(g.NonTerminals(), " "))
	fmt.Fprintf(&b, "Terminals: [%s]\n", strings.Join(g.Terminals(), " "))
	b.WriteString("Productions:\n")
	for _, line := range g.ruleLines() {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// ruleLines renders one "A -> x y | z" line per left-hand side, sorted.
func (g *Grammar) ruleLines() []string {
	lefts := slices.Sorted(slices.Values(g.lefts))
	lines := make([]string, 0, len(lefts))
	for _, left := range lefts {
		alts := make([]string, len(g.productions[left]))
		for i, rhs := range g.productions[left] {
			alts[i] = rhs.String()
		}
		lines = append(lines, left+" -> "+strings.Join(alts, " | "))
	}
	return lines
}

func (g *Grammar) String() string {
	lines := append([]string{fmt.Sprintf("Grammar(start=%q)", g.start)}, g.ruleLines()...)
	return strings.Join(lines, "\n  ")
}
