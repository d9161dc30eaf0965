// Package earley recognizes sentences of arbitrary context-free grammars
// with Earley's algorithm. It needs no normal form, which makes it a cross
// check for the CYK parser running on the converted grammar.
package earley

import (
	"fmt"
	"strings"

	"github.com/dhamidi/chomsky/cnf"
	"github.com/dhamidi/chomsky/grammar"
)

// Item is a dotted rule: the symbols before Dot have matched the tokens
// from Origin up to the chart position holding the item.
type Item struct {
	Rule   grammar.Rule
	Dot    int
	Origin int

	index int
}

func (it Item) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s →", it.Rule.Left)
	for i, sym := range it.Rule.Right {
		if i == it.Dot {
			b.WriteString(" •")
		}
		b.WriteString(" " + sym.Name)
	}
	if it.Dot == len(it.Rule.Right) {
		b.WriteString(" •")
	}
	fmt.Fprintf(&b, ", %d]", it.Origin)
	return b.String()
}

func (it Item) complete() bool {
	return it.Dot == len(it.Rule.Right)
}

func (it Item) next() (grammar.Symbol, bool) {
	if it.complete() {
		return grammar.Symbol{}, false
	}
	return it.Rule.Right[it.Dot], true
}

type itemKey struct {
	index, dot, origin int
}

// ItemSet holds the items of one chart position in insertion order.
type ItemSet struct {
	items []Item
	seen  map[itemKey]bool
}

func newItemSet() *ItemSet {
	return &ItemSet{seen: make(map[itemKey]bool)}
}

func (s *ItemSet) add(it Item) bool {
	key := itemKey{it.index, it.Dot, it.Origin}
	if s.seen[key] {
		return false
	}
	s.seen[key] = true
	s.items = append(s.items, it)
	return true
}

func (s *ItemSet) Items() []Item {
	return s.items
}

// ParseError reports the first token no item could scan.
type ParseError struct {
	Pos   int
	Token string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("parse error at token %d: unexpected end of input", e.Pos)
	}
	return fmt.Sprintf("parse error at token %d: unexpected %q", e.Pos, e.Token)
}

// Parser recognizes sentences of one grammar.
type Parser struct {
	grammar  *grammar.Grammar
	rules    []grammar.Rule
	byLeft   map[string][]int
	nullable map[string]bool
}

func New(g *grammar.Grammar) *Parser {
	p := &Parser{
		grammar:  g,
		rules:    g.Rules(),
		byLeft:   make(map[string][]int),
		nullable: cnf.Nullable(g),
	}
	for i, r := range p.rules {
		p.byLeft[r.Left] = append(p.byLeft[r.Left], i)
	}
	return p
}

// Recognize reports whether the start symbol derives tokens. A rejected
// sentence comes with a *ParseError naming where matching stopped.
func (p *Parser) Recognize(tokens []string) (bool, error) {
	chart := p.Chart(tokens)
	n := len(tokens)
	start := p.grammar.StartSymbol()
	for _, it := range chart[n].items {
		if it.Rule.Left == start && it.Origin == 0 && it.complete() {
			return true, nil
		}
	}

	furthest := 0
	for i := n; i >= 0; i-- {
		if len(chart[i].items) > 0 {
			furthest = i
			break
		}
	}
	if furthest < n {
		return false, &ParseError{Pos: furthest, Token: tokens[furthest]}
	}
	return false, &ParseError{Pos: n}
}

// Chart runs the recognizer and returns one item set per position.
func (p *Parser) Chart(tokens []string) []*ItemSet {
	n := len(tokens)
	chart := make([]*ItemSet, n+1)
	for i := range chart {
		chart[i] = newItemSet()
	}
	for _, idx := range p.byLeft[p.grammar.StartSymbol()] {
		chart[0].add(p.item(idx, 0, 0))
	}

	for i := 0; i <= n; i++ {
		// Items may be added during iteration.
		for j := 0; j < len(chart[i].items); j++ {
			it := chart[i].items[j]
			sym, ok := it.next()
			switch {
			case !ok:
				p.complete(chart, i, it)
			case sym.IsTerminal():
				if i < n && tokens[i] == sym.Name {
					chart[i+1].add(p.item(it.index, it.Dot+1, it.Origin))
				}
			default:
				for _, idx := range p.byLeft[sym.Name] {
					chart[i].add(p.item(idx, 0, i))
				}
				// Nullable symbols may also match nothing.
				if p.nullable[sym.Name] {
					chart[i].add(p.item(it.index, it.Dot+1, it.Origin))
				}
			}
		}
	}
	return chart
}

func (p *Parser) complete(chart []*ItemSet, pos int, done Item) {
	waiting := chart[done.Origin].items
	for k := 0; k < len(waiting); k++ {
		w := waiting[k]
		if sym, ok := w.next(); ok && sym.Name == done.Rule.Left && !sym.IsTerminal() {
			chart[pos].add(p.item(w.index, w.Dot+1, w.Origin))
		}
	}
}

func (p *Parser) item(index, dot, origin int) Item {
	return Item{Rule: p.rules[index], Dot: dot, Origin: origin, index: index}
}
