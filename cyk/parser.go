// Package cyk decides membership for grammars in Chomsky normal form with the
// Cocke-Younger-Kasami algorithm and reconstructs one parse tree for accepted
// sentences.
package cyk

import (
	"errors"
	"slices"
	"time"

	"github.com/dhamidi/chomsky/grammar"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("chomsky.cyk")

// ErrNotCNF is returned by New for grammars that are not in Chomsky normal form.
var ErrNotCNF = errors.New("grammar is not in Chomsky normal form")

// pair is an ordered pair of nonterminal ids.
type pair struct {
	left, right int
}

// Parser recognizes sentences of one CNF grammar. Its indices are read-only
// after New, so sequential Parse calls share them safely.
type Parser struct {
	grammar *grammar.Grammar

	// Nonterminals are numbered in sorted name order, so comparing ids
	// compares names.
	names []string
	ids   map[string]int
	start int

	terminalProducers map[string][]int
	binaryProducers   map[pair][]int
	acceptsEmpty      bool
}

// New builds a parser for g. g must be in Chomsky normal form.
func New(g *grammar.Grammar) (*Parser, error) {
	if !g.IsInCNF() {
		return nil, ErrNotCNF
	}

	p := &Parser{
		grammar:           g,
		names:             g.NonTerminals(),
		ids:               make(map[string]int),
		terminalProducers: make(map[string][]int),
		binaryProducers:   make(map[pair][]int),
	}
	for id, name := range p.names {
		p.ids[name] = id
	}
	p.start = p.ids[g.StartSymbol()]

	for _, rule := range g.Rules() {
		left := p.ids[rule.Left]
		switch len(rule.Right) {
		case 0:
			p.acceptsEmpty = true
		case 1:
			t := rule.Right[0].Name
			p.terminalProducers[t] = insertSorted(p.terminalProducers[t], left)
		case 2:
			key := pair{p.ids[rule.Right[0].Name], p.ids[rule.Right[1].Name]}
			p.binaryProducers[key] = insertSorted(p.binaryProducers[key], left)
		}
	}
	return p, nil
}

func insertSorted(ids []int, id int) []int {
	i, found := slices.BinarySearch(ids, id)
	if found {
		return ids
	}
	return slices.Insert(ids, i, id)
}

// Grammar returns the grammar the parser was built for.
func (p *Parser) Grammar() *grammar.Grammar {
	return p.grammar
}

// AcceptsEmpty reports whether the start symbol derives the empty sentence.
// Parse never accepts an empty sentence; callers that need the empty case
// ask here.
func (p *Parser) AcceptsEmpty() bool {
	return p.acceptsEmpty
}

// Parse runs the recognizer on tokens. Tokens that are not terminals of the
// grammar are reported in the result and cannot seed any cell. When several
// derivations exist, the one with the smallest split point, then the
// smallest left and right nonterminal names, is kept.
func (p *Parser) Parse(tokens []string) *Result {
	begin := time.Now()
	res := &Result{Tokens: slices.Clone(tokens), parser: p}
	if len(tokens) == 0 {
		res.Elapsed = time.Since(begin)
		return res
	}

	for _, tok := range tokens {
		if !p.grammar.IsTerminal(tok) && !slices.Contains(res.UnknownTokens, tok) {
			res.UnknownTokens = append(res.UnknownTokens, tok)
		}
	}
	if len(res.UnknownTokens) > 0 {
		log.Warningf("unknown tokens: %v", res.UnknownTokens)
	}

	t := newTable(p.names, tokens)
	p.fillDiagonal(t)
	p.fillInterior(t)
	res.Table = t

	n := len(tokens)
	if _, ok := t.at(0, n-1).back[p.start]; ok {
		res.Accepted = true
		res.Tree = t.tree(0, n-1, p.start)
	}
	res.Elapsed = time.Since(begin)
	log.Debugf("parsed %d tokens in %s: accepted=%t", n, res.Elapsed, res.Accepted)
	return res
}

func (p *Parser) fillDiagonal(t *Table) {
	for i, tok := range t.tokens {
		c := t.at(i, i)
		for _, a := range p.terminalProducers[tok] {
			c.put(a, derivation{terminal: true, split: i})
		}
		c.seal()
	}
}

func (p *Parser) fillInterior(t *Table) {
	n := len(t.tokens)
	for length := 2; length <= n; length++ {
		for i := 0; i+length-1 < n; i++ {
			j := i + length - 1
			c := t.at(i, j)
			for k := i; k < j; k++ {
				left, right := t.at(i, k), t.at(k+1, j)
				for _, b := range left.members {
					for _, d := range right.members {
						for _, a := range p.binaryProducers[pair{b, d}] {
							c.put(a, derivation{left: b, right: d, split: k})
						}
					}
				}
			}
			c.seal()
		}
	}
}
