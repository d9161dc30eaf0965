package cyk

import (
	"strings"
	"time"

	"github.com/dhamidi/chomsky/grammar"
)

// Result is the outcome of one Parse call.
type Result struct {
	Tokens   []string
	Accepted bool
	// Elapsed is informational only.
	Elapsed time.Duration
	// Tree is nil unless Accepted.
	Tree          *Node
	UnknownTokens []string
	// Table is nil for an empty sentence.
	Table *Table

	parser *Parser
}

// Grammar returns the grammar the sentence was parsed with.
func (r *Result) Grammar() *grammar.Grammar {
	return r.parser.grammar
}

// ProductionUsage counts how often each production is used in the tree.
// Keys are rules written as "A -> B C" or "A -> a".
func (r *Result) ProductionUsage() map[string]int {
	usage := make(map[string]int)
	if r.Tree == nil {
		return usage
	}
	r.Tree.Walk(func(n *Node) {
		if n.IsTerminal {
			return
		}
		right := make([]string, len(n.Children))
		for i, c := range n.Children {
			right[i] = c.Symbol
		}
		usage[n.Symbol+" -> "+strings.Join(right, " ")]++
	})
	return usage
}

// Info summarizes a parse.
type Info struct {
	SentenceLength int    `json:"sentenceLength"`
	CellsFilled    int    `json:"totalCellsFilled"`
	Productions    int    `json:"grammarSize"`
	Terminals      int    `json:"terminals"`
	NonTerminals   int    `json:"nonTerminals"`
	Accepted       bool   `json:"accepted"`
	StartSymbol    string `json:"startSymbol"`
	TreeDepth      int    `json:"treeDepth"`
}

func (r *Result) Info() Info {
	g := r.parser.grammar
	info := Info{
		SentenceLength: len(r.Tokens),
		Productions:    g.NumProductions(),
		Terminals:      len(g.Terminals()),
		NonTerminals:   len(g.NonTerminals()),
		Accepted:       r.Accepted,
		StartSymbol:    g.StartSymbol(),
	}
	if r.Table != nil {
		info.CellsFilled = r.Table.Filled()
	}
	if r.Tree != nil {
		info.TreeDepth = r.Tree.Depth()
	}
	return info
}
