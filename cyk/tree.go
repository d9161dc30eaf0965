package cyk

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Span is an inclusive range of token indices.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int {
	return s.End - s.Start + 1
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d]", s.Start, s.End)
}

// MarshalJSON encodes the span as [start,end].
func (s Span) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{s.Start, s.End})
}

// Node is a parse tree node. Leaves are terminals matching one token;
// interior nodes have one terminal child or two nonterminal children. A tree
// shares nothing with the table it was built from.
type Node struct {
	Symbol     string  `json:"symbol"`
	Span       Span    `json:"span"`
	IsTerminal bool    `json:"isTerminal"`
	Children   []*Node `json:"children"`
}

// Walk calls fn for n and every descendant in pre-order.
func (n *Node) Walk(fn func(*Node)) {
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(cur)
		for i := len(cur.Children) - 1; i >= 0; i-- {
			stack = append(stack, cur.Children[i])
		}
	}
}

// Leaves returns the matched tokens in order.
func (n *Node) Leaves() []string {
	var leaves []string
	n.Walk(func(c *Node) {
		if c.IsTerminal {
			leaves = append(leaves, c.Symbol)
		}
	})
	return leaves
}

// Depth returns the number of nodes on the longest root-to-leaf path.
func (n *Node) Depth() int {
	type frame struct {
		node  *Node
		depth int
	}
	deepest := 0
	stack := []frame{{n, 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		deepest = max(deepest, f.depth)
		for _, c := range f.node.Children {
			stack = append(stack, frame{c, f.depth + 1})
		}
	}
	return deepest
}

// String renders the tree in bracketed form, e.g. (S (A a) (B b)).
func (n *Node) String() string {
	var b strings.Builder
	n.bracket(&b)
	return b.String()
}

func (n *Node) bracket(b *strings.Builder) {
	if len(n.Children) == 0 {
		b.WriteString(n.Symbol)
		return
	}
	b.WriteByte('(')
	b.WriteString(n.Symbol)
	for _, c := range n.Children {
		b.WriteByte(' ')
		c.bracket(b)
	}
	b.WriteByte(')')
}
