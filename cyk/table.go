package cyk

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// derivation is a backpointer: either a terminal match or a split of the
// span into [i,split] and [split+1,j].
type derivation struct {
	terminal    bool
	left, right int
	split       int
}

type cell struct {
	members []int
	back    map[int]derivation
}

// put records a for this cell. The first derivation recorded wins.
func (c *cell) put(a int, d derivation) {
	if c.back == nil {
		c.back = make(map[int]derivation)
	}
	if _, ok := c.back[a]; ok {
		return
	}
	c.back[a] = d
	c.members = append(c.members, a)
}

// seal sorts the members once the cell is complete, so later reads iterate
// in name order.
func (c *cell) seal() {
	slices.Sort(c.members)
}

// Table is the recognition table of one Parse call. Only cells with i <= j
// exist.
type Table struct {
	names  []string
	tokens []string
	cells  [][]cell
}

func newTable(names, tokens []string) *Table {
	n := len(tokens)
	t := &Table{names: names, tokens: tokens, cells: make([][]cell, n)}
	for i := range t.cells {
		t.cells[i] = make([]cell, n-i)
	}
	return t
}

func (t *Table) at(i, j int) *cell {
	return &t.cells[i][j-i]
}

// Len returns the sentence length.
func (t *Table) Len() int {
	return len(t.tokens)
}

// Cell returns the nonterminals deriving tokens i..j in sorted order. It
// returns nil when i > j or the indices are out of range.
func (t *Table) Cell(i, j int) []string {
	if i < 0 || i > j || j >= len(t.tokens) {
		return nil
	}
	c := t.at(i, j)
	if len(c.members) == 0 {
		return nil
	}
	out := make([]string, len(c.members))
	for k, id := range c.members {
		out[k] = t.names[id]
	}
	return out
}

// Filled returns the number of (cell, nonterminal) entries in the table.
func (t *Table) Filled() int {
	total := 0
	for i := range t.cells {
		for j := range t.cells[i] {
			total += len(t.cells[i][j].members)
		}
	}
	return total
}

// Format writes the table as a grid: row i, column j holds the
// nonterminals deriving tokens i..j.
func (t *Table) Format(w io.Writer) error {
	n := len(t.tokens)
	text := make([][]string, n)
	width := 4
	for i := range text {
		text[i] = make([]string, n)
		for j := i; j < n; j++ {
			text[i][j] = "{" + strings.Join(t.Cell(i, j), ", ") + "}"
			width = max(width, len(text[i][j])+2)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Sentence: %s\n\n", strings.Join(t.tokens, " "))
	b.WriteString("    ")
	for j := 0; j < n; j++ {
		fmt.Fprintf(&b, "%*d", width, j)
	}
	b.WriteByte('\n')
	for i := n - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "%2d: ", i)
		for j := 0; j < n; j++ {
			fmt.Fprintf(&b, "%*s", width, text[i][j])
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// tree rebuilds the parse tree of nonterminal a over tokens i..j from the
// backpointers, using an explicit stack.
func (t *Table) tree(i, j, a int) *Node {
	type frame struct {
		node *Node
		sym  int
	}
	root := &Node{Symbol: t.names[a], Span: Span{Start: i, End: j}}
	stack := []frame{{root, a}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		span := f.node.Span
		d := t.at(span.Start, span.End).back[f.sym]
		if d.terminal {
			f.node.Children = []*Node{{
				Symbol:     t.tokens[span.Start],
				Span:       Span{Start: span.Start, End: span.Start},
				IsTerminal: true,
			}}
			continue
		}
		left := &Node{Symbol: t.names[d.left], Span: Span{Start: span.Start, End: d.split}}
		right := &Node{Symbol: t.names[d.right], Span: Span{Start: d.split + 1, End: span.End}}
		f.node.Children = []*Node{left, right}
		stack = append(stack, frame{right, d.right}, frame{left, d.left})
	}
	return root
}
