package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/chomsky/cyk"
)

// TextEncoder writes the verdict followed by an indented tree. Each
// nonterminal line shows its span and the words it covers.
type TextEncoder struct {
	w   io.Writer
	res *cyk.Result
}

func NewTextEncoder(w io.Writer) *TextEncoder {
	return &TextEncoder{w: w}
}

func (e *TextEncoder) Encode(res *cyk.Result) error {
	e.res = res
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TextEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	r := e.res

	verdict := "rejected"
	if r.Accepted {
		verdict = "accepted"
	}
	fmt.Fprintf(&sb, "%s: %s\n", verdict, strings.Join(r.Tokens, " "))
	if len(r.UnknownTokens) > 0 {
		fmt.Fprintf(&sb, "unknown tokens: %s\n", strings.Join(r.UnknownTokens, " "))
	}
	if r.Tree == nil {
		return []byte(sb.String()), nil
	}

	type frame struct {
		node  *cyk.Node
		depth int
	}
	stack := []frame{{r.Tree, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		indent := strings.Repeat("  ", f.depth)
		if f.node.IsTerminal {
			fmt.Fprintf(&sb, "%s%s\n", indent, f.node.Symbol)
			continue
		}
		words := r.Tokens[f.node.Span.Start : f.node.Span.End+1]
		fmt.Fprintf(&sb, "%s%s %s %q\n", indent, f.node.Symbol, f.node.Span, strings.Join(words, " "))
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.node.Children[i], f.depth + 1})
		}
	}
	return []byte(sb.String()), nil
}

// BracketEncoder writes the tree in bracketed form on a single line, or
// "rejected" when there is none.
type BracketEncoder struct {
	w   io.Writer
	res *cyk.Result
}

func NewBracketEncoder(w io.Writer) *BracketEncoder {
	return &BracketEncoder{w: w}
}

func (e *BracketEncoder) Encode(res *cyk.Result) error {
	e.res = res
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *BracketEncoder) MarshalText() ([]byte, error) {
	if e.res.Tree == nil {
		return []byte("rejected\n"), nil
	}
	return []byte(e.res.Tree.String() + "\n"), nil
}
