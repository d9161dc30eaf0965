package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/chomsky/cyk"
)

// LineEncoder writes tab separated records for line oriented tools: one
// result record, then one record per nonterminal node in pre-order.
type LineEncoder struct {
	w   io.Writer
	res *cyk.Result
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(res *cyk.Result) error {
	e.res = res
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	r := e.res

	fmt.Fprintf(&sb, "result\t%t\t%d\t%s\n", r.Accepted, len(r.Tokens), strings.Join(r.Tokens, " "))
	for _, tok := range r.UnknownTokens {
		fmt.Fprintf(&sb, "unknown\t%s\n", tok)
	}
	if r.Tree == nil {
		return []byte(sb.String()), nil
	}

	r.Tree.Walk(func(n *cyk.Node) {
		if n.IsTerminal {
			return
		}
		fmt.Fprintf(&sb, "node\t%s\t%d\t%d\t%s\n",
			n.Symbol,
			n.Span.Start,
			n.Span.End,
			e.childrenStr(n),
		)
	})
	return []byte(sb.String()), nil
}

func (e *LineEncoder) childrenStr(n *cyk.Node) string {
	names := make([]string, len(n.Children))
	for i, c := range n.Children {
		names[i] = c.Symbol
	}
	return strings.Join(names, " ")
}
