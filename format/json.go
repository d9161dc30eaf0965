package format

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/dhamidi/chomsky/cyk"
)

type JSONEncoder struct {
	w   io.Writer
	res *cyk.Result
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(res *cyk.Result) error {
	e.res = res
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	if _, err := e.w.Write(text); err != nil {
		return err
	}
	_, err = io.WriteString(e.w, "\n")
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(e.buildResultData(), "", "  ")
}

type jsonResult struct {
	Sentence      string          `json:"sentence"`
	Accepted      bool            `json:"accepted"`
	Tree          *jsonNode       `json:"tree"`
	UnknownTokens []string        `json:"unknownTokens,omitempty"`
	Info          cyk.Info        `json:"info"`
	GrammarInfo   jsonGrammarInfo `json:"grammar_info"`
}

type jsonGrammarInfo struct {
	StartSymbol string `json:"start_symbol"`
	IsCNF       bool   `json:"is_cnf"`
}

type jsonNode struct {
	Symbol     string      `json:"symbol"`
	Span       cyk.Span    `json:"span"`
	IsTerminal bool        `json:"isTerminal"`
	Children   []*jsonNode `json:"children"`
}

func (e *JSONEncoder) buildResultData() jsonResult {
	r := e.res
	g := r.Grammar()
	data := jsonResult{
		Sentence:      strings.Join(r.Tokens, " "),
		Accepted:      r.Accepted,
		UnknownTokens: r.UnknownTokens,
		Info:          r.Info(),
		GrammarInfo: jsonGrammarInfo{
			StartSymbol: g.StartSymbol(),
			IsCNF:       g.IsInCNF(),
		},
	}
	if r.Tree != nil {
		data.Tree = nodeToJSON(r.Tree)
	}
	return data
}

// nodeToJSON copies a tree. Leaves get an empty, non-nil child list.
func nodeToJSON(root *cyk.Node) *jsonNode {
	type frame struct {
		src *cyk.Node
		dst *jsonNode
	}
	top := &jsonNode{}
	stack := []frame{{root, top}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		f.dst.Symbol = f.src.Symbol
		f.dst.Span = f.src.Span
		f.dst.IsTerminal = f.src.IsTerminal
		f.dst.Children = make([]*jsonNode, len(f.src.Children))
		for i, c := range f.src.Children {
			f.dst.Children[i] = &jsonNode{}
			stack = append(stack, frame{c, f.dst.Children[i]})
		}
	}
	return top
}
