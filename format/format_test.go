package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dhamidi/chomsky/cfgfile"
	"github.com/dhamidi/chomsky/cnf"
	"github.com/dhamidi/chomsky/cyk"
)

func parse(t *testing.T, sentence string) *cyk.Result {
	t.Helper()
	g, err := cfgfile.ParseString("S -> A B\nA -> a\nB -> b\n")
	if err != nil {
		t.Fatal(err)
	}
	p, err := cyk.New(g)
	if err != nil {
		t.Fatal(err)
	}
	return p.Parse(strings.Fields(sentence))
}

func TestJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(parse(t, "a b")); err != nil {
		t.Fatal(err)
	}

	type node struct {
		Symbol   string  `json:"symbol"`
		Span     [2]int  `json:"span"`
		Children []*node `json:"children"`
	}
	var got struct {
		Sentence    string   `json:"sentence"`
		Accepted    bool     `json:"accepted"`
		Tree        *node    `json:"tree"`
		Info        cyk.Info `json:"info"`
		GrammarInfo struct {
			StartSymbol string `json:"start_symbol"`
			IsCNF       bool   `json:"is_cnf"`
		} `json:"grammar_info"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if got.Sentence != "a b" || !got.Accepted {
		t.Errorf("unexpected result: %+v", got)
	}
	if got.GrammarInfo.StartSymbol != "S" || !got.GrammarInfo.IsCNF {
		t.Errorf("unexpected grammar info: %+v", got.GrammarInfo)
	}
	if got.Tree == nil || got.Tree.Symbol != "S" || len(got.Tree.Children) != 2 {
		t.Fatalf("unexpected tree: %+v", got.Tree)
	}
	if got.Tree.Children[1].Span != [2]int{1, 1} {
		t.Errorf("span = %v", got.Tree.Children[1].Span)
	}
	if got.Info.TreeDepth != 3 || got.Info.CellsFilled != 3 {
		t.Errorf("unexpected info: %+v", got.Info)
	}
	if strings.Contains(buf.String(), "null") {
		t.Errorf("leaves must have an empty child list:\n%s", buf.String())
	}
}

func TestJSONEncoder_Rejected(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(parse(t, "b a")); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"tree": null`) {
		t.Errorf("rejected sentence must have a null tree:\n%s", buf.String())
	}
}

func TestTextEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextEncoder(&buf).Encode(parse(t, "a b")); err != nil {
		t.Fatal(err)
	}
	want := `accepted: a b
S [0,1] "a b"
  A [0,0] "a"
    a
  B [1,1] "b"
    b
`
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}

	buf.Reset()
	if err := NewTextEncoder(&buf).Encode(parse(t, "a c")); err != nil {
		t.Fatal(err)
	}
	if want := "rejected: a c\nunknown tokens: c\n"; buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestBracketEncoder(t *testing.T) {
	tests := []struct {
		sentence string
		want     string
	}{
		{"a b", "(S (A a) (B b))\n"},
		{"a", "rejected\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := NewBracketEncoder(&buf).Encode(parse(t, tt.sentence)); err != nil {
			t.Fatal(err)
		}
		if buf.String() != tt.want {
			t.Errorf("%q: got %q, want %q", tt.sentence, buf.String(), tt.want)
		}
	}
}

func TestLineEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewLineEncoder(&buf).Encode(parse(t, "a b")); err != nil {
		t.Fatal(err)
	}
	want := "result\ttrue\t2\ta b\n" +
		"node\tS\t0\t1\tA B\n" +
		"node\tA\t0\t0\ta\n" +
		"node\tB\t1\t1\tb\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestForName(t *testing.T) {
	for _, name := range Names {
		if _, err := ForName(name, &bytes.Buffer{}); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if _, err := ForName("xml", &bytes.Buffer{}); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestGrammarJSONEncoder(t *testing.T) {
	g, err := cfgfile.ParseString("S -> a S b | ε\n")
	if err != nil {
		t.Fatal(err)
	}
	c := cnf.NewConverter()
	out, err := c.ToCNF(g)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := NewGrammarJSONEncoder(&buf).WithStats(c.Stats()).Encode(out); err != nil {
		t.Fatal(err)
	}
	var got jsonGrammar
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if got.StartSymbol != out.StartSymbol() || len(got.Productions) != out.NumProductions() {
		t.Errorf("unexpected grammar: %+v", got)
	}
	if got.Conversion == nil || !got.Conversion.IsCNF || got.Conversion.VariablesAdded == 0 {
		t.Errorf("unexpected conversion stats: %+v", got.Conversion)
	}
	if !got.Summary.IsCNF {
		t.Error("summary must report CNF")
	}
}
