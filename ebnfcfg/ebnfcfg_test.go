package ebnfcfg

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/chomsky/cnf"
	"github.com/dhamidi/chomsky/cyk"
	"github.com/dhamidi/chomsky/grammar"
)

func parseEBNF(t *testing.T, src string) ebnf.Grammar {
	t.Helper()
	g, err := ebnf.Parse("test.ebnf", strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse ebnf: %v", err)
	}
	return g
}

func rules(g *grammar.Grammar) []string {
	var out []string
	for _, r := range g.Rules() {
		out = append(out, r.String())
	}
	return out
}

const expressions = `
Expr = Term { ( "+" | "-" ) Term } .
Term = "x" | "(" Expr ")" .
`

func TestConvert(t *testing.T) {
	g, err := Convert(parseEBNF(t, expressions), "Expr")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"Expr -> Term Expr_rep1",
		"Expr_grp2 -> +",
		"Expr_grp2 -> -",
		"Expr_rep1 -> Expr_grp2 Term Expr_rep1",
		"Expr_rep1 -> ε",
		"Term -> x",
		"Term -> ( Expr )",
	}
	if got := rules(g); !slices.Equal(got, want) {
		t.Errorf("rules:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
	if g.StartSymbol() != "Expr" {
		t.Errorf("start symbol = %q", g.StartSymbol())
	}

	out, err := cnf.ToCNF(g)
	if err != nil {
		t.Fatal(err)
	}
	p, err := cyk.New(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, tt := range []struct {
		sentence string
		want     bool
	}{
		{"x", true},
		{"x + ( x - x )", true},
		{"( x ) - x + x", true},
		{"x +", false},
		{"( x", false},
	} {
		if got := p.Parse(strings.Fields(tt.sentence)).Accepted; got != tt.want {
			t.Errorf("%q: accepted = %v, want %v", tt.sentence, got, tt.want)
		}
	}
}

const numbers = `
Number = [ "-" ] digit { digit } .
digit = "0" … "9" .
`

func TestConvert_OptionsAndRanges(t *testing.T) {
	g, err := Convert(parseEBNF(t, numbers), "Number")
	if err != nil {
		t.Fatal(err)
	}
	got := rules(g)
	if got[0] != "Number -> Number_opt1 digit Number_rep2" {
		t.Errorf("first rule = %q", got[0])
	}
	if prods := g.Productions("digit_rng3"); len(prods) != 10 {
		t.Errorf("range expanded to %d alternatives, want 10", len(prods))
	}
	if prods := g.Productions("Number_opt1"); len(prods) != 2 || len(prods[1]) != 0 {
		t.Errorf("option must allow ε: %v", prods)
	}
}

func TestConvert_LexicalTerminals(t *testing.T) {
	g, err := Convert(parseEBNF(t, numbers), "Number", WithLexicalTerminals())
	if err != nil {
		t.Fatal(err)
	}
	if !g.IsTerminal("digit") {
		t.Error("digit must be a terminal")
	}
	if g.HasProductions("digit") {
		t.Error("lexical production must not be converted")
	}
	if got := strings.Join(g.Terminals(), " "); got != "- digit" {
		t.Errorf("terminals = %q", got)
	}
}

func TestConvert_EmptyAlternative(t *testing.T) {
	g, err := Convert(parseEBNF(t, `S = [ "a" S "b" ] .`), "S")
	if err != nil {
		t.Fatal(err)
	}
	out, err := cnf.ToCNF(g)
	if err != nil {
		t.Fatal(err)
	}
	p, err := cyk.New(out)
	if err != nil {
		t.Fatal(err)
	}
	if !p.AcceptsEmpty() {
		t.Error("empty sentence must be accepted")
	}
	if !p.Parse([]string{"a", "a", "b", "b"}).Accepted {
		t.Error("a a b b must be accepted")
	}
	if p.Parse([]string{"a", "b", "b"}).Accepted {
		t.Error("a b b must be rejected")
	}
}

func TestConvert_Errors(t *testing.T) {
	src := parseEBNF(t, `S = A .`)
	if _, err := Convert(src, ""); !errors.Is(err, ErrNoStart) {
		t.Errorf("expected ErrNoStart, got %v", err)
	}
	if _, err := Convert(src, "S"); err == nil || !strings.HasPrefix(err.Error(), "verify grammar:") {
		t.Errorf("expected a verification error, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expr.ebnf")
	if err := os.WriteFile(path, []byte(expressions), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := Load(path, "Expr")
	if err != nil {
		t.Fatal(err)
	}
	if g.NumProductions() != 7 {
		t.Errorf("got %d productions, want 7", g.NumProductions())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.ebnf"), "Expr"); err == nil {
		t.Error("expected an error for a missing file")
	}
}
