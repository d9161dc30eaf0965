package cfgfile

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/dhamidi/chomsky/grammar"
)

const arithmetic = `
# arithmetic expressions
E -> E P T | T
T -> T M F | F
F -> L E R | id
L -> (
R -> )
P -> +
M -> *
`

func TestParse(t *testing.T) {
	g, err := ParseString(arithmetic)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if g.StartSymbol() != "E" {
		t.Errorf("start symbol = %q, want E", g.StartSymbol())
	}
	if got := strings.Join(g.Terminals(), " "); got != "( ) * + id" {
		t.Errorf("terminals = %q", got)
	}
	if got := strings.Join(g.NonTerminals(), " "); got != "E F L M P R T" {
		t.Errorf("nonterminals = %q", got)
	}
	if n := g.NumProductions(); n != 10 {
		t.Errorf("got %d productions, want 10", n)
	}
	if errs := g.Validate(); len(errs) != 0 {
		t.Errorf("unexpected validation errors: %v", errs)
	}
}

func TestParse_ClassifiesByPosition(t *testing.T) {
	g, err := ParseString("s -> X s | y\n")
	if err != nil {
		t.Fatal(err)
	}
	if !g.IsNonTerminal("s") {
		t.Error("s appears on a left-hand side and must be a nonterminal")
	}
	if !g.IsTerminal("X") {
		t.Error("X never appears on a left-hand side and must be a terminal")
	}

	g, err = ParseString("S -> a B\nB -> a | S b\n")
	if err != nil {
		t.Fatal(err)
	}
	if !g.IsNonTerminal("B") {
		t.Error("B is defined on a later line and must be a nonterminal")
	}
	if got := g.Terminals(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("terminals = %v, want [a b]", got)
	}
}

func TestParse_Epsilon(t *testing.T) {
	tests := []struct {
		src  string
		opts []Option
	}{
		{"S -> a S | ε", nil},
		{"S -> a S | epsilon", nil},
		{"S -> a S | EMPTY", []Option{WithEpsilon("EMPTY")}},
		{"S -> a S |", nil},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			g, err := ParseString(tt.src, tt.opts...)
			if err != nil {
				t.Fatal(err)
			}
			prods := g.Productions("S")
			if len(prods) != 2 || len(prods[1]) != 0 {
				t.Fatalf("expected an empty second alternative, got %v", prods)
			}
			if !g.HasEpsilonProductions() {
				t.Error("HasEpsilonProductions() = false")
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"missing arrow", "S -> a\nS a b", 2},
		{"empty left side", " -> a", 1},
		{"two symbols on the left", "S T -> a", 1},
		{"epsilon with other symbols", "S -> a ε", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("test.cfg", strings.NewReader(tt.src))
			var serr *SyntaxError
			if !errors.As(err, &serr) {
				t.Fatalf("expected SyntaxError, got %v", err)
			}
			if serr.Line != tt.line {
				t.Errorf("line = %d, want %d", serr.Line, tt.line)
			}
			if !strings.HasPrefix(serr.Error(), "test.cfg:") {
				t.Errorf("error %q should name the file", serr.Error())
			}
		})
	}
}

func TestWithStart(t *testing.T) {
	g, err := ParseString("A -> a\nS -> A A", WithStart("S"))
	if err != nil {
		t.Fatal(err)
	}
	if g.StartSymbol() != "S" {
		t.Errorf("start symbol = %q, want S", g.StartSymbol())
	}

	_, err = ParseString("S -> a", WithStart("a"))
	var conflict *grammar.KindConflictError
	if !errors.As(err, &conflict) {
		t.Errorf("expected KindConflictError for a terminal start symbol, got %v", err)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	g, err := ParseString("A -> a | ε\nS -> A b A | S S\n", WithStart("S"))
	if err != nil {
		t.Fatal(err)
	}

	var b strings.Builder
	if err := Write(&b, g); err != nil {
		t.Fatal(err)
	}
	want := "S -> A b A | S S\nA -> a | ε\n"
	if b.String() != want {
		t.Fatalf("Write:\ngot:\n%s\nwant:\n%s", b.String(), want)
	}

	back, err := ParseString(b.String())
	if err != nil {
		t.Fatal(err)
	}
	if back.String() != g.String() {
		t.Errorf("round trip changed the grammar:\n%s\n%s", back, g)
	}
}
