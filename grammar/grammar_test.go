package grammar

import (
	"errors"
	"strings"
	"testing"
)

func mustAdd(t *testing.T, g *Grammar, left string, right ...Symbol) {
	t.Helper()
	if err := g.AddProduction(left, right...); err != nil {
		t.Fatalf("AddProduction(%s): %v", left, err)
	}
}

func TestAddProduction_Unclassified(t *testing.T) {
	g := New()
	err := g.AddProduction("S", Ref("a"))

	var unclassified *UnclassifiedSymbolError
	if !errors.As(err, &unclassified) {
		t.Fatalf("expected UnclassifiedSymbolError, got %v", err)
	}
	if unclassified.Symbol != "a" || unclassified.Left != "S" {
		t.Errorf("unexpected error fields: %+v", unclassified)
	}
	if len(g.Lefts()) != 0 || g.IsNonTerminal("S") {
		t.Error("failed AddProduction must not modify the grammar")
	}
}

func TestAddProduction_ResolvesDeclared(t *testing.T) {
	g := New()
	if err := g.DeclareTerminal("a", "b"); err != nil {
		t.Fatal(err)
	}
	if err := g.DeclareNonTerminal("B"); err != nil {
		t.Fatal(err)
	}
	mustAdd(t, g, "S", Seq("a", "B", "b", "S")...)

	prods := g.Productions("S")
	if len(prods) != 1 {
		t.Fatalf("got %d productions, want 1", len(prods))
	}
	want := []Kind{Terminal, NonTerminal, Terminal, NonTerminal}
	for i, sym := range prods[0] {
		if sym.Kind != want[i] {
			t.Errorf("symbol %d (%s): got %v, want %v", i, sym.Name, sym.Kind, want[i])
		}
	}
}

func TestAddProduction_KindConflict(t *testing.T) {
	tests := []struct {
		name  string
		build func(g *Grammar) error
	}{
		{"terminal as left", func(g *Grammar) error {
			g.DeclareTerminal("a")
			return g.AddProduction("a", T("b"))
		}},
		{"nonterminal used as terminal", func(g *Grammar) error {
			g.AddProduction("A", T("x"))
			return g.AddProduction("S", T("A"))
		}},
		{"mixed kinds in one sequence", func(g *Grammar) error {
			return g.AddProduction("S", T("x"), N("x"))
		}},
		{"terminal start", func(g *Grammar) error {
			g.DeclareTerminal("a")
			return g.SetStartSymbol("a")
		}},
		{"redeclare", func(g *Grammar) error {
			g.DeclareNonTerminal("X")
			return g.DeclareTerminal("X")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build(New())
			var conflict *KindConflictError
			if !errors.As(err, &conflict) {
				t.Fatalf("expected KindConflictError, got %v", err)
			}
		})
	}
}

func TestIsInCNF(t *testing.T) {
	tests := []struct {
		name  string
		build func(g *Grammar)
		want  bool
	}{
		{"binary and terminal", func(g *Grammar) {
			g.AddProduction("S", N("A"), N("B"))
			g.AddProduction("A", T("a"))
			g.AddProduction("B", T("b"))
		}, true},
		{"start epsilon", func(g *Grammar) {
			g.AddProduction("S", N("A"), N("A"))
			g.AddProduction("S")
			g.AddProduction("A", T("a"))
		}, true},
		{"start epsilon on right side", func(g *Grammar) {
			g.AddProduction("S", N("S"), N("S"))
			g.AddProduction("S", T("a"))
			g.AddProduction("S")
		}, false},
		{"interior epsilon", func(g *Grammar) {
			g.AddProduction("S", N("A"), N("A"))
			g.AddProduction("A")
		}, false},
		{"unit production", func(g *Grammar) {
			g.AddProduction("A", T("a"))
			g.AddProduction("S", N("A"))
		}, false},
		{"mixed pair", func(g *Grammar) {
			g.AddProduction("A", T("a"))
			g.AddProduction("S", T("a"), N("A"))
		}, false},
		{"long rule", func(g *Grammar) {
			g.AddProduction("A", T("a"))
			g.AddProduction("S", N("A"), N("A"), N("A"))
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			tt.build(g)
			g.SetStartSymbol("S")
			if got := g.IsInCNF(); got != tt.want {
				t.Errorf("IsInCNF() = %v, want %v\n%s", got, tt.want, g)
			}
		})
	}

	if New().IsInCNF() {
		t.Error("grammar without start symbol must not be in CNF")
	}
}

func TestValidate(t *testing.T) {
	g := New()
	errs := g.Validate()
	codes := validationCodes(errs)
	if len(codes) != 2 || codes[0] != NoStartSymbol || codes[1] != NoProductions {
		t.Fatalf("empty grammar: got %v", errs)
	}

	g.SetStartSymbol("S")
	mustAdd(t, g, "A", N("B"), N("C"), T("x"))
	codes = validationCodes(g.Validate())
	want := []ValidationCode{StartWithoutProductions, UndefinedNonTerminal, UndefinedNonTerminal}
	if len(codes) != len(want) {
		t.Fatalf("got %v, want %v", codes, want)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("error %d: got %v, want %v", i, codes[i], want[i])
		}
	}

	ok := New()
	ok.SetStartSymbol("S")
	mustAdd(t, ok, "S", T("a"))
	if errs := ok.Validate(); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func validationCodes(errs []error) []ValidationCode {
	var codes []ValidationCode
	for _, err := range errs {
		var verr *ValidationError
		if errors.As(err, &verr) {
			codes = append(codes, verr.Code)
		}
	}
	return codes
}

func TestCopyIsDeep(t *testing.T) {
	g := New()
	g.SetStartSymbol("S")
	mustAdd(t, g, "S", T("a"), N("S"))

	c := g.Copy()
	mustAdd(t, c, "S", T("b"))
	c.DeclareTerminal("z")

	if len(g.Productions("S")) != 1 {
		t.Error("copy shares production list with original")
	}
	if g.IsTerminal("b") || g.IsTerminal("z") {
		t.Error("copy shares terminal set with original")
	}

	prods := g.Productions("S")
	prods[0][0] = T("mutated")
	if g.Productions("S")[0][0].Name != "a" {
		t.Error("Productions must return a copy")
	}
}

func TestEpsilonAndUnitQueries(t *testing.T) {
	g := New()
	mustAdd(t, g, "S", N("A"))
	if !g.HasUnitProductions() || g.HasEpsilonProductions() {
		t.Fatalf("unexpected queries on %s", g)
	}
	mustAdd(t, g, "A")
	if !g.HasEpsilonProductions() {
		t.Error("expected epsilon production")
	}
}

func TestDescribe(t *testing.T) {
	g := New()
	g.SetStartSymbol("S")
	mustAdd(t, g, "S", N("A"), T("b"))
	mustAdd(t, g, "S")
	mustAdd(t, g, "A", T("a"))

	var b strings.Builder
	if err := g.Describe(&b); err != nil {
		t.Fatal(err)
	}
	want := `Start symbol: S
Nonterminals: [A S]
Terminals: [a b]
Productions:
  A -> a
  S -> A b | ε
`
	if b.String() != want {
		t.Errorf("Describe:\ngot:\n%s\nwant:\n%s", b.String(), want)
	}

	stats := g.Stats()
	if stats.Productions != 3 || stats.NonTerminals != 2 || stats.Terminals != 2 || stats.IsCNF {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
