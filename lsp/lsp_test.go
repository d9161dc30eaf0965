package lsp

import (
	"strings"
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/chomsky/cfgfile"
)

func TestDiagnostics_Clean(t *testing.T) {
	if got := Diagnostics("g.cfg", "S -> a S b | ε\n"); len(got) != 0 {
		t.Errorf("expected no diagnostics, got %+v", got)
	}
}

func TestDiagnostics_SyntaxError(t *testing.T) {
	got := Diagnostics("g.cfg", "S -> A\n\nA a\n")
	if len(got) != 1 {
		t.Fatalf("expected one diagnostic, got %+v", got)
	}
	d := got[0]
	if d.Range.Start.Line != 2 {
		t.Errorf("line = %d, want 2", d.Range.Start.Line)
	}
	if *d.Severity != protocol.DiagnosticSeverityError {
		t.Errorf("severity = %v", *d.Severity)
	}
	if strings.Contains(d.Message, "g.cfg") || !strings.Contains(d.Message, "->") {
		t.Errorf("message = %q", d.Message)
	}
}

func TestDiagnostics_UselessSymbols(t *testing.T) {
	src := `S -> A | a
A -> A b
B -> b
`
	got := Diagnostics("g.cfg", src)
	want := map[uint32]string{
		1: "A derives no string of terminals",
		2: "B is not reachable from S",
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v", got)
	}
	for _, d := range got {
		if want[d.Range.Start.Line] != d.Message {
			t.Errorf("line %d: %q", d.Range.Start.Line, d.Message)
		}
		if *d.Severity != protocol.DiagnosticSeverityWarning {
			t.Errorf("severity = %v", *d.Severity)
		}
	}
}

func TestDiagnostics_Validation(t *testing.T) {
	got := Diagnostics("g.cfg", "A -> a\n", cfgfile.WithStart("S"))
	if len(got) == 0 || !strings.Contains(got[0].Message, "S") {
		t.Errorf("expected a warning about the start symbol, got %+v", got)
	}
}

func TestDefinitionLines(t *testing.T) {
	lines := definitionLines("# c\nS -> A\nA -> a\nA -> b\n")
	if lines["S"] != 1 || lines["A"] != 2 {
		t.Errorf("unexpected lines: %v", lines)
	}
}

func TestURIToPath(t *testing.T) {
	path, err := uriToPath("file:///tmp/my%20grammar.cfg")
	if err != nil {
		t.Fatal(err)
	}
	if path != "/tmp/my grammar.cfg" {
		t.Errorf("path = %q", path)
	}
}
