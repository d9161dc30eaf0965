package earley

import (
	"errors"
	"strings"
	"testing"

	"github.com/dhamidi/chomsky/cfgfile"
)

func newParser(t *testing.T, src string) *Parser {
	t.Helper()
	g, err := cfgfile.ParseString(src)
	if err != nil {
		t.Fatal(err)
	}
	return New(g)
}

func TestRecognize(t *testing.T) {
	p := newParser(t, "E -> E + T | T\nT -> T * F | F\nF -> ( E ) | id\n")
	tests := []struct {
		sentence string
		want     bool
	}{
		{"id", true},
		{"id + id * id", true},
		{"( id + id ) * id", true},
		{"id +", false},
		{"id id", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.sentence, func(t *testing.T) {
			got, err := p.Recognize(strings.Fields(tt.sentence))
			if got != tt.want {
				t.Errorf("Recognize = %v, want %v", got, tt.want)
			}
			if got != (err == nil) {
				t.Errorf("error %v does not match verdict", err)
			}
		})
	}
}

func TestRecognize_Nullable(t *testing.T) {
	p := newParser(t, "S -> A S B | c\nA -> a | ε\nB -> b | ε\n")
	for _, sentence := range []string{"c", "a c", "c b", "a a c b", "a c b b"} {
		if ok, err := p.Recognize(strings.Fields(sentence)); !ok {
			t.Errorf("%q rejected: %v", sentence, err)
		}
	}

	empty := newParser(t, "S -> a S b | ε\n")
	if ok, _ := empty.Recognize(nil); !ok {
		t.Error("empty sentence rejected")
	}
}

func TestRecognize_ParseError(t *testing.T) {
	p := newParser(t, "S -> a b c\n")

	_, err := p.Recognize([]string{"a", "x", "c"})
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if perr.Pos != 1 || perr.Token != "x" {
		t.Errorf("unexpected error: %+v", perr)
	}

	_, err = p.Recognize([]string{"a", "b"})
	if !errors.As(err, &perr) || perr.Pos != 2 || perr.Token != "" {
		t.Errorf("expected an end of input error, got %v", err)
	}
}

func TestChart(t *testing.T) {
	p := newParser(t, "S -> a B\nB -> b\n")
	chart := p.Chart([]string{"a", "b"})
	if len(chart) != 3 {
		t.Fatalf("got %d item sets, want 3", len(chart))
	}
	var items []string
	for _, it := range chart[1].Items() {
		items = append(items, it.String())
	}
	want := "[S → a • B, 0] [B → • b, 1]"
	if got := strings.Join(items, " "); got != want {
		t.Errorf("chart[1] = %s, want %s", got, want)
	}
}
