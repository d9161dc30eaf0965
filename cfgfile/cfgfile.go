// Package cfgfile reads and writes grammars in the line format
//
//	LHS -> A b C | d | ε
//
// Alternatives are separated by "|", symbols by whitespace. Every symbol that
// appears on the left of some rule is a nonterminal, every other symbol is a
// terminal. The left side of the first rule is the start symbol unless
// WithStart says otherwise. Blank lines and lines starting with "#" are
// ignored.
package cfgfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/dhamidi/chomsky/grammar"
	"github.com/pkg/errors"
)

const (
	arrow       = "->"
	alternative = "|"
	comment     = "#"
)

// SyntaxError reports a malformed line.
type SyntaxError struct {
	Filename string
	Line     int
	Msg      string
}

func (e *SyntaxError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("%s:%d: %s", e.Filename, e.Line, e.Msg)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Option configures parsing.
type Option func(*reader)

// WithStart sets the start symbol instead of the first left-hand side.
func WithStart(name string) Option {
	return func(r *reader) {
		r.start = name
	}
}

// WithEpsilon sets the spellings of the empty right-hand side. The defaults
// are "ε" and "epsilon".
func WithEpsilon(names ...string) Option {
	return func(r *reader) {
		r.epsilon = names
	}
}

type rule struct {
	line  int
	left  string
	right [][]string
}

type reader struct {
	filename string
	start    string
	epsilon  []string
	rules    []rule
}

// Load reads a grammar file from disk.
func Load(filename string, opts ...Option) (*grammar.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "open grammar")
	}
	defer f.Close()
	return Parse(filename, f, opts...)
}

// ParseString parses a grammar held in a string.
func ParseString(src string, opts ...Option) (*grammar.Grammar, error) {
	return Parse("", strings.NewReader(src), opts...)
}

// Parse reads a grammar from r. filename is only used in error messages.
func Parse(filename string, r io.Reader, opts ...Option) (*grammar.Grammar, error) {
	rd := &reader{
		filename: filename,
		epsilon:  []string{grammar.Epsilon, "epsilon"},
	}
	for _, opt := range opts {
		opt(rd)
	}
	if err := rd.scan(r); err != nil {
		return nil, err
	}
	return rd.build()
}

func (rd *reader) errorf(line int, format string, args ...any) error {
	return &SyntaxError{Filename: rd.filename, Line: line, Msg: fmt.Sprintf(format, args...)}
}

func (rd *reader) scan(r io.Reader) error {
	sc := bufio.NewScanner(r)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, comment) {
			continue
		}
		left, right, ok := strings.Cut(line, arrow)
		if !ok {
			return rd.errorf(lineno, "missing %q in %q", arrow, line)
		}
		lhs := strings.Fields(left)
		switch len(lhs) {
		case 0:
			return rd.errorf(lineno, "missing left-hand side")
		case 1:
		default:
			return rd.errorf(lineno, "left-hand side %q must be a single symbol", strings.TrimSpace(left))
		}

		ru := rule{line: lineno, left: lhs[0]}
		for _, alt := range strings.Split(right, alternative) {
			symbols := strings.Fields(alt)
			if len(symbols) == 1 && slices.Contains(rd.epsilon, symbols[0]) {
				symbols = nil
			}
			for _, sym := range symbols {
				if slices.Contains(rd.epsilon, sym) {
					return rd.errorf(lineno, "%s must stand alone in an alternative", sym)
				}
			}
			ru.right = append(ru.right, symbols)
		}
		rd.rules = append(rd.rules, ru)
	}
	if err := sc.Err(); err != nil {
		return errors.Wrapf(err, "read %s", rd.filename)
	}
	return nil
}

func (rd *reader) build() (*grammar.Grammar, error) {
	g := grammar.New()
	for _, ru := range rd.rules {
		if err := g.DeclareNonTerminal(ru.left); err != nil {
			return nil, errors.Wrapf(err, "line %d", ru.line)
		}
	}
	for _, ru := range rd.rules {
		for _, alt := range ru.right {
			for _, sym := range alt {
				if g.IsNonTerminal(sym) {
					continue
				}
				if err := g.DeclareTerminal(sym); err != nil {
					return nil, errors.Wrapf(err, "line %d", ru.line)
				}
			}
		}
	}

	start := rd.start
	if start == "" && len(rd.rules) > 0 {
		start = rd.rules[0].left
	}
	if start != "" {
		if err := g.SetStartSymbol(start); err != nil {
			return nil, errors.Wrap(err, "start symbol")
		}
	}

	for _, ru := range rd.rules {
		for _, alt := range ru.right {
			if err := g.AddProduction(ru.left, grammar.Seq(alt...)...); err != nil {
				return nil, errors.Wrapf(err, "line %d", ru.line)
			}
		}
	}
	return g, nil
}

// Write writes g in the line format, one line per left-hand side. The start
// symbol's line comes first so that reading the output back yields the same
// start symbol.
func Write(w io.Writer, g *grammar.Grammar) error {
	lefts := g.Lefts()
	start := g.StartSymbol()
	if i := slices.Index(lefts, start); i > 0 {
		lefts = append([]string{start}, slices.Delete(lefts, i, i+1)...)
	}

	bw := bufio.NewWriter(w)
	for _, left := range lefts {
		prods := g.Productions(left)
		alts := make([]string, len(prods))
		for i, rhs := range prods {
			alts[i] = rhs.String()
		}
		fmt.Fprintf(bw, "%s %s %s\n", left, arrow, strings.Join(alts, " "+alternative+" "))
	}
	return bw.Flush()
}
