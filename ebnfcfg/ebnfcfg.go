// Package ebnfcfg turns grammars written in the EBNF dialect of
// golang.org/x/exp/ebnf into plain context-free grammars.
//
// Productions become nonterminals and quoted tokens become terminals.
// Groups, options, repetitions and character ranges are replaced by fresh
// nonterminals named after the production they occur in, for example
// Expr_grp1, Expr_opt2, Expr_rep3 or digit_rng4.
package ebnfcfg

import (
	"errors"
	"fmt"
	"os"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/chomsky/grammar"
	"github.com/tliron/commonlog"
	"golang.org/x/exp/ebnf"
)

var log = commonlog.GetLogger("chomsky.ebnfcfg")

// maxRange bounds the number of characters a single range may expand to.
const maxRange = 256

var ErrNoStart = errors.New("no start production")

// Option configures a conversion.
type Option func(*converter)

// WithLexicalTerminals keeps lexical productions (names starting with a
// lower-case letter) out of the grammar. A reference to one becomes a
// terminal named after the production.
func WithLexicalTerminals() Option {
	return func(c *converter) {
		c.lexicalTerminals = true
	}
}

// Load reads an EBNF file and converts it starting at start.
func Load(filename, start string, opts ...Option) (*grammar.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	src, err := ebnf.Parse(filename, f)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return Convert(src, start, opts...)
}

// Convert verifies src from start and translates every production reachable
// from it.
func Convert(src ebnf.Grammar, start string, opts ...Option) (*grammar.Grammar, error) {
	if start == "" {
		return nil, ErrNoStart
	}
	if err := ebnf.Verify(src, start); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}

	c := &converter{
		src:    src,
		out:    grammar.New(),
		taken:  make(map[string]bool),
		queued: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	for name := range src {
		c.taken[name] = true
	}
	return c.run(start)
}

type converter struct {
	src              ebnf.Grammar
	out              *grammar.Grammar
	lexicalTerminals bool

	taken   map[string]bool
	counter int

	queue  []string
	queued map[string]bool
}

// pending is a fresh nonterminal whose alternatives are added once the
// production that introduced it is complete.
type pending struct {
	name string
	alts []grammar.Sequence
}

func (c *converter) run(start string) (*grammar.Grammar, error) {
	if err := c.out.SetStartSymbol(start); err != nil {
		return nil, err
	}
	c.enqueue(start)

	for len(c.queue) > 0 {
		name := c.queue[0]
		c.queue = c.queue[1:]

		var extra []pending
		alts, err := c.alternatives(name, c.src[name].Expr, &extra)
		if err != nil {
			return nil, fmt.Errorf("production %s: %w", name, err)
		}
		if err := c.add(name, alts); err != nil {
			return nil, err
		}
		for _, p := range extra {
			if err := c.add(p.name, p.alts); err != nil {
				return nil, err
			}
		}
	}
	log.Debugf("converted %d productions into %d rules", len(c.queued), c.out.NumProductions())
	return c.out, nil
}

func (c *converter) enqueue(name string) {
	if !c.queued[name] {
		c.queued[name] = true
		c.queue = append(c.queue, name)
	}
}

func (c *converter) add(left string, alts []grammar.Sequence) error {
	for _, rhs := range alts {
		if err := c.out.AddProduction(left, rhs...); err != nil {
			return fmt.Errorf("add production %s: %w", grammar.Rule{Left: left, Right: rhs}, err)
		}
	}
	return nil
}

func (c *converter) fresh(owner, kind string) string {
	for {
		c.counter++
		name := fmt.Sprintf("%s_%s%d", owner, kind, c.counter)
		if !c.taken[name] {
			c.taken[name] = true
			return name
		}
	}
}

// alternatives translates expr into the right-hand sides of one nonterminal.
func (c *converter) alternatives(owner string, expr ebnf.Expression, extra *[]pending) ([]grammar.Sequence, error) {
	if alt, ok := expr.(ebnf.Alternative); ok {
		var alts []grammar.Sequence
		for _, e := range alt {
			seq, err := c.sequence(owner, e, extra)
			if err != nil {
				return nil, err
			}
			alts = append(alts, seq)
		}
		return alts, nil
	}
	seq, err := c.sequence(owner, expr, extra)
	if err != nil {
		return nil, err
	}
	return []grammar.Sequence{seq}, nil
}

func (c *converter) sequence(owner string, expr ebnf.Expression, extra *[]pending) (grammar.Sequence, error) {
	items, ok := expr.(ebnf.Sequence)
	if !ok {
		items = ebnf.Sequence{expr}
	}
	seq := grammar.Sequence{}
	for _, item := range items {
		if item == nil {
			continue
		}
		if tok, ok := item.(*ebnf.Token); ok && tok.String == "" {
			continue
		}
		sym, err := c.symbol(owner, item, extra)
		if err != nil {
			return nil, err
		}
		seq = append(seq, sym)
	}
	return seq, nil
}

func (c *converter) symbol(owner string, expr ebnf.Expression, extra *[]pending) (grammar.Symbol, error) {
	switch e := expr.(type) {
	case *ebnf.Token:
		return grammar.T(e.String), nil

	case *ebnf.Name:
		if c.lexicalTerminals && isLexical(e.String) {
			return grammar.T(e.String), nil
		}
		c.enqueue(e.String)
		return grammar.N(e.String), nil

	case *ebnf.Group:
		return c.nested(owner, "grp", e.Body, false, extra)

	case *ebnf.Option:
		return c.nested(owner, "opt", e.Body, true, extra)

	case *ebnf.Repetition:
		name := c.fresh(owner, "rep")
		alts, err := c.alternatives(owner, e.Body, extra)
		if err != nil {
			return grammar.Symbol{}, err
		}
		for i := range alts {
			alts[i] = append(alts[i], grammar.N(name))
		}
		alts = append(alts, grammar.Sequence{})
		*extra = append(*extra, pending{name: name, alts: alts})
		return grammar.N(name), nil

	case *ebnf.Range:
		return c.charRange(owner, e, extra)

	case ebnf.Alternative, ebnf.Sequence:
		return c.nested(owner, "grp", e, false, extra)

	case *ebnf.Bad:
		return grammar.Symbol{}, fmt.Errorf("bad expression: %s", e.Error)
	}
	return grammar.Symbol{}, fmt.Errorf("unsupported expression %T", expr)
}

func (c *converter) nested(owner, kind string, body ebnf.Expression, optional bool, extra *[]pending) (grammar.Symbol, error) {
	name := c.fresh(owner, kind)
	alts, err := c.alternatives(owner, body, extra)
	if err != nil {
		return grammar.Symbol{}, err
	}
	if optional {
		alts = append(alts, grammar.Sequence{})
	}
	*extra = append(*extra, pending{name: name, alts: alts})
	return grammar.N(name), nil
}

func (c *converter) charRange(owner string, r *ebnf.Range, extra *[]pending) (grammar.Symbol, error) {
	lo, hi, err := rangeBounds(r)
	if err != nil {
		return grammar.Symbol{}, err
	}
	name := c.fresh(owner, "rng")
	var alts []grammar.Sequence
	for ch := lo; ch <= hi; ch++ {
		alts = append(alts, grammar.Sequence{grammar.T(string(ch))})
	}
	*extra = append(*extra, pending{name: name, alts: alts})
	return grammar.N(name), nil
}

func rangeBounds(r *ebnf.Range) (rune, rune, error) {
	lo, n := utf8.DecodeRuneInString(r.Begin.String)
	if n == 0 || n != len(r.Begin.String) {
		return 0, 0, fmt.Errorf("range start %q is not a single character", r.Begin.String)
	}
	hi, n := utf8.DecodeRuneInString(r.End.String)
	if n == 0 || n != len(r.End.String) {
		return 0, 0, fmt.Errorf("range end %q is not a single character", r.End.String)
	}
	if hi < lo {
		return 0, 0, fmt.Errorf("empty range %q … %q", r.Begin.String, r.End.String)
	}
	if hi-lo+1 > maxRange {
		return 0, 0, fmt.Errorf("range %q … %q has more than %d characters", r.Begin.String, r.End.String, maxRange)
	}
	return lo, hi, nil
}

func isLexical(name string) bool {
	ch, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(ch)
}
