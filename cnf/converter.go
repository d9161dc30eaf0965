// Package cnf converts context-free grammars to Chomsky normal form.
//
// The conversion is a fixed pipeline: epsilon elimination, unit elimination,
// useless-symbol elimination, binarization and finally terminal lifting. Each
// stage reads one grammar and builds a new one; the input is never modified.
package cnf

import (
	"fmt"
	"maps"
	"slices"

	"github.com/dhamidi/chomsky/grammar"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("chomsky.cnf")

// Option configures a Converter.
type Option func(*Converter)

// WithStartPrefix sets the prefix of the fresh start symbol introduced when
// the start symbol is nullable.
func WithStartPrefix(prefix string) Option {
	return func(c *Converter) {
		c.startPrefix = prefix
	}
}

// WithBinaryPrefix sets the prefix of the intermediate nonterminals created
// by binarization.
func WithBinaryPrefix(prefix string) Option {
	return func(c *Converter) {
		c.binaryPrefix = prefix
	}
}

// WithTerminalPrefix sets the prefix of the nonterminals created by terminal
// lifting.
func WithTerminalPrefix(prefix string) Option {
	return func(c *Converter) {
		c.terminalPrefix = prefix
	}
}

// WithTerminalLifting enables or disables the terminal lifting stage.
func WithTerminalLifting(enabled bool) Option {
	return func(c *Converter) {
		c.liftTerminals = enabled
	}
}

// Converter runs the normalization pipeline. It owns the fresh-variable
// counter, so names are unique within one run. A Converter is not safe for
// concurrent use.
type Converter struct {
	startPrefix    string
	binaryPrefix   string
	terminalPrefix string
	liftTerminals  bool

	counter int
	used    map[string]bool
	fresh   []string

	original *grammar.Grammar
	result   *grammar.Grammar
	empty    bool
}

// NewConverter creates a converter with the given options.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		startPrefix:    "S",
		binaryPrefix:   "Y",
		terminalPrefix: "T",
		liftTerminals:  true,
		used:           make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ToCNF converts g with a new default converter.
func ToCNF(g *grammar.Grammar, opts ...Option) (*grammar.Grammar, error) {
	return NewConverter(opts...).ToCNF(g)
}

type stage struct {
	name string
	run  func(*grammar.Grammar) (*grammar.Grammar, error)
}

// ToCNF runs every stage in order and returns an equivalent grammar in
// Chomsky normal form. If the result violates the CNF invariant an
// *InvariantError is returned.
func (c *Converter) ToCNF(g *grammar.Grammar) (*grammar.Grammar, error) {
	if g.StartSymbol() == "" {
		return nil, &grammar.ValidationError{Code: grammar.NoStartSymbol}
	}
	c.counter, c.fresh, c.empty, c.result = 0, nil, false, nil
	c.used = make(map[string]bool)
	c.original = g.Copy()
	c.reserve(g)

	stages := []stage{
		{"epsilon elimination", c.EliminateEpsilon},
		{"unit elimination", c.EliminateUnit},
		{"useless symbol elimination", c.EliminateUseless},
		{"binarization", c.Binarize},
	}
	if c.liftTerminals {
		stages = append(stages, stage{"terminal lifting", c.LiftTerminals})
	}

	cur := g
	for _, st := range stages {
		next, err := st.run(cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", st.name, err)
		}
		log.Debugf("after %s: %d nonterminals, %d productions", st.name, len(next.NonTerminals()), next.NumProductions())
		cur = next
	}
	c.result = cur

	if !cur.IsInCNF() {
		return nil, &InvariantError{Problems: Check(cur)}
	}
	if c.empty {
		log.Warningf("start symbol %s derives no string, the language is empty", cur.StartSymbol())
	}
	return cur, nil
}

// reserve marks every symbol name of g as taken for fresh variables.
func (c *Converter) reserve(g *grammar.Grammar) {
	for _, name := range g.Terminals() {
		c.used[name] = true
	}
	for _, name := range g.NonTerminals() {
		c.used[name] = true
	}
}

// newVariable returns a name built from prefix and the run's counter that
// is not yet used by any symbol.
func (c *Converter) newVariable(prefix string) string {
	for {
		name := fmt.Sprintf("%s%d", prefix, c.counter)
		c.counter++
		if !c.used[name] {
			c.used[name] = true
			c.fresh = append(c.fresh, name)
			log.Debugf("new variable %s", name)
			return name
		}
	}
}

// Stats describes the last conversion.
type Stats struct {
	OriginalVariables   int      `json:"originalVariables"`
	FinalVariables      int      `json:"finalVariables"`
	OriginalProductions int      `json:"originalProductions"`
	FinalProductions    int      `json:"finalProductions"`
	OriginalTerminals   int      `json:"originalTerminals"`
	FinalTerminals      int      `json:"finalTerminals"`
	VariablesAdded      int      `json:"variablesAdded"`
	ProductionsAdded    int      `json:"productionsAdded"`
	FreshVariables      []string `json:"freshVariables,omitempty"`
	IsCNF               bool     `json:"isCnf"`
	EmptyLanguage       bool     `json:"emptyLanguage"`
}

// Stats returns statistics about the last ToCNF run. It is the zero value
// before the first run.
func (c *Converter) Stats() Stats {
	if c.original == nil || c.result == nil {
		return Stats{}
	}
	before, after := c.original.Stats(), c.result.Stats()
	return Stats{
		OriginalVariables:   before.NonTerminals,
		FinalVariables:      after.NonTerminals,
		OriginalProductions: before.Productions,
		FinalProductions:    after.Productions,
		OriginalTerminals:   before.Terminals,
		FinalTerminals:      after.Terminals,
		VariablesAdded:      after.NonTerminals - before.NonTerminals,
		ProductionsAdded:    after.Productions - before.Productions,
		FreshVariables:      slices.Clone(c.fresh),
		IsCNF:               after.IsCNF,
		EmptyLanguage:       c.empty,
	}
}

// Original returns the copy of the input grammar taken by the last ToCNF run.
func (c *Converter) Original() *grammar.Grammar {
	return c.original
}

// draft collects productions while a stage rewrites a grammar.
type draft struct {
	lefts []string
	prods map[string][]grammar.Sequence
	seen  map[string]map[string]bool
}

func newDraft() *draft {
	return &draft{
		prods: make(map[string][]grammar.Sequence),
		seen:  make(map[string]map[string]bool),
	}
}

// touch registers left so it keeps its position even without productions.
func (d *draft) touch(left string) {
	if _, ok := d.seen[left]; !ok {
		d.seen[left] = make(map[string]bool)
		d.lefts = append(d.lefts, left)
	}
}

// add appends rhs to left unless an equal sequence is already there.
func (d *draft) add(left string, rhs grammar.Sequence) bool {
	d.touch(left)
	key := rhs.Key()
	if len(rhs) == 0 {
		key = "\x01"
	}
	if d.seen[left][key] {
		return false
	}
	d.seen[left][key] = true
	d.prods[left] = append(d.prods[left], rhs.Clone())
	return true
}

func (d *draft) has(left string) bool {
	return len(d.prods[left]) > 0
}

// build turns the draft into a grammar that keeps the terminals of src.
func (d *draft) build(src *grammar.Grammar, start string) (*grammar.Grammar, error) {
	g := grammar.New()
	if err := g.DeclareTerminal(src.Terminals()...); err != nil {
		return nil, err
	}
	if start != "" {
		if err := g.SetStartSymbol(start); err != nil {
			return nil, err
		}
	}
	for _, left := range d.lefts {
		for _, rhs := range d.prods[left] {
			if err := g.AddProduction(left, rhs...); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

func sortedKeys(set map[string]bool) []string {
	return slices.Sorted(maps.Keys(set))
}
