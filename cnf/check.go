package cnf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dhamidi/chomsky/grammar"
)

// ErrConversionInvariantViolated is matched by every *InvariantError.
var ErrConversionInvariantViolated = errors.New("conversion invariant violated")

var (
	ErrNoStartSymbol = errors.New("no start symbol")
	ErrNoProductions = errors.New("no productions")
)

// InvariantError is returned by ToCNF when the converted grammar is not in
// Chomsky normal form.
type InvariantError struct {
	Problems []error
}

func (e *InvariantError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return fmt.Sprintf("%v: %s", ErrConversionInvariantViolated, strings.Join(msgs, "; "))
}

func (e *InvariantError) Unwrap() error {
	return ErrConversionInvariantViolated
}

// RuleError points at a single production that breaks Chomsky normal form.
type RuleError struct {
	Rule   grammar.Rule
	Reason string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Reason)
}

// Check lists every reason why g is not a usable CNF grammar. It returns nil
// for a grammar in Chomsky normal form with at least one production.
func Check(g *grammar.Grammar) []error {
	var problems []error
	start := g.StartSymbol()
	if start == "" {
		problems = append(problems, ErrNoStartSymbol)
	}
	rules := g.Rules()
	if len(rules) == 0 {
		problems = append(problems, ErrNoProductions)
	}

	startHasEmpty := g.HasProductions(start) && hasEmpty(g.Productions(start))
	for _, rule := range rules {
		rhs := rule.Right
		var reason string
		switch {
		case len(rhs) == 0 && rule.Left != start:
			reason = "ε production on a symbol other than the start symbol"
		case rhs.IsUnit():
			reason = "unit production"
		case len(rhs) > 2:
			reason = "right-hand side longer than two symbols"
		case len(rhs) == 2 && (rhs[0].IsTerminal() || rhs[1].IsTerminal()):
			reason = "terminal in a binary production"
		case len(rhs) == 2 && startHasEmpty && (rhs[0].Name == start || rhs[1].Name == start):
			reason = "nullable start symbol on a right-hand side"
		}
		if reason != "" {
			problems = append(problems, &RuleError{Rule: rule, Reason: reason})
		}
	}
	return problems
}

func hasEmpty(prods []grammar.Sequence) bool {
	for _, rhs := range prods {
		if len(rhs) == 0 {
			return true
		}
	}
	return false
}
