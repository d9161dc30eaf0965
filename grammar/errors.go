package grammar

import (
	"errors"
	"fmt"
)

// ErrEmptySymbol is returned when a production or start symbol has an empty name.
var ErrEmptySymbol = errors.New("empty symbol name")

// UnclassifiedSymbolError is returned by AddProduction when a right-hand side
// references a symbol that was never declared as terminal or nonterminal.
type UnclassifiedSymbolError struct {
	Left   string
	Symbol string
}

func (e *UnclassifiedSymbolError) Error() string {
	return fmt.Sprintf("production for %s: symbol %q is neither a declared terminal nor a nonterminal", e.Left, e.Symbol)
}

// KindConflictError is returned when a symbol is used with a kind other than
// the one it was first registered with.
type KindConflictError struct {
	Symbol string
	Have   Kind
	Want   Kind
}

func (e *KindConflictError) Error() string {
	return fmt.Sprintf("symbol %q is a %s, cannot use it as a %s", e.Symbol, e.Have, e.Want)
}

// ValidationCode identifies the kind of structural problem found by Validate.
type ValidationCode int

const (
	NoStartSymbol ValidationCode = iota + 1
	NoProductions
	StartWithoutProductions
	UndefinedNonTerminal
)

// ValidationError describes one structural problem of a grammar.
type ValidationError struct {
	Code   ValidationCode
	Symbol string
}

func (e *ValidationError) Error() string {
	switch e.Code {
	case NoStartSymbol:
		return "no start symbol defined"
	case NoProductions:
		return "no productions defined"
	case StartWithoutProductions:
		return fmt.Sprintf("start symbol %q has no productions", e.Symbol)
	case UndefinedNonTerminal:
		return fmt.Sprintf("nonterminal %q is used but has no productions", e.Symbol)
	}
	return fmt.Sprintf("validation error %d", e.Code)
}
