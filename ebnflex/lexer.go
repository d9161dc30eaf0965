// Package ebnflex splits raw input into tokens using the token productions
// of an EBNF grammar. A token production is one whose name starts with an
// upper-case letter; its name becomes the kind of every token it matches.
package ebnflex

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

// Position represents a location in the input.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a lexeme together with the production that matched it.
type Token struct {
	Kind     string
	Literal  string
	Position Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Position, t.Kind, t.Literal)
}

// Error reports input that no token production matches.
type Error struct {
	Position Position
	Char     rune
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: unexpected character %q", e.Position, e.Char)
}

// Lexer tokenizes input. It is safe for concurrent use.
type Lexer struct {
	grammar ebnf.Grammar
	kinds   []string
}

// New creates a lexer for the token productions of g.
func New(g ebnf.Grammar) (*Lexer, error) {
	l := &Lexer{grammar: g}
	for name, prod := range g {
		ch, _ := utf8.DecodeRuneInString(name)
		if prod.Expr != nil && unicode.IsUpper(ch) {
			l.kinds = append(l.kinds, name)
		}
	}
	if len(l.kinds) == 0 {
		return nil, fmt.Errorf("no token productions")
	}
	slices.Sort(l.kinds)
	return l, nil
}

// Load reads an EBNF grammar from a file and creates a lexer for it.
func Load(filename string) (*Lexer, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	grammar, err := ebnf.Parse(filename, f)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return New(grammar)
}

// Kinds returns the token production names in sorted order.
func (l *Lexer) Kinds() []string {
	return slices.Clone(l.kinds)
}

// Tokenize splits input into tokens, skipping white space between them.
// At each position the longest match wins; equal lengths go to the kind
// that sorts first.
func (l *Lexer) Tokenize(filename, input string) ([]Token, error) {
	s := &scan{lexer: l, input: input, pos: Position{Filename: filename, Line: 1, Column: 1}}
	var tokens []Token
	for {
		s.skipSpace()
		if s.pos.Offset >= len(input) {
			return tokens, nil
		}
		tok, ok := s.next()
		if !ok {
			ch, _ := utf8.DecodeRuneInString(input[s.pos.Offset:])
			return tokens, &Error{Position: s.pos, Char: ch}
		}
		tokens = append(tokens, tok)
	}
}

// Kinds returns the kind of each token, the form a CYK parser consumes.
func Kinds(tokens []Token) []string {
	kinds := make([]string, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	return kinds
}

type memoKey struct {
	name   string
	offset int
}

// scan is the state of one Tokenize call.
type scan struct {
	lexer *Lexer
	input string
	pos   Position

	// memo caches match lengths per token start; -1 means no match.
	memo     map[memoKey]int
	visiting map[memoKey]bool
	// cuts counts re-entries refused by matchName. A result computed while
	// a cut happened depends on the enclosing productions and is not cached.
	cuts int
}

func (s *scan) skipSpace() {
	for s.pos.Offset < len(s.input) {
		ch, size := utf8.DecodeRuneInString(s.input[s.pos.Offset:])
		if !unicode.IsSpace(ch) {
			return
		}
		s.advance(ch, size)
	}
}

func (s *scan) advance(ch rune, size int) {
	s.pos.Offset += size
	if ch == '\n' {
		s.pos.Line++
		s.pos.Column = 1
	} else {
		s.pos.Column++
	}
}

func (s *scan) next() (Token, bool) {
	s.memo = make(map[memoKey]int)
	start := s.pos

	bestKind, bestLen := "", 0
	for _, kind := range s.lexer.kinds {
		s.visiting = make(map[memoKey]bool)
		if n := s.matchName(kind, start.Offset); n > bestLen {
			bestKind, bestLen = kind, n
		}
	}
	if bestLen == 0 {
		return Token{}, false
	}

	literal := s.input[start.Offset : start.Offset+bestLen]
	for _, ch := range literal {
		s.advance(ch, utf8.RuneLen(ch))
	}
	return Token{Kind: bestKind, Literal: literal, Position: start}, true
}

// match returns the length matched by expr at offset, or -1.
func (s *scan) match(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case nil:
		return 0

	case *ebnf.Token:
		if strings.HasPrefix(s.input[offset:], e.String) {
			return len(e.String)
		}
		return -1

	case *ebnf.Range:
		return s.matchRange(e, offset)

	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			n := s.match(item, offset+total)
			if n < 0 {
				return -1
			}
			total += n
		}
		return total

	case ebnf.Alternative:
		best := -1
		for _, alt := range e {
			if n := s.match(alt, offset); n > best {
				best = n
			}
		}
		return best

	case *ebnf.Repetition:
		total := 0
		for {
			n := s.match(e.Body, offset+total)
			if n <= 0 {
				return total
			}
			total += n
		}

	case *ebnf.Option:
		return max(s.match(e.Body, offset), 0)

	case *ebnf.Group:
		return s.match(e.Body, offset)

	case *ebnf.Name:
		return s.matchName(e.String, offset)
	}
	return -1
}

// matchName matches a production with memoization. Re-entering a
// production at the same offset fails, which cuts left recursion.
func (s *scan) matchName(name string, offset int) int {
	key := memoKey{name: name, offset: offset}
	if n, ok := s.memo[key]; ok {
		return n
	}
	if s.visiting[key] {
		s.cuts++
		return -1
	}
	prod, ok := s.lexer.grammar[name]
	if !ok {
		s.memo[key] = -1
		return -1
	}

	cuts := s.cuts
	s.visiting[key] = true
	n := s.match(prod.Expr, offset)
	delete(s.visiting, key)

	if s.cuts == cuts {
		s.memo[key] = n
	}
	return n
}

func (s *scan) matchRange(r *ebnf.Range, offset int) int {
	if offset >= len(s.input) {
		return -1
	}
	lo, _ := utf8.DecodeRuneInString(r.Begin.String)
	hi, _ := utf8.DecodeRuneInString(r.End.String)
	ch, size := utf8.DecodeRuneInString(s.input[offset:])
	if ch >= lo && ch <= hi {
		return size
	}
	return -1
}
