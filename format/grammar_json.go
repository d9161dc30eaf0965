package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/chomsky/cnf"
	"github.com/dhamidi/chomsky/grammar"
)

// GrammarJSONEncoder writes a grammar, and optionally the statistics of the
// conversion that produced it, as JSON.
type GrammarJSONEncoder struct {
	w     io.Writer
	stats *cnf.Stats
}

func NewGrammarJSONEncoder(w io.Writer) *GrammarJSONEncoder {
	return &GrammarJSONEncoder{w: w}
}

// WithStats attaches conversion statistics to the next encoded grammar.
func (e *GrammarJSONEncoder) WithStats(stats cnf.Stats) *GrammarJSONEncoder {
	e.stats = &stats
	return e
}

func (e *GrammarJSONEncoder) Encode(g *grammar.Grammar) error {
	text, err := e.MarshalText(g)
	if err != nil {
		return err
	}
	if _, err := e.w.Write(text); err != nil {
		return err
	}
	_, err = io.WriteString(e.w, "\n")
	return err
}

func (e *GrammarJSONEncoder) MarshalText(g *grammar.Grammar) ([]byte, error) {
	return json.MarshalIndent(e.grammarToJSON(g), "", "  ")
}

type jsonGrammar struct {
	StartSymbol  string           `json:"startSymbol"`
	NonTerminals []string         `json:"nonTerminals"`
	Terminals    []string         `json:"terminals"`
	Productions  []jsonProduction `json:"productions"`
	Summary      grammar.Stats    `json:"summary"`
	Conversion   *cnf.Stats       `json:"conversion,omitempty"`
}

type jsonProduction struct {
	Left  string   `json:"left"`
	Right []string `json:"right"`
}

func (e *GrammarJSONEncoder) grammarToJSON(g *grammar.Grammar) jsonGrammar {
	data := jsonGrammar{
		StartSymbol:  g.StartSymbol(),
		NonTerminals: g.NonTerminals(),
		Terminals:    g.Terminals(),
		Productions:  []jsonProduction{},
		Summary:      g.Stats(),
		Conversion:   e.stats,
	}
	for _, rule := range g.Rules() {
		data.Productions = append(data.Productions, jsonProduction{
			Left:  rule.Left,
			Right: rule.Right.Names(),
		})
	}
	return data
}
