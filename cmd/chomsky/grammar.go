package main

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/dhamidi/chomsky/cfgfile"
	"github.com/dhamidi/chomsky/ebnfcfg"
	"github.com/dhamidi/chomsky/grammar"
)

// grammarFlags are the flags shared by every command that reads a grammar.
type grammarFlags struct {
	start            string
	lexicalTerminals bool
}

func (f *grammarFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.start, "start", "s", "", "start symbol (default: first rule; required for .ebnf files)")
	cmd.Flags().BoolVar(&f.lexicalTerminals, "lexical-terminals", false, "treat lower-case EBNF productions as terminals")
}

// load reads a grammar file. Files ending in .ebnf are read as EBNF, every
// other file in the line format.
func (f *grammarFlags) load(filename string) (*grammar.Grammar, error) {
	if filepath.Ext(filename) == ".ebnf" {
		var opts []ebnfcfg.Option
		if f.lexicalTerminals {
			opts = append(opts, ebnfcfg.WithLexicalTerminals())
		}
		g, err := ebnfcfg.Load(filename, f.start, opts...)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", filename, err)
		}
		return g, nil
	}

	var opts []cfgfile.Option
	if f.start != "" {
		opts = append(opts, cfgfile.WithStart(f.start))
	}
	g, err := cfgfile.Load(filename, opts...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filename, err)
	}
	return g, nil
}

// names returns the members of set accepted by keep, sorted.
func names(set map[string]bool, keep func(string) bool) []string {
	var out []string
	for _, name := range slices.Sorted(maps.Keys(set)) {
		if set[name] && keep(name) {
			out = append(out, name)
		}
	}
	return out
}
