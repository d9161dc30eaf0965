package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/chomsky/cfgfile"
	"github.com/dhamidi/chomsky/cnf"
	"github.com/dhamidi/chomsky/format"
	"github.com/dhamidi/chomsky/grammar"
)

func newConvertCmd() *cobra.Command {
	var flags grammarFlags
	var outputFormat string
	var outputFile string
	var showStats bool
	var liftTerminals bool

	cmd := &cobra.Command{
		Use:   "convert <grammar>",
		Short: "Convert a grammar to Chomsky normal form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := flags.load(args[0])
			if err != nil {
				return err
			}

			c := cnf.NewConverter(cnf.WithTerminalLifting(liftTerminals))
			normal, err := c.ToCNF(g)
			if err != nil {
				return fmt.Errorf("convert: %w", err)
			}

			var w io.Writer = cmd.OutOrStdout()
			if outputFile != "" {
				f, err := os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				w = f
			}

			stats := c.Stats()
			switch outputFormat {
			case "cfg":
				if err := cfgfile.Write(w, normal); err != nil {
					return fmt.Errorf("write grammar: %w", err)
				}
			case "text":
				if err := normal.Describe(w); err != nil {
					return fmt.Errorf("describe: %w", err)
				}
			case "json":
				enc := format.NewGrammarJSONEncoder(w)
				if showStats {
					enc.WithStats(stats)
				}
				return enc.Encode(normal)
			default:
				return fmt.Errorf("unknown format: %s (expected cfg, text or json)", outputFormat)
			}

			if showStats {
				printStats(cmd.ErrOrStderr(), stats)
				printRemoved(cmd.ErrOrStderr(), c.Original(), normal)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "cfg", "output format (cfg, text, json)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the converted grammar to this file")
	cmd.Flags().BoolVar(&showStats, "stats", false, "print conversion statistics")
	cmd.Flags().BoolVar(&liftTerminals, "lift-terminals", true, "replace terminals in binary productions with new nonterminals")

	return cmd
}

func printStats(w io.Writer, s cnf.Stats) {
	fmt.Fprintf(w, "variables:   %d -> %d (%+d)\n", s.OriginalVariables, s.FinalVariables, s.VariablesAdded)
	fmt.Fprintf(w, "productions: %d -> %d (%+d)\n", s.OriginalProductions, s.FinalProductions, s.ProductionsAdded)
	fmt.Fprintf(w, "terminals:   %d -> %d\n", s.OriginalTerminals, s.FinalTerminals)
	if len(s.FreshVariables) > 0 {
		fmt.Fprintf(w, "new:         %v\n", s.FreshVariables)
	}
	if s.EmptyLanguage {
		fmt.Fprintln(w, "warning:     the grammar generates no strings")
	}
}

// printRemoved lists the nonterminals of the input that the conversion dropped.
func printRemoved(w io.Writer, original, normal *grammar.Grammar) {
	var removed []string
	for _, name := range original.NonTerminals() {
		if !normal.IsNonTerminal(name) {
			removed = append(removed, name)
		}
	}
	if len(removed) > 0 {
		fmt.Fprintf(w, "removed:     %v\n", removed)
	}
}
