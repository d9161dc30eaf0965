package main

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/chomsky/cnf"
	"github.com/dhamidi/chomsky/cyk"
	"github.com/dhamidi/chomsky/earley"
	"github.com/dhamidi/chomsky/ebnflex"
	"github.com/dhamidi/chomsky/format"
)

func newParseCmd() *cobra.Command {
	var flags grammarFlags
	var outputFormat string
	var lexerFile string
	var showTable bool
	var showUsage bool
	var verify bool

	cmd := &cobra.Command{
		Use:   "parse <grammar> [sentence...]",
		Short: "Decide membership of sentences and print their parse trees",
		Long: `Converts the grammar to Chomsky normal form and runs the CYK algorithm on
each sentence. Sentences are given as arguments or read from standard input,
one per line. Tokens are separated by white space unless --lexer names an EBNF
file whose upper-case productions define the token kinds.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := flags.load(args[0])
			if err != nil {
				return err
			}
			normal, err := cnf.ToCNF(g)
			if err != nil {
				return fmt.Errorf("convert: %w", err)
			}
			p, err := cyk.New(normal)
			if err != nil {
				return fmt.Errorf("new parser: %w", err)
			}

			var check *earley.Parser
			if verify {
				check = earley.New(g)
			}

			out := cmd.OutOrStdout()
			enc, err := format.ForName(outputFormat, out)
			if err != nil {
				return err
			}

			tokenize := func(line string) ([]string, error) {
				return strings.Fields(line), nil
			}
			if lexerFile != "" {
				lx, err := ebnflex.Load(lexerFile)
				if err != nil {
					return fmt.Errorf("load lexer: %w", err)
				}
				tokenize = func(line string) ([]string, error) {
					toks, err := lx.Tokenize("", line)
					if err != nil {
						return nil, err
					}
					return ebnflex.Kinds(toks), nil
				}
			}

			sentences := args[1:]
			if len(sentences) == 0 {
				sentences, err = readLines(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read sentences: %w", err)
				}
			}

			rejected := 0
			for _, sentence := range sentences {
				tokens, err := tokenize(sentence)
				if err != nil {
					return fmt.Errorf("tokenize %q: %w", sentence, err)
				}
				if len(tokens) == 0 {
					verdict := "rejected"
					if p.AcceptsEmpty() {
						verdict = "accepted"
					} else {
						rejected++
					}
					fmt.Fprintf(out, "%s: ε\n", verdict)
					continue
				}

				res := p.Parse(tokens)
				if !res.Accepted {
					rejected++
				}
				if check != nil {
					if ok, _ := check.Recognize(tokens); ok != res.Accepted {
						return fmt.Errorf("%q: CYK on the converted grammar says %t, Earley on the original says %t", sentence, res.Accepted, ok)
					}
				}
				if err := enc.Encode(res); err != nil {
					return fmt.Errorf("encode: %w", err)
				}
				if showTable {
					if err := res.Table.Format(out); err != nil {
						return fmt.Errorf("format table: %w", err)
					}
				}
				if showUsage {
					printUsage(out, res.ProductionUsage())
				}
			}

			if rejected > 0 {
				return fmt.Errorf("%d of %d sentences rejected", rejected, len(sentences))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format ("+strings.Join(format.Names, ", ")+")")
	cmd.Flags().StringVar(&lexerFile, "lexer", "", "EBNF file with token productions used to split sentences")
	cmd.Flags().BoolVar(&showTable, "table", false, "print the CYK table after each sentence")
	cmd.Flags().BoolVar(&showUsage, "usage", false, "print how often each production occurs in the tree")
	cmd.Flags().BoolVar(&verify, "verify", false, "cross-check every verdict with an Earley parser on the original grammar")

	return cmd
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

func printUsage(w io.Writer, usage map[string]int) {
	rules := make([]string, 0, len(usage))
	for rule := range usage {
		rules = append(rules, rule)
	}
	sort.Strings(rules)
	for _, rule := range rules {
		fmt.Fprintf(w, "%4d  %s\n", usage[rule], rule)
	}
}
