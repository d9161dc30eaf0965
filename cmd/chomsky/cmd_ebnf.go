package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/chomsky/cfgfile"
	"github.com/dhamidi/chomsky/cnf"
	"github.com/dhamidi/chomsky/ebnfcfg"
)

func newEbnfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ebnf",
		Short:         "EBNF grammar tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newEbnfCheckCmd())
	cmd.AddCommand(newEbnfConvertCmd())

	return cmd
}

func newEbnfCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:           "check <file>",
		Short:         "Parse and verify an EBNF grammar file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			f, err := os.Open(filename)
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer f.Close()

			grammar, err := ebnf.Parse(filename, f)
			if err != nil {
				printErrors(err)
				return errReported
			}

			if startProduction == "" {
				return nil
			}
			if err := ebnf.Verify(grammar, startProduction); err != nil {
				printErrors(err)
				return errReported
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production for verification (if empty, only checks syntax)")

	return cmd
}

func newEbnfConvertCmd() *cobra.Command {
	var startProduction string
	var lexicalTerminals bool
	var normalize bool

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Translate an EBNF grammar into the line format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []ebnfcfg.Option
			if lexicalTerminals {
				opts = append(opts, ebnfcfg.WithLexicalTerminals())
			}
			g, err := ebnfcfg.Load(args[0], startProduction, opts...)
			if err != nil {
				printErrors(err)
				return errReported
			}

			if normalize {
				g, err = cnf.ToCNF(g)
				if err != nil {
					return fmt.Errorf("convert: %w", err)
				}
			}
			return cfgfile.Write(cmd.OutOrStdout(), g)
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production (required)")
	cmd.Flags().BoolVar(&lexicalTerminals, "lexical-terminals", false, "treat lower-case productions as terminals")
	cmd.Flags().BoolVar(&normalize, "cnf", false, "convert the result to Chomsky normal form")
	cmd.MarkFlagRequired("start")

	return cmd
}

// printErrors prints each error of the list returned by the ebnf package on
// its own line. Any other error is printed as is.
func printErrors(err error) {
	for e := err; e != nil; e = errors.Unwrap(e) {
		v := reflect.ValueOf(e)
		if v.Kind() == reflect.Slice {
			for i := 0; i < v.Len(); i++ {
				fmt.Fprintln(os.Stderr, v.Index(i).Interface())
			}
			return
		}
	}
	fmt.Fprintln(os.Stderr, err)
}
