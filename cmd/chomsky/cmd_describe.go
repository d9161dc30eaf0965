package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/chomsky/cnf"
	"github.com/dhamidi/chomsky/format"
)

func newDescribeCmd() *cobra.Command {
	var flags grammarFlags
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "describe <grammar>",
		Short: "Print the symbols and productions of a grammar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := flags.load(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch outputFormat {
			case "json":
				return format.NewGrammarJSONEncoder(out).Encode(g)
			case "text":
				if err := g.Describe(out); err != nil {
					return fmt.Errorf("describe: %w", err)
				}
				fmt.Fprintf(out, "Nullable: [%s]\n", strings.Join(names(cnf.Nullable(g), g.IsNonTerminal), " "))
				fmt.Fprintf(out, "Generating: [%s]\n", strings.Join(names(cnf.Generating(g), g.IsNonTerminal), " "))
				fmt.Fprintf(out, "Reachable: [%s]\n", strings.Join(names(cnf.Reachable(g), g.IsNonTerminal), " "))
				return nil
			default:
				return fmt.Errorf("unknown format: %s (expected text or json)", outputFormat)
			}
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")

	return cmd
}
