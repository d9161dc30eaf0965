package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/chomsky/cnf"
)

func newCheckCmd() *cobra.Command {
	var flags grammarFlags

	cmd := &cobra.Command{
		Use:   "check <grammar>",
		Short: "Validate a grammar and report whether it is in Chomsky normal form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := flags.load(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			problems := g.Validate()
			for _, p := range problems {
				fmt.Fprintf(out, "invalid: %s\n", p)
			}
			notCNF := cnf.Check(g)
			for _, p := range notCNF {
				fmt.Fprintf(out, "not in CNF: %s\n", p)
			}

			if len(problems) > 0 {
				return fmt.Errorf("%s: %d structural problems", args[0], len(problems))
			}
			if len(notCNF) > 0 {
				return fmt.Errorf("%s: not in Chomsky normal form", args[0])
			}
			fmt.Fprintf(out, "%s: valid, in Chomsky normal form\n", args[0])
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
