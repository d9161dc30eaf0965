package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

// errReported is returned by commands that already printed their errors.
var errReported = errors.New("errors reported")

func main() {
	var verbosity int
	var logFile string

	rootCmd := &cobra.Command{
		Use:     "chomsky",
		Short:   "Convert context-free grammars to Chomsky normal form and parse sentences with CYK",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var path *string
			if logFile != "" {
				path = &logFile
			}
			commonlog.Configure(verbosity, path)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (repeat for more)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "write log messages to this file instead of stderr")

	rootCmd.AddCommand(newDescribeCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newConvertCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newEbnfCmd())
	rootCmd.AddCommand(newLSPCmd())

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
