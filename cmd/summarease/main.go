package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
	noColor    bool
}

func main() {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "summarease",
		Short:         "Summarise, question and quiz yourself on PDF documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file path (default $SUMMAREASE_CONFIG)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level: debug|info|warn|error")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		serveCmd(opts),
		infoCmd(opts),
		summarizeCmd(opts),
		askCmd(opts),
		quizCmd(opts),
		shellCmd(opts),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
