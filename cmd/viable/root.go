package main

import (
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	flagConfig string
	flagOutput string
	flagNames  bool
)

var rootCmd = &cobra.Command{
	Use:           "viable",
	Short:         "Compile readable Viable patterns to regex",
	Long:          "Viable compiles a readable pattern-description language into an equivalent regular expression.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "project config file (default viable.yml when present)")

	compileCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write the compiled pattern to a file instead of stdout")
	compileCmd.Flags().BoolVar(&flagNames, "names", false, "also print capture group names, one per line")
	watchCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write each compiled pattern to a file instead of stdout")

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(watchCmd)
}
