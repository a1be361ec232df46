// Package cmd implements the kaireic demonstration CLI (SPEC_FULL.md §9.2):
// scaffolding to exercise the parser and type checker end-to-end, not a
// production compiler driver. Grounded on go-dws's cmd/dwscript/cmd — same
// cobra root/subcommand split, same exitWithError convention.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "0.1.0-dev"

var rootCmd = &cobra.Command{
	Use:     "kaireic",
	Short:   "KAIREI DSL front end: parse and type-check a pre-tokenized program",
	Long:    `kaireic is a thin demonstration CLI around the KAIREI grammar layer and type checker.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("color", false, "colorize diagnostic output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
