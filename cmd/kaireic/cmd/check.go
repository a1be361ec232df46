package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/kairei-dsl/kairei/internal/diagnostics"
	"github.com/kairei-dsl/kairei/internal/parser"
	"github.com/kairei-dsl/kairei/internal/tokenjson"
	"github.com/kairei-dsl/kairei/internal/typecheck"
	"github.com/spf13/cobra"
)

var checkSource string

var checkCmd = &cobra.Command{
	Use:   "check [tokens.json]",
	Short: "Parse and type-check a JSON-encoded token stream",
	Long: `check reads a JSON-encoded token stream (see internal/tokenjson), parses
it into an AST, runs the type checker over it, and prints every diagnostic
found.

If no file is provided, reads from stdin. Pass --source to also render a
caret-pointer source snippet under each diagnostic.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkSource, "source", "", "path to the original source file, for caret-pointer rendering")
}

func runCheck(cmd *cobra.Command, args []string) error {
	var r io.Reader = os.Stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()
		r = f
	}

	tokens, err := tokenjson.Decode(r)
	if err != nil {
		return err
	}

	root, parseDiags, parseErr := parser.ParseWithDiagnostics(tokens)
	if parseErr != nil {
		fmt.Fprintln(os.Stderr, parseErr.Error())
		return fmt.Errorf("parse failed")
	}

	diags := append([]*diagnostics.Diagnostic{}, parseDiags...)
	diags = append(diags, typecheck.CheckTypes(root)...)

	var source string
	if checkSource != "" {
		data, err := os.ReadFile(checkSource)
		if err != nil {
			return fmt.Errorf("reading source: %w", err)
		}
		source = string(data)
	}

	color, _ := cmd.Flags().GetBool("color")
	for _, d := range diags {
		fmt.Print(diagnostics.Render(d, source, color))
	}

	if len(diags) == 0 {
		fmt.Println("no diagnostics")
	}
	return nil
}
