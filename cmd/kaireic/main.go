// Command kaireic is a thin demonstration CLI for the KAIREI grammar layer
// and type checker (SPEC_FULL.md §9.2). It is scaffolding to exercise the
// library end-to-end, not a production compiler driver.
package main

import (
	"fmt"
	"os"

	"github.com/kairei-dsl/kairei/cmd/kaireic/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
