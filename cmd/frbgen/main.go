// Command frbgen resolves the public API of a Rust source file into IR.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/frbgen/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "frbgen:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
