// Command simpleik solves and evaluates two-bone IK chains.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/simpleik/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
