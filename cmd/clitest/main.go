// Command clitest runs a CLI under test the same way the clitest package does
// and reports its exit status, which is handy for reproducing a failing test
// case by hand.
//
//	clitest run --flag=--release --env RUST_LOG=debug -- list --all
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var exitErr *exitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
