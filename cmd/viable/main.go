// Command viable compiles Viable pattern DSL sources into regex
// strings. The compiler itself is a pure text transform; this binary
// adds the file, stdin and watch plumbing around it.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Diagnostics are rendered by the subcommands; anything else
		// reaching here is a usage or I/O failure.
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
