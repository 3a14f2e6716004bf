// Command hregex generates mock FHE keys, encrypts ASCII content into
// ciphertext records, and evaluates a pattern against them, wiring the
// engine, config and logging packages together for interactive use.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
