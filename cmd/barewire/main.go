// Command barewire is the schema lint/render/fingerprint/serve tool for
// the BAREWire module: validate a schema file, print its deterministic
// identifier or canonical rendering, or stand up a throwaway echo server
// for manual protocol exercise.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
