// Command a2run boots an Apple IIe-family machine profile and runs it.
// It is the one outer-loop binary the core requires to be a runnable
// module; the CPU core, pixel generation, and disk bitstream decode it
// wires in here are all external collaborators, not part of the core
// package's scope.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
