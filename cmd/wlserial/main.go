// Command wlserial decodes, edits and re-encodes item serials from the
// command line.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, nil).Execute(); err != nil {
		os.Exit(1)
	}
}
