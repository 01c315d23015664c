// Rutin - a schedule-aware habit tracker for the command line.

package main

import (
	"os"

	"github.com/hatamisg/rutin/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
