// Package main is the entry point for the pulseboard application
package main

import (
	"os"

	"github.com/pulseboard/pulseboard/cmd"
)

func main() {
	// The cmd package init already loaded .env and set up the logger, so
	// both paths see the same environment.
	if len(os.Args) == 1 {
		runInteractive()
		return
	}

	cmd.Execute()
}
