/*
 * Svcnames looks up, validates and regenerates the service display names used to label CI pipelines.
 * Run without arguments to get comprehensive help.
 */

package main

import (
	"os"

	"github.com/daedaleanai/svcnames/cmd"
)

// Runs the program
func main() {
	if cmd.RunRootCommand() != nil {
		os.Exit(1)
	}
}
