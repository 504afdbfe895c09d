// ABOUTME: Entry point for the optifuse CLI
// ABOUTME: Command-line and terminal UI client for the Optifuse optimizer

package main

import (
	"fmt"
	"os"

	"github.com/optifuse/optifuse-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
