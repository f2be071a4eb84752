// Package main is the entry point for the workfloor CLI.
// The CLI is the terminal tool for interacting with the workfloor API.
package main

import (
	"os"

	"workfloor/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
