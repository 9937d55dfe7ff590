// Package main is the entry point for the photonic-sparam CLI.
package main

import (
	"os"

	"photonic-sparam/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
