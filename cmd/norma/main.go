package main

import (
	"os"

	"github.com/norma-labs/norma-cli/internal/adapters/driving/cli"
)

func main() {
	// Cobra prints the error; only the exit code is ours to set.
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
