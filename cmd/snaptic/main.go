package main

import (
	"fmt"
	"os"

	"github.com/snaptic/go-snaptic/internal/cli"
	"github.com/snaptic/go-snaptic/internal/logger"
)

func main() {
	logger.Init(logger.INFO, os.Stderr)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
