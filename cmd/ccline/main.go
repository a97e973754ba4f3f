package main

import (
	"os"

	"github.com/ccline/ccline/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
