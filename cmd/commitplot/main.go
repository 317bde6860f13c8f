// Package main provides the entry point for the commitplot CLI tool.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Sumatoshi-tech/commitplot/cmd/commitplot/commands"
	"github.com/Sumatoshi-tech/commitplot/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	err := commands.Execute(context.Background(), os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
