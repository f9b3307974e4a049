// Package main is the entry point for the plink CLI.
package main

import (
	"os"

	"github.com/plinkurl/plink/cmd/plink/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
