// rulegen is the offline ruleset compiler. It validates a source rule
// document (JSON or YAML) and serializes it into the blob embedded into
// shipped binaries. It runs at build time, never at run time; any
// validation failure aborts the build.
//
// Usage:
//
//	# Compile the shipped ruleset
//	rulegen -in rules/rules.json -out pkg/plink/data.bin
//
//	# Validate a document without writing anything
//	rulegen -in rules/rules.json -check
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/plinkurl/plink/pkg/ruleset"
)

var (
	input = flag.String("in", "", "source rule document (.json, .yaml)")
	out   = flag.String("out", "", "output blob path")
	check = flag.Bool("check", false, "validate the document and exit without writing")
	quiet = flag.Bool("q", false, "suppress the summary line")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "rulegen - compile a rule document into the embedded blob\n\n")
		fmt.Fprintf(os.Stderr, "Usage: rulegen -in rules.json -out data.bin\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}
	if !*check && *out == "" {
		fmt.Fprintf(os.Stderr, "Error: -out is required unless -check is set\n")
		os.Exit(2)
	}

	doc, err := ruleset.FromFile(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *check {
		if err := doc.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !*quiet {
			fmt.Printf("%s: %d providers, valid\n", *input, len(doc.Providers))
		}
		return
	}

	blob, err := ruleset.Compile(doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, blob, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: writing %s: %v\n", *out, err)
		os.Exit(1)
	}

	if !*quiet {
		fmt.Printf("%s: %d providers, %d bytes -> %s\n", *input, len(doc.Providers), len(blob), *out)
	}
}
