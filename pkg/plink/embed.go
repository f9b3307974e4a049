package plink

import (
	_ "embed"
	"sync"

	"github.com/plinkurl/plink/pkg/ruleset"
)

// The embedded blob is produced offline by cmd/rulegen from the source rule
// document. Regenerate after editing rules/rules.json.
//
//go:generate go run ../../cmd/rulegen -in ../../rules/rules.json -out data.bin

//go:embed data.bin
var embeddedBlob []byte

// loadEmbedded compiles the embedded ruleset at most once per process; every
// engine built without WithRuleset shares the resulting immutable Ruleset.
var loadEmbedded = sync.OnceValues(func() (*ruleset.Ruleset, error) {
	return ruleset.Load(embeddedBlob)
})
