package plink

import "sync"

// defaultEngine is built on first use; concurrent first callers share one
// construction.
var defaultEngine = sync.OnceValues(func() (*Engine, error) {
	return New()
})

// Default returns the process-wide engine with default options and the
// embedded ruleset. It is what the FFI simple path and one-shot callers use;
// anything needing custom policy should construct its own engine with New.
func Default() (*Engine, error) {
	return defaultEngine()
}

// CleanURL cleans a single URL with the process-wide default engine.
func CleanURL(rawURL string) (*Result, error) {
	e, err := Default()
	if err != nil {
		return nil, err
	}
	return e.Clean(rawURL)
}
