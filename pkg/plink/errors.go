package plink

import "errors"

// ErrInvalidURL reports a caller-supplied string that cannot be parsed as a
// URL even after scheme normalization. It is a per-input failure; callers
// are expected to skip the input and continue.
var ErrInvalidURL = errors.New("invalid URL")
