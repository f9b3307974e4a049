package ruleset

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
)

// Compile validates a rule document and serializes it into the blob format
// embedded into shipped binaries. The format is a private contract between
// Compile and Load: gzip-compressed JSON of the validated document.
//
// Any validation failure is returned as an error and must abort the build;
// the blob is never produced from an invalid document.
func Compile(doc *Document) ([]byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize rule document: %w", err)
	}

	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob writer: %w", err)
	}
	if _, err := zw.Write(payload); err != nil {
		return nil, fmt.Errorf("failed to compress rule document: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize blob: %w", err)
	}

	return buf.Bytes(), nil
}
