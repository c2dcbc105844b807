// Package decode turns engine stdout into typed results.
package decode

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wagiedev/query-engine-go/internal/errors"
)

// JSON decodes stdout into a T. Anything that is not a single JSON document
// of the right shape is reported as *errors.DecodeError carrying enginePath
// and the raw stdout.
func JSON[T any](enginePath, stdout string) (*T, error) {
	dec := json.NewDecoder(strings.NewReader(stdout))

	var v T
	if err := dec.Decode(&v); err != nil {
		return nil, &errors.DecodeError{EnginePath: enginePath, Stdout: stdout, Err: err}
	}

	if dec.More() {
		return nil, &errors.DecodeError{
			EnginePath: enginePath,
			Stdout:     stdout,
			Err:        fmt.Errorf("unexpected data after JSON document at offset %d", dec.InputOffset()),
		}
	}

	return &v, nil
}

// Text returns the schema text printed by a conversion verbatim.
func Text(stdout string) string {
	return stdout
}

// Encode serializes a caller-provided document for staging.
func Encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}

	return string(data), nil
}
