package adapter

import (
	"fmt"

	"lectern-hq/polaris/pkg/providers"
)

// UnknownModelError is returned when the requested model has no vendor
// mapping. It surfaces immediately, bypassing retries: the fix is caller
// configuration, not another attempt.
type UnknownModelError struct {
	// Model is the unmapped model name
	Model string
}

// Error implements the error interface.
func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("unknown model %q: no vendor mapping", e.Model)
}

// ExhaustedError is returned after every retry attempt failed. It embeds
// the last classified failure so callers can inspect what finally went
// wrong without having seen the per-attempt errors.
type ExhaustedError struct {
	// Model is the requested model
	Model string

	// Attempts is how many attempts were made
	Attempts int

	// Last is the last observed failure, nil when every attempt found no
	// credential to try
	Last *providers.Failure
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("all %d attempts exhausted for model %q: no credential available", e.Attempts, e.Model)
	}
	return fmt.Sprintf("all %d attempts exhausted for model %q; last error: %v", e.Attempts, e.Model, e.Last)
}

// Unwrap returns the embedded failure for error chain support.
func (e *ExhaustedError) Unwrap() error {
	if e.Last == nil {
		return nil
	}
	return e.Last
}
