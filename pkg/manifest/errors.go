// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the sentinel error wrapped by NotFoundError.
	ErrNotFound = errors.New("manifest not found")
	// ErrMalformed is the sentinel error wrapped by MalformedError.
	ErrMalformed = errors.New("malformed manifest")
)

type (
	// NotFoundError is returned when a directory holds no manifest.
	NotFoundError struct {
		Dir string
	}

	// MalformedError is returned when a manifest exists but cannot be read,
	// parsed or validated.
	MalformedError struct {
		Path   string
		Reason error
	}
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no project manifest in %s", e.Dir)
}

// Unwrap returns ErrNotFound so callers can use errors.Is.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Error implements the error interface.
func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed manifest %s: %v", e.Path, e.Reason)
}

// Unwrap returns both ErrMalformed and the underlying reason.
func (e *MalformedError) Unwrap() []error { return []error{ErrMalformed, e.Reason} }
