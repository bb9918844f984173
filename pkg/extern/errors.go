// SPDX-License-Identifier: MPL-2.0

package extern

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCloneFailed is the sentinel error wrapped by CloneError.
	ErrCloneFailed = errors.New("clone failed")
	// ErrDependencyCycle is the sentinel error wrapped by CycleError.
	ErrDependencyCycle = errors.New("dependency cycle")
)

type (
	// CloneError is returned when an extern cannot be cloned. It aborts the
	// whole install pass.
	CloneError struct {
		Key string
		Git string
		Tag string
		Err error
	}

	// CycleError is returned when an extern's manifest, directly or
	// transitively, depends on the extern itself.
	CycleError struct {
		// Chain lists the keys from the outermost ancestor down to the
		// repeated key.
		Chain []string
	}
)

// Error implements the error interface.
func (e *CloneError) Error() string {
	return fmt.Sprintf("failed to clone %s-%s from %s: %v", e.Key, e.Tag, e.Git, e.Err)
}

// Unwrap returns both ErrCloneFailed and the underlying cause.
func (e *CloneError) Unwrap() []error { return []error{ErrCloneFailed, e.Err} }

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle: %s", strings.Join(e.Chain, " -> "))
}

// Unwrap returns ErrDependencyCycle so callers can use errors.Is.
func (e *CycleError) Unwrap() error { return ErrDependencyCycle }
