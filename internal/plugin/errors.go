// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalid is the sentinel error wrapped by InvalidError.
	ErrInvalid = errors.New("invalid plugin")
	// ErrScriptFailed is the sentinel error wrapped by ScriptError.
	ErrScriptFailed = errors.New("plugin script failed")
)

type (
	// InvalidError is returned for a descriptor that cannot be loaded.
	InvalidError struct {
		Path string
		Err  error
	}

	// ScriptError is returned when a plugin script fails. Code is the
	// script's exit status, or 1 when it never ran.
	ScriptError struct {
		Plugin string
		Code   int
		Err    error
	}
)

// Error implements the error interface.
func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid plugin %s: %v", e.Path, e.Err)
}

// Unwrap returns both ErrInvalid and the underlying cause.
func (e *InvalidError) Unwrap() []error { return []error{ErrInvalid, e.Err} }

// Error implements the error interface.
func (e *ScriptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("plugin %s: %v", e.Plugin, e.Err)
	}
	return fmt.Sprintf("plugin %s exited with status %d", e.Plugin, e.Code)
}

// Unwrap returns both ErrScriptFailed and the underlying cause, if any.
func (e *ScriptError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrScriptFailed}
	}
	return []error{ErrScriptFailed, e.Err}
}

// ExitCode returns the exit status of the script.
func (e *ScriptError) ExitCode() int { return e.Code }
