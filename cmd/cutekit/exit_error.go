// SPDX-License-Identifier: MPL-2.0

package cmd

import "strconv"

// ExitError carries the process status out of the cobra RunE. Err was
// already printed by App.Report, so Execute only exits.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return "exit status " + strconv.Itoa(e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode implements the interface exitCode looks for.
func (e *ExitError) ExitCode() int { return e.Code }
