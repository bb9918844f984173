// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"fmt"
)

var (
	// ErrUnspecifiedCommand is returned by Dispatch when no command name is left
	// on the cursor.
	ErrUnspecifiedCommand = errors.New("no command specified")
	// ErrUnknownCommand is the sentinel error wrapped by UnknownCommandError.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrMissingArgument is the sentinel error wrapped by MissingArgumentError.
	ErrMissingArgument = errors.New("missing argument")
	// ErrInvalidCommand is the sentinel error wrapped by InvalidCommandError.
	ErrInvalidCommand = errors.New("invalid command")
)

type (
	// UnknownCommandError is returned when a name matches no registered command.
	UnknownCommandError struct {
		Name string
	}

	// MissingArgumentError is returned by handlers when a required positional
	// argument or option was not supplied.
	MissingArgumentError struct {
		Command  string
		Argument string
	}

	// InvalidCommandError is returned when a descriptor cannot be registered.
	InvalidCommandError struct {
		Long   string
		Reason string
	}
)

// Error implements the error interface.
func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %s", e.Name)
}

// Unwrap returns ErrUnknownCommand so callers can use errors.Is.
func (e *UnknownCommandError) Unwrap() error { return ErrUnknownCommand }

// NewMissingArgument builds a MissingArgumentError for cmd.
func NewMissingArgument(cmd, argument string) error {
	return &MissingArgumentError{Command: cmd, Argument: argument}
}

// Error implements the error interface.
func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("%s: %s not specified", e.Command, e.Argument)
}

// Unwrap returns ErrMissingArgument so callers can use errors.Is.
func (e *MissingArgumentError) Unwrap() error { return ErrMissingArgument }

// Error implements the error interface.
func (e *InvalidCommandError) Error() string {
	if e.Long == "" {
		return fmt.Sprintf("invalid command: %s", e.Reason)
	}
	return fmt.Sprintf("invalid command %q: %s", e.Long, e.Reason)
}

// Unwrap returns ErrInvalidCommand so callers can use errors.Is.
func (e *InvalidCommandError) Unwrap() error { return ErrInvalidCommand }
