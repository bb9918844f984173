// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"context"
	"errors"
	"fmt"
)

// Builder verbs.
const (
	VerbBuild = "build"
	VerbTest  = "test"
	VerbRun   = "run"
	VerbDebug = "debug"
	VerbGraph = "graph"
)

var (
	// ErrUnavailable is returned when the builder cannot be started.
	ErrUnavailable = errors.New("builder not available")
	// ErrNoComponent is returned by verbs that need a component when none
	// was given.
	ErrNoComponent = errors.New("no component given")
)

type (
	// Builder performs the build operations cutekit delegates.
	Builder interface {
		// Build builds one component for the target.
		Build(ctx context.Context, req Request) error
		// BuildAll builds every enabled component for the target.
		BuildAll(ctx context.Context, req Request) error
		// TestAll builds and runs every test component.
		TestAll(ctx context.Context, req Request) error
		// Run builds a component and executes it with req.Args.
		Run(ctx context.Context, req Request) error
		// Debug builds a component and starts it under a debugger.
		Debug(ctx context.Context, req Request) error
		// Graph renders the dependency graph.
		Graph(ctx context.Context, req Request) error
	}

	// Request describes one builder invocation.
	Request struct {
		Target    string
		Component string
		// BuildDir is where artifacts go, usually .cutekit/build.
		BuildDir string
		// Args are passed to the program started by Run and Debug.
		Args []string
		Graph GraphOptions
	}

	// GraphOptions tune Graph.
	GraphOptions struct {
		Scope        string
		OnlyLibs     bool
		ShowDisabled bool
	}

	// StatusError reports a builder that exited with a non-zero status.
	StatusError struct {
		Verb string
		Code int
	}
)

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("builder %s exited with status %d", e.Verb, e.Code)
}

// ExitCode returns the builder's exit status.
func (e *StatusError) ExitCode() int { return e.Code }
