// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"
)

// DefaultCommand is the builder executable looked up in PATH.
const DefaultCommand = "cutekit-builder"

// Exec is a Builder backed by an external executable.
type Exec struct {
	// Command is the builder executable, a name looked up in PATH or a path.
	Command string
	// Dir is the working directory, normally the project root.
	Dir string
	// Env is appended to the process environment.
	Env []string
	// Verbose sets CK_VERBOSE=1 for the builder.
	Verbose bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *log.Logger
}

// Build implements Builder.
func (e *Exec) Build(ctx context.Context, req Request) error {
	if req.Component == "" {
		return fmt.Errorf("%s: %w", VerbBuild, ErrNoComponent)
	}
	return e.invoke(ctx, VerbBuild, req)
}

// BuildAll implements Builder.
func (e *Exec) BuildAll(ctx context.Context, req Request) error {
	req.Component = ""
	return e.invoke(ctx, VerbBuild, req)
}

// TestAll implements Builder.
func (e *Exec) TestAll(ctx context.Context, req Request) error {
	return e.invoke(ctx, VerbTest, req)
}

// Run implements Builder.
func (e *Exec) Run(ctx context.Context, req Request) error {
	if req.Component == "" {
		return fmt.Errorf("%s: %w", VerbRun, ErrNoComponent)
	}
	return e.invoke(ctx, VerbRun, req)
}

// Debug implements Builder.
func (e *Exec) Debug(ctx context.Context, req Request) error {
	if req.Component == "" {
		return fmt.Errorf("%s: %w", VerbDebug, ErrNoComponent)
	}
	return e.invoke(ctx, VerbDebug, req)
}

// Graph implements Builder.
func (e *Exec) Graph(ctx context.Context, req Request) error {
	return e.invoke(ctx, VerbGraph, req)
}

// Resolve returns the absolute path of the builder executable.
func (e *Exec) Resolve() (string, error) {
	name := e.Command
	if name == "" {
		name = DefaultCommand
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrUnavailable, name, err)
	}
	return path, nil
}

// Args returns the builder command line for verb, without the executable.
func Args(verb string, req Request) []string {
	args := []string{verb}
	if req.Component != "" {
		args = append(args, "--component="+req.Component)
	}
	if verb == VerbGraph {
		if req.Graph.Scope != "" {
			args = append(args, "--scope="+req.Graph.Scope)
		}
		if req.Graph.OnlyLibs {
			args = append(args, "--only-libs")
		}
		if req.Graph.ShowDisabled {
			args = append(args, "--show-disabled")
		}
	}
	if len(req.Args) > 0 {
		args = append(args, "--")
		args = append(args, req.Args...)
	}
	return args
}

// Environ returns the CK_* variables describing req.
func Environ(req Request, verbose bool) []string {
	env := []string{
		"CK_TARGET=" + req.Target,
		"CK_COMPONENT=" + req.Component,
		"CK_BUILDDIR=" + req.BuildDir,
	}
	if verbose {
		env = append(env, "CK_VERBOSE=1")
	}
	return env
}

func (e *Exec) invoke(ctx context.Context, verb string, req Request) error {
	path, err := e.Resolve()
	if err != nil {
		return err
	}

	args := Args(verb, req)
	if e.Logger != nil {
		e.Logger.Debug("invoking builder", "path", path, "args", args, "target", req.Target)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = e.Dir
	cmd.Env = append(append(os.Environ(), e.Env...), Environ(req, e.Verbose)...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if e.Stdin != nil {
		cmd.Stdin = e.Stdin
	}
	if e.Stdout != nil {
		cmd.Stdout = e.Stdout
	}
	if e.Stderr != nil {
		cmd.Stderr = e.Stderr
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &StatusError{Verb: verb, Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}
