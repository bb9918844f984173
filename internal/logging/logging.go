// SPDX-License-Identifier: MPL-2.0

// Package logging sets up the cutekit log: a file inside the project, or in
// ~/.cutekit outside of one, mirrored to stderr in verbose mode.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/cute-engineering/cutekit/internal/project"
)

type (
	// Options selects where and how much to log.
	Options struct {
		// ProjectRoot is the current project, "" outside of one.
		ProjectRoot string
		// Verbose lowers the level to debug and mirrors records to Stderr.
		Verbose bool
		// Stderr is the verbose mirror. Nil means os.Stderr.
		Stderr io.Writer
		// Append keeps the existing content of the file.
		Append bool
	}

	// Log is an open logger and the file backing it.
	Log struct {
		*log.Logger
		// Path is the log file.
		Path string
		file *os.File
	}
)

// Path returns the log file for a project root, or the global one for "".
func Path(projectRoot string) (string, error) {
	if projectRoot != "" {
		return project.Path(projectRoot, project.LogFile), nil
	}
	return project.GlobalLogFile()
}

// Open creates the log file, truncating any previous run's log unless
// Append is set.
func Open(opts Options) (*Log, error) {
	path, err := Path(opts.ProjectRoot)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if opts.Append {
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	var w io.Writer = f
	if opts.Verbose {
		stderr := opts.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		w = io.MultiWriter(f, stderr)
	}

	return &Log{Logger: New(w, opts.Verbose), Path: path, file: f}, nil
}

// New returns a logger writing to w, at debug level when verbose.
func New(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "cutekit",
	})
}

// Discard returns a logger that drops every record.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// Close closes the log file.
func (l *Log) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
