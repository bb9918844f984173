// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/cute-engineering/cutekit/internal/command"
	"github.com/cute-engineering/cutekit/pkg/args"
)

// Patterns are the descriptor globs, relative to the project root. Project
// plugins come first.
var Patterns = []string{
	"meta/plugins/*.toml",
	".cutekit/extern/**/meta/plugins/*.toml",
}

type (
	// Plugin is a loaded descriptor.
	Plugin struct {
		Descriptor
		// Path is the descriptor file.
		Path string
	}

	// Loader finds and runs plugins of one project.
	Loader struct {
		// Root is the project root.
		Root string
		// Version is the running cutekit version, checked against Requires
		// and exported as CK_VERSION.
		Version string
		Logger  *log.Logger

		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}
)

// Discover lists descriptor files under Root, sorted within each pattern.
func (l *Loader) Discover() ([]string, error) {
	fsys := os.DirFS(l.Root)

	var paths []string
	for _, pattern := range Patterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		slices.Sort(matches)
		for _, m := range matches {
			paths = append(paths, filepath.Join(l.Root, filepath.FromSlash(m)))
		}
	}
	return paths, nil
}

// Load parses every discovered descriptor concurrently. Incompatible plugins
// are skipped with a warning. The first invalid descriptor fails the load.
func (l *Loader) Load(ctx context.Context) ([]Plugin, error) {
	paths, err := l.Discover()
	if err != nil {
		return nil, err
	}

	loaded := make([]*Plugin, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return &InvalidError{Path: path, Err: err}
			}
			d, err := ParseDescriptor(data)
			if err != nil {
				return &InvalidError{Path: path, Err: err}
			}
			loaded[i] = &Plugin{Descriptor: *d, Path: path}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	plugins := make([]Plugin, 0, len(loaded))
	for _, p := range loaded {
		if !p.Compatible(l.Version) {
			l.logger().Warn("skipping incompatible plugin", "plugin", p.Name, "requires", p.Requires, "version", l.Version, "path", p.Path)
			continue
		}
		l.logger().Debug("loaded plugin", "plugin", p.Name, "path", p.Path)
		plugins = append(plugins, *p)
	}
	return plugins, nil
}

// Register loads the plugins and appends them to reg.
func (l *Loader) Register(ctx context.Context, reg *command.Registry) error {
	plugins, err := l.Load(ctx)
	if err != nil {
		return err
	}
	for _, p := range plugins {
		if err := reg.Append(l.Command(p)); err != nil {
			return &InvalidError{Path: p.Path, Err: err}
		}
	}
	return nil
}

// Command turns a plugin into a registry entry. The handler runs the script
// with the remaining positionals as $1..$n.
func (l *Loader) Command(p Plugin) command.Command {
	return command.Command{
		Short: p.Short,
		Long:  p.Name,
		Help:  p.Help,
		Run: func(ctx context.Context, cur *args.Cursor) error {
			return l.Exec(ctx, p, cur.Rest())
		},
	}
}

// Exec runs the script of p in the embedded shell, in Root.
func (l *Loader) Exec(ctx context.Context, p Plugin, params []string) error {
	prog, err := syntax.NewParser().Parse(strings.NewReader(p.Script), p.Path)
	if err != nil {
		return &ScriptError{Plugin: p.Name, Code: 1, Err: fmt.Errorf("parse script: %w", err)}
	}

	env := append(os.Environ(),
		"CK_VERSION="+l.Version,
		"CK_PROJECT="+l.Root,
		"CK_PLUGIN="+p.Name,
	)

	runner, err := interp.New(
		interp.Dir(l.Root),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(l.stdin(), l.stdout(), l.stderr()),
		// "--" keeps arguments such as "-v" from being read as shell options.
		interp.Params(append([]string{"--"}, params...)...),
	)
	if err != nil {
		return &ScriptError{Plugin: p.Name, Code: 1, Err: fmt.Errorf("create interpreter: %w", err)}
	}

	l.logger().Debug("running plugin", "plugin", p.Name, "args", params)
	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return &ScriptError{Plugin: p.Name, Code: int(status)}
		}
		return &ScriptError{Plugin: p.Name, Code: 1, Err: err}
	}
	return nil
}

func (l *Loader) logger() *log.Logger {
	if l.Logger == nil {
		return log.New(io.Discard)
	}
	return l.Logger
}

func (l *Loader) stdin() io.Reader {
	if l.Stdin == nil {
		return os.Stdin
	}
	return l.Stdin
}

func (l *Loader) stdout() io.Writer {
	if l.Stdout == nil {
		return os.Stdout
	}
	return l.Stdout
}

func (l *Loader) stderr() io.Writer {
	if l.Stderr == nil {
		return os.Stderr
	}
	return l.Stderr
}
