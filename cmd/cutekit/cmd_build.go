// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"strings"

	"github.com/cute-engineering/cutekit/internal/command"
	"github.com/cute-engineering/cutekit/internal/project"
	"github.com/cute-engineering/cutekit/internal/toolchain"
	"github.com/cute-engineering/cutekit/internal/watch"
	"github.com/cute-engineering/cutekit/pkg/args"
)

// builderCall is a builder bound to a project and target.
type builderCall struct {
	toolchain.Builder
	req  toolchain.Request
	root string
}

// builderRequest enters the project and reads --target for cmd.
func (a *App) builderRequest(cur *args.Cursor, cmd string) (*builderCall, error) {
	root, err := a.enterProject()
	if err != nil {
		return nil, err
	}
	target, err := a.target(cur, cmd)
	if err != nil {
		return nil, err
	}
	return &builderCall{
		Builder: a.deps.Builder(a.env(root)),
		req: toolchain.Request{
			Target:   target,
			BuildDir: project.Path(root, project.BuildDir),
		},
		root: root,
	}, nil
}

func (a *App) buildCmd(ctx context.Context, cur *args.Cursor) error {
	b, err := a.builderRequest(cur, "build")
	if err != nil {
		return err
	}
	watching := cur.ConsumeBool("watch", false)
	b.req.Component, _ = cur.ConsumeArg()

	build := func(ctx context.Context) error {
		if b.req.Component == "" {
			return b.BuildAll(ctx, b.req)
		}
		return b.Build(ctx, b.req)
	}
	if !watching {
		return build(ctx)
	}

	w, err := watch.New(watch.Config{
		Root:     b.root,
		Patterns: a.cfg.Watch.Patterns,
		Ignore:   a.cfg.Watch.Ignore,
		Debounce: a.cfg.Watch.Debounce,
		Initial:  true,
		Stdout:   a.stdout,
		Logger:   a.logger,
		Rebuild: func(ctx context.Context, changed []string) error {
			if len(changed) > 0 {
				a.logger.Info("rebuilding", "changed", strings.Join(changed, ", "))
			}
			return build(ctx)
		},
	})
	if err != nil {
		return err
	}
	a.logger.Info("watching for changes", "root", w.Root(), "target", b.req.Target)
	return w.Run(ctx)
}

func (a *App) testCmd(ctx context.Context, cur *args.Cursor) error {
	b, err := a.builderRequest(cur, "test")
	if err != nil {
		return err
	}
	return b.TestAll(ctx, b.req)
}

func (a *App) runCmd(ctx context.Context, cur *args.Cursor) error {
	b, err := a.builderRequest(cur, "run")
	if err != nil {
		return err
	}
	component, ok := cur.ConsumeArg()
	if !ok {
		return command.NewMissingArgument("run", "component")
	}
	b.req.Component = component
	b.req.Args = cur.Rest()
	return b.Run(ctx, b.req)
}

func (a *App) debugCmd(ctx context.Context, cur *args.Cursor) error {
	b, err := a.builderRequest(cur, "debug")
	if err != nil {
		return err
	}
	component, ok := cur.ConsumeArg()
	if !ok {
		return command.NewMissingArgument("debug", "component")
	}
	b.req.Component = component
	b.req.Args = cur.Rest()
	return b.Debug(ctx, b.req)
}

func (a *App) graphCmd(ctx context.Context, cur *args.Cursor) error {
	b, err := a.builderRequest(cur, "graph")
	if err != nil {
		return err
	}
	scope, err := stringOpt(cur, "graph", "scope", "")
	if err != nil {
		return err
	}
	b.req.Graph = toolchain.GraphOptions{
		Scope:        scope,
		OnlyLibs:     cur.ConsumeBool("only-libs", false),
		ShowDisabled: cur.ConsumeBool("show-disabled", false),
	}
	return b.Graph(ctx, b.req)
}
