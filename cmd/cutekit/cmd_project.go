// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cute-engineering/cutekit/internal/catalog"
	"github.com/cute-engineering/cutekit/internal/project"
	"github.com/cute-engineering/cutekit/pkg/args"
	"github.com/cute-engineering/cutekit/pkg/manifest"
)

func (a *App) listCmd(ctx context.Context, _ *args.Cursor) error {
	root, err := a.enterProject()
	if err != nil {
		return err
	}
	m, err := manifest.Load(root)
	if err != nil {
		return err
	}

	c := &catalog.Catalog{Root: root, Project: m, Logger: a.logger}
	components, targets, err := c.LoadAll(ctx)
	if err != nil {
		return err
	}

	a.printIDs("Components", "(No components available)", components)
	a.printIDs("Targets", "(No targets available)", targets)
	return nil
}

func (a *App) printIDs(title, empty string, entries []catalog.Entry) {
	fmt.Fprintln(a.stdout, TitleStyle.Render(title))
	if len(entries) == 0 {
		fmt.Fprintln(a.stdout, sectionStyle.Render(empty))
	} else {
		ids := make([]string, len(entries))
		for i, e := range entries {
			ids[i] = e.ID
		}
		fmt.Fprintln(a.stdout, sectionStyle.Render(strings.Join(ids, ", ")))
	}
	fmt.Fprintln(a.stdout)
}

func (a *App) cleanCmd(context.Context, *args.Cursor) error {
	return a.removeProjectDir(project.BuildDir)
}

func (a *App) nukeCmd(context.Context, *args.Cursor) error {
	return a.removeProjectDir(project.Dir)
}

func (a *App) removeProjectDir(rel string) error {
	root, err := a.enterProject()
	if err != nil {
		return err
	}
	dir := project.Path(root, rel)
	a.releaseLog(dir)
	a.logger.Info("removing", "dir", dir)
	if err := os.RemoveAll(dir); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", rel, err)
	}
	return nil
}
