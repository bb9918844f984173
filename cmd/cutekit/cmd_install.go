// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/cute-engineering/cutekit/internal/project"
	"github.com/cute-engineering/cutekit/pkg/args"
	"github.com/cute-engineering/cutekit/pkg/extern"
	"github.com/cute-engineering/cutekit/pkg/manifest"
)

// installCmd fetches the externs of the project manifest, and transitively
// those of every freshly installed extern.
func (a *App) installCmd(ctx context.Context, _ *args.Cursor) error {
	root, err := a.enterProject()
	if err != nil {
		return err
	}
	m, err := manifest.Load(root)
	if err != nil {
		return err
	}

	f := &extern.Fetcher{
		Root:   project.Path(root, project.ExternDir),
		Cloner: a.deps.Cloner(a.cfg.Git.Backend, a.env(root)),
		Logger: a.logger,
		OnEvent: func(ev extern.Event) {
			switch ev.Kind {
			case extern.EventSkipped:
				fmt.Fprintf(a.stdout, "Skipping %s, already installed\n", ev.Extern.Key)
			case extern.EventInstalling:
				fmt.Fprintf(a.stdout, "Installing %s-%s from %s...\n", ev.Extern.Key, ev.Extern.Tag, ev.Extern.Git)
			}
		},
	}

	report, err := f.Fetch(ctx, m.Externs)
	if report != nil {
		a.logger.Info("install finished", "installed", report.Installed, "skipped", report.Skipped, "err", err)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, SuccessStyle.Render(fmt.Sprintf("%d installed, %d already installed", len(report.Installed), len(report.Skipped))))
	return nil
}
