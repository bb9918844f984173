// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/cute-engineering/cutekit/internal/command"
	"github.com/cute-engineering/cutekit/internal/issue"
	"github.com/cute-engineering/cutekit/pkg/args"
)

// initCmd lists the templates of a registry or creates a project from one.
func (a *App) initCmd(ctx context.Context, cur *args.Cursor) error {
	repo, err := stringOpt(cur, "init", "repo", a.cfg.TemplatesRepo)
	if err != nil {
		return err
	}
	list := cur.ConsumeBool("list", false)
	id, hasTemplate := cur.ConsumeArg()
	name, hasName := cur.ConsumeArg()

	reg := a.deps.Templates(repo, a.deps.Cloner(a.cfg.Git.Backend, a.env("")), a.logger)

	if list {
		entries, err := reg.List(ctx)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Fprintf(a.stdout, "* %s - %s\n", e.ID, e.Description)
		}
		return nil
	}

	if !hasTemplate {
		return command.NewMissingArgument("init", "template")
	}
	if !hasName {
		a.logger.Info("no name was provided, defaulting to the template id", "template", id)
		name = id
	}

	dest := name
	if a.deps.WorkDir != "" && !filepath.IsAbs(dest) {
		dest = filepath.Join(a.deps.WorkDir, dest)
	}

	fmt.Fprintf(a.stdout, "Creating project %s from template %s...\n", name, id)
	if err := reg.Scaffold(ctx, id, dest); err != nil {
		return issue.NewErrorContext().
			WithOperation("create project").
			WithResource(name).
			WithSuggestion("List the available templates with 'cutekit init --list'").
			WithIssue(issue.TemplateFailedId).
			Wrap(err).
			BuildError()
	}
	fmt.Fprintf(a.stdout, "%s\n\n", SuccessStyle.Render("Project "+name+" created"))

	fmt.Fprintln(a.stdout, "We suggest that you begin by typing:")
	fmt.Fprintf(a.stdout, "  %s\n", CmdStyle.Render("cd "+name))
	fmt.Fprintf(a.stdout, "  %s %s\n", CmdStyle.Render("cutekit install"), SubtitleStyle.Render("# Install external packages"))
	fmt.Fprintf(a.stdout, "  %s %s\n", CmdStyle.Render("cutekit build"), SubtitleStyle.Render("  # Build the project"))
	return nil
}
