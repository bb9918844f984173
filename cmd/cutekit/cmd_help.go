// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/cute-engineering/cutekit/internal/project"
	"github.com/cute-engineering/cutekit/pkg/args"
)

func (a *App) helpCmd(context.Context, *args.Cursor) error {
	fmt.Fprintln(a.stdout, usageLine)
	fmt.Fprintln(a.stdout)

	fmt.Fprintln(a.stdout, TitleStyle.Render("Description"))
	fmt.Fprintln(a.stdout, sectionStyle.Render(Description))
	fmt.Fprintln(a.stdout)

	fmt.Fprintln(a.stdout, TitleStyle.Render("Commands"))
	for _, c := range a.registry.Commands() {
		short := c.Short
		if short == "" {
			short = " "
		}
		line := fmt.Sprintf(" %s  %s - %s", CmdStyle.Render(short), c.Long, c.Help)
		if c.IsPlugin() {
			line += " " + PluginBadgeStyle.Render("(plugin)")
		}
		fmt.Fprintln(a.stdout, line)
	}
	fmt.Fprintln(a.stdout)

	fmt.Fprintln(a.stdout, TitleStyle.Render("Logging"))
	fmt.Fprintln(a.stdout, "    Logs are stored in:")
	fmt.Fprintf(a.stdout, "     - %s\n", project.LogFile)
	if global, err := project.GlobalLogFile(); err == nil {
		fmt.Fprintf(a.stdout, "     - %s\n", global)
	}
	return nil
}

func (a *App) versionCmd(context.Context, *args.Cursor) error {
	fmt.Fprintf(a.stdout, "CuteKit v%s\n", a.version)
	return nil
}
