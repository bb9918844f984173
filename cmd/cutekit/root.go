// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the cutekit command line.
//
// Cobra and fang provide the process entry point, signal handling and
// version output. Everything after the program name is handed unparsed to
// the command registry, so built-in commands and plugins share one argument
// convention.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "0.7.0"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand returns the cobra root command running app.
func NewRootCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cutekit <command> [args...]",
		Short: "A build system and package manager",
		Long: TitleStyle.Render("cutekit") + SubtitleStyle.Render(" - "+Description) + `

Run ` + CmdStyle.Render("cutekit help") + ` for the list of commands.`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, argv []string) error {
			if err := app.Main(cmd.Context(), argv); err != nil {
				return &ExitError{Code: app.Report(err), Err: err}
			}
			return nil
		},
	}
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Commit == "unknown" {
		return Version
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the command line and exits with the resulting status. It is
// called by main.main().
func Execute() {
	app := NewApp(Version, Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
