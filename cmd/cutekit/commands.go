// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/cute-engineering/cutekit/internal/command"

// builtins returns the built-in commands. The registry sorts them.
func (a *App) builtins() []command.Command {
	return []command.Command{
		{Short: "r", Long: "run", Help: "Run the target", Run: a.runCmd},
		{Short: "t", Long: "test", Help: "Run all test targets", Run: a.testCmd},
		{Short: "d", Long: "debug", Help: "Debug the target", Run: a.debugCmd},
		{Short: "b", Long: "build", Help: "Build the target", Run: a.buildCmd},
		{Short: "l", Long: "list", Help: "List the targets", Run: a.listCmd},
		{Short: "c", Long: "clean", Help: "Clean the build directory", Run: a.cleanCmd},
		{Short: "n", Long: "nuke", Help: "Clean the build directory and cache", Run: a.nukeCmd},
		{Short: "h", Long: "help", Help: "Show this help message", Run: a.helpCmd},
		{Short: "v", Long: "version", Help: "Show current version", Run: a.versionCmd},
		{Short: "g", Long: "graph", Help: "Show dependency graph", Run: a.graphCmd},
		{Short: "i", Long: "install", Help: "Install all the external packages", Run: a.installCmd},
		{Short: "I", Long: "init", Help: "Initialize a new project", Run: a.initCmd},
	}
}
