// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cute-engineering/cutekit/internal/issue"
)

const usageLine = "Usage: cutekit <command> [args...]"

// Report prints err for the user and returns the exit code to use. Verbose
// mode adds the error chain and the guidance of the matching issue.
func (a *App) Report(err error) int {
	if err == nil {
		return 0
	}

	fmt.Fprintf(a.stderr, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, a.verbose))
	if isUsage(err) {
		fmt.Fprintf(a.stderr, "\n%s\n", usageLine)
	}

	if a.verbose {
		if i := issue.Get(issue.Classify(err)); i != nil {
			rendered, rerr := i.Render(a.mdStyle)
			if rerr != nil {
				a.logger.Warn("render issue guidance", "err", rerr)
			} else {
				fmt.Fprint(a.stderr, rendered)
			}
		}
	}
	return exitCode(err)
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// use their own format, which lists suggestions and, in verbose mode, the
// error chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return strings.TrimSpace(err.Error())
}

func isUsage(err error) bool {
	return issue.KindOf(err) == issue.KindUsage
}
