// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"errors"
	"syscall"
)

// limitHint returns how to raise the exhausted kernel resource behind err,
// or false when the watcher can keep going.
func limitHint(err error) (string, bool) {
	switch {
	case errors.Is(err, syscall.ENOSPC):
		return "raise the inotify watch limit (sysctl fs.inotify.max_user_watches) or narrow watch.patterns", true
	case errors.Is(err, syscall.EMFILE), errors.Is(err, syscall.ENFILE):
		return "raise the open file limit (ulimit -n)", true
	}
	return "", false
}
