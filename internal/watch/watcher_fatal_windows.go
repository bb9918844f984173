// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"
	"syscall"
)

const (
	errnoTooManyOpenFiles = syscall.Errno(4)
	errnoInvalidHandle    = syscall.Errno(6)
	errnoNotEnoughMemory  = syscall.Errno(8)
)

// limitHint returns how to recover from err, or false when the watcher can
// keep going.
func limitHint(err error) (string, bool) {
	switch {
	case errors.Is(err, errnoTooManyOpenFiles), errors.Is(err, errnoNotEnoughMemory):
		return "close other programs holding handles or narrow watch.patterns", true
	case errors.Is(err, errnoInvalidHandle):
		return "the project directory was moved or deleted; restart the watch", true
	}
	return "", false
}
