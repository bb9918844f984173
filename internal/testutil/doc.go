// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for cutekit tests: process state that must
// be restored (working directory, environment, home directory), file and
// project fixtures, and throwaway git repositories to clone externs from.
package testutil
