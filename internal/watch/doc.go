// SPDX-License-Identifier: MPL-2.0

// Package watch rebuilds a project when its sources change.
//
// A Watcher registers every non-ignored directory under the project root with
// fsnotify, filters events through doublestar globs, and coalesces bursts of
// events into a single rebuild. The build output directory and the extern
// checkouts are never watched.
package watch
