// SPDX-License-Identifier: MPL-2.0

// Package config loads the cutekit user configuration with Viper, using CUE as
// the file format.
//
// The file lives at $XDG_CONFIG_HOME/cutekit/config.cue on Linux,
// ~/Library/Application Support/cutekit/config.cue on macOS and
// %APPDATA%\cutekit\config.cue on Windows. It is validated against the
// embedded #Config schema. Every key can be overridden from the environment
// with the CUTEKIT_ prefix, dots replaced by underscores
// (CUTEKIT_GIT_BACKEND=exec).
package config
