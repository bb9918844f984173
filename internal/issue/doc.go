// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// Every failure cutekit reports belongs to a closed set of issues. Classify
// maps an error chain to its Id; Get returns the Markdown guidance for that
// Id, which the CLI renders in verbose mode. ActionableError adds operation,
// resource and suggestion context to an error.
package issue
