// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strconv"
	"strings"

	"cuelang.org/go/cue/errors"
)

type (
	// DocumentError reports every problem found in one document.
	DocumentError struct {
		File     string
		Problems []Problem
	}

	// Problem is a single schema or syntax violation.
	Problem struct {
		// Path is the field path in JSON notation, e.g. extern["a/b"].tag.
		// Empty for syntax errors.
		Path    string
		Message string
	}
)

// Error implements the error interface.
func (e *DocumentError) Error() string {
	lines := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		lines = append(lines, p.String())
	}
	if len(lines) == 1 {
		return fmt.Sprintf("%s: %s", e.File, lines[0])
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", e.File, strings.Join(lines, "\n  "))
}

func (p Problem) String() string {
	if p.Path == "" {
		return p.Message
	}
	return p.Path + ": " + p.Message
}

// FormatError turns a CUE error into a DocumentError for file. Errors that do
// not come from CUE are wrapped with the file name.
func FormatError(err error, file string) error {
	if err == nil {
		return nil
	}

	cueErrs := errors.Errors(err)
	if len(cueErrs) == 0 {
		return fmt.Errorf("%s: %w", file, err)
	}

	doc := &DocumentError{File: file}
	for _, e := range cueErrs {
		path := formatPath(errors.Path(e))
		format, fmtArgs := e.Msg()
		msg := fmt.Sprintf(format, fmtArgs...)
		doc.Problems = append(doc.Problems, Problem{Path: path, Message: msg})
	}
	return doc
}

// formatPath renders a CUE error path in JSON notation. Numeric elements
// become indices and labels that are not identifiers are quoted.
func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		switch {
		case i > 0 && isIndex(part):
			b.WriteString("[" + part + "]")
		case isIdent(part):
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(part)
		default:
			b.WriteString("[" + strconv.Quote(strings.Trim(part, `"`)) + "]")
		}
	}
	return b.String()
}

func isIndex(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil && s[0] != '-' && s[0] != '+'
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_' || c == '$' || c == '#':
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

// CheckFileSize returns an error when data is larger than maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
