// SPDX-License-Identifier: MPL-2.0

// Package platform holds portability checks for paths cutekit creates.
package platform

import "strings"

var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// PortableSegment reports why a single path segment cannot be created on
// every supported OS, or "" when it can. Windows ignores extensions on device
// names and strips trailing dots and spaces, so "nul.txt" and "aux." are both
// rejected.
func PortableSegment(seg string) string {
	if strings.ContainsAny(seg, `<>:"|?*`) {
		return "contains a character Windows does not allow"
	}
	if strings.TrimRight(seg, ". ") != seg {
		return "ends with a dot or space"
	}
	base, _, _ := strings.Cut(seg, ".")
	if reservedNames[strings.ToUpper(base)] {
		return "is a reserved device name on Windows"
	}
	return ""
}
