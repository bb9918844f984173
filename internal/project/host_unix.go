// SPDX-License-Identifier: MPL-2.0

//go:build unix

package project

import (
	"golang.org/x/sys/unix"
)

// HostMachine returns the machine name of the host as reported by uname.
func HostMachine() string {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return goarchMachine()
	}
	if m := unix.ByteSliceToString(u.Machine[:]); m != "" {
		if m == "arm64" {
			// macOS reports arm64 where Linux says aarch64.
			return "aarch64"
		}
		return m
	}
	return goarchMachine()
}
