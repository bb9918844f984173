// SPDX-License-Identifier: MPL-2.0

//go:build !unix

package project

// HostMachine returns the machine name of the host.
func HostMachine() string {
	return goarchMachine()
}
