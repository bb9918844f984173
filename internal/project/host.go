// SPDX-License-Identifier: MPL-2.0

package project

import "runtime"

// machines maps GOARCH to the names uname reports.
var machines = map[string]string{
	"amd64":   "x86_64",
	"386":     "i686",
	"arm64":   "aarch64",
	"arm":     "arm",
	"riscv64": "riscv64",
	"ppc64le": "ppc64le",
	"s390x":   "s390x",
}

// goarchMachine maps runtime.GOARCH to a uname-style machine name.
func goarchMachine() string {
	return machineFor(runtime.GOARCH)
}

func machineFor(goarch string) string {
	if m, ok := machines[goarch]; ok {
		return m
	}
	return goarch
}
