// SPDX-License-Identifier: MPL-2.0

// Command cutekit is a build system and package manager.
package main

import cmd "github.com/cute-engineering/cutekit/cmd/cutekit"

func main() {
	cmd.Execute()
}
