// SPDX-License-Identifier: MPL-2.0

// Package args implements the argument cursor shared by every cutekit command.
//
// A Cursor splits the residual argument vector into positional tokens and named
// options (--name or --name=value). Every consume operation is destructive: a
// positional or option handed out once is never returned again. Absence is a
// normal outcome, never an error; handlers that require a value must fail on
// their own.
//
//	cur := args.Parse([]string{"build", "--target=host-x86_64", "kernel"})
//	name, _ := cur.ConsumeArg()                         // "build"
//	target := cur.ConsumeString("target", "host-arm64") // "host-x86_64"
//	component, ok := cur.ConsumeArg()                   // "kernel", true
package args
