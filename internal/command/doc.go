// SPDX-License-Identifier: MPL-2.0

// Package command holds the cutekit command registry and dispatcher.
//
// A Registry is an ordered collection of Command descriptors sorted by short
// name (falling back to the long name). Built-in commands are registered when
// the registry is created; extensions add more at runtime through Append,
// which marks them as plugin-origin. Dispatch resolves a name against both the
// short and long form and hands the partially consumed argument cursor to the
// first matching handler.
package command
