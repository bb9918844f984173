// SPDX-License-Identifier: MPL-2.0

// Package plugin loads project-defined commands.
//
// A plugin is a TOML descriptor under meta/plugins/ in the project or in any
// installed extern:
//
//	short = "F"
//	name = "flash"
//	help = "Flash the image to a board"
//	requires = ">= 0.7"
//	script = '''
//	dd if="$CK_PROJECT/.cutekit/build/image.img" of="$1"
//	'''
//
// Scripts run in an embedded POSIX shell, so plugins work the same on every
// host. Loaded plugins are appended to the command registry.
package plugin
