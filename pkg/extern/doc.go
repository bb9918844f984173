// SPDX-License-Identifier: MPL-2.0

// Package extern installs the external dependencies declared by a project
// manifest.
//
// A Fetcher walks the extern map depth-first. Every extern that is not yet
// present under Root is cloned at its pinned tag; when the fresh checkout
// carries a manifest of its own, its externs are installed next. A directory
// that already exists is never cloned again, which makes repeated installs
// cheap and stops diamonds from being fetched twice.
package extern
