// SPDX-License-Identifier: MPL-2.0

// Package toolchain is the seam between cutekit commands and the builder that
// actually resolves the dependency graph, compiles components and runs them.
//
// Commands talk to a Builder. The production Builder, Exec, delegates every
// verb to an external executable:
//
//	cutekit-builder build --component=kernel
//
// with the target and build directory passed in the environment as
// CK_TARGET, CK_COMPONENT and CK_BUILDDIR.
package toolchain
