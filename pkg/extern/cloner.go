// SPDX-License-Identifier: MPL-2.0

package extern

import "context"

// Cloner materializes a repository at ref into dest. dest does not exist when
// Clone is called; a Cloner must create it. On error the caller removes
// whatever was left behind.
type Cloner interface {
	Clone(ctx context.Context, url, ref, dest string) error
}

// ClonerFunc adapts a function to the Cloner interface.
type ClonerFunc func(ctx context.Context, url, ref, dest string) error

// Clone implements Cloner.
func (f ClonerFunc) Clone(ctx context.Context, url, ref, dest string) error {
	return f(ctx, url, ref, dest)
}
