// SPDX-License-Identifier: MPL-2.0

package command

import (
	"cmp"
	"context"
	"slices"
	"unicode/utf8"

	"github.com/cute-engineering/cutekit/pkg/args"
)

type (
	// Handler runs a command. It owns the validation of every argument it
	// consumes from the cursor.
	Handler func(ctx context.Context, cur *args.Cursor) error

	// Command describes one dispatchable command.
	Command struct {
		// Short is the optional single-character alias ("" when absent).
		Short string
		// Long is the required full name.
		Long string
		// Help is the one-line description shown by `cutekit help`.
		Help string
		// Run is the command handler.
		Run Handler

		plugin bool
	}

	// Registry is an ordered set of commands. The zero value is not usable;
	// create one with NewRegistry.
	Registry struct {
		cmds []*Command
		// byShort and byLong map a name to the lowest position in cmds.
		byShort map[string]int
		byLong  map[string]int
	}
)

// IsPlugin reports whether the command was added after startup by an extension.
func (c Command) IsPlugin() bool { return c.plugin }

// SortKey is the key the registry orders by: Short, falling back to Long.
func (c Command) SortKey() string {
	if c.Short != "" {
		return c.Short
	}
	return c.Long
}

// Matches reports whether name equals the short or long form of the command.
func (c Command) Matches(name string) bool {
	return name != "" && (c.Short == name || c.Long == name)
}

func (c Command) validate() error {
	switch {
	case c.Long == "":
		return &InvalidCommandError{Reason: "long name is required"}
	case utf8.RuneCountInString(c.Short) > 1:
		return &InvalidCommandError{Long: c.Long, Reason: "short name must be a single character"}
	case c.Run == nil:
		return &InvalidCommandError{Long: c.Long, Reason: "handler is required"}
	}
	return nil
}

// NewRegistry creates a registry holding the given built-in commands.
func NewRegistry(builtins ...Command) (*Registry, error) {
	r := &Registry{}
	for _, c := range builtins {
		if err := r.insert(c, false); err != nil {
			return nil, err
		}
	}
	r.reindex()
	return r, nil
}

// Append registers a command at runtime on behalf of an extension. The command
// is marked as plugin-origin and the registry is re-sorted. Registering a name
// twice keeps both entries; dispatch picks whichever sorts first.
func (r *Registry) Append(c Command) error {
	if err := r.insert(c, true); err != nil {
		return err
	}
	r.reindex()
	return nil
}

func (r *Registry) insert(c Command, plugin bool) error {
	if err := c.validate(); err != nil {
		return err
	}
	c.plugin = plugin
	r.cmds = append(r.cmds, &c)
	return nil
}

// reindex sorts the commands and rebuilds both name indexes.
func (r *Registry) reindex() {
	slices.SortStableFunc(r.cmds, func(a, b *Command) int {
		return cmp.Compare(a.SortKey(), b.SortKey())
	})

	r.byShort = make(map[string]int, len(r.cmds))
	r.byLong = make(map[string]int, len(r.cmds))
	for i, c := range r.cmds {
		if c.Short != "" {
			if _, ok := r.byShort[c.Short]; !ok {
				r.byShort[c.Short] = i
			}
		}
		if _, ok := r.byLong[c.Long]; !ok {
			r.byLong[c.Long] = i
		}
	}
}

// Lookup returns the first command, in registry order, whose short or long
// name equals name.
func (r *Registry) Lookup(name string) (Command, bool) {
	if name == "" {
		return Command{}, false
	}
	si, sok := r.byShort[name]
	li, lok := r.byLong[name]
	switch {
	case sok && lok:
		return *r.cmds[min(si, li)], true
	case sok:
		return *r.cmds[si], true
	case lok:
		return *r.cmds[li], true
	}
	return Command{}, false
}

// Dispatch consumes the command name from cur and runs the matching handler
// with the rest of the cursor.
func (r *Registry) Dispatch(ctx context.Context, cur *args.Cursor) error {
	name, ok := cur.ConsumeArg()
	if !ok {
		return ErrUnspecifiedCommand
	}

	c, ok := r.Lookup(name)
	if !ok {
		return &UnknownCommandError{Name: name}
	}

	return c.Run(ctx, cur)
}

// Commands returns a snapshot of the registry in display order.
func (r *Registry) Commands() []Command {
	out := make([]Command, len(r.cmds))
	for i, c := range r.cmds {
		out[i] = *c
	}
	return out
}

// Len returns the number of registered commands.
func (r *Registry) Len() int { return len(r.cmds) }
