// SPDX-License-Identifier: MPL-2.0

package args

import (
	"slices"
	"strings"
)

// Separator ends option recognition; every later token is positional.
const Separator = "--"

// Cursor is a destructive cursor over an argument vector. It is not safe for
// concurrent use.
type Cursor struct {
	positional []string
	opts       map[string]Value
	// optOrder keeps option names in first-seen order for Unconsumed.
	optOrder []string
}

// Parse builds a Cursor from argv. argv must not include the program name.
func Parse(argv []string) *Cursor {
	c := &Cursor{opts: make(map[string]Value)}

	for i, tok := range argv {
		if tok == Separator {
			c.positional = append(c.positional, argv[i+1:]...)
			break
		}

		name, val, ok := parseOption(tok)
		if !ok {
			c.positional = append(c.positional, tok)
			continue
		}
		if _, seen := c.opts[name]; !seen {
			c.optOrder = append(c.optOrder, name)
		}
		// Last occurrence wins.
		c.opts[name] = val
	}

	return c
}

// parseOption splits "--name" and "--name=value" tokens.
func parseOption(tok string) (string, Value, bool) {
	body, ok := strings.CutPrefix(tok, "--")
	if !ok {
		return "", Value{}, false
	}
	name, raw, hasValue := strings.Cut(body, "=")
	if name == "" {
		return "", Value{}, false
	}
	if !hasValue {
		return name, Bool(true), true
	}
	return name, String(raw), true
}

// ConsumeArg removes and returns the next positional token.
func (c *Cursor) ConsumeArg() (string, bool) {
	if len(c.positional) == 0 {
		return "", false
	}
	arg := c.positional[0]
	c.positional = c.positional[1:]
	return arg, true
}

// ConsumeOpt removes and returns the value bound to --name, or def when the
// option is absent.
func (c *Cursor) ConsumeOpt(name string, def Value) Value {
	if v, ok := c.TryConsumeOpt(name); ok {
		return v
	}
	return def
}

// TryConsumeOpt removes and returns the value bound to --name. The boolean is
// false when the option was not supplied, which lets callers tell "absent"
// apart from "supplied with a value equal to the default".
func (c *Cursor) TryConsumeOpt(name string) (Value, bool) {
	v, ok := c.opts[name]
	if !ok {
		return Value{}, false
	}
	delete(c.opts, name)
	c.optOrder = slices.DeleteFunc(c.optOrder, func(n string) bool { return n == name })
	return v, true
}

// ConsumeString is ConsumeOpt for string options.
func (c *Cursor) ConsumeString(name, def string) string {
	return c.ConsumeOpt(name, String(def)).String()
}

// ConsumeBool is ConsumeOpt for boolean flags.
func (c *Cursor) ConsumeBool(name string, def bool) bool {
	return c.ConsumeOpt(name, Bool(def)).Bool()
}

// HasOpt reports whether --name is still pending, without consuming it.
func (c *Cursor) HasOpt(name string) bool {
	_, ok := c.opts[name]
	return ok
}

// Rest removes and returns every remaining positional token.
func (c *Cursor) Rest() []string {
	rest := c.positional
	c.positional = nil
	if rest == nil {
		return []string{}
	}
	return rest
}

// Len returns the number of positional tokens not yet consumed.
func (c *Cursor) Len() int { return len(c.positional) }

// Unconsumed returns the names of options that were supplied but never
// consumed, in the order they first appeared.
func (c *Cursor) Unconsumed() []string {
	return slices.Clone(c.optOrder)
}
