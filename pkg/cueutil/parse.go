// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DefaultMaxFileSize bounds the documents Decode accepts.
const DefaultMaxFileSize int64 = 4 << 20

type (
	// Result holds a decoded document.
	Result[T any] struct {
		// Value is the decoded Go value.
		Value *T
		// Unified is the document unified with its schema definition.
		Unified cue.Value
		// Data is the user document alone. Its field order is the order in
		// which fields were written, which schema unification may not keep.
		Data cue.Value
	}

	// Option tunes Decode.
	Option func(*options)

	options struct {
		filename    string
		maxFileSize int64
		concrete    bool
	}
)

// WithFilename sets the name used in error messages.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(n int64) Option {
	return func(o *options) { o.maxFileSize = n }
}

// WithConcrete controls whether every field must be concrete after
// unification. It defaults to true; the config file turns it off because all
// of its fields are optional.
func WithConcrete(concrete bool) Option {
	return func(o *options) { o.concrete = concrete }
}

// Decode compiles schema, unifies data with the definition at defPath and
// decodes the result into a T.
func Decode[T any](schema []byte, defPath string, data []byte, opts ...Option) (*Result[T], error) {
	o := options{filename: "<input>", maxFileSize: DefaultMaxFileSize, concrete: true}
	for _, opt := range opts {
		opt(&o)
	}

	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: compile schema: %w", schemaValue.Err())
	}

	def := schemaValue.LookupPath(cue.ParsePath(defPath))
	if def.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s: %w", defPath, def.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(o.filename))
	if userValue.Err() != nil {
		return nil, FormatError(userValue.Err(), o.filename)
	}

	unified := def.Unify(userValue)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return nil, FormatError(err, o.filename)
	}

	var out T
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, o.filename)
	}

	return &Result[T]{Value: &out, Unified: unified, Data: userValue}, nil
}

// FieldOrder returns the labels of the struct at path in v, in the order they
// appear. A missing path yields no labels.
func FieldOrder(v cue.Value, path string) ([]string, error) {
	st := v.LookupPath(cue.ParsePath(path))
	if !st.Exists() {
		return nil, nil
	}

	it, err := st.Fields()
	if err != nil {
		return nil, fmt.Errorf("list fields of %s: %w", path, err)
	}

	var labels []string
	for it.Next() {
		labels = append(labels, it.Selector().Unquoted())
	}
	return labels, nil
}
