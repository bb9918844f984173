// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
)

// Descriptor is the content of a meta/plugins/*.toml file.
type Descriptor struct {
	Short string `toml:"short"`
	Name  string `toml:"name"`
	Help  string `toml:"help"`
	// Requires is a semver constraint on the cutekit version.
	Requires string `toml:"requires"`
	Script   string `toml:"script"`
}

// ParseDescriptor decodes and validates a descriptor. Unknown keys are
// rejected so typos do not silently disable a field.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	var d Descriptor
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%s", strict.String())
		}
		return nil, err
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Descriptor) validate() error {
	switch {
	case d.Name == "":
		return errors.New("name is required")
	case utf8.RuneCountInString(d.Short) > 1:
		return fmt.Errorf("short name %q must be a single character", d.Short)
	case d.Script == "":
		return errors.New("script is required")
	}
	if d.Requires != "" {
		if _, err := semver.NewConstraint(d.Requires); err != nil {
			return fmt.Errorf("requires %q: %w", d.Requires, err)
		}
	}
	return nil
}

// Compatible reports whether version satisfies the Requires constraint. A
// descriptor without constraint, or a version that is not semver (such as a
// development build), is always compatible.
func (d *Descriptor) Compatible(version string) bool {
	if d.Requires == "" {
		return true
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return true
	}
	c, err := semver.NewConstraint(d.Requires)
	if err != nil {
		return false
	}
	return c.Check(v)
}
