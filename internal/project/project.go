// SPDX-License-Identifier: MPL-2.0

// Package project locates the project a command runs in and names the
// directories cutekit keeps under it.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cute-engineering/cutekit/pkg/manifest"
)

// Project layout, relative to the project root.
const (
	Dir       = ".cutekit"
	ExternDir = ".cutekit/extern"
	BuildDir  = ".cutekit/build"
	LogFile   = ".cutekit/cutekit.log"
)

// Root walks up from dir to the nearest directory holding a manifest.
func Root(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for cur := abs; ; {
		if manifest.Exists(cur) {
			return cur, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", &manifest.NotFoundError{Dir: abs}
		}
		cur = parent
	}
}

// Chdir changes the working directory to the project root above the current
// one and returns it.
func Chdir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	root, err := Root(wd)
	if err != nil {
		return "", err
	}
	if err := os.Chdir(root); err != nil {
		return "", fmt.Errorf("change to project root: %w", err)
	}
	return root, nil
}

// Path joins a layout constant onto root.
func Path(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}

// GlobalDir returns ~/.cutekit.
func GlobalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, Dir), nil
}

// GlobalLogFile returns ~/.cutekit/cutekit.log.
func GlobalLogFile() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cutekit.log"), nil
}

// DefaultTarget is the target used when none is given: host-<machine>.
func DefaultTarget() string {
	return "host-" + HostMachine()
}
