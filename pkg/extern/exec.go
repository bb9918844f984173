// SPDX-License-Identifier: MPL-2.0

package extern

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrGitNotFound is returned by ExecCloner when no git binary is available.
var ErrGitNotFound = errors.New("git executable not found in PATH")

// ExecCloner clones by running the git command line tool.
type ExecCloner struct {
	// Git is the git executable. Empty means "git" looked up in PATH.
	Git string
	// Stderr receives git's progress output. Nil captures it into the error.
	Stderr io.Writer
}

// Clone runs `git clone --depth 1 --branch <ref> <url> <dest>`.
func (c ExecCloner) Clone(ctx context.Context, url, ref, dest string) error {
	bin := c.Git
	if bin == "" {
		bin = "git"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrGitNotFound, err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, "clone", "--quiet", "--depth", "1", "--branch", ref, "--", url, dest)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stderr bytes.Buffer
	if c.Stderr != nil {
		cmd.Stderr = c.Stderr
	} else {
		cmd.Stderr = &stderr
	}

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}
