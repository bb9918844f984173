// SPDX-License-Identifier: MPL-2.0

package extern

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// ErrSSHKeyMissing is returned for SSH remotes when no key was found.
var ErrSSHKeyMissing = errors.New("SSH URL detected but no SSH key found; add a key to ~/.ssh/")

// GitCloner clones with go-git. It needs no git binary.
type GitCloner struct {
	// Progress receives the remote's sideband output. Nil discards it.
	Progress io.Writer

	sshAuth  transport.AuthMethod
	httpAuth transport.AuthMethod
}

// NewGitCloner creates a GitCloner, picking up credentials from ~/.ssh or
// from the GITHUB_TOKEN, GITLAB_TOKEN and GIT_TOKEN environment variables.
func NewGitCloner() *GitCloner {
	c := &GitCloner{}
	c.setupAuth()
	return c
}

// Clone performs a shallow single-branch clone of url at ref. ref is tried as
// a tag first and as a branch second, which matches `git clone --branch`.
func (c *GitCloner) Clone(ctx context.Context, url, ref, dest string) error {
	auth, err := c.authFor(url)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	refs := []plumbing.ReferenceName{
		plumbing.NewTagReferenceName(ref),
		plumbing.NewBranchReferenceName(ref),
	}

	var lastErr error
	for _, name := range refs {
		_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
			URL:           url,
			Auth:          auth,
			ReferenceName: name,
			SingleBranch:  true,
			Depth:         1,
			Tags:          git.NoTags,
			Progress:      c.Progress,
		})
		if err == nil {
			return nil
		}
		lastErr = err
		// Best-effort cleanup before the next attempt.
		_ = os.RemoveAll(dest)
		if ctx.Err() != nil {
			break
		}
	}

	return fmt.Errorf("no tag or branch %q: %w", ref, lastErr)
}

// authFor picks the credentials matching the transport of url. Local paths
// and other schemes get none.
func (c *GitCloner) authFor(url string) (transport.AuthMethod, error) {
	switch {
	case isSSHURL(url):
		if c.sshAuth == nil {
			return nil, ErrSSHKeyMissing
		}
		return c.sshAuth, nil
	case strings.HasPrefix(url, "https://"), strings.HasPrefix(url, "http://"):
		return c.httpAuth, nil
	default:
		return nil, nil
	}
}

func (c *GitCloner) setupAuth() {
	c.sshAuth = trySSHAuth()
	c.httpAuth = tryHTTPAuth()
}

func isSSHURL(url string) bool {
	return strings.HasPrefix(url, "git@") || strings.HasPrefix(url, "ssh://")
}

func trySSHAuth() transport.AuthMethod {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	for _, name := range []string{"id_ed25519", "id_rsa", "id_ecdsa"} {
		keyPath := filepath.Join(home, ".ssh", name)
		if _, err := os.Stat(keyPath); err != nil {
			continue
		}
		if auth, err := ssh.NewPublicKeysFromFile("git", keyPath, ""); err == nil {
			return auth
		}
	}
	return nil
}

func tryHTTPAuth() transport.AuthMethod {
	tokens := []struct{ env, user string }{
		{"GITHUB_TOKEN", "x-access-token"},
		{"GITLAB_TOKEN", "gitlab-ci-token"},
		{"GIT_TOKEN", "git"},
	}
	for _, t := range tokens {
		if token := os.Getenv(t.env); token != "" {
			return &http.BasicAuth{Username: t.user, Password: token}
		}
	}
	return nil
}
