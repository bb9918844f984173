// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"encoding/json"
	"maps"
	"slices"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Extern is one entry of a fixture manifest.
type Extern struct {
	Key string
	Git string
	Tag string
}

// ProjectJSON renders a project.json declaring externs in the given order.
func ProjectJSON(t testing.TB, id string, externs ...Extern) string {
	t.Helper()

	// Built by hand: encoding/json sorts map keys, and extern order matters.
	out := `{"$schema": "https://schemas.cute.engineering/stable/cutekit.manifest.project.v1", "id": ` + quote(t, id)
	if len(externs) > 0 {
		out += `, "extern": {`
		for i, e := range externs {
			if i > 0 {
				out += ", "
			}
			out += quote(t, e.Key) + `: {"git": ` + quote(t, e.Git) + `, "tag": ` + quote(t, e.Tag) + `}`
		}
		out += "}"
	}
	return out + "}\n"
}

// NewProject creates a temporary project root holding a project.json with
// the given externs.
func NewProject(t testing.TB, id string, externs ...Extern) string {
	t.Helper()
	root := t.TempDir()
	WriteFile(t, root, "project.json", ProjectJSON(t, id, externs...))
	return root
}

// GitRepo creates a repository in a temporary directory holding files in a
// single commit on main, tagged tag. It returns the repository path, usable as a clone
// URL.
func GitRepo(t testing.TB, files map[string]string, tag string) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.Main},
	})
	if err != nil {
		t.Fatalf("git init: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}

	for _, rel := range slices.Sorted(maps.Keys(files)) {
		WriteFile(t, dir, rel, files[rel])
		if _, err := wt.Add(rel); err != nil {
			t.Fatalf("git add %s: %v", rel, err)
		}
	}

	sig := &object.Signature{Name: "cutekit", Email: "cutekit@example.com", When: time.Unix(0, 0).UTC()}
	head, err := wt.Commit("fixture", &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		t.Fatalf("git commit: %v", err)
	}
	if tag != "" {
		if _, err := repo.CreateTag(tag, head, nil); err != nil {
			t.Fatalf("git tag %s: %v", tag, err)
		}
	}
	return dir
}

func quote(t testing.TB, s string) string {
	t.Helper()
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("quote %q: %v", s, err)
	}
	return string(b)
}
