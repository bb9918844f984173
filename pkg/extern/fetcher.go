// SPDX-License-Identifier: MPL-2.0

package extern

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/cute-engineering/cutekit/pkg/manifest"
)

// Fetch event kinds.
const (
	// EventSkipped is emitted when the extern directory already exists.
	EventSkipped EventKind = iota
	// EventInstalling is emitted right before a clone starts.
	EventInstalling
	// EventInstalled is emitted after a clone was moved into place.
	EventInstalled
)

type (
	// EventKind identifies a fetch event.
	EventKind int

	// Event reports progress on one extern.
	Event struct {
		Kind   EventKind
		Extern manifest.Extern
		// Dir is the install directory of the extern.
		Dir string
		// Depth is 0 for externs of the root manifest.
		Depth int
	}

	// Report summarizes an install pass. Keys are in processing order.
	Report struct {
		Installed []string
		Skipped   []string
	}

	// Fetcher installs externs under Root.
	Fetcher struct {
		// Root is the directory externs are installed into, one
		// subdirectory per key.
		Root string
		// Cloner fetches a single repository.
		Cloner Cloner
		// Manifests loads the manifests of freshly installed externs.
		// Nil means manifest.Store.
		Manifests manifest.Loader
		// OnEvent, when set, is called synchronously for every event.
		OnEvent func(Event)
		// Logger receives debug records. Nil discards them.
		Logger *log.Logger
	}

	// frame is one manifest's extern list being walked.
	frame struct {
		externs []manifest.Extern
		next    int
		// owner is the key whose manifest produced this frame, "" for the
		// root manifest.
		owner string
		// source names the manifest the externs were read from.
		source string
	}
)

func (k EventKind) String() string {
	switch k {
	case EventSkipped:
		return "skipped"
	case EventInstalling:
		return "installing"
	case EventInstalled:
		return "installed"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Fetch installs externs and, transitively, the externs of every freshly
// installed dependency that carries a manifest. The traversal is depth-first
// in declaration order. An extern whose directory exists is skipped without
// descending, which also ends dependency cycles. The first clone or manifest failure aborts the pass;
// externs installed before it stay installed.
//
// Cancelling ctx stops the pass before the next extern. A clone that already
// started runs to completion.
func (f *Fetcher) Fetch(ctx context.Context, externs []manifest.Extern) (*Report, error) {
	if f.Cloner == nil {
		return nil, errors.New("extern: fetcher has no cloner")
	}

	loader := f.Manifests
	if loader == nil {
		loader = manifest.Store{}
	}
	logger := f.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	report := &Report{}
	stack := []*frame{{externs: externs, source: "project manifest"}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next >= len(top.externs) {
			stack = stack[:len(stack)-1]
			continue
		}
		ext := top.externs[top.next]
		top.next++

		if err := ctx.Err(); err != nil {
			return report, err
		}

		depth := len(stack) - 1
		if err := manifest.ValidateKey(ext.Key); err != nil {
			return report, &manifest.MalformedError{Path: top.source, Reason: err}
		}
		dest := filepath.Join(f.Root, filepath.FromSlash(ext.Key))

		// An installed dependency is never descended into again, so a
		// manifest pointing back at an ancestor ends here.
		if _, err := os.Stat(dest); err == nil {
			logger.Debug("extern already installed", "key", ext.Key, "dir", dest)
			report.Skipped = append(report.Skipped, ext.Key)
			f.emit(Event{Kind: EventSkipped, Extern: ext, Dir: dest, Depth: depth})
			continue
		}

		// Ancestors are on disk, so this only trips when one was removed
		// during the pass.
		if chain := ancestors(stack); slices.Contains(chain, ext.Key) {
			return report, &CycleError{Chain: append(chain, ext.Key)}
		}

		f.emit(Event{Kind: EventInstalling, Extern: ext, Dir: dest, Depth: depth})
		logger.Debug("cloning extern", "key", ext.Key, "git", ext.Git, "tag", ext.Tag, "dir", dest)

		if err := f.install(ctx, ext, dest); err != nil {
			return report, err
		}

		report.Installed = append(report.Installed, ext.Key)
		f.emit(Event{Kind: EventInstalled, Extern: ext, Dir: dest, Depth: depth})

		if !loader.Exists(dest) {
			continue
		}
		m, err := loader.Load(dest)
		if err != nil {
			return report, fmt.Errorf("extern %s: %w", ext.Key, err)
		}
		if len(m.Externs) > 0 {
			stack = append(stack, &frame{externs: m.Externs, owner: ext.Key, source: m.Path})
		}
	}

	return report, nil
}

// install clones ext into a hidden staging directory next to dest and renames
// it into place on success.
func (f *Fetcher) install(ctx context.Context, ext manifest.Extern, dest string) error {
	cloneErr := func(err error) error {
		return &CloneError{Key: ext.Key, Git: ext.Git, Tag: ext.Tag, Err: err}
	}

	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return cloneErr(err)
	}
	staging, err := os.MkdirTemp(parent, "."+filepath.Base(dest)+".partial-*")
	if err != nil {
		return cloneErr(err)
	}
	defer func() { _ = os.RemoveAll(staging) }() // Best-effort; empty after a successful rename.

	tree := filepath.Join(staging, "tree")
	if err := f.Cloner.Clone(context.WithoutCancel(ctx), ext.Git, ext.Tag, tree); err != nil {
		return cloneErr(err)
	}
	if _, err := os.Stat(tree); err != nil {
		return cloneErr(fmt.Errorf("cloner left no checkout: %w", err))
	}
	if err := os.Rename(tree, dest); err != nil {
		return cloneErr(err)
	}
	return nil
}

func (f *Fetcher) emit(ev Event) {
	if f.OnEvent != nil {
		f.OnEvent(ev)
	}
}

// ancestors returns the keys whose manifests are currently being walked,
// outermost first.
func ancestors(stack []*frame) []string {
	keys := make([]string, 0, len(stack))
	for _, fr := range stack {
		if fr.owner != "" {
			keys = append(keys, fr.owner)
		}
	}
	return keys
}
