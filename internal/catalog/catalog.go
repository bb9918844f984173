// SPDX-License-Identifier: MPL-2.0

// Package catalog lists the components and targets of a project, including
// those shipped by installed externs.
package catalog

import (
	"cmp"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/cute-engineering/cutekit/pkg/cueutil"
	"github.com/cute-engineering/cutekit/pkg/manifest"
)

// Entry types.
const (
	TypeLib    = "lib"
	TypeExe    = "exe"
	TypeTarget = "target"
)

// Glob patterns relative to the project root.
var (
	ComponentPatterns = []string{"**/manifest.json"}
	TargetPatterns    = []string{"meta/targets/*.json", ".cutekit/extern/**/meta/targets/*.json"}
	// Skipped are never searched.
	Skipped = []string{".cutekit/build/**", "**/.git/**"}
)

//go:embed schema.cue
var schema []byte

// maxParallel bounds concurrent manifest parsing.
const maxParallel = 8

type (
	// Entry is a component or a target.
	Entry struct {
		ID          string
		Type        string
		Description string
		// Path is the defining file, relative to the project root.
		Path string
		// Extern reports whether the entry comes from an installed extern.
		Extern bool
		// Enabled is false when the manifest disables the entry.
		Enabled bool
	}

	// Catalog loads entries of the project rooted at Root.
	Catalog struct {
		Root string
		// Project, when set, contributes the component and target ids it
		// declares directly.
		Project *manifest.Manifest
		Logger  *log.Logger
	}

	entryFile struct {
		ID          string `json:"id"`
		Type        string `json:"type"`
		Description string `json:"description"`
		Enabled     *bool  `json:"enabled"`
	}
)

// Components returns lib and exe entries sorted by id.
func (c *Catalog) Components(ctx context.Context) ([]Entry, error) {
	var declared []string
	if c.Project != nil {
		declared = c.Project.Components
	}
	return c.load(ctx, ComponentPatterns, declared, func(t string) bool {
		return t == TypeLib || t == TypeExe
	})
}

// Targets returns target entries sorted by id.
func (c *Catalog) Targets(ctx context.Context) ([]Entry, error) {
	var declared []string
	if c.Project != nil {
		declared = c.Project.Targets
	}
	return c.load(ctx, TargetPatterns, declared, func(t string) bool {
		return t == TypeTarget
	})
}

// LoadAll loads components and targets concurrently.
func (c *Catalog) LoadAll(ctx context.Context) (components, targets []Entry, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		components, err = c.Components(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		targets, err = c.Targets(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return components, targets, nil
}

func (c *Catalog) load(ctx context.Context, patterns, declared []string, keep func(string) bool) ([]Entry, error) {
	paths, err := c.glob(patterns)
	if err != nil {
		return nil, err
	}

	parsed := make([]*Entry, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for i, rel := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			e, err := c.parse(rel)
			if err != nil {
				return err
			}
			if keep(e.Type) {
				parsed[i] = e
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var entries []Entry
	for _, e := range parsed {
		if e == nil {
			continue
		}
		if seen[e.ID] {
			c.logger().Warn("duplicate id, keeping the first", "id", e.ID, "path", e.Path)
			continue
		}
		seen[e.ID] = true
		entries = append(entries, *e)
	}
	for _, id := range declared {
		if !seen[id] {
			seen[id] = true
			entries = append(entries, Entry{ID: id, Path: manifest.JSONFile, Enabled: true})
		}
	}

	slices.SortFunc(entries, func(a, b Entry) int { return cmp.Compare(a.ID, b.ID) })
	return entries, nil
}

// glob returns the matches of patterns, project files before extern files.
func (c *Catalog) glob(patterns []string) ([]string, error) {
	fsys := os.DirFS(c.Root)

	var out []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		for _, m := range matches {
			if !skipped(m) && !slices.Contains(out, m) {
				out = append(out, m)
			}
		}
	}

	slices.SortStableFunc(out, func(a, b string) int {
		return cmp.Or(
			cmp.Compare(rank(a), rank(b)),
			cmp.Compare(a, b),
		)
	})
	return out, nil
}

func (c *Catalog) parse(rel string) (*Entry, error) {
	path := filepath.Join(c.Root, filepath.FromSlash(rel))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}

	res, err := cueutil.Decode[entryFile](schema, "#Entry", data, cueutil.WithFilename(rel))
	if err != nil {
		return nil, err
	}

	ef := res.Value
	return &Entry{
		ID:          ef.ID,
		Type:        ef.Type,
		Description: ef.Description,
		Path:        rel,
		Extern:      isExtern(rel),
		Enabled:     ef.Enabled == nil || *ef.Enabled,
	}, nil
}

func (c *Catalog) logger() *log.Logger {
	if c.Logger == nil {
		return log.New(io.Discard)
	}
	return c.Logger
}

func skipped(rel string) bool {
	for _, pattern := range Skipped {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func isExtern(rel string) bool {
	return strings.HasPrefix(rel, ".cutekit/extern/")
}

// rank orders project files before extern files.
func rank(rel string) int {
	if isExtern(rel) {
		return 1
	}
	return 0
}
