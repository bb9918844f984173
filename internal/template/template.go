// SPDX-License-Identifier: MPL-2.0

// Package template creates new projects from a template repository.
//
// A template repository holds a registry.json listing its templates and one
// directory per template:
//
//	[{"id": "kernel", "description": "A minimal kernel"}]
package template

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/cute-engineering/cutekit/pkg/extern"
)

// Defaults for Registry.
const (
	DefaultRepo    = "cute-engineering/cutekit-templates"
	DefaultRawBase = "https://raw.githubusercontent.com"
	DefaultGitBase = "https://github.com"
	DefaultBranch  = "main"
)

var (
	// ErrRegistry is returned when registry.json cannot be fetched or read.
	ErrRegistry = errors.New("failed to fetch template registry")
	// ErrUnknownTemplate is returned for a template id the registry lacks.
	ErrUnknownTemplate = errors.New("unknown template")
	// ErrDestinationExists is returned when the project directory exists.
	ErrDestinationExists = errors.New("destination already exists")
)

type (
	// Entry is one template listed by a registry.
	Entry struct {
		ID          string `json:"id"`
		Description string `json:"description"`
	}

	// Registry is a template repository.
	Registry struct {
		// Repo is "<owner>/<name>".
		Repo string
		// RawBase serves raw files: <RawBase>/<Repo>/<branch>/registry.json.
		RawBase string
		// GitBase serves repositories: <GitBase>/<Repo>.
		GitBase string
		Client  *http.Client
		Cloner  extern.Cloner
		Logger  *log.Logger
	}
)

// RegistryURL returns the URL of registry.json.
func (r *Registry) RegistryURL() string {
	return fmt.Sprintf("%s/%s/%s/registry.json", strings.TrimSuffix(cmp.Or(r.RawBase, DefaultRawBase), "/"), r.repo(), DefaultBranch)
}

// GitURL returns the clone URL of the repository.
func (r *Registry) GitURL() string {
	return strings.TrimSuffix(cmp.Or(r.GitBase, DefaultGitBase), "/") + "/" + r.repo()
}

// List fetches the registry.
func (r *Registry) List(ctx context.Context) ([]Entry, error) {
	url := r.RegistryURL()
	r.logger().Info("Fetching registry...", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegistry, err)
	}
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegistry, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", ErrRegistry, url, resp.Status)
	}

	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrRegistry, url, err)
	}
	return entries, nil
}

// Lookup returns the entry named id.
func Lookup(entries []Entry, id string) (Entry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Scaffold creates dest from the template id. It clones the template
// repository into a temporary directory and copies the template directory.
func (r *Registry) Scaffold(ctx context.Context, id, dest string) error {
	entries, err := r.List(ctx)
	if err != nil {
		return err
	}
	if _, ok := Lookup(entries, id); !ok || !filepath.IsLocal(filepath.FromSlash(id)) {
		return fmt.Errorf("%w: couldn't find a template named %s", ErrUnknownTemplate, id)
	}
	if _, err := os.Lstat(dest); err == nil {
		return fmt.Errorf("%w: directory %s", ErrDestinationExists, dest)
	}
	if r.Cloner == nil {
		return errors.New("template: registry has no cloner")
	}

	tmp, err := os.MkdirTemp("", "cutekit-template-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.RemoveAll(tmp) }()

	checkout := filepath.Join(tmp, "repo")
	r.logger().Debug("cloning template repository", "url", r.GitURL(), "dir", checkout)
	if err := r.Cloner.Clone(ctx, r.GitURL(), DefaultBranch, checkout); err != nil {
		return fmt.Errorf("clone %s: %w", r.GitURL(), err)
	}

	src := filepath.Join(checkout, filepath.FromSlash(id))
	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: repository has no directory %s", ErrUnknownTemplate, id)
	}

	if err := os.CopyFS(dest, os.DirFS(src)); err != nil {
		return fmt.Errorf("copy template: %w", err)
	}
	return nil
}

func (r *Registry) repo() string { return strings.Trim(cmp.Or(r.Repo, DefaultRepo), "/") }

func (r *Registry) logger() *log.Logger {
	if r.Logger == nil {
		return log.New(io.Discard)
	}
	return r.Logger
}
