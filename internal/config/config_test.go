// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/cute-engineering/cutekit/internal/issue"
	"github.com/cute-engineering/cutekit/pkg/cueutil"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	cfg, path, err := Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}

	want := DefaultConfig()
	if cfg.Git.Backend != want.Git.Backend {
		t.Errorf("Git.Backend = %q, want %q", cfg.Git.Backend, want.Git.Backend)
	}
	if cfg.Toolchain.Command != want.Toolchain.Command {
		t.Errorf("Toolchain.Command = %q, want %q", cfg.Toolchain.Command, want.Toolchain.Command)
	}
	if !cfg.Plugins.Enabled {
		t.Error("Plugins.Enabled = false, want true")
	}
	if cfg.Watch.Debounce != want.Watch.Debounce {
		t.Errorf("Watch.Debounce = %s, want %s", cfg.Watch.Debounce, want.Watch.Debounce)
	}
	if !slices.Equal(cfg.Watch.Patterns, want.Watch.Patterns) {
		t.Errorf("Watch.Patterns = %v, want %v", cfg.Watch.Patterns, want.Watch.Patterns)
	}
}

func TestLoadFromDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	wantPath := writeConfig(t, dir, `
default_target: "kernel-x86_64"
git: backend: "exec"
plugins: enabled: false
watch: {
	patterns: ["src/**/*.c"]
	debounce: "1s"
}
ui: verbose: true
`)

	cfg, path, err := Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path != wantPath {
		t.Errorf("path = %q, want %q", path, wantPath)
	}
	if cfg.DefaultTarget != "kernel-x86_64" {
		t.Errorf("DefaultTarget = %q, want %q", cfg.DefaultTarget, "kernel-x86_64")
	}
	if cfg.Git.Backend != GitBackendExec {
		t.Errorf("Git.Backend = %q, want %q", cfg.Git.Backend, GitBackendExec)
	}
	if cfg.Plugins.Enabled {
		t.Error("Plugins.Enabled = true, want false")
	}
	if !slices.Equal(cfg.Watch.Patterns, []string{"src/**/*.c"}) {
		t.Errorf("Watch.Patterns = %v, want [src/**/*.c]", cfg.Watch.Patterns)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Watch.Debounce = %s, want 1s", cfg.Watch.Debounce)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose = false, want true")
	}
	// Keys absent from the file keep their defaults.
	if cfg.Toolchain.Command != "cutekit-builder" {
		t.Errorf("Toolchain.Command = %q, want default", cfg.Toolchain.Command)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), `toolchain: command: "/opt/ck/builder"`)

	cfg, got, err := Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != path {
		t.Errorf("path = %q, want %q", got, path)
	}
	if cfg.Toolchain.Command != "/opt/ck/builder" {
		t.Errorf("Toolchain.Command = %q, want /opt/ck/builder", cfg.Toolchain.Command)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "syntax", content: "git: {", want: "config.cue"},
		{name: "unknown backend", content: `git: backend: "svn"`, want: "git.backend"},
		{name: "unknown key", content: `colour: "red"`, want: "colour"},
		{name: "bad repo", content: `templates_repo: "no-slash"`, want: "templates_repo"},
		{name: "bad debounce", content: `watch: debounce: "soon"`, want: "watch.debounce"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, _, err := Load(context.Background(), LoadOptions{ConfigDirPath: dir})
			if err == nil {
				t.Fatal("Load() = nil error, want failure")
			}
			if got := issue.Classify(err); got != issue.ConfigLoadFailedId {
				t.Errorf("Classify() = %d, want ConfigLoadFailedId", got)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadReportsDocumentError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, `git: backend: 42`)

	_, _, err := Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	var docErr *cueutil.DocumentError
	if !errors.As(err, &docErr) {
		t.Fatalf("Load() error = %v, want *cueutil.DocumentError", err)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, _, err := Load(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "missing.cue"),
	})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want os.ErrNotExist", err)
	}
	if got := issue.Classify(err); got != issue.ConfigLoadFailedId {
		t.Errorf("Classify() = %d, want ConfigLoadFailedId", got)
	}
}

func TestLoadCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `git: backend: "go-git"`)

	t.Setenv("CUTEKIT_GIT_BACKEND", "exec")
	t.Setenv("CUTEKIT_DEFAULT_TARGET", "host-riscv64")
	t.Setenv("CUTEKIT_WATCH_DEBOUNCE", "50ms")
	t.Setenv("CUTEKIT_UI_VERBOSE", "true")

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Git.Backend != GitBackendExec {
		t.Errorf("Git.Backend = %q, want exec", cfg.Git.Backend)
	}
	if cfg.DefaultTarget != "host-riscv64" {
		t.Errorf("DefaultTarget = %q, want host-riscv64", cfg.DefaultTarget)
	}
	if cfg.Watch.Debounce != 50*time.Millisecond {
		t.Errorf("Watch.Debounce = %s, want 50ms", cfg.Watch.Debounce)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose = false, want true")
	}
}

func TestLoadEnvironmentValidated(t *testing.T) {
	t.Setenv("CUTEKIT_GIT_BACKEND", "svn")

	_, _, err := Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
	}
}

func TestDirUsesXDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME only applies to Linux and other unixes")
	}
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if want := filepath.Join(base, AppName); dir != want {
		t.Errorf("Dir() = %q, want %q", dir, want)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "defaults", mutate: func(*Config) {}, ok: true},
		{name: "exec backend", mutate: func(c *Config) { c.Git.Backend = GitBackendExec }, ok: true},
		{name: "unknown backend", mutate: func(c *Config) { c.Git.Backend = "hg" }},
		{name: "empty command", mutate: func(c *Config) { c.Toolchain.Command = "" }},
		{name: "negative debounce", mutate: func(c *Config) { c.Watch.Debounce = -time.Second }},
		{name: "bad pattern", mutate: func(c *Config) { c.Watch.Patterns = []string{"src/[a"} }},
		{name: "bad ignore", mutate: func(c *Config) { c.Watch.Ignore = []string{"{x"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
