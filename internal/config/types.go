// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// GitBackendGoGit clones with the built-in go-git client.
	GitBackendGoGit GitBackend = "go-git"
	// GitBackendExec clones with the git command line.
	GitBackendExec GitBackend = "exec"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

type (
	// GitBackend selects how externs are cloned.
	GitBackend string

	// Config is the user configuration.
	Config struct {
		// DefaultTarget is used when no --target is given. Empty means the
		// host target.
		DefaultTarget string `mapstructure:"default_target"`
		// TemplatesRepo is the <owner>/<name> of the template registry.
		TemplatesRepo string          `mapstructure:"templates_repo"`
		Toolchain     ToolchainConfig `mapstructure:"toolchain"`
		Git           GitConfig       `mapstructure:"git"`
		Plugins       PluginsConfig   `mapstructure:"plugins"`
		Watch         WatchConfig     `mapstructure:"watch"`
		UI            UIConfig        `mapstructure:"ui"`
	}

	// ToolchainConfig configures the external builder.
	ToolchainConfig struct {
		Command string `mapstructure:"command"`
	}

	// GitConfig configures extern cloning.
	GitConfig struct {
		Backend GitBackend `mapstructure:"backend"`
	}

	// PluginsConfig configures plugin loading.
	PluginsConfig struct {
		Enabled bool `mapstructure:"enabled"`
	}

	// WatchConfig configures build --watch.
	WatchConfig struct {
		Patterns []string      `mapstructure:"patterns"`
		Ignore   []string      `mapstructure:"ignore"`
		Debounce time.Duration `mapstructure:"debounce"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		Verbose bool `mapstructure:"verbose"`
	}
)

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		TemplatesRepo: "cute-engineering/cutekit-templates",
		Toolchain:     ToolchainConfig{Command: "cutekit-builder"},
		Git:           GitConfig{Backend: GitBackendGoGit},
		Plugins:       PluginsConfig{Enabled: true},
		Watch: WatchConfig{
			Patterns: []string{"**/*.c", "**/*.cpp", "**/*.h", "**/*.hpp", "**/*.s", "**/*.json"},
			Ignore:   []string{},
			Debounce: 300 * time.Millisecond,
		},
	}
}

func (b GitBackend) String() string { return string(b) }

// Validate checks what the schema cannot: that the values read from the
// environment are well formed and that watch patterns are valid globs.
func (c *Config) Validate() error {
	switch c.Git.Backend {
	case GitBackendGoGit, GitBackendExec:
	default:
		return fmt.Errorf("%w: git.backend %q must be %q or %q", ErrInvalidConfig, c.Git.Backend, GitBackendGoGit, GitBackendExec)
	}
	if c.Toolchain.Command == "" {
		return fmt.Errorf("%w: toolchain.command must not be empty", ErrInvalidConfig)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("%w: watch.debounce %s is negative", ErrInvalidConfig, c.Watch.Debounce)
	}
	for _, list := range []struct {
		key      string
		patterns []string
	}{
		{"watch.patterns", c.Watch.Patterns},
		{"watch.ignore", c.Watch.Ignore},
	} {
		for i, pat := range list.patterns {
			if !doublestar.ValidatePattern(pat) {
				return fmt.Errorf("%w: %s[%d]: invalid glob %q", ErrInvalidConfig, list.key, i, pat)
			}
		}
	}
	return nil
}
