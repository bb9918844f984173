// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/cute-engineering/cutekit/internal/command"
	"github.com/cute-engineering/cutekit/internal/config"
	"github.com/cute-engineering/cutekit/internal/template"
	"github.com/cute-engineering/cutekit/internal/testutil"
	"github.com/cute-engineering/cutekit/internal/toolchain"
	"github.com/cute-engineering/cutekit/pkg/extern"
	"github.com/cute-engineering/cutekit/pkg/manifest"
)

const testVersion = "0.7.0"

type (
	staticConfig struct {
		cfg *config.Config
		err error
	}

	builderCallRecord struct {
		Verb string
		Req  toolchain.Request
	}

	fakeBuilder struct {
		mu    sync.Mutex
		calls []builderCallRecord
		err   error
	}

	harness struct {
		app     *App
		root    string
		stdout  *bytes.Buffer
		stderr  *bytes.Buffer
		builder *fakeBuilder
		cloned  []string
		cloner  extern.Cloner
	}
)

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.cfg, nil
}

func (b *fakeBuilder) record(verb string, req toolchain.Request) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, builderCallRecord{Verb: verb, Req: req})
	return b.err
}

func (b *fakeBuilder) Build(_ context.Context, req toolchain.Request) error {
	return b.record(toolchain.VerbBuild, req)
}

func (b *fakeBuilder) BuildAll(_ context.Context, req toolchain.Request) error {
	return b.record("build-all", req)
}

func (b *fakeBuilder) TestAll(_ context.Context, req toolchain.Request) error {
	return b.record(toolchain.VerbTest, req)
}

func (b *fakeBuilder) Run(_ context.Context, req toolchain.Request) error {
	return b.record(toolchain.VerbRun, req)
}

func (b *fakeBuilder) Debug(_ context.Context, req toolchain.Request) error {
	return b.record(toolchain.VerbDebug, req)
}

func (b *fakeBuilder) Graph(_ context.Context, req toolchain.Request) error {
	return b.record(toolchain.VerbGraph, req)
}

// newHarness builds an App running in root with fake collaborators. The fake
// cloner serves repositories from remotes, keyed by URL.
func newHarness(t *testing.T, root string, remotes map[string]map[string]string) *harness {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.DefaultTarget = "host-test"

	h := &harness{
		root:    root,
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
		builder: &fakeBuilder{},
	}
	h.cloner = extern.ClonerFunc(func(_ context.Context, url, ref, dest string) error {
		files, ok := remotes[url]
		if !ok {
			return errors.New("repository not found: " + url)
		}
		h.cloned = append(h.cloned, url+"@"+ref)
		testutil.WriteFiles(t, dest, files)
		return nil
	})

	h.app = NewApp(testVersion, Dependencies{
		Config:  staticConfig{cfg: cfg},
		Builder: func(BuildEnv) toolchain.Builder { return h.builder },
		Cloner:  func(config.GitBackend, BuildEnv) extern.Cloner { return h.cloner },
		Templates: func(repo string, cloner extern.Cloner, logger *log.Logger) *template.Registry {
			return &template.Registry{Repo: repo, Cloner: cloner, Logger: logger}
		},
		WorkDir:        root,
		DisableLogFile: true,
		MarkdownStyle:  "notty",
		Stdin:          strings.NewReader(""),
		Stdout:         h.stdout,
		Stderr:         h.stderr,
	})
	return h
}

// run executes argv and returns the exit code the CLI would use.
func (h *harness) run(argv ...string) int {
	err := h.app.Main(context.Background(), argv)
	return h.app.Report(err)
}

func TestVersion(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"version", "v"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t, t.TempDir(), nil)
			if code := h.run(name); code != 0 {
				t.Fatalf("exit code = %d, stderr = %s", code, h.stderr)
			}
			if got, want := h.stdout.String(), "CuteKit v"+testVersion+"\n"; got != want {
				t.Errorf("stdout = %q, want %q", got, want)
			}
		})
	}
}

func TestUsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		argv    []string
		wantErr error
		wantMsg string
	}{
		{name: "no command", argv: nil, wantErr: command.ErrUnspecifiedCommand, wantMsg: "no command specified"},
		{name: "unknown command", argv: []string{"frobnicate"}, wantErr: command.ErrUnknownCommand, wantMsg: "unknown command frobnicate"},
		{name: "only options", argv: []string{"--verbose"}, wantErr: command.ErrUnspecifiedCommand, wantMsg: "no command specified"},
		{name: "bare config", argv: []string{"--config", "version"}, wantErr: command.ErrMissingArgument, wantMsg: "--config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t, t.TempDir(), nil)
			err := h.app.Main(context.Background(), tt.argv)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Main() error = %v, want %v", err, tt.wantErr)
			}
			if code := h.app.Report(err); code != 2 {
				t.Errorf("exit code = %d, want 2", code)
			}
			stderr := h.stderr.String()
			if !strings.Contains(stderr, "Error:") || !strings.Contains(stderr, tt.wantMsg) {
				t.Errorf("stderr = %q, want Error: and %q", stderr, tt.wantMsg)
			}
			if !strings.Contains(stderr, usageLine) {
				t.Errorf("stderr = %q, want the usage line", stderr)
			}
		})
	}
}

func TestVerboseRendersGuidance(t *testing.T) {
	t.Parallel()

	h := newHarness(t, t.TempDir(), nil)
	if code := h.run("--verbose", "frobnicate"); code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	if !strings.Contains(h.stderr.String(), "Unknown command") {
		t.Errorf("stderr = %q, want the unknown command guidance", h.stderr)
	}
}

func TestConfigLoadFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t, t.TempDir(), nil)
	h.app.deps.Config = staticConfig{err: errors.New("config.cue: git.backend: conflicting values")}

	if code := h.run("version"); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if h.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want nothing", h.stdout)
	}
}

func TestHelp(t *testing.T) {
	t.Parallel()

	root := testutil.NewProject(t, "demo")
	testutil.WriteFile(t, root, "meta/plugins/hello.toml", "short = \"H\"\nname = \"hello\"\nhelp = \"Say hello\"\nscript = \"echo hello\"\n")

	h := newHarness(t, root, nil)
	if code := h.run("help"); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr)
	}

	out := h.stdout.String()
	for _, want := range []string{usageLine, "Description", "Commands", "Logging", "install - Install all the external packages", ".cutekit/cutekit.log"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output lacks %q:\n%s", want, out)
		}
	}

	var pluginLine, buildLine string
	for line := range strings.SplitSeq(out, "\n") {
		switch {
		case strings.Contains(line, "hello - Say hello"):
			pluginLine = line
		case strings.Contains(line, "build - Build the target"):
			buildLine = line
		}
	}
	if !strings.Contains(pluginLine, "(plugin)") {
		t.Errorf("plugin line = %q, want a (plugin) badge", pluginLine)
	}
	if strings.Contains(buildLine, "(plugin)") {
		t.Errorf("build line = %q, want no badge", buildLine)
	}
	// H sorts before the lowercase built-ins.
	if strings.Index(out, "hello - ") > strings.Index(out, "build - ") {
		t.Errorf("plugin listed after built-ins:\n%s", out)
	}
}

func TestPlugins(t *testing.T) {
	t.Parallel()

	root := testutil.NewProject(t, "demo")
	testutil.WriteFile(t, root, "meta/plugins/greet.toml", "name = \"greet\"\nscript = 'echo \"hi $1\"; exit 3'\n")

	t.Run("run", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, root, nil)
		if code := h.run("greet", "world"); code != 3 {
			t.Errorf("exit code = %d, want 3 (stderr %s)", code, h.stderr)
		}
		if got := h.stdout.String(); got != "hi world\n" {
			t.Errorf("stdout = %q, want %q", got, "hi world\n")
		}
	})

	t.Run("safemode", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, root, nil)
		err := h.app.Main(context.Background(), []string{"--safemode", "greet"})
		if !errors.Is(err, command.ErrUnknownCommand) {
			t.Errorf("Main() error = %v, want ErrUnknownCommand", err)
		}
	})

	t.Run("disabled by config", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, root, nil)
		cfg := config.DefaultConfig()
		cfg.Plugins.Enabled = false
		h.app.deps.Config = staticConfig{cfg: cfg}
		err := h.app.Main(context.Background(), []string{"greet"})
		if !errors.Is(err, command.ErrUnknownCommand) {
			t.Errorf("Main() error = %v, want ErrUnknownCommand", err)
		}
	})
}

func TestCommandsNeedProject(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"build", "run", "test", "debug", "graph", "list", "clean", "nuke", "install"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t, t.TempDir(), nil)
			err := h.app.Main(context.Background(), []string{name, "app"})
			if !errors.Is(err, manifest.ErrNotFound) {
				t.Fatalf("Main() error = %v, want manifest.ErrNotFound", err)
			}
			if code := h.app.Report(err); code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
		})
	}
}

func TestRootCommand(t *testing.T) {
	t.Parallel()

	h := newHarness(t, t.TempDir(), nil)
	root := NewRootCommand(h.app)
	root.SetArgs([]string{"version"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "CuteKit v"+testVersion) {
		t.Errorf("stdout = %q, want the version", h.stdout)
	}

	root = NewRootCommand(h.app)
	root.SetArgs([]string{"nope"})
	err := root.ExecuteContext(context.Background())
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 2 {
		t.Errorf("Execute() error = %v, want ExitError with code 2", err)
	}
}
