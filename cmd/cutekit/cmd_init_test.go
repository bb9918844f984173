// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/cute-engineering/cutekit/internal/command"
	"github.com/cute-engineering/cutekit/internal/issue"
	"github.com/cute-engineering/cutekit/internal/template"
	"github.com/cute-engineering/cutekit/internal/testutil"
	"github.com/cute-engineering/cutekit/pkg/extern"
)

const templatesRepo = "cute-engineering/cutekit-templates"

// newInitHarness serves a registry with a "kernel" template. The template
// repository is served by the harness cloner.
func newInitHarness(t *testing.T) (*harness, func() []string) {
	t.Helper()

	var (
		mu        sync.Mutex
		requested []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requested = append(requested, r.URL.Path)
		mu.Unlock()
		if r.URL.Path != "/"+templatesRepo+"/main/registry.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`[{"id": "kernel", "description": "A minimal kernel"}, {"id": "app", "description": "A hosted application"}]`))
	}))
	t.Cleanup(srv.Close)

	h := newHarness(t, t.TempDir(), map[string]map[string]string{
		"https://git.example.com/" + templatesRepo: {
			"kernel/project.json": `{"id": "kernel"}`,
			"kernel/src/main.c":   "int main;",
			"app/project.json":    `{"id": "app"}`,
		},
	})
	h.app.deps.Templates = func(repo string, cloner extern.Cloner, logger *log.Logger) *template.Registry {
		return &template.Registry{
			Repo:    repo,
			RawBase: srv.URL,
			GitBase: "https://git.example.com",
			Client:  srv.Client(),
			Cloner:  cloner,
			Logger:  logger,
		}
	}
	return h, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return slices.Clone(requested)
	}
}

func TestInitList(t *testing.T) {
	t.Parallel()

	h, _ := newInitHarness(t)
	if code := h.run("init", "--list"); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr)
	}
	want := "* kernel - A minimal kernel\n* app - A hosted application\n"
	if got := h.stdout.String(); got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestInitCreatesProject(t *testing.T) {
	t.Parallel()

	h, _ := newInitHarness(t)
	if code := h.run("I", "kernel", "myos"); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr)
	}

	dest := filepath.Join(h.root, "myos")
	data, err := os.ReadFile(filepath.Join(dest, "src", "main.c"))
	if err != nil || string(data) != "int main;" {
		t.Errorf("template file = %q, %v", data, err)
	}
	if _, err := os.Stat(filepath.Join(dest, "project.json")); err != nil {
		t.Errorf("project.json missing: %v", err)
	}
	out := h.stdout.String()
	for _, want := range []string{"Creating project myos from template kernel...", "Project myos created", "cd myos", "cutekit install"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout lacks %q:\n%s", want, out)
		}
	}
}

func TestInitDefaultsNameToTemplate(t *testing.T) {
	t.Parallel()

	h, _ := newInitHarness(t)
	if code := h.run("init", "app"); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr)
	}
	if _, err := os.Stat(filepath.Join(h.root, "app", "project.json")); err != nil {
		t.Errorf("project not created in ./app: %v", err)
	}
}

func TestInitCustomRepo(t *testing.T) {
	t.Parallel()

	h, requested := newInitHarness(t)
	err := h.app.Main(context.Background(), []string{"init", "--repo=someone/else", "--list"})
	if !errors.Is(err, template.ErrRegistry) {
		t.Fatalf("Main() error = %v, want ErrRegistry", err)
	}
	if got := requested(); len(got) != 1 || got[0] != "/someone/else/main/registry.json" {
		t.Errorf("requested = %v, want the custom registry", got)
	}
}

func TestInitErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		argv     []string
		setup    func(t *testing.T, root string)
		wantErr  error
		wantCode int
	}{
		{name: "no template", argv: []string{"init"}, wantErr: command.ErrMissingArgument, wantCode: 2},
		{name: "unknown template", argv: []string{"init", "bootloader"}, wantErr: template.ErrUnknownTemplate, wantCode: 1},
		{
			name: "destination exists",
			argv: []string{"init", "kernel", "taken"},
			setup: func(t *testing.T, root string) {
				testutil.WriteFile(t, root, "taken/README", "mine")
			},
			wantErr:  template.ErrDestinationExists,
			wantCode: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, _ := newInitHarness(t)
			if tt.setup != nil {
				tt.setup(t, h.root)
			}
			err := h.app.Main(context.Background(), tt.argv)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Main() error = %v, want %v", err, tt.wantErr)
			}
			if code := h.app.Report(err); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if tt.wantCode == 1 && issue.Classify(err) != issue.TemplateFailedId {
				t.Errorf("Classify() = %d, want TemplateFailedId", issue.Classify(err))
			}
		})
	}
}
